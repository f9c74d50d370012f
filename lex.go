package stepcalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
)

// MaxInputLen is the maximum number of runes Tokenize accepts.
const MaxInputLen = 10000

// Token is a lexical token.
type Token struct {
	// Kind is the token type.
	Kind TokenKind
	// Num is the value of a TokenNum.
	Num float64
	// Func is the function named by a TokenFunc.
	Func Func
	// Pos is the 1-based rune column at which the token starts.
	Pos int
}

func (t Token) String() string {
	switch t.Kind {
	case TokenNum:
		return ftoa(t.Num)
	case TokenFunc:
		return t.Func.String()
	}
	return t.Kind.String()
}

// TokenKind is the type of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenEOF indicates the end of the input.
	TokenEOF
	// TokenNum is a numeric literal.
	TokenNum
	// TokenPi and TokenE are the named constants.
	TokenPi
	TokenE
	TokenPlus
	// TokenMinus is either subtraction or negation depending on where the
	// parser finds it.
	TokenMinus
	TokenMul
	TokenDiv
	TokenPow
	// TokenFact is the postfix factorial operator.
	TokenFact
	// TokenFunc is one of the single-argument functions.
	TokenFunc
	// TokenLog is the one- or two-argument logarithm.
	TokenLog
	TokenOpen
	TokenClose
	// TokenSep separates logarithm arguments.
	TokenSep
)

// tokensyms is the printed form of each token kind. The renderer uses the
// same table for operators so the two never disagree.
var tokensyms = [...]string{
	TokenNone:  "<none>",
	TokenEOF:   "end of input",
	TokenNum:   "number",
	TokenPi:    "pi",
	TokenE:     "e",
	TokenPlus:  "+",
	TokenMinus: "-",
	TokenMul:   "*",
	TokenDiv:   "/",
	TokenPow:   "^",
	TokenFact:  "!",
	TokenFunc:  "function",
	TokenLog:   "log",
	TokenOpen:  "(",
	TokenClose: ")",
	TokenSep:   ",",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokensyms) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokensyms[k]
}

// symbols maps single-rune tokens to their kinds.
var symbols = map[rune]TokenKind{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMul,
	'/': TokenDiv,
	'^': TokenPow,
	'!': TokenFact,
	'(': TokenOpen,
	')': TokenClose,
	',': TokenSep,
}

// keywords maps identifiers to tokens. Function names come from funcnames;
// aliases are added here.
var keywords = func() map[string]Token {
	m := map[string]Token{
		"pi":   {Kind: TokenPi},
		"e":    {Kind: TokenE},
		"log":  {Kind: TokenLog},
		"tan":  {Kind: TokenFunc, Func: FuncTg},
		"cot":  {Kind: TokenFunc, Func: FuncCotg},
		"atan": {Kind: TokenFunc, Func: FuncAtg},
		"acot": {Kind: TokenFunc, Func: FuncActg},
	}
	for f, name := range funcnames {
		if name != "" {
			m[name] = Token{Kind: TokenFunc, Func: Func(f)}
		}
	}
	return m
}()

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. A non-nil error other than
// *LexError is fatal. After a *LexError the lexer is positioned past the
// offending text and scanning may continue.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Token{Kind: TokenEOF, Pos: l.rune + 1}, nil
			}
			return Token{}, err
		}
		tok := Token{Pos: l.rune}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			v, err := strconv.ParseFloat(l.buf.String(), 64)
			if err != nil {
				return tok, l.error("number", tok.Pos)
			}
			tok.Kind = TokenNum
			tok.Num = v
			return tok, nil
		case 'a' <= r && r <= 'z':
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			kw, ok := keywords[l.buf.String()]
			if !ok {
				return tok, l.error("identifier", tok.Pos)
			}
			kw.Pos = tok.Pos
			return kw, nil
		default:
			if k, ok := symbols[r]; ok {
				tok.Kind = k
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("", tok.Pos)
		}
	}
}

// scanNum scans the longest run of digits and dots. Whether the run is a
// valid number is decided by the caller.
func (l *lexer) scanNum() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !('0' <= r && r <= '9' || r == '.') {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

// scanIdent scans the run of letters, of any case or script, that follows a
// lowercase ASCII letter. Whether the run is a keyword is decided by the
// caller.
func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		if !unicode.IsLetter(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) error(kind string, col int) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  col,
	}
}

// Tokenize scans src into tokens. Invalid characters, numbers, and
// identifiers are left out of the result, and each one is reported as a
// *LexError inside a *multierror.Error; the returned tokens are usable
// either way and always end with a TokenEOF. The exception is input longer
// than MaxInputLen runes, for which the result is nil tokens and a
// *LengthError.
func Tokenize(src string) ([]Token, error) {
	if n := utf8.RuneCountInString(src); n > MaxInputLen {
		return nil, &LengthError{Len: n, Max: MaxInputLen}
	}
	return TokenizeReader(strings.NewReader(src))
}

// TokenizeReader is like Tokenize but scans runes from src until EOF.
func TokenizeReader(src io.RuneScanner) ([]Token, error) {
	var (
		toks []Token
		errs *multierror.Error
	)
	l := lex(src)
	for {
		tok, err := l.next()
		if l.rune > MaxInputLen {
			return nil, &LengthError{Len: l.rune, Max: MaxInputLen}
		}
		if err != nil {
			var lerr *LexError
			if !errors.As(err, &lerr) {
				return nil, err
			}
			errs = multierror.Append(errs, lerr)
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, errs.ErrorOrNil()
		}
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the text the lexer dropped.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "identifier", or the empty string for a character that starts no token.
	Kind string
	// Col is the column at which the dropped text starts.
	Col int
}

func (err *LexError) Error() string {
	switch err.Kind {
	case "":
		return errpos(err.Col, "unrecognized character "+strconv.Quote(err.Text))
	case "identifier":
		return errpos(err.Col, "invalid keyword "+strconv.Quote(err.Text))
	default:
		return errpos(err.Col, "invalid "+err.Kind+" "+strconv.Quote(err.Text))
	}
}

func (err *LexError) Pos() int {
	return err.Col
}

// LengthError indicates input too long to tokenize.
type LengthError struct {
	// Len is the number of runes seen, which may stop short of the total
	// when reading from a stream.
	Len int
	// Max is the limit.
	Max int
}

func (err *LengthError) Error() string {
	return "expression too large: " + strconv.Itoa(err.Len) + " characters exceeds limit of " + strconv.Itoa(err.Max)
}
