package stepcalc

// Expr = Primary { BinOp Primary }
// Primary = Postfix | '-' Primary
// Postfix = Atom [ '!' ]
// Atom = num | 'pi' | 'e' | '(' Expr ')' | Call | Log
// Call = func '(' Expr ')'
// Log = 'log' '(' Expr [ ',' Expr ] ')'
// BinOp = '+' | '-' | '*' | '/' | '^'

// Expr is a parsed expression that can be evaluated.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// String renders the expression the way it would be typed.
func (e *Expr) String() string {
	return e.n.String()
}

type parser struct {
	toks []Token
	pos  int
}

// peek returns the next token without consuming it. Past the end of the
// token slice, it returns an EOF token.
func (p *parser) peek() Token {
	if p.pos >= len(p.toks) {
		col := 1
		if len(p.toks) > 0 {
			col = p.toks[len(p.toks)-1].Pos + 1
		}
		return Token{Kind: TokenEOF, Pos: col}
	}
	return p.toks[p.pos]
}

// next consumes and returns the next token. It never advances past an EOF.
func (p *parser) next() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

// Parse parses a token sequence, as produced by Tokenize, into an
// expression. The sequence must hold exactly one expression.
func Parse(toks []Token) (*Expr, error) {
	p := parser{toks: toks}
	n, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok)
	}
	return &Expr{n: n}, nil
}

// ParseString tokenizes and parses src. Lexical diagnostics for dropped text
// are not reported; use Tokenize and Parse to see them.
func ParseString(src string) (*Expr, error) {
	toks, err := Tokenize(src)
	if toks == nil {
		return nil, err
	}
	return Parse(toks)
}

// parseterm parses a primary followed by any binary operators that bind more
// tightly than until. It stops without consuming at the first token that
// cannot continue the expression.
func (p *parser) parseterm(until operator) (*node, error) {
	n, err := p.parseprimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenEOF, TokenClose, TokenSep:
			// End of expression.
			return n, nil
		}
		prec := binop(tok.Kind)
		if prec.op == nodeNone || !prec.moreBinding(until) {
			return n, nil
		}
		p.next()
		rhs, err := p.parseterm(prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, left: n, right: rhs}
	}
}

// parseprimary parses an operand: a number or constant, a negation, a
// parenthesized expression, or a call, with an optional factorial.
func (p *parser) parseprimary() (*node, error) {
	tok := p.next()
	var n *node
	switch tok.Kind {
	case TokenNum:
		n = num(tok.Num)
	case TokenPi:
		n = &node{kind: nodePi}
	case TokenE:
		n = &node{kind: nodeE}
	case TokenMinus:
		// -x! is -(x!), and --x is -(-x).
		rhs, err := p.parseprimary()
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeNeg, left: rhs}, nil
	case TokenOpen:
		rhs, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		if err := p.close(); err != nil {
			return nil, err
		}
		n = &node{kind: nodeGroup, left: rhs}
	case TokenFunc:
		rhs, err := p.parsecall(tok)
		if err != nil {
			return nil, err
		}
		n = rhs
	case TokenLog:
		rhs, err := p.parselog()
		if err != nil {
			return nil, err
		}
		n = rhs
	case TokenEOF:
		return nil, &EmptyExpressionError{Col: tok.Pos}
	case TokenClose:
		return nil, &EmptyExpressionError{Col: tok.Pos, End: tok.String()}
	case TokenSep:
		return nil, &SeparatorError{Col: tok.Pos}
	case TokenPlus, TokenMul, TokenDiv, TokenPow, TokenFact:
		return nil, &OperatorError{Col: tok.Pos, Operator: tok.String()}
	default:
		panic("stepcalc: unknown token: " + tok.String())
	}
	if p.peek().Kind == TokenFact {
		p.next()
		n = &node{kind: nodeFact, left: n}
	}
	return n, nil
}

// parsecall parses the parenthesized argument of a single-argument function.
func (p *parser) parsecall(fn Token) (*node, error) {
	if open := p.next(); open.Kind != TokenOpen {
		return nil, &CallError{Col: open.Pos, Func: fn.String()}
	}
	arg, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	if sep := p.peek(); sep.Kind == TokenSep {
		return nil, &CallError{Col: sep.Pos, Func: fn.String(), Len: 2}
	}
	if err := p.close(); err != nil {
		return nil, err
	}
	return &node{kind: nodeCall, fn: fn.Func, left: arg}, nil
}

// parselog parses the argument list of log. With one argument, the base is
// 2; with two, the base comes first.
func (p *parser) parselog() (*node, error) {
	if open := p.next(); open.Kind != TokenOpen {
		return nil, &CallError{Col: open.Pos, Func: TokenLog.String()}
	}
	x, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	base := num(2)
	if p.peek().Kind == TokenSep {
		p.next()
		base = x
		x, err = p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		if sep := p.peek(); sep.Kind == TokenSep {
			return nil, &CallError{Col: sep.Pos, Func: TokenLog.String(), Len: 3}
		}
	}
	if err := p.close(); err != nil {
		return nil, err
	}
	return &node{kind: nodeLog, left: base, right: x}, nil
}

// close consumes the close bracket ending a group or argument list.
func (p *parser) close() error {
	end := p.next()
	switch end.Kind {
	case TokenClose:
		return nil
	case TokenEOF:
		return &BracketError{Col: end.Pos, Left: TokenOpen.String()}
	default:
		return &BracketError{Col: end.Pos, Left: TokenOpen.String(), Right: end.String()}
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for a token left
// over after a complete expression.
func itShouldNotHaveEndedThisWay(tok Token) error {
	switch tok.Kind {
	case TokenClose:
		return &BracketError{Col: tok.Pos, Right: tok.String()}
	case TokenSep:
		return &SeparatorError{Col: tok.Pos}
	default:
		return &TrailingError{Col: tok.Pos, Text: tok.String()}
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token kind. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(k TokenKind) operator {
	switch k {
	case TokenPlus:
		return operator{1, false, nodeAdd}
	case TokenMinus:
		return operator{1, false, nodeSub}
	case TokenMul:
		return operator{2, false, nodeMul}
	case TokenDiv:
		return operator{2, false, nodeDiv}
	case TokenPow:
		// Right to left: 2^3^2 is 2^(3^2).
		return operator{3, true, nodePow}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
