package stepcalc

import "strconv"

// OperatorError is an error indicating an operator where an operand was
// expected, e.g. "2 * * 3" or "!4". It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator that was found.
	Operator string
}

func (err *OperatorError) Error() string {
	return errpos(err.Col, "expected operand but found operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched parentheses in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the token where the close bracket was expected,
	// or of the unmatched close bracket.
	Col int
	// Left is the opening bracket, or empty if there was none.
	Left string
	// Right is the token found where a close bracket was expected, or empty
	// at the end of input.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "expected close bracket but found "+strconv.Quote(err.Right))
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating a comma outside the argument list of
// log. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator \",\"")
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// CallError is an error indicating a malformed function call: a function
// name without an argument list, or log with more than two arguments. It
// implements InputError.
type CallError struct {
	// Col is the position of the token where the problem was found.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the call tried to pass, or 0 if there
	// was no argument list.
	Len int
}

func (err *CallError) Error() string {
	if err.Len == 0 {
		return errpos(err.Col, "expected ( after "+err.Func)
	}
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "unexpected end of input")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// TrailingError is an error indicating input left over after a complete
// expression, e.g. "2 3" or "5!!".
type TrailingError struct {
	// Col is the position of the first unused token.
	Col int
	// Text is the first unused token.
	Text string
}

func (err *TrailingError) Error() string {
	return errpos(err.Col, "unexpected input after end of expression: "+strconv.Quote(err.Text))
}

func (err *TrailingError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*TrailingError)(nil)
	_ InputError = (*LexError)(nil)
)
