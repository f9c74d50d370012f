package stepcalc

import (
	"math"
)

// DefaultDigits is the number of decimal places to which function results
// and constants are rounded unless an evaluator is created with Digits.
const DefaultDigits = 2

// maxDigits is the most decimal places a float64 can meaningfully keep.
// Asking for more disables rounding.
const maxDigits = 15

// Evaluator reduces expressions step by step and keeps a log of every step
// it has shown. The log belongs to the evaluator and only grows; create a new
// Evaluator to start a new one. It is not safe to use an Evaluator
// concurrently.
type Evaluator struct {
	steps  []string
	digits int
	scale  float64
	prec   uint
}

// EvalOption is an option used when creating an evaluator.
type EvalOption interface {
	evalOption(*Evaluator)
}

type (
	digitsopt int
	precopt   uint
)

func (o digitsopt) evalOption(ev *Evaluator) {
	ev.digits = int(o)
}

func (o precopt) evalOption(ev *Evaluator) {
	ev.prec = uint(o)
}

// Digits sets the number of decimal places kept in the results of functions,
// logarithms, and the constants pi and e. Arithmetic and factorials are never
// rounded. A negative value, or one too large for a float64 to hold,
// disables rounding.
func Digits(n int) EvalOption {
	return digitsopt(n)
}

// Prec sets the precision in bits of the intermediate calculations for
// logarithms and constants. The default is 64.
func Prec(prec uint) EvalOption {
	return precopt(prec)
}

// NewEvaluator creates an evaluator with an empty step log.
func NewEvaluator(opts ...EvalOption) *Evaluator {
	ev := Evaluator{digits: DefaultDigits, prec: 64}
	for _, opt := range opts {
		if opt != nil {
			opt.evalOption(&ev)
		}
	}
	if ev.prec == 0 {
		ev.prec = 64
	}
	if ev.digits > maxDigits {
		ev.digits = -1
	}
	if ev.digits >= 0 {
		ev.scale = math.Pow(10, float64(ev.digits))
	}
	return &ev
}

// Eval reduces e to a number one step at a time. Before each step, and once
// more for the result, the evaluator appends the expression as it stands to
// its step log, skipping any entry equal to the one before it. If a step
// fails, the log keeps the steps up to the failing one. e itself is not
// modified.
func (ev *Evaluator) Eval(e *Expr) (float64, error) {
	n := e.n.clone()
	for !n.isNum() {
		ev.record(n.String())
		r, err := ev.reduce(n)
		if err != nil {
			return 0, err
		}
		n = r
	}
	ev.record(n.String())
	return n.num, nil
}

// Steps returns a copy of the step log.
func (ev *Evaluator) Steps() []string {
	return append([]string(nil), ev.steps...)
}

func (ev *Evaluator) record(s string) {
	if k := len(ev.steps); k > 0 && ev.steps[k-1] == s {
		return
	}
	ev.steps = append(ev.steps, s)
}

// reduce performs one step on the innermost-left-first node whose operands are
// all numbers. Nodes are rewritten in place; the result is the new root of
// the subtree.
func (ev *Evaluator) reduce(n *node) (*node, error) {
	switch n.kind {
	case nodeNum:
		return n, nil
	case nodePi, nodeE:
		return num(ev.constant(n.kind)), nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if n.left.isNum() && n.right.isNum() {
			r, err := arith(n.kind, n.left.num, n.right.num)
			if err != nil {
				return nil, err
			}
			return num(r), nil
		}
		return ev.reduceOperands(n)
	case nodeNeg:
		if n.left.isNum() {
			return num(-n.left.num), nil
		}
		return ev.reduceOperands(n)
	case nodeFact:
		if n.left.isNum() {
			r, err := factorial(n.left.num)
			if err != nil {
				return nil, err
			}
			return num(r), nil
		}
		return ev.reduceOperands(n)
	case nodeCall:
		if n.left.isNum() {
			r, err := ev.call(n.fn, n.left.num)
			if err != nil {
				return nil, err
			}
			return num(r), nil
		}
		return ev.reduceOperands(n)
	case nodeLog:
		if n.left.isNum() && n.right.isNum() {
			r, err := ev.logbase(n.left.num, n.right.num)
			if err != nil {
				return nil, err
			}
			return num(ev.round(r)), nil
		}
		return ev.reduceOperands(n)
	case nodeGroup:
		// The parentheses go away as soon as there is a number inside.
		if n.left.isNum() {
			return n.left, nil
		}
		r, err := ev.reduce(n.left)
		if err != nil {
			return nil, err
		}
		if r.isNum() {
			return r, nil
		}
		n.left = r
		return n, nil
	default:
		panic("stepcalc: invalid AST node " + n.kind.String())
	}
}

// reduceOperands reduces the left operand of n if it is not yet a number,
// otherwise the right.
func (ev *Evaluator) reduceOperands(n *node) (*node, error) {
	if !n.left.isNum() {
		r, err := ev.reduce(n.left)
		if err != nil {
			return nil, err
		}
		n.left = r
		return n, nil
	}
	r, err := ev.reduce(n.right)
	if err != nil {
		return nil, err
	}
	n.right = r
	return n, nil
}

// arith applies a binary operator at full precision.
func arith(op nodeKind, x, y float64) (float64, error) {
	var r float64
	switch op {
	case nodeAdd:
		r = x + y
	case nodeSub:
		r = x - y
	case nodeMul:
		r = x * y
	case nodeDiv:
		if y == 0 {
			return 0, &DomainError{X: y, Arg: 2, Func: "/", Reason: "division by zero"}
		}
		r = x / y
	case nodePow:
		r = math.Pow(x, y)
	default:
		panic("stepcalc: arith on non-binary node " + op.String())
	}
	if math.IsNaN(r) {
		// e.g. (-8)^0.5 or inf - inf
		sym := binsyms[op].String()
		if op == nodePow && x < 0 {
			return 0, &DomainError{X: x, Arg: 1, Func: sym, Reason: "negative base with fractional exponent"}
		}
		return 0, &DomainError{X: y, Arg: 2, Func: sym, Reason: "result is not a number"}
	}
	if math.IsInf(r, 0) && !math.IsInf(x, 0) && !math.IsInf(y, 0) {
		return 0, &DomainError{X: y, Arg: 2, Func: binsyms[op].String(), Reason: "result overflows"}
	}
	return r, nil
}

// call evaluates a function, rounding the result unless the function is exact.
func (ev *Evaluator) call(fn Func, x float64) (float64, error) {
	if fn <= funcNone || int(fn) >= len(funcdefs) {
		panic("stepcalc: call of invalid function " + fn.String())
	}
	d := funcdefs[fn]
	r, err := d.f(ev, x)
	if err != nil {
		return 0, err
	}
	if d.exact {
		return r, nil
	}
	return ev.round(r), nil
}

// round rounds x to the evaluator's digits, half away from zero.
func (ev *Evaluator) round(x float64) float64 {
	if ev.digits < 0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	t := x * ev.scale
	if math.IsInf(t, 0) || math.IsNaN(t) {
		return x
	}
	r := math.Round(t) / ev.scale
	if r == 0 {
		// Drop the sign of negative zero so it prints as 0.
		return 0
	}
	return r
}

// EvalString is a shortcut to tokenize, parse, and evaluate an expression
// with a new evaluator. It returns the evaluator's step log along with the
// result; the log is non-nil whenever evaluation started, even if it failed.
// Text dropped by the tokenizer is not reported.
func EvalString(src string, opts ...EvalOption) (float64, []string, error) {
	a, err := ParseString(src)
	if err != nil {
		return 0, nil, err
	}
	ev := NewEvaluator(opts...)
	r, err := ev.Eval(a)
	return r, ev.Steps(), err
}
