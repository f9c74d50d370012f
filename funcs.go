package stepcalc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func identifies one of the single-argument functions.
type Func int8

const (
	funcNone Func = iota
	FuncAbs
	FuncSqrt
	FuncLn
	FuncSin
	FuncCos
	FuncTg
	FuncCotg
	FuncSec
	FuncCsc
	FuncAsin
	FuncAcos
	FuncAtg
	FuncActg
)

// funcnames is the canonical name of each function, used both to lex and to
// print calls.
var funcnames = [...]string{
	funcNone: "",
	FuncAbs:  "abs",
	FuncSqrt: "sqrt",
	FuncLn:   "ln",
	FuncSin:  "sin",
	FuncCos:  "cos",
	FuncTg:   "tg",
	FuncCotg: "cotg",
	FuncSec:  "sec",
	FuncCsc:  "csc",
	FuncAsin: "asin",
	FuncAcos: "acos",
	FuncAtg:  "atg",
	FuncActg: "actg",
}

func (f Func) String() string {
	if f <= funcNone || int(f) >= len(funcnames) {
		return "Func(" + strconv.Itoa(int(f)) + ")"
	}
	return funcnames[f]
}

// Funcs returns the canonical names of all functions.
func Funcs() []string {
	r := make([]string, 0, len(funcnames)-1)
	for _, name := range funcnames[1:] {
		r = append(r, name)
	}
	return r
}

type funcdef struct {
	// f computes the function. It returns a *DomainError if x is outside the
	// function's domain.
	f func(ev *Evaluator, x float64) (float64, error)
	// exact marks functions whose results are not rounded.
	exact bool
}

var funcdefs = [...]funcdef{
	FuncAbs: {f: func(_ *Evaluator, x float64) (float64, error) { return math.Abs(x), nil }, exact: true},
	FuncSqrt: {f: func(_ *Evaluator, x float64) (float64, error) {
		if x < 0 {
			return 0, &DomainError{X: x, Func: "sqrt", Reason: "square root of a negative number"}
		}
		return math.Sqrt(x), nil
	}},
	FuncLn: {f: func(ev *Evaluator, x float64) (float64, error) {
		if x <= 0 {
			return 0, &DomainError{X: x, Func: "ln", Reason: "logarithm of a non-positive number"}
		}
		r, err := ev.ln("ln", x)
		if err != nil {
			return 0, err
		}
		f, _ := r.Float64()
		return f, nil
	}},
	FuncSin: {f: func(_ *Evaluator, x float64) (float64, error) { return math.Sin(radians(x)), nil }},
	FuncCos: {f: func(_ *Evaluator, x float64) (float64, error) { return math.Cos(radians(x)), nil }},
	FuncTg: {f: func(_ *Evaluator, x float64) (float64, error) {
		rad := radians(x)
		if nearPole(rad, math.Pi/2) {
			return 0, &DomainError{X: x, Func: "tg", Reason: "tangent is undefined at odd multiples of 90"}
		}
		return math.Tan(rad), nil
	}},
	FuncCotg: {f: func(_ *Evaluator, x float64) (float64, error) {
		rad := radians(x)
		if nearPole(rad, 0) {
			return 0, &DomainError{X: x, Func: "cotg", Reason: "cotangent is undefined at multiples of 180"}
		}
		return math.Cos(rad) / math.Sin(rad), nil
	}},
	FuncSec: {f: func(_ *Evaluator, x float64) (float64, error) {
		rad := radians(x)
		if nearPole(rad, math.Pi/2) {
			return 0, &DomainError{X: x, Func: "sec", Reason: "secant is undefined at odd multiples of 90"}
		}
		return 1 / math.Cos(rad), nil
	}},
	FuncCsc: {f: func(_ *Evaluator, x float64) (float64, error) {
		rad := radians(x)
		if nearPole(rad, 0) {
			return 0, &DomainError{X: x, Func: "csc", Reason: "cosecant is undefined at multiples of 180"}
		}
		return 1 / math.Sin(rad), nil
	}},
	FuncAsin: {f: func(_ *Evaluator, x float64) (float64, error) {
		if x < -1 || x > 1 {
			return 0, &DomainError{X: x, Func: "asin", Reason: "argument must be between -1 and 1"}
		}
		return degrees(math.Asin(x)), nil
	}},
	FuncAcos: {f: func(_ *Evaluator, x float64) (float64, error) {
		if x < -1 || x > 1 {
			return 0, &DomainError{X: x, Func: "acos", Reason: "argument must be between -1 and 1"}
		}
		return degrees(math.Acos(x)), nil
	}},
	FuncAtg: {f: func(_ *Evaluator, x float64) (float64, error) { return degrees(math.Atan(x)), nil }},
	FuncActg: {f: func(_ *Evaluator, x float64) (float64, error) {
		if x == 0 {
			return 0, &DomainError{X: x, Func: "actg", Reason: "arccotangent of zero"}
		}
		return degrees(math.Atan(1 / x)), nil
	}},
}

// asymptoteTol is how close, in radians, an argument to tg, cotg, sec, or
// csc may come to an asymptote before it is rejected.
const asymptoteTol = 1e-10

// maxFactorial is the largest n for which n! is finite in a float64.
const maxFactorial = 170

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// nearPole reports whether rad is within asymptoteTol of off + kπ for some
// integer k.
func nearPole(rad, off float64) bool {
	k := math.Round((rad - off) / math.Pi)
	return math.Abs(rad-(off+k*math.Pi)) < asymptoteTol
}

func factorial(x float64) (float64, error) {
	if x < 0 || math.Floor(x) != x {
		return 0, &DomainError{X: x, Func: "!", Reason: "factorial needs a non-negative integer"}
	}
	if x > maxFactorial {
		return 0, &DomainError{X: x, Func: "!", Reason: "result overflows"}
	}
	r := 1.0
	for i := 2.0; i <= x; i++ {
		r *= i
	}
	return r, nil
}

// ln computes the natural logarithm of x at the evaluator's precision. x must
// already be known to be positive.
func (ev *Evaluator) ln(name string, x float64) (*big.Float, error) {
	if x == 1 {
		return new(big.Float).SetPrec(ev.prec), nil
	}
	return ev.bigcall(name, x, bigfloat.Log)
}

// logbase computes ln(x)/ln(b).
func (ev *Evaluator) logbase(b, x float64) (float64, error) {
	switch {
	case b <= 0, b == 1:
		return 0, &DomainError{X: b, Arg: 1, Func: "log", Reason: "base must be positive and not 1"}
	case x <= 0:
		return 0, &DomainError{X: x, Arg: 2, Func: "log", Reason: "logarithm of a non-positive number"}
	}
	n, err := ev.ln("log", x)
	if err != nil {
		return 0, err
	}
	d, err := ev.ln("log", b)
	if err != nil {
		return 0, err
	}
	r, _ := n.Quo(n, d).Float64()
	return r, nil
}

// bigcall evaluates a bigfloat function at the evaluator's precision. A
// big.ErrNaN panic from f becomes a *DomainError.
func (ev *Evaluator) bigcall(name string, x float64, f func(z, x *big.Float) *big.Float) (r *big.Float, err error) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil, &DomainError{X: x, Func: name, Reason: "argument is not finite"}
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		nan, ok := p.(big.ErrNaN)
		if !ok {
			panic(p)
		}
		r, err = nil, &DomainError{X: x, Func: name, Reason: nan.Error()}
	}()
	in := new(big.Float).SetPrec(ev.prec).SetFloat64(x)
	return f(new(big.Float).SetPrec(ev.prec), in), nil
}

// constant computes pi or e, rounded like a function result.
func (ev *Evaluator) constant(kind nodeKind) float64 {
	z := new(big.Float).SetPrec(ev.prec)
	switch kind {
	case nodePi:
		bigfloat.Pi(z)
	case nodeE:
		one := new(big.Float).SetPrec(ev.prec).SetInt64(1)
		bigfloat.Exp(z, one)
	default:
		panic("stepcalc: constant of non-constant node " + kind.String())
	}
	f, _ := z.Float64()
	return ev.round(f)
}

// DomainError is an error returned when an operation is applied to arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument, if the operation takes more
	// than one.
	Arg int
	// Func is a name identifying the operation.
	Func string
	// Reason describes the violated condition.
	Reason string
}

func (err DomainError) Error() string {
	r := ftoa(err.X) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	if err.Reason != "" {
		r += ": " + err.Reason
	}
	return r
}
