package stepcalc

import (
	"errors"
	"fmt"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum:
		if n.num != m.num {
			return n, m
		}
	case nodePi, nodeE:
	case nodeCall:
		if n.fn != m.fn {
			return n, m
		}
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeNeg, nodeFact, nodeGroup:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeLog:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// Tree constructors for expected ASTs.
func bin(k nodeKind, l, r *node) *node { return &node{kind: k, left: l, right: r} }
func neg(x *node) *node                { return &node{kind: nodeNeg, left: x} }
func fact(x *node) *node               { return &node{kind: nodeFact, left: x} }
func group(x *node) *node              { return &node{kind: nodeGroup, left: x} }
func call(f Func, x *node) *node       { return &node{kind: nodeCall, fn: f, left: x} }
func logb(b, x *node) *node            { return &node{kind: nodeLog, left: b, right: x} }

var (
	pi = &node{kind: nodePi}
	e  = &node{kind: nodeE}
)

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{"num", "2", num(2)},
		{"add", "2 + 3", bin(nodeAdd, num(2), num(3))},
		{"consts", "pi + e", bin(nodeAdd, pi, e)},
		{"negfact", "-5!", neg(fact(num(5)))},
		{"negneg", "- - 5", neg(neg(num(5)))},
		{"negpow", "-2^2", bin(nodePow, neg(num(2)), num(2))},
		{"call", "sin(pi)", call(FuncSin, pi)},
		{"group", "(2 + 3) * 4", bin(nodeMul, group(bin(nodeAdd, num(2), num(3))), num(4))},
		{"nested", "((2))", group(group(num(2)))},
		{"groupfact", "(2 + 1)!", fact(group(bin(nodeAdd, num(2), num(1))))},
		{"constfact", "e!", fact(e)},
		{"callfact", "sin(30) + 4!", bin(nodeAdd, call(FuncSin, num(30)), fact(num(4)))},
		{"log1", "log(8)", logb(num(2), num(8))},
		{"log2", "log(10, 100)", logb(num(10), num(100))},
		{"logfact", "log(2, 8)!", fact(logb(num(2), num(8)))},
		{"complex", "3 + sin(2 * pi) - log(2,10) ^ 2", bin(nodeSub,
			bin(nodeAdd, num(3), call(FuncSin, bin(nodeMul, num(2), pi))),
			bin(nodePow, logb(num(2), num(10)), num(2)),
		)},

		{"add4", "1+2+3+4", bin(nodeAdd, bin(nodeAdd, bin(nodeAdd, num(1), num(2)), num(3)), num(4))},
		{"sub4", "1-2-3-4", bin(nodeSub, bin(nodeSub, bin(nodeSub, num(1), num(2)), num(3)), num(4))},
		{"div3", "8/4/2", bin(nodeDiv, bin(nodeDiv, num(8), num(4)), num(2))},
		{"pow3", "2^3^2", bin(nodePow, num(2), bin(nodePow, num(3), num(2)))},
		{"desc", "2^3*4+5", bin(nodeAdd, bin(nodeMul, bin(nodePow, num(2), num(3)), num(4)), num(5))},
		{"asc", "2+3*4^5", bin(nodeAdd, num(2), bin(nodeMul, num(3), bin(nodePow, num(4), num(5))))},
		{"mixed", "1-2*3+4", bin(nodeAdd, bin(nodeSub, num(1), bin(nodeMul, num(2), num(3))), num(4))},
		{"subneg", "2 - -3", bin(nodeSub, num(2), neg(num(3)))},
		{"powneg", "2^-1", bin(nodePow, num(2), neg(num(1)))},
		{"alias", "tan(45)", call(FuncTg, num(45))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\twant %v has %v", c.src, a.n, d, c.n, e)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
	}{
		{"empty", "", &EmptyExpressionError{Col: 1}},
		{"end", "2 +", &EmptyExpressionError{Col: 4}},
		{"emptyparen", "()", &EmptyExpressionError{Col: 2, End: ")"}},
		{"unclosed", "(2 + 3", &BracketError{Col: 7, Left: "("}},
		{"unopened", "2 + 3)", &BracketError{Col: 6, Right: ")"}},
		{"badclose", "(2 3)", &BracketError{Col: 4, Left: "(", Right: "3"}},
		{"trailing", "2 3", &TrailingError{Col: 3, Text: "3"}},
		{"factfact", "5!!", &TrailingError{Col: 3, Text: "!"}},
		{"sep", "1, 2", &SeparatorError{Col: 2}},
		{"leadsep", ",1", &SeparatorError{Col: 1}},
		{"op", "2 * * 3", &OperatorError{Col: 5, Operator: "*"}},
		{"leadfact", "!3", &OperatorError{Col: 1, Operator: "!"}},
		{"plus", "+3", &OperatorError{Col: 1, Operator: "+"}},
		{"noparen", "sin 30", &CallError{Col: 5, Func: "sin"}},
		{"lognoparen", "log 8", &CallError{Col: 5, Func: "log"}},
		{"funcend", "sqrt", &CallError{Col: 5, Func: "sqrt"}},
		{"twoargs", "sin(1, 2)", &CallError{Col: 6, Func: "sin", Len: 2}},
		{"threeargs", "log(1, 2, 3)", &CallError{Col: 9, Func: "log", Len: 3}},
		{"logunclosed", "log(2, 8", &BracketError{Col: 9, Left: "("}},
		{"callunclosed", "cos(0", &BracketError{Col: 6, Left: "("}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err == nil {
				t.Fatalf("%q parsed as %v but should have failed", c.src, a)
			}
			if fmt.Sprintf("%#v", err) != fmt.Sprintf("%#v", c.err) {
				t.Errorf("%q gave wrong error:\n\twant %#v\n\tgot  %#v", c.src, c.err, err)
			}
			var ie InputError
			if !errors.As(err, &ie) {
				t.Fatalf("%v is not an InputError", err)
			}
			if ie.Pos() != c.err.(InputError).Pos() {
				t.Errorf("%q: error at %d, want %d", c.src, ie.Pos(), c.err.(InputError).Pos())
			}
		})
	}
}

func TestParseNilTokens(t *testing.T) {
	_, err := Parse(nil)
	var ee *EmptyExpressionError
	if !errors.As(err, &ee) {
		t.Fatalf("want *EmptyExpressionError, got %v", err)
	}
	if ee.Col != 1 {
		t.Errorf("error at %d, want 1", ee.Col)
	}
}

func TestOpPrecsExist(t *testing.T) {
	for k := range binsyms {
		tok := binsyms[k]
		if b := binop(tok); b.op != k {
			t.Errorf("%v parses as %v, want %v", tok, b.op, k)
		}
	}
	for _, k := range []TokenKind{TokenFact, TokenOpen, TokenClose, TokenSep, TokenEOF, TokenNum} {
		if b := binop(k); b.op != nodeNone {
			t.Errorf("%v is not a binary operator but parses as %v", k, b.op)
		}
	}
}

func TestRender(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"2+3", "2 + 3"},
		{"(2+3)*4", "(2 + 3) * 4"},
		{"-5!", "-5!"},
		{"--5", "--5"},
		{"log(8)", "log(2,8)"},
		{"log( 10 , 100 )", "log(10,100)"},
		{"sin(30)+cotg(45)", "sin(30) + cotg(45)"},
		{"tan(1)", "tg(1)"},
		{"pi*e", "pi * e"},
		{"(2)!", "(2)!"},
		{"0.50", "0.5"},
		{"2^3^2", "2 ^ 3 ^ 2"},
	}
	for _, c := range cases {
		a, err := ParseString(c.src)
		if err != nil {
			t.Errorf("failed to parse %q: %v", c.src, err)
			continue
		}
		if got := a.String(); got != c.want {
			t.Errorf("%q renders as %q, want %q", c.src, got, c.want)
		}
	}
}

func TestRenderReparse(t *testing.T) {
	srcs := []string{
		"(2 + 3) * 4",
		"2^3^2",
		"-(1 - 4)! * 2",
		"log(3, 81) - sqrt(16)",
		"abs(-7) / (1 + 1)",
	}
	for _, src := range srcs {
		a, err := ParseString(src)
		if err != nil {
			t.Fatalf("failed to parse %q: %v", src, err)
		}
		b, err := ParseString(a.String())
		if err != nil {
			t.Fatalf("failed to reparse %q rendered as %q: %v", src, a, err)
		}
		if d, e := a.n.diff(b.n); d != nil || e != nil {
			t.Errorf("%q rendered as %q reparses differently: %v vs %v", src, a, d, e)
		}
	}
}
