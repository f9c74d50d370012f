package stepcalc

import (
	"math"
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Each node
// owns its children.
type node struct {
	kind nodeKind

	num float64
	fn  Func

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum // num
	nodePi
	nodeE

	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right

	nodeNeg  // -left
	nodeFact // left!

	nodeCall  // fn(left)
	nodeLog   // log(left, right), left is the base
	nodeGroup // (left), kept only for printing
)

var nodenames = [...]string{
	nodeNone:  "None",
	nodeNum:   "Num",
	nodePi:    "Pi",
	nodeE:     "E",
	nodeAdd:   "Add",
	nodeSub:   "Sub",
	nodeMul:   "Mul",
	nodeDiv:   "Div",
	nodePow:   "Pow",
	nodeNeg:   "Neg",
	nodeFact:  "Fact",
	nodeCall:  "Call",
	nodeLog:   "Log",
	nodeGroup: "Group",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodenames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodenames[k]
}

// binsyms gives the operator token of each binary node kind.
var binsyms = map[nodeKind]TokenKind{
	nodeAdd: TokenPlus,
	nodeSub: TokenMinus,
	nodeMul: TokenMul,
	nodeDiv: TokenDiv,
	nodePow: TokenPow,
}

func num(v float64) *node {
	return &node{kind: nodeNum, num: v}
}

func (n *node) isNum() bool {
	return n.kind == nodeNum
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n the way a person would type it. It never evaluates anything.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNum:
		b.WriteString(ftoa(n.num))
	case nodePi:
		b.WriteString(TokenPi.String())
	case nodeE:
		b.WriteString(TokenE.String())
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(binsyms[n.kind].String())
		b.WriteByte(' ')
		n.right.fmt(b)
	case nodeNeg:
		b.WriteString(TokenMinus.String())
		n.left.fmt(b)
	case nodeFact:
		n.left.fmt(b)
		b.WriteString(TokenFact.String())
	case nodeCall:
		b.WriteString(n.fn.String())
		b.WriteString(TokenOpen.String())
		n.left.fmt(b)
		b.WriteString(TokenClose.String())
	case nodeLog:
		b.WriteString(TokenLog.String())
		b.WriteString(TokenOpen.String())
		n.left.fmt(b)
		b.WriteString(TokenSep.String())
		n.right.fmt(b)
		b.WriteString(TokenClose.String())
	case nodeGroup:
		b.WriteString(TokenOpen.String())
		n.left.fmt(b)
		b.WriteString(TokenClose.String())
	default:
		panic("stepcalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// clone returns a deep copy of n.
func (n *node) clone() *node {
	if n == nil {
		return nil
	}
	c := *n
	c.left = n.left.clone()
	c.right = n.right.clone()
	return &c
}

// ftoa formats a number the shortest way that reads back to the same value,
// without exponents.
func ftoa(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
