package mathex

import (
	"math"

	"github.com/gammazero/deque"
)

// Tree is a parsed, ready-to-evaluate expression. It owns every Node
// reachable from its root exclusively; no two live Trees share a node.
type Tree struct {
	root *Node
}

// Root returns the tree's root node, mainly for introspection and testing.
func (t *Tree) Root() *Node { return t.root }

// String renders a debugging representation of the tree.
func (t *Tree) String() string {
	if t == nil || t.root == nil {
		return "<empty>"
	}
	return t.root.String()
}

// Eval evaluates the tree recursively and returns its scalar result.
// Assignment nodes mutate the variable environment the tree was parsed
// against as a side effect. Evaluation never fails: undefined operations
// propagate as NaN or ±Inf.
func (t *Tree) Eval() Scalar {
	return t.root.Eval()
}

// Eval evaluates the subtree rooted at n. Host functions call this on their
// own Args to decide, themselves, whether and when to evaluate each one.
func (n *Node) Eval() Scalar {
	switch n.Kind {
	case NodeConst:
		return n.Value
	case NodeVarRef:
		return n.Var.Value
	case NodeUnary:
		return evalUnary(n.Op, n.Left.Eval())
	case NodeBinary:
		switch n.Op {
		case OpAnd:
			a := n.Left.Eval()
			if a != 0 {
				return n.Right.Eval()
			}
			return 0
		case OpOr:
			a := n.Left.Eval()
			if a != 0 && !math.IsNaN(float64(a)) {
				return a
			}
			b := n.Right.Eval()
			if b != 0 {
				return b
			}
			return 0
		case OpComma:
			n.Left.Eval()
			return n.Right.Eval()
		case OpAssign:
			b := n.Right.Eval()
			if n.Left.Kind == NodeVarRef {
				n.Left.Var.Value = b
			}
			return b
		default:
			a := n.Left.Eval()
			b := n.Right.Eval()
			return evalBinary(n.Op, a, b)
		}
	case NodeFunc:
		return n.Func.Invoke(n.Args, n.Ctx)
	default:
		return Scalar(math.NaN())
	}
}

func evalUnary(op Op, a Scalar) Scalar {
	switch op {
	case OpNeg:
		return -a
	case OpNot:
		if a == 0 {
			return 1
		}
		return 0
	case OpBitNot:
		return FromInt(^ToInt(a))
	default:
		return Scalar(math.NaN())
	}
}

func evalBinary(op Op, a, b Scalar) Scalar {
	switch op {
	case OpPow:
		return Scalar(math.Pow(float64(a), float64(b)))
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpMod:
		return Scalar(math.Mod(float64(a), float64(b)))
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpShl:
		// Masked to 0-31: unlike C, Go panics on a negative shift count.
		return FromInt(ToInt(a) << uint(ToInt(b)&31))
	case OpShr:
		return FromInt(ToInt(a) >> uint(ToInt(b)&31))
	case OpLt:
		return boolScalar(a < b)
	case OpLe:
		return boolScalar(a <= b)
	case OpGt:
		return boolScalar(a > b)
	case OpGe:
		return boolScalar(a >= b)
	case OpEq:
		return boolScalar(a == b)
	case OpNe:
		return boolScalar(a != b)
	case OpBitAnd:
		return FromInt(ToInt(a) & ToInt(b))
	case OpBitOr:
		return FromInt(ToInt(a) | ToInt(b))
	case OpBitXor:
		return FromInt(ToInt(a) ^ ToInt(b))
	default:
		return Scalar(math.NaN())
	}
}

func boolScalar(b bool) Scalar {
	if b {
		return 1
	}
	return 0
}

// evalStage distinguishes the passes EvalStack makes over a node: stageDescend
// means "push its children, then revisit"; the later stages mean "some or
// all of its children's results are now on the value stack, combine them".
type evalStage int8

const (
	stageDescend evalStage = iota
	stageCombine
	stageCommaRight // comma: left has been discarded, right is about to run
	stageAndRight   // && : right child has just been evaluated
	stageOrRight    // || : right child has just been evaluated
)

type evalFrame struct {
	node  *Node
	stage evalStage
}

// EvalStack evaluates the tree with an explicit operator/value stack instead
// of the host call stack, so that a deeply nested (or adversarially
// generated) tree cannot exhaust it. It agrees with Eval on every
// well-formed tree, including the short-circuit behavior of && and || —
// unlike a naive post-order walk, which would evaluate both operands before
// ever inspecting the left one.
func (t *Tree) EvalStack() Scalar {
	return t.root.evalStack()
}

func (n *Node) evalStack() Scalar {
	work := new(deque.Deque[evalFrame])
	vals := new(deque.Deque[Scalar])
	work.PushBack(evalFrame{node: n, stage: stageDescend})

	for work.Len() > 0 {
		fr := work.PopBack()
		nd := fr.node

		switch fr.stage {
		case stageDescend:
			switch nd.Kind {
			case NodeConst:
				vals.PushBack(nd.Value)
			case NodeVarRef:
				vals.PushBack(nd.Var.Value)
			case NodeFunc:
				vals.PushBack(nd.Func.Invoke(nd.Args, nd.Ctx))
			case NodeUnary:
				work.PushBack(evalFrame{node: nd, stage: stageCombine})
				work.PushBack(evalFrame{node: nd.Left, stage: stageDescend})
			case NodeBinary:
				switch nd.Op {
				case OpAnd, OpOr, OpComma:
					work.PushBack(evalFrame{node: nd, stage: stageCombine})
					work.PushBack(evalFrame{node: nd.Left, stage: stageDescend})
				case OpAssign:
					work.PushBack(evalFrame{node: nd, stage: stageCombine})
					work.PushBack(evalFrame{node: nd.Right, stage: stageDescend})
				default:
					work.PushBack(evalFrame{node: nd, stage: stageCombine})
					work.PushBack(evalFrame{node: nd.Right, stage: stageDescend})
					work.PushBack(evalFrame{node: nd.Left, stage: stageDescend})
				}
			}

		case stageCombine:
			switch nd.Kind {
			case NodeUnary:
				a := vals.PopBack()
				vals.PushBack(evalUnary(nd.Op, a))
			case NodeBinary:
				switch nd.Op {
				case OpAnd:
					a := vals.PopBack()
					if a != 0 {
						work.PushBack(evalFrame{node: nd, stage: stageAndRight})
						work.PushBack(evalFrame{node: nd.Right, stage: stageDescend})
					} else {
						vals.PushBack(0)
					}
				case OpOr:
					a := vals.PopBack()
					if a != 0 && !math.IsNaN(float64(a)) {
						vals.PushBack(a)
					} else {
						work.PushBack(evalFrame{node: nd, stage: stageOrRight})
						work.PushBack(evalFrame{node: nd.Right, stage: stageDescend})
					}
				case OpComma:
					vals.PopBack() // discard left's value
					work.PushBack(evalFrame{node: nd, stage: stageCommaRight})
					work.PushBack(evalFrame{node: nd.Right, stage: stageDescend})
				case OpAssign:
					b := vals.PopBack()
					if nd.Left.Kind == NodeVarRef {
						nd.Left.Var.Value = b
					}
					vals.PushBack(b)
				default:
					b := vals.PopBack()
					a := vals.PopBack()
					vals.PushBack(evalBinary(nd.Op, a, b))
				}
			}

		case stageCommaRight:
			// Right's result is already on top of vals; it is this node's
			// result too, so there is nothing left to do.

		case stageAndRight:
			// Right's value, zero or not, is this node's result; like Eval,
			// it is left on top of vals exactly as computed.

		case stageOrRight:
			b := vals.PopBack()
			if b != 0 {
				vals.PushBack(b)
			} else {
				vals.PushBack(0)
			}
		}
	}

	return vals.PopBack()
}
