package mathex

import (
	"strconv"

	"go.uber.org/zap"
)

// opEntry is a table row mapping operator text to its Op. lexerOnly marks the
// three single-byte duplicate rows that exist only so the tokenizer can ask
// "is this byte a valid unary operator start"; they are skipped by ordinary
// (non-unary-filtered) lookups so that e.g. plain "-" resolves to OpSub, not
// OpNeg.
type opEntry struct {
	text      string
	op        Op
	lexerOnly bool
}

var opTable = []opEntry{
	{"-u", OpNeg, false},
	{"!u", OpNot, false},
	{"^u", OpBitNot, false},

	{"**", OpPow, false},
	{"*", OpMul, false},
	{"/", OpDiv, false},
	{"%", OpMod, false},
	{"+", OpAdd, false},
	{"-", OpSub, false},
	{"<<", OpShl, false},
	{">>", OpShr, false},
	{"<", OpLt, false},
	{"<=", OpLe, false},
	{">", OpGt, false},
	{">=", OpGe, false},
	{"==", OpEq, false},
	{"!=", OpNe, false},
	{"&", OpBitAnd, false},
	{"|", OpBitOr, false},
	{"^", OpBitXor, false},
	{"&&", OpAnd, false},
	{"||", OpOr, false},
	{"=", OpAssign, false},
	{",", OpComma, false},

	{"-", OpNeg, true},
	{"!", OpNot, true},
	{"^", OpBitNot, true},
}

// lookupOp finds the Op for text. With unary false, it resolves a lexeme
// already disambiguated by the caller (a plain binary symbol, or a "Xu" form
// for a unary operator) and skips the lexer-only duplicate rows. With unary
// true, it asks whether text is a single-byte lexeme that is valid as a
// unary operator, independent of any other binding.
func lookupOp(text string, unary bool) Op {
	for _, e := range opTable {
		if e.text != text {
			continue
		}
		if unary {
			if e.op.IsUnary() {
				return e.op
			}
			continue
		}
		if e.lexerOnly {
			continue
		}
		return e.op
	}
	return OpNone
}

// opSymbol is the inverse of lookupOp: the canonical printable text for op.
// Unary operators are special-cased to their plain symbol ("-", "!", "~")
// rather than the "-u"/"!u"/"^u" lexemes those rows exist to be looked up
// by; opTable itself has no row pairing a unary Op with display-only text.
func opSymbol(op Op) string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	case OpBitNot:
		return "~"
	}
	for _, e := range opTable {
		if e.lexerOnly {
			continue
		}
		if e.op == op {
			return e.text
		}
	}
	return "?"
}

// opPrec gives each operator's precedence class; a lower number binds
// tighter. OpPow shares its number with OpMul/OpDiv/OpMod rather than
// getting a tighter class of its own, matching the original source exactly.
// It still binds tighter than them in practice: it is right-associative
// (see isLeftAssoc), so the shunting-yard comparison never forces it off the
// operator stack ahead of a same-class left-associative neighbor, and LIFO
// order does the rest.
var opPrec = map[Op]int{
	OpNeg: 1, OpNot: 1, OpBitNot: 1,
	OpPow: 2, OpDiv: 2, OpMul: 2, OpMod: 2,
	OpAdd: 3, OpSub: 3,
	OpShl: 4, OpShr: 4,
	OpLt: 5, OpLe: 5, OpGt: 5, OpGe: 5, OpEq: 5, OpNe: 5,
	OpBitAnd: 6,
	OpBitOr:  7,
	OpBitXor: 8,
	OpAnd:    9,
	OpOr:     10,
	OpAssign: 11,
	OpComma:  12,
}

func isBinaryOp(op Op) bool { return op != OpNone && !op.IsUnary() }

// isLeftAssoc reports whether op is left-associative: when op is the
// incoming operator, an operator of the same precedence class already on the
// stack is reduced before op is shifted. OpAssign, OpPow and OpComma are the
// right-associative holdouts.
func isLeftAssoc(op Op) bool {
	return isBinaryOp(op) && op != OpAssign && op != OpPow && op != OpComma
}

// precReduces reports whether the operator currently on top of the operator
// stack, top, must be bound before incoming can be shifted.
func precReduces(incoming, top Op) bool {
	pi, pt := opPrec[incoming], opPrec[top]
	return (isLeftAssoc(incoming) && pi >= pt) || (pi > pt)
}

// parenState tracks whether a '(' is legal as the next token.
type parenState int8

const (
	parenAllowed parenState = iota
	parenForbidden
)

// callFrame records the state of an in-progress call (function or macro
// invocation), kept on a side stack parallel to the operator stack.
type callFrame struct {
	name  string
	osLen int // len(os) at the moment this frame's "{" barrier was pushed
	esLen int // len(es) when the frame opened
	args  []*Node
}

// macro is a definition captured by a "$(name, body...)" call.
type macro struct {
	name string
	body []*Node // body[0] is the name's own VarRef node; body[1:] is the body
}

// parser holds all state for one call to Parse.
type parser struct {
	lx    *lexer
	vars  *Variables
	funcs *Funcs

	es []*Node
	os []opEntry
	as []callFrame

	macros []macro

	paren   parenState
	lastPos int

	logger    *zap.SugaredLogger
	maxNodes  int
	nodeCount int
}

func (p *parser) findMacro(name string) *macro {
	for i := len(p.macros) - 1; i >= 0; i-- {
		if p.macros[i].name == name {
			return &p.macros[i]
		}
	}
	return nil
}

func (p *parser) pop() *Node {
	n := p.es[len(p.es)-1]
	p.es = p.es[:len(p.es)-1]
	return n
}

func (p *parser) push(n *Node) error {
	p.es = append(p.es, n)
	p.nodeCount++
	if p.maxNodes > 0 && p.nodeCount > p.maxNodes {
		return &AllocationError{Col: p.lastPos}
	}
	return nil
}

// Parse compiles text into a Tree against the given variable environment and
// function registry. The returned Tree holds exclusive ownership of every
// node it allocates; env and funcs are borrowed, not owned, and must outlive
// the Tree.
func Parse(text string, env *Variables, funcs *Funcs, opts ...ParseOption) (*Tree, error) {
	cfg := parseConfig{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	p := &parser{
		lx:       newLexer(text),
		vars:     env,
		funcs:    funcs,
		logger:   cfg.logger,
		maxNodes: cfg.maxNodes,
	}

	var id string
	haveID := false

	for {
		tok, err := p.lx.next()
		if err != nil {
			p.logf("parse error: %v", err)
			return nil, err
		}
		if tok.kind == tokEOF {
			break
		}
		p.lastPos = tok.pos

		opText := tok.text
		if tok.kind == tokOperator && p.lx.flags&flagUnary != 0 && len(opText) == 1 {
			opText = rewriteUnary(opText[0])
		}

		if haveID {
			if tok.kind == tokOpen {
				name := id
				haveID = false
				if name != "$" && p.findMacro(name) == nil {
					if _, ok := p.funcs.Lookup(name); !ok {
						return nil, &BadCallError{Col: tok.pos, Name: name}
					}
				}
				p.os = append(p.os, opEntry{text: "{"})
				p.as = append(p.as, callFrame{name: name, osLen: len(p.os), esLen: len(p.es)})
				p.paren = parenAllowed
				continue
			}
			v := p.vars.LookupOrCreate(id)
			haveID = false
			if err := p.push(varRefNode(v)); err != nil {
				return nil, err
			}
		}

		switch {
		case tok.kind == tokOpen:
			if p.paren == parenForbidden {
				return nil, &BadCallError{Col: tok.pos, Name: "("}
			}
			p.os = append(p.os, opEntry{text: "("})
			p.paren = parenAllowed

		case tok.kind == tokClose:
			if err := p.closeParen(tok); err != nil {
				return nil, err
			}
			p.paren = parenForbidden

		case tok.kind == tokNumber:
			val, ok := parseNumberLiteral(tok.text)
			if !ok {
				return nil, &UnexpectedNumberError{Col: tok.pos}
			}
			if err := p.push(constNode(val)); err != nil {
				return nil, err
			}
			p.paren = parenForbidden

		case tok.kind == tokOperator:
			op := lookupOp(opText, false)
			if op == OpNone {
				return nil, &UnknownOperatorError{Col: tok.pos}
			}
			if err := p.handleOperator(op, opText, tok.pos); err != nil {
				return nil, err
			}
			p.paren = parenAllowed

		case tok.kind == tokIdent:
			id = tok.text
			haveID = true
		}
	}

	if haveID {
		v := p.vars.LookupOrCreate(id)
		if err := p.push(varRefNode(v)); err != nil {
			return nil, err
		}
	}

	for len(p.os) > 0 {
		top := p.os[len(p.os)-1]
		p.os = p.os[:len(p.os)-1]
		if top.text == "(" || top.text == "{" {
			return nil, &MismatchedParenError{Col: p.lastPos}
		}
		if err := p.bind(top.text); err != nil {
			return nil, err
		}
	}

	var root *Node
	if len(p.es) == 0 {
		root = constNode(0)
	} else {
		root = p.pop()
	}
	if len(p.es) != 0 {
		return nil, &MissingOperandError{Col: p.lastPos}
	}

	// Macro definition bodies are only ever copied into the tree, never
	// linked into it, so their own context buffers are released here.
	for _, m := range p.macros {
		for _, b := range m.body {
			destroyNode(b)
		}
	}

	p.logf("parsed %q into %d node(s)", text, p.nodeCount)
	return &Tree{root: root}, nil
}

func rewriteUnary(b byte) string {
	switch b {
	case '-':
		return "-u"
	case '!':
		return "!u"
	case '^':
		return "^u"
	default:
		return string(b)
	}
}

// handleOperator implements one pass of the shunting-yard reduction loop for
// an incoming operator token: bind higher-precedence operators already on
// the stack, or — for a comma directly above an open call frame — move the
// just-built argument into that frame's collector instead of pushing an
// operator at all.
func (p *parser) handleOperator(op Op, text string, pos int) error {
	for {
		if op == OpComma && len(p.os) > 0 && p.os[len(p.os)-1].text == "{" {
			if len(p.es) <= p.as[len(p.as)-1].esLen {
				return &MissingOperandError{Col: pos}
			}
			frame := &p.as[len(p.as)-1]
			frame.args = append(frame.args, p.pop())
			return nil
		}
		if len(p.os) == 0 {
			break
		}
		top := p.os[len(p.os)-1]
		topOp := lookupOp(top.text, false)
		if topOp == OpNone || !precReduces(op, topOp) {
			break
		}
		p.os = p.os[:len(p.os)-1]
		if err := p.bind(top.text); err != nil {
			return err
		}
	}
	p.os = append(p.os, opEntry{text: text})
	return nil
}

// bind pops an operator's operands off es, builds the operator's node over
// them and pushes that node back; nothing is evaluated.
func (p *parser) bind(text string) error {
	op := lookupOp(text, false)
	if op == OpNone {
		return &UnknownOperatorError{Col: p.lastPos}
	}
	if op.IsUnary() {
		if len(p.es) < 1 {
			return &MissingOperandError{Col: p.lastPos}
		}
		a := p.pop()
		return p.push(unaryNode(op, a))
	}
	if len(p.es) < 2 {
		return &MissingOperandError{Col: p.lastPos}
	}
	b := p.pop()
	a := p.pop()
	if op == OpAssign && a.Kind != NodeVarRef {
		return &BadAssignmentError{Col: p.lastPos}
	}
	return p.push(binaryNode(op, a, b))
}

// closeParen handles a ')' token: reduce every pending operator down to the
// nearest barrier, then pop that barrier. A "{" barrier additionally closes
// a call frame and resolves it to a macro expansion or a function call node.
func (p *parser) closeParen(tok lexToken) error {
	minLen := 0
	if len(p.as) > 0 {
		minLen = p.as[len(p.as)-1].osLen
	}
	for len(p.os) > minLen {
		top := p.os[len(p.os)-1]
		if top.text == "(" || top.text == "{" {
			break
		}
		p.os = p.os[:len(p.os)-1]
		if err := p.bind(top.text); err != nil {
			return err
		}
	}
	if len(p.os) == 0 {
		return &MismatchedParenError{Col: tok.pos}
	}
	top := p.os[len(p.os)-1]
	p.os = p.os[:len(p.os)-1]
	if top.text != "{" {
		if top.text != "(" {
			return &MismatchedParenError{Col: tok.pos}
		}
		return nil
	}

	frame := p.as[len(p.as)-1]
	p.as = p.as[:len(p.as)-1]
	if len(p.es) > frame.esLen {
		frame.args = append(frame.args, p.pop())
	}
	return p.finishCall(frame, tok.pos)
}

func (p *parser) finishCall(frame callFrame, pos int) error {
	if frame.name == "$" {
		if len(frame.args) < 1 {
			return &BadMacroError{Col: pos, Msg: "missing name argument"}
		}
		name := frame.args[0]
		if name.Kind != NodeVarRef {
			return &BadMacroError{Col: pos, Msg: "first argument must be a variable"}
		}
		p.macros = append(p.macros, macro{name: name.Var.Name, body: frame.args})
		return p.push(constNode(0))
	}

	if m := p.findMacro(frame.name); m != nil {
		root := p.expandMacro(m, frame.args)
		return p.push(root)
	}

	fd, ok := p.funcs.Lookup(frame.name)
	if !ok {
		return &BadCallError{Col: pos, Name: frame.name}
	}
	var ctx []byte
	if fd.Ctxsz > 0 {
		ctx = make([]byte, fd.Ctxsz)
	}
	return p.push(&Node{Kind: NodeFunc, Func: fd, Args: frame.args, Ctx: ctx})
}

// expandMacro builds the inline-expansion tree for a call to macro m with
// the given (unevaluated) argument expressions:
//
//	($1 = a1, ($2 = a2, ( ... , (copy(b1), (copy(b2), ... copy(bn)))...)))
//
// Each parameter gets its own synthesized "$k" variable in the shared
// environment; the body is deep-copied so repeated calls do not alias each
// other's function-context buffers.
func (p *parser) expandMacro(m *macro, args []*Node) *Node {
	var parts []*Node
	for i, a := range args {
		v := p.vars.LookupOrCreate("$" + strconv.Itoa(i+1))
		parts = append(parts, binaryNode(OpAssign, varRefNode(v), a))
		p.nodeCount += 2
	}
	body := m.body[1:]
	if len(body) == 0 {
		parts = append(parts, constNode(0))
		p.nodeCount++
	} else {
		for _, b := range body {
			cp := copyNode(b)
			p.nodeCount += countNodes(cp)
			parts = append(parts, cp)
		}
	}
	result := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		result = binaryNode(OpComma, parts[i], result)
		p.nodeCount++
	}
	p.nodeCount-- // the root is counted again when the caller pushes it
	return result
}

func countNodes(n *Node) int {
	if n == nil {
		return 0
	}
	total := 1 + countNodes(n.Left) + countNodes(n.Right)
	for _, a := range n.Args {
		total += countNodes(a)
	}
	return total
}

func (p *parser) logf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debugf(format, args...)
	}
}
