package mathex

// InvokeFunc is the body of a host-registered function. It does not take its
// own FuncDef: Invoke is itself a field of the FuncDef it belongs to, so a
// closure already has access to anything about the descriptor it needs. args
// is the ordered, unevaluated sequence of argument expressions; the function
// decides whether and when to evaluate each one by calling its Eval method.
// ctx is the function's persistent per-call-site context buffer (nil if the
// function's Ctxsz is 0).
type InvokeFunc func(args []*Node, ctx []byte) Scalar

// CleanupFunc releases resources associated with a function's context
// buffer. It is called exactly once per allocated context: when the owning
// Tree is destroyed, or, for a call inside a macro definition's body (which
// only ever reaches the tree as a copy), before Parse returns.
type CleanupFunc func(ctx []byte)

// FuncDef describes a function the host has made available to expressions.
type FuncDef struct {
	// Name is the identifier expressions use to call this function.
	Name string
	// Invoke is called to evaluate a call of this function.
	Invoke InvokeFunc
	// Ctxsz is the size in bytes of the zero-filled context buffer
	// allocated for each call site (AST node) that calls this function.
	// Zero means the function carries no per-node state.
	Ctxsz int
	// Cleanup, if non-nil, is called once per allocated context buffer when
	// the tree containing the call is destroyed.
	Cleanup CleanupFunc
}

// Funcs is a registry mapping function names to descriptors. It is read-only
// once parsing begins. The zero value is an empty registry.
type Funcs struct {
	defs  []FuncDef
	index map[string]*FuncDef
}

// NewFuncs builds a registry from an ordered list of descriptors. Later
// entries with a duplicate name shadow earlier ones in Lookup, but both
// remain in Defs order.
func NewFuncs(defs ...FuncDef) *Funcs {
	fs := &Funcs{
		defs:  defs,
		index: make(map[string]*FuncDef, len(defs)),
	}
	for i := range fs.defs {
		fs.index[fs.defs[i].Name] = &fs.defs[i]
	}
	return fs
}

// Lookup returns the descriptor registered under name, if any.
func (fs *Funcs) Lookup(name string) (*FuncDef, bool) {
	if fs == nil {
		return nil, false
	}
	f, ok := fs.index[name]
	return f, ok
}

// Defs returns the registry's descriptors in registration order.
func (fs *Funcs) Defs() []FuncDef {
	if fs == nil {
		return nil
	}
	return append([]FuncDef(nil), fs.defs...)
}
