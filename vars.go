package mathex

// isFirstVarChar reports whether c may begin a variable or function name.
func isFirstVarChar(c byte) bool {
	return (c >= '@' && c != '^' && c != '|') || c == '$'
}

// isVarChar reports whether c may appear after the first character of a
// variable or function name.
func isVarChar(c byte) bool {
	return isFirstVarChar(c) || c == '#' || (c >= '0' && c <= '9')
}

// Variable is a named scalar slot in an environment. Its address is stable
// for the lifetime of the Variables it belongs to, so a VarRef node can hold
// a direct pointer to it.
type Variable struct {
	Name  string
	Value Scalar

	next *Variable
}

// Variables is a variable environment: a singly linked, insertion-ordered
// list of named scalar slots, owned by the caller. The zero value is an
// empty environment ready to use.
type Variables struct {
	head *Variable
}

// LookupOrCreate returns the Variable named name, creating it with value 0 if
// it does not already exist. Lookup is by exact byte-wise name match. It
// returns nil if name is empty or does not start with a valid variable
// character; this is the only place invalid names are checked, since the
// parser only ever offers names it has already validated during tokenizing.
func (vs *Variables) LookupOrCreate(name string) *Variable {
	if len(name) == 0 || !isFirstVarChar(name[0]) {
		return nil
	}
	for v := vs.head; v != nil; v = v.next {
		if v.Name == name {
			return v
		}
	}
	v := &Variable{Name: name}
	v.next = vs.head
	vs.head = v
	return v
}

// Destroy releases every variable in the environment. Eval and EvalStack are
// undefined on any tree still referencing vs once Destroy has been called.
func (vs *Variables) Destroy() {
	vs.head = nil
}
