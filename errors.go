package mathex

import "strconv"

// PosError is a parse error carrying the byte offset at which it occurred.
// Every error Parse can return implements it.
type PosError interface {
	error
	Pos() int
}

// UnexpectedNumberError indicates a number appeared where an operator was
// required, or a malformed number literal (e.g. "2.3.4").
type UnexpectedNumberError struct{ Col int }

func (err *UnexpectedNumberError) Error() string { return errpos(err.Col, "unexpected number") }
func (err *UnexpectedNumberError) Pos() int      { return err.Col }

// UnexpectedWordError indicates an identifier appeared in operator position.
type UnexpectedWordError struct{ Col int }

func (err *UnexpectedWordError) Error() string { return errpos(err.Col, "unexpected identifier") }
func (err *UnexpectedWordError) Pos() int      { return err.Col }

// MismatchedParenError indicates a parenthesis out of context or an
// unbalanced group.
type MismatchedParenError struct{ Col int }

func (err *MismatchedParenError) Error() string { return errpos(err.Col, "mismatched parenthesis") }
func (err *MismatchedParenError) Pos() int      { return err.Col }

// MissingOperandError indicates an operator with no preceding value.
type MissingOperandError struct{ Col int }

func (err *MissingOperandError) Error() string { return errpos(err.Col, "missing operand") }
func (err *MissingOperandError) Pos() int      { return err.Col }

// UnknownOperatorError indicates unrecognized operator bytes.
type UnknownOperatorError struct{ Col int }

func (err *UnknownOperatorError) Error() string { return errpos(err.Col, "unknown operator") }
func (err *UnknownOperatorError) Pos() int      { return err.Col }

// BadCallError indicates '(' after a term that cannot be called: a number, a
// closed group, or a name that is neither a macro nor a registered function.
// A function name not followed by '(' is not an error; it is read as a
// variable.
type BadCallError struct {
	Col  int
	Name string
}

func (err *BadCallError) Error() string {
	return errpos(err.Col, "invalid call of "+strconv.Quote(err.Name))
}
func (err *BadCallError) Pos() int { return err.Col }

// BadAssignmentError indicates the left-hand side of '=' is not a variable
// reference.
type BadAssignmentError struct{ Col int }

func (err *BadAssignmentError) Error() string {
	return errpos(err.Col, "left-hand side of assignment is not a variable")
}
func (err *BadAssignmentError) Pos() int { return err.Col }

// BadMacroError indicates a malformed macro definition: the first argument
// of $(...) is not a variable reference, or the definition has too few
// arguments.
type BadMacroError struct {
	Col int
	Msg string
}

func (err *BadMacroError) Error() string { return errpos(err.Col, "bad macro definition: "+err.Msg) }
func (err *BadMacroError) Pos() int      { return err.Col }

// AllocationError indicates a resource guard refused to grow the tree
// further (see ParseOption WithMaxNodes), standing in for the original
// source's out-of-memory failure mode in a garbage-collected host.
type AllocationError struct{ Col int }

func (err *AllocationError) Error() string { return errpos(err.Col, "allocation limit exceeded") }
func (err *AllocationError) Pos() int      { return err.Col }

var (
	_ PosError = (*UnexpectedNumberError)(nil)
	_ PosError = (*UnexpectedWordError)(nil)
	_ PosError = (*MismatchedParenError)(nil)
	_ PosError = (*MissingOperandError)(nil)
	_ PosError = (*UnknownOperatorError)(nil)
	_ PosError = (*BadCallError)(nil)
	_ PosError = (*BadAssignmentError)(nil)
	_ PosError = (*BadMacroError)(nil)
	_ PosError = (*AllocationError)(nil)
)
