// Package mathex implements a small, embeddable arithmetic/logic expression
// engine: it compiles a textual expression over numbers, named variables,
// host-registered functions, and user-defined macros into a reusable
// expression tree, and evaluates that tree against a live variable
// environment to produce a float32 scalar.
//
// A variable environment (Variables) and function registry (Funcs) are owned
// by the caller and outlive any number of parsed trees. Parsing an expression
// never evaluates it: Parse builds a Tree, and Tree.Eval or Tree.EvalStack
// walks it against whatever variable values happen to hold at call time.
//
// Expressions support the usual arithmetic and bitwise/logical operators,
// assignment ("x = 1"), sequencing with comma, parenthesized and function-call
// grouping, and a macro facility ("$(name, body...)") that is fully expanded
// inline before Parse returns.
package mathex
