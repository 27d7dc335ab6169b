package mathex

import "go.uber.org/zap"

// parseConfig collects the effect of every ParseOption passed to Parse.
type parseConfig struct {
	logger   *zap.SugaredLogger
	maxNodes int
}

// ParseOption configures a call to Parse. Options are applied in the order
// given.
type ParseOption interface {
	apply(*parseConfig)
}

type optionFunc func(*parseConfig)

func (f optionFunc) apply(cfg *parseConfig) { f(cfg) }

// WithLogger attaches a structured logger that Parse uses to report, at
// debug level, tokenizer errors and a summary line for each successful
// parse. Macro definitions and expansions are not logged, nor are errors
// found after tokenizing (bad calls, assignments, macros, parentheses). A nil
// logger (the default) disables this logging entirely; Parse never logs at
// any other level.
func WithLogger(logger *zap.SugaredLogger) ParseOption {
	return optionFunc(func(cfg *parseConfig) {
		cfg.logger = logger
	})
}

// WithMaxNodes caps the number of tree nodes a single Parse call may
// allocate, counting both nodes built directly from source tokens and those
// produced by macro expansion. A limit of 0 (the default) means unbounded.
// Exceeding the limit fails the parse with an *AllocationError, standing in
// for the reference implementation's allocator-failure path in a host where
// allocation itself cannot fail.
func WithMaxNodes(n int) ParseOption {
	return optionFunc(func(cfg *parseConfig) {
		cfg.maxNodes = n
	})
}
