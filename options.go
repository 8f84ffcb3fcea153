package tickfsm

import "github.com/rs/zerolog"

// DefaultMaxCascadeDepth bounds nested Dispatch calls made from hooks.
const DefaultMaxCascadeDepth = 64

// Option configures a Machine.
type Option func(*options)

type options struct {
	name      string
	logger    zerolog.Logger
	maxDepth  int
	observers []Observer
}

func defaultOptions() options {
	return options{
		name:     "fsm",
		logger:   zerolog.Nop(),
		maxDepth: DefaultMaxCascadeDepth,
	}
}

// WithName sets the name used in logs, records and realtime routing.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger. Transitions log at debug, misses at warn.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMaxCascadeDepth bounds how deeply Dispatch may nest inside hooks.
// Zero disables the bound.
func WithMaxCascadeDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDepth = n
		}
	}
}

// WithObserver adds an observer. Observers run in the order added.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}
