package httpapi

import "time"

// Options controls HTTP API runtime behavior (timeouts, etc.).
type Options struct {
	// ConvertTimeout is the hard upper bound for a single conversion request
	// (fetch + parse + classify + synthesize + serialize).
	ConvertTimeout time.Duration

	// FetchTimeout is the per-request timeout used when fetching the remote
	// subscription document.
	FetchTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ConvertTimeout <= 0 {
		o.ConvertTimeout = 60 * time.Second
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 15 * time.Second
	}
	return o
}
