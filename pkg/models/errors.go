package models

import "fmt"

// ValidationError reports bad input caught before any stage runs: negative
// bids, duplicate bidder IDs, an empty bidder list.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

// ProviderError wraps a failure from an external collaborator (text
// extractor, embedder, linguistic tagger) encountered while running a
// stage. It fails the current stage; the pipeline halts.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
