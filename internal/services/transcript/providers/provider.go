// Package providers wraps each upstream transcript source behind one
// call contract so the orchestrator can cascade across them
package providers

import (
	"context"

	"scribe/internal/core/captions"
	"scribe/internal/core/videoid"
)

// Result is the outcome of one provider attempt
// exactly one of Snippets or Reason is meaningful
type Result struct {
	Snippets []captions.Snippet
	Language string
	Reason   string
}

// OK reports whether the attempt produced usable captions
func (r Result) OK() bool { return r.Reason == "" && len(r.Snippets) > 0 }

// Success builds a usable result
func Success(snippets []captions.Snippet, language string) Result {
	return Result{Snippets: snippets, Language: language}
}

// Failure builds a failed result with a diagnostic reason
// adapters must never let an error escape, everything becomes a Failure
func Failure(reason string) Result {
	return Result{Reason: reason}
}

// canonical failure reasons shared by the adapters
const (
	ReasonNotConfigured = "not configured"
	ReasonTimeout       = "timeout"
	ReasonEmpty         = "empty caption list"
)

// Provider is one upstream transcript source
type Provider interface {
	// Name identifies the provider in logs, usage notes, and methodUsed
	Name() string

	// Fetch retrieves captions for the video, honoring ctx cancellation.
	// It always returns a Result, never panics or errors past its boundary
	Fetch(ctx context.Context, id videoid.ID, lang string) Result
}
