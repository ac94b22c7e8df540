// Package domain holds the transcript orchestration contracts
package domain

// Request asks for one video's transcript
type Request struct {
	// Source is a video URL in any supported shape, or a bare video id
	Source string
	// Lang is the preferred caption language, empty means english
	Lang string
}

// Transcript is the orchestrator's success value
// FailureDetail names providers that lost before the winner and is for
// usage notes only, never for caller-facing payloads
type Transcript struct {
	VideoID       string
	Language      string
	FullText      string
	MethodUsed    string
	FailureDetail string
}

// BulkItem is the outcome of one source inside a bulk request
// Status carries the HTTP-equivalent kind of the outcome
type BulkItem struct {
	Source     string
	Transcript *Transcript
	Err        string
	Status     int
}

// BulkResult aggregates a bulk run
type BulkResult struct {
	Items     []BulkItem
	Succeeded int
	Failed    int
}
