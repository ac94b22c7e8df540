package domain

import "context"

// ServicePort defines the orchestrator contract
type ServicePort interface {
	Resolve(ctx context.Context, in Request) (Transcript, error)
	ResolveBulk(ctx context.Context, sources []string, lang string) (BulkResult, error)
}
