package module

import (
	"context"

	tdom "scribe/internal/services/transcript/domain"
	tsvc "scribe/internal/services/transcript/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptResolverPort exposes the orchestrator for cross-module usage
type adaptResolverPort struct{ svc tsvc.Service }

// Resolve implements the domain ServicePort interface
func (a adaptResolverPort) Resolve(ctx context.Context, in tdom.Request) (tdom.Transcript, error) {
	return a.svc.Resolve(ctx, in)
}

// ResolveBulk implements the domain ServicePort interface
func (a adaptResolverPort) ResolveBulk(ctx context.Context, sources []string, lang string) (tdom.BulkResult, error) {
	return a.svc.ResolveBulk(ctx, sources, lang)
}
