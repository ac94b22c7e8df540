// Package module wires the keyed transcript endpoints into the API using modkit
package module

import (
	"context"
	"net/http"

	modkit "scribe/internal/modkit"
	"scribe/internal/modkit/httpkit"
	str "scribe/internal/platform/strings"

	thttp "scribe/internal/services/api/transcripts/http"
	kdom "scribe/internal/services/keys/domain"
	tsvc "scribe/internal/services/transcript/service"
	"scribe/internal/services/transcript/providers"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc tsvc.Service
}

// Ports declares the injected admission gate this module requires
type Ports struct {
	Gate kdom.AdmitPort
}

// New constructs the transcripts module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("transcripts"),
		modkit.WithPrefix("/transcripts"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Gate == nil {
		panic("transcripts module requires the keys Admit port")
	}

	cfg := FromConfig(deps.Cfg)
	svc := tsvc.New(
		tsvc.Config{BulkIntervalMs: cfg.BulkIntervalMs},
		providers.NewRapidAPI(providers.RapidAPIOptions{
			BaseURL: cfg.RapidAPIBaseURL,
			Host:    cfg.RapidAPIHost,
			Key:     cfg.RapidAPIKey,
			Timeout: cfg.RapidAPITimeout,
		}),
		providers.NewTimedText(providers.TimedTextOptions{
			BaseURL: cfg.WatchBaseURL,
			Timeout: cfg.ScrapeTimeout,
		}),
		providers.NewInnerTube(providers.InnerTubeOptions{
			BaseURL: cfg.WatchBaseURL,
			Timeout: cfg.ScrapeTimeout,
		}),
	)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptResolverPort{svc: svc}

	// admission runs as middleware so handlers only see admitted requests
	gate := injected.Gate
	port := httpkit.NewPortFunc(func(ctx context.Context, rawKey string) (string, string, error) {
		k, err := gate.Admit(ctx, rawKey, "/transcripts", "")
		if err != nil {
			return "", "", err
		}
		return k.ID, k.ClientName, nil
	})

	external := b.Register
	m.register = func(r httpkit.Router) {
		httpkit.Protected(r, port, func(pr httpkit.Router) {
			thttp.Register(pr, m.svc, gate)
		})
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
