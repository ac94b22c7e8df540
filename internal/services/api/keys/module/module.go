// Package module wires key management into the API using modkit
package module

import (
	"net/http"

	modkit "scribe/internal/modkit"
	"scribe/internal/modkit/httpkit"
	phttp "scribe/internal/platform/net/http"
	"scribe/internal/platform/net/middleware"
	str "scribe/internal/platform/strings"

	keyshttp "scribe/internal/services/api/keys/http"
	kdom "scribe/internal/services/keys/domain"
	keysrepo "scribe/internal/services/keys/repo"
	keyssvc "scribe/internal/services/keys/service"
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

	svc keyssvc.Service
}

// Ports exposes the keys service surfaces for cross-module wiring
type Ports struct {
	Admit  kdom.AdmitPort
	Manage kdom.ManagePort
}

// New constructs the keys module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("keys"),
		modkit.WithPrefix("/admin/keys"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	svc := keyssvc.New(deps.PG, keysrepo.NewPG())

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Admit: svc, Manage: svc}

	guard := middleware.AdminPassword(cfg.AdminPassword, phttp.JSON)

	external := b.Register
	m.register = func(r httpkit.Router) {
		r.Use(guard)
		keyshttp.Register(r, m.svc)
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

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
