// Package api provides the HTTP API for the application
package api

import (
	"scribe/internal/platform/config"
	"scribe/internal/platform/logger"
	phttp "scribe/internal/platform/net/http"
	"scribe/internal/platform/store"

	"scribe/internal/modkit"
	"scribe/internal/modkit/httpkit"
	"scribe/internal/modkit/module"
	"scribe/internal/modkit/swaggerkit"

	consolemod "scribe/internal/services/api/console/module"
	keysmod "scribe/internal/services/api/keys/module"
	metamod "scribe/internal/services/api/meta/module"
	transcriptsmod "scribe/internal/services/api/transcripts/module"
	tdom "scribe/internal/services/transcript/domain"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	// keys first, the transcript modules need its Admit port
	keys := keysmod.New(deps)
	gate := module.MustPortsOf[keysmod.Ports](keys).Admit

	transcripts := transcriptsmod.New(
		deps,
		modkit.WithPorts(transcriptsmod.Ports{Gate: gate}),
	)
	resolver := module.MustPortsOf[tdom.ServicePort](transcripts)

	// the console shares the transcripts module's resolver so both
	// surfaces run the same cascade
	console := consolemod.New(
		deps,
		modkit.WithPorts(consolemod.Ports{Resolver: resolver}),
	)

	mods := []module.Module{
		metamod.New(deps),
		keys,
		transcripts,
		console,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
