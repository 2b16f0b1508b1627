// Package api provides the HTTP API for the application
package api

import (
	"archiver/internal/platform/logger"
	phttp "archiver/internal/platform/net/http"

	"archiver/internal/modkit"
	"archiver/internal/modkit/httpkit"
	"archiver/internal/modkit/swaggerkit"

	archivermod "archiver/internal/services/api/archiver/module"
	metamod "archiver/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Deps           modkit.Deps
	CORSOrigins    []string
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	mods := []modkit.Module{
		metamod.New(opt.Deps),
		archivermod.New(opt.Deps),
	}

	// swagger + profiler live outside the versioned scope
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.CORSOrigins...), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
			logger.Get().Debug().Str("module", m.Name()).Str("prefix", "/api/v1"+m.Prefix()).Msg("module mounted")
		}
	})
}
