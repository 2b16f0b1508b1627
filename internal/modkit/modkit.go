package modkit

import (
	phttp "archiver/internal/platform/net/http"
)

// Module is the common surface for API modules that mount routes under a prefix
// keep this tiny so modules stay decoupled
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Name returns the module name used in logs
	Name() string
	// Prefix returns the normalized mount prefix, "" for root
	Prefix() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
