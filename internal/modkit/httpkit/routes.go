package httpkit

import (
	"net/http"

	pstrings "archiver/internal/platform/strings"
)

// MountUnder mounts a subrouter at prefix and applies per-module middlewares
// an empty prefix mounts into a group of r so a module can own top level routes
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	scoped := func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	}
	if p := pstrings.CleanPrefix(prefix); p != "" {
		r.Route(p, scoped)
		return
	}
	r.Group(scoped)
}
