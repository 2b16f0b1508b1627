package httpkit

import (
	"compress/flate"
	"net/http"

	"archiver/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware for the api scope
// origins feed CORS; an empty list leaves CORS permissive for no origin
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// routing hygiene
		middleware.StripSlashes(),

		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLog(middleware.AccessLogOptions{Slow: middleware.DefaultSlow}),

		// cross-origin
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
	}
}
