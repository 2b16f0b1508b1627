// @title         Archiver API
// @version       0.1.0
// @description   Pin datasets to IPFS, snapshot them in git and notarize them

package main

import (
	"context"
	"os/signal"
	"syscall"

	"archiver/internal/adapters/git"
	"archiver/internal/adapters/ipfs"
	"archiver/internal/adapters/notary"
	"archiver/internal/modkit"
	"archiver/internal/platform/config"
	"archiver/internal/platform/logger"
	phttp "archiver/internal/platform/net/http"

	"archiver/internal/services/api"
)

func main() {
	// service-scoped config (ARC_*)
	cfg := config.New().Prefix("ARC_")
	ipfsCfg := cfg.Prefix("IPFS_")
	gitCfg := cfg.Prefix("GIT_")
	notaryCfg := cfg.Prefix("NOTARY_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// clients are built once and shared by every request
	deps := modkit.Deps{
		Log: *l,
		Cfg: cfg,
		IPFS: ipfs.NewClient(ipfs.Options{
			BaseURL: ipfsCfg.MayURL("URL", "http://127.0.0.1:5001"),
			// 0 keeps the client default
			ProbeTimeout: ipfsCfg.MayDuration("PROBE_TIMEOUT", 0),
		}),
		Git: git.New(git.Options{
			Dir:         cfg.MayString("DATA_DIR", "data"),
			Bin:         gitCfg.MayString("BIN", "git"),
			Remote:      gitCfg.MayString("REMOTE", ""),
			AuthorName:  gitCfg.MayString("AUTHOR_NAME", ""),
			AuthorEmail: gitCfg.MayString("AUTHOR_EMAIL", ""),
		}),
		Notary: notary.NewClient(notary.Options{
			BaseURL: notaryCfg.MayURL("URL", "http://127.0.0.1:5117"),
			Timeout: notaryCfg.MayDuration("TIMEOUT", 0),
		}),
	}

	// http server (reads ARC_PORT)
	srv := phttp.NewServer(cfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Deps:           deps,
			CORSOrigins:    cfg.MayCSV("CORS_ORIGINS", nil),
			EnableSwagger:  cfg.MayBool("SWAGGER", false),
			EnableProfiler: cfg.MayBool("PROFILER", false),
		},
	)

	l.Info().Str("addr", srv.Addr()).Str("ipfs", deps.IPFS.String()).Str("data_dir", deps.Git.Dir()).Msg("archiver api starting")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
