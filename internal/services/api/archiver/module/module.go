// Package module wires the archiver into the API using modkit
package module

import (
	"context"
	"strings"

	modkit "archiver/internal/modkit"
	"archiver/internal/modkit/httpkit"
	str "archiver/internal/platform/strings"
	archhttp "archiver/internal/services/api/archiver/http"
	archsvc "archiver/internal/services/api/archiver/service"
)

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
	svc   archsvc.Service
}

// New constructs the archiver module from the shared clients
// the snapshot repository is initialized here; a failure is logged and later commits report it
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("archiver")}, opts...)...)

	if missing := deps.Missing(); len(missing) > 0 {
		panic("archiver.Module missing clients: " + strings.Join(missing, ", "))
	}

	store := storagePort{c: deps.IPFS}
	snap := archsvc.NewSnapshot(deps.Git)
	if err := snap.Init(context.Background()); err != nil {
		log := deps.Log.With().Str("component", "archiver").Logger()
		log.Error().Err(err).Str("dir", deps.Git.Dir()).Msg("snapshot repository init failed")
	}

	svc := archsvc.New(
		archsvc.NewPinner(store, deps.Cfg.MayString("PIN_ROOT", ".")),
		snap,
		archsvc.NewNotary(walletPort{c: deps.Notary}, store),
	)
	return &Module{built: b, svc: svc}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		archhttp.Register(rr, m.svc)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.built.Name }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.CleanPrefix(m.built.Prefix) }
