// Package http provides http transport for the archiver
package http

import (
	stdhttp "net/http"
	"net/url"

	"archiver/internal/modkit/httpkit"
	"archiver/internal/services/api/archiver/domain"
)

// Register mounts the archiver endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/pin", h.pin)
	httpkit.Get(r, "/pin/*", h.pin)
	httpkit.PostJSON(r, "/commit", h.commit)
	httpkit.Get(r, "/push", h.push)
	httpkit.PostJSON(r, "/register", h.register)
	httpkit.PostJSON(r, "/notarize", h.notarize)
	httpkit.PostJSON(r, "/certify", h.certify)
	httpkit.Get(r, "/walletinfo", h.walletinfo)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /ready Archiver archiverReady
// @Summary Wallet address present and IPFS live
// @Tags Archiver
// @Produce json
// @Success 200 {object} domain.ReadyResult "ok"
// @Router /ready [get]
func (h *handlers) ready(r *stdhttp.Request) (any, error) {
	return h.svc.Ready(r.Context()), nil
}

// swagger:route GET /pin/{path} Archiver archiverPin
// @Summary Pin a folder recursively and return its cid
// @Tags Archiver
// @Produce json
// @Param path path string true "Folder below the pin root"
// @Success 200 {object} domain.PinResult "ok"
// @Router /pin/{path} [get]
func (h *handlers) pin(r *stdhttp.Request) (any, error) {
	return h.svc.Pin(r.Context(), pinPath(r))
}

// swagger:route POST /commit Archiver archiverCommit
// @Summary Commit the snapshot working tree
// @Tags Archiver
// @Accept json
// @Produce json
// @Param payload body domain.CommitInput true "Commit message"
// @Success 200 {object} domain.CommitResult "ok"
// @Router /commit [post]
func (h *handlers) commit(r *stdhttp.Request, in domain.CommitInput) (any, error) {
	return h.svc.Commit(r.Context(), in)
}

// swagger:route GET /push Archiver archiverPush
// @Summary Push the snapshot repository to its remote
// @Tags Archiver
// @Produce json
// @Success 200 {object} domain.PushResult "ok"
// @Router /push [get]
func (h *handlers) push(r *stdhttp.Request) (any, error) {
	return h.svc.Push(r.Context())
}

// swagger:route POST /register Archiver archiverRegister
// @Summary Register an external id with a cid
// @Tags Archiver
// @Accept json
// @Produce json
// @Param payload body domain.RecordInput true "Record"
// @Success 200 {object} domain.NotarizationResult "ok"
// @Router /register [post]
func (h *handlers) register(r *stdhttp.Request, in domain.RecordInput) (any, error) {
	return h.svc.Register(r.Context(), in)
}

// swagger:route POST /notarize Archiver archiverNotarize
// @Summary Notarize an external id with a cid
// @Tags Archiver
// @Accept json
// @Produce json
// @Param payload body domain.RecordInput true "Record"
// @Success 200 {object} domain.NotarizationResult "ok"
// @Router /notarize [post]
func (h *handlers) notarize(r *stdhttp.Request, in domain.RecordInput) (any, error) {
	return h.svc.Notarize(r.Context(), in)
}

// swagger:route POST /certify Archiver archiverCertify
// @Summary Certificate for a transaction, passed through as issued
// @Tags Archiver
// @Accept json
// @Produce json
// @Param payload body domain.CertifyInput true "Transaction"
// @Success 200 {object} object "certificate"
// @Router /certify [post]
func (h *handlers) certify(r *stdhttp.Request, in domain.CertifyInput) (any, error) {
	return h.svc.Certify(r.Context(), in)
}

// swagger:route GET /walletinfo Archiver archiverWalletInfo
// @Summary Wallet, fee, balances and remaining notarizations
// @Tags Archiver
// @Produce json
// @Success 200 {object} domain.WalletSnapshot "ok"
// @Router /walletinfo [get]
func (h *handlers) walletinfo(r *stdhttp.Request) (any, error) {
	return h.svc.WalletInfo(r.Context())
}

// pinPath is everything after /pin/, decoded once
func pinPath(r *stdhttp.Request) string {
	p := httpkit.Rest(r)
	if r.URL.RawPath == "" {
		return p
	}
	if u, err := url.PathUnescape(p); err == nil {
		return u
	}
	return p
}
