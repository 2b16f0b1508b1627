// Package service contains the archiver workflows: pin, snapshot and notarize
package service

import (
	"context"
	"encoding/json"

	"archiver/internal/services/api/archiver/domain"
)

// Service defines the service contract for the archiver
type Service interface{ domain.ServicePort }

// Svc composes the pinner, the snapshot repository and the notary
// it keeps no state of its own; each endpoint is an independent step
type Svc struct {
	pinner *Pinner
	snap   *Snapshot
	notary *Notary
}

// New creates the archiver service from its components
func New(pinner *Pinner, snap *Snapshot, notary *Notary) *Svc {
	if pinner == nil || snap == nil || notary == nil {
		panic("archiver.Service requires a Pinner, a Snapshot and a Notary")
	}
	return &Svc{pinner: pinner, snap: snap, notary: notary}
}

// Ready reports dependency readiness
func (s *Svc) Ready(ctx context.Context) domain.ReadyResult {
	return domain.ReadyResult{Ready: s.notary.Ready(ctx)}
}

// Pin pins path and echoes it back with the cid
func (s *Svc) Pin(ctx context.Context, path string) (domain.PinResult, error) {
	c, err := s.pinner.Pin(ctx, path)
	if err != nil {
		return domain.PinResult{}, err
	}
	return domain.PinResult{Path: path, CID: c}, nil
}

// Commit records the working tree as a new revision
func (s *Svc) Commit(ctx context.Context, in domain.CommitInput) (domain.CommitResult, error) {
	head, err := s.snap.CommitAll(ctx, in.Message)
	if err != nil {
		return domain.CommitResult{}, err
	}
	return domain.CommitResult{OK: 1, GitHash: head}, nil
}

// Push publishes the snapshot repository
func (s *Svc) Push(ctx context.Context) (domain.PushResult, error) {
	if err := s.snap.Push(ctx); err != nil {
		return domain.PushResult{}, err
	}
	return domain.PushResult{OK: 1}, nil
}

// Register submits a registration record
func (s *Svc) Register(ctx context.Context, in domain.RecordInput) (domain.NotarizationResult, error) {
	txid, err := s.notary.Register(ctx, in.XID, in.CID)
	if err != nil {
		return domain.NotarizationResult{}, err
	}
	return domain.NotarizationResult{TxID: txid}, nil
}

// Notarize submits a notarization record
func (s *Svc) Notarize(ctx context.Context, in domain.RecordInput) (domain.NotarizationResult, error) {
	txid, err := s.notary.Notarize(ctx, in.XID, in.CID)
	if err != nil {
		return domain.NotarizationResult{}, err
	}
	return domain.NotarizationResult{TxID: txid}, nil
}

// Certify returns the certificate for a transaction
func (s *Svc) Certify(ctx context.Context, in domain.CertifyInput) (json.RawMessage, error) {
	return s.notary.Certify(ctx, in.TxID)
}

// WalletInfo aggregates wallet, fee and address
func (s *Svc) WalletInfo(ctx context.Context) (domain.WalletSnapshot, error) {
	return s.notary.WalletSnapshot(ctx)
}
