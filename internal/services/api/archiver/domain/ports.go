package domain

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Entry is one item added to the storage network
type Entry struct {
	Name string
	Hash string
}

// Storage is the content addressable storage network
type Storage interface {
	IsLive(ctx context.Context) bool
	Add(ctx context.Context, path string, recursive, pin bool, pattern string) ([]Entry, error)
}

// VersionControl is the snapshot working tree tooling
type VersionControl interface {
	Init(ctx context.Context) error
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	HeadRevision(ctx context.Context) (string, error)
	Push(ctx context.Context) error
}

// Balances are the wallet amounts after a refresh
type Balances struct {
	Staked  decimal.Decimal
	Balance decimal.Decimal
}

// Wallet is the notarization and wallet service
type Wallet interface {
	Address(ctx context.Context) (string, error)
	RefreshWallet(ctx context.Context) (Balances, error)
	WalletInfo(ctx context.Context) (json.RawMessage, error)
	Fee(ctx context.Context, confirmations int) (decimal.Decimal, error)
	Notarize(ctx context.Context, xid, cid string, register bool) (string, error)
	Certify(ctx context.Context, txid string) (json.RawMessage, error)
}

// ServicePort defines the service contract the http layer depends on
type ServicePort interface {
	Ready(ctx context.Context) ReadyResult
	Pin(ctx context.Context, path string) (PinResult, error)
	Commit(ctx context.Context, in CommitInput) (CommitResult, error)
	Push(ctx context.Context) (PushResult, error)
	Register(ctx context.Context, in RecordInput) (NotarizationResult, error)
	Notarize(ctx context.Context, in RecordInput) (NotarizationResult, error)
	Certify(ctx context.Context, in CertifyInput) (json.RawMessage, error)
	WalletInfo(ctx context.Context) (WalletSnapshot, error)
}
