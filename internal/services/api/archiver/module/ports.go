package module

import (
	"context"
	"encoding/json"

	"archiver/internal/adapters/ipfs"
	"archiver/internal/adapters/notary"
	"archiver/internal/services/api/archiver/domain"

	"github.com/shopspring/decimal"
)

// storagePort adapts the Kubo client to the domain Storage port
type storagePort struct{ c *ipfs.Client }

func (s storagePort) IsLive(ctx context.Context) bool { return s.c.IsLive(ctx) }

func (s storagePort) Add(ctx context.Context, path string, recursive, pin bool, pattern string) ([]domain.Entry, error) {
	res, err := s.c.Add(ctx, path, recursive, pin, pattern)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Entry, 0, len(res))
	for _, r := range res {
		out = append(out, domain.Entry{Name: r.Name, Hash: r.Hash})
	}
	return out, nil
}

// walletPort adapts the notary client to the domain Wallet port
type walletPort struct{ c *notary.Client }

func (w walletPort) Address(ctx context.Context) (string, error) { return w.c.Address(ctx) }

func (w walletPort) RefreshWallet(ctx context.Context) (domain.Balances, error) {
	b, err := w.c.RefreshWallet(ctx)
	if err != nil {
		return domain.Balances{}, err
	}
	return domain.Balances{Staked: b.Staked, Balance: b.Balance}, nil
}

func (w walletPort) WalletInfo(ctx context.Context) (json.RawMessage, error) {
	return w.c.WalletInfo(ctx)
}

func (w walletPort) Fee(ctx context.Context, confirmations int) (decimal.Decimal, error) {
	return w.c.Fee(ctx, confirmations)
}

func (w walletPort) Notarize(ctx context.Context, xid, cid string, register bool) (string, error) {
	return w.c.Notarize(ctx, xid, cid, register)
}

func (w walletPort) Certify(ctx context.Context, txid string) (json.RawMessage, error) {
	return w.c.Certify(ctx, txid)
}
