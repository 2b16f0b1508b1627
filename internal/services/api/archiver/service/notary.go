package service

import (
	"context"
	"encoding/json"
	"time"

	perr "archiver/internal/platform/errors"
	"archiver/internal/platform/logger"
	pstrings "archiver/internal/platform/strings"
	"archiver/internal/services/api/archiver/domain"

	"github.com/ipfs/go-cid"
	"github.com/shopspring/decimal"
)

const (
	// feeConfirmations is the confirmation target used for the base fee
	feeConfirmations = 3
	// notarization fee is base fee * 255/1000
	feeNumerator = 255
	feeScale     = -3
)

// Notary submits and certifies notarization records and aggregates wallet state
type Notary struct {
	wallet domain.Wallet
	store  domain.Storage
}

// NewNotary builds a Notary; store is only used for readiness
func NewNotary(wallet domain.Wallet, store domain.Storage) *Notary {
	if wallet == nil || store == nil {
		panic("archiver.Notary requires a non nil Wallet and Storage")
	}
	return &Notary{wallet: wallet, store: store}
}

// Register submits a record flagged as a first registration
func (n *Notary) Register(ctx context.Context, xid, cidStr string) (string, error) {
	return n.submit(ctx, "register", xid, cidStr, true)
}

// Notarize submits a plain notarization record
func (n *Notary) Notarize(ctx context.Context, xid, cidStr string) (string, error) {
	return n.submit(ctx, "notarize", xid, cidStr, false)
}

func (n *Notary) submit(ctx context.Context, op, xid, cidStr string, register bool) (string, error) {
	if pstrings.Blank(xid) {
		return "", perr.WithField(perr.Inputf("No xid provided"), "xid")
	}
	if pstrings.Blank(cidStr) {
		return "", perr.WithField(perr.Inputf("No cid provided"), "cid")
	}

	// the cid is opaque to the wallet; a parseable one only enriches the log
	lc := logger.C(ctx).With().Str("op", op).Str("xid", xid).Str("cid", cidStr)
	if c, err := cid.Decode(cidStr); err == nil {
		lc = lc.Uint64("cid_version", c.Version()).Uint64("cid_codec", c.Type())
	}
	log := lc.Logger()
	start := time.Now()
	txid, err := n.wallet.Notarize(ctx, xid, cidStr, register)
	if err != nil {
		log.Error().Err(err).Dur("dur", time.Since(start)).Msg("submission failed")
		return "", perr.Wrapf(err, perr.ErrorCodeUpstream, "Failed to %s record: %s", op, perr.MessageOf(err))
	}
	log.Info().Str("txid", txid).Dur("dur", time.Since(start)).Msg("record submitted")
	return txid, nil
}

// Certify returns the certificate for txid as the wallet service produced it
func (n *Notary) Certify(ctx context.Context, txid string) (json.RawMessage, error) {
	if pstrings.Blank(txid) {
		return nil, perr.WithField(perr.Inputf("No txid provided"), "txid")
	}
	start := time.Now()
	cert, err := n.wallet.Certify(ctx, txid)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("op", "certify").Str("txid", txid).Dur("dur", time.Since(start)).Msg("certify failed")
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "Failed to certify transaction: %s", perr.MessageOf(err))
	}
	return cert, nil
}

// Ready is true only when the wallet has an address and storage is live
// both checks always run so the log shows which one failed
func (n *Notary) Ready(ctx context.Context) bool {
	addr, err := n.wallet.Address(ctx)
	hasAddr := err == nil && !pstrings.Blank(addr)
	live := n.store.IsLive(ctx)

	if !hasAddr || !live {
		ev := logger.C(ctx).Warn().Bool("address", hasAddr).Bool("ipfs", live)
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("not ready")
	}
	return hasAddr && live
}

// WalletSnapshot refreshes the wallet then reads info, fee and address
// nothing partial is returned when any step fails
func (n *Notary) WalletSnapshot(ctx context.Context) (domain.WalletSnapshot, error) {
	var zero domain.WalletSnapshot

	bal, err := timed(ctx, "refresh wallet", n.wallet.RefreshWallet)
	if err != nil {
		return zero, err
	}
	info, err := timed(ctx, "read wallet info", n.wallet.WalletInfo)
	if err != nil {
		return zero, err
	}
	base, err := timed(ctx, "read fee", func(ctx context.Context) (decimal.Decimal, error) {
		return n.wallet.Fee(ctx, feeConfirmations)
	})
	if err != nil {
		return zero, err
	}
	addr, err := timed(ctx, "read address", n.wallet.Address)
	if err != nil {
		return zero, err
	}

	fee := NotarizationFee(base)
	return domain.WalletSnapshot{
		Wallet:        info,
		Fee:           fee.StringFixed(8),
		Staked:        json.Number(bal.Staked.String()),
		Balance:       json.Number(bal.Balance.String()),
		Notarizations: Notarizations(bal.Balance, fee),
		Address:       addr,
	}, nil
}

// timed runs one wallet call, logs its duration and maps failures to upstream errors
func timed[T any](ctx context.Context, op string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := fn(ctx)
	dur := time.Since(start)
	log := logger.C(ctx)
	if err != nil {
		log.Error().Err(err).Str("op", op).Dur("dur", dur).Msg("wallet call failed")
		var zero T
		return zero, perr.Wrapf(err, perr.ErrorCodeUpstream, "Failed to %s: %s", op, perr.MessageOf(err))
	}
	log.Debug().Str("op", op).Dur("dur", dur).Msg("wallet call")
	return v, nil
}

// NotarizationFee is the per record fee derived from the network base fee
func NotarizationFee(base decimal.Decimal) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(feeNumerator)).Shift(feeScale)
}

// Notarizations is how many records balance pays for at fee, floor(balance/fee)
// a non positive fee or balance yields 0
func Notarizations(balance, fee decimal.Decimal) int64 {
	if fee.Sign() <= 0 || balance.Sign() <= 0 {
		return 0
	}
	q, _ := balance.QuoRem(fee, 0)
	return q.IntPart()
}
