package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	perr "archiver/internal/platform/errors"
	"archiver/internal/services/api/archiver/domain"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSubmit_RequiresBothFields(t *testing.T) {
	w := &fakeWallet{txid: "tx"}
	n := NewNotary(w, &fakeStorage{})

	cases := []struct{ xid, cid, msg string }{
		{"", cidFile, "No xid provided"},
		{"  ", cidFile, "No xid provided"},
		{"ds-1", "", "No cid provided"},
		{"", "", "No xid provided"},
	}
	for _, c := range cases {
		for _, fn := range []func(context.Context, string, string) (string, error){n.Register, n.Notarize} {
			_, err := fn(context.Background(), c.xid, c.cid)
			if !perr.IsCode(err, perr.ErrorCodeInput) || perr.MessageOf(err) != c.msg {
				t.Fatalf("(%q,%q) err = %v, want %q", c.xid, c.cid, err, c.msg)
			}
		}
	}
	if len(w.calls) != 0 {
		t.Fatalf("wallet called: %v", w.calls)
	}
}

func TestSubmit_RegisterFlag(t *testing.T) {
	w := &fakeWallet{txid: "tx-1"}
	n := NewNotary(w, &fakeStorage{})

	if tx, err := n.Register(context.Background(), "ds-1", cidDir); err != nil || tx != "tx-1" {
		t.Fatalf("Register = %q, %v", tx, err)
	}
	if tx, err := n.Notarize(context.Background(), "ds-1", cidDir); err != nil || tx != "tx-1" {
		t.Fatalf("Notarize = %q, %v", tx, err)
	}
	want := []notarizeCall{{"ds-1", cidDir, true}, {"ds-1", cidDir, false}}
	if len(w.subs) != 2 || w.subs[0] != want[0] || w.subs[1] != want[1] {
		t.Fatalf("submissions = %+v", w.subs)
	}
}

func TestSubmit_PassesOpaqueCidThrough(t *testing.T) {
	w := &fakeWallet{txid: "tx-2"}
	n := NewNotary(w, &fakeStorage{})

	tx, err := n.Notarize(context.Background(), "dataset-42", "sha256:abc123")
	if err != nil || tx != "tx-2" {
		t.Fatalf("Notarize = %q, %v", tx, err)
	}
	if len(w.subs) != 1 || w.subs[0] != (notarizeCall{"dataset-42", "sha256:abc123", false}) {
		t.Fatalf("submissions = %+v", w.subs)
	}
}

func TestSubmit_UpstreamFailure(t *testing.T) {
	w := &fakeWallet{submitErr: upstream("insufficient funds")}
	_, err := NewNotary(w, &fakeStorage{}).Notarize(context.Background(), "ds-1", cidDir)

	if !perr.IsCode(err, perr.ErrorCodeUpstream) || perr.MessageOf(err) != "Failed to notarize record: insufficient funds" {
		t.Fatalf("err = %v", err)
	}
}

func TestCertify(t *testing.T) {
	cert := json.RawMessage(`{"txid":"tx-1","block":{"height":7}}`)
	w := &fakeWallet{cert: cert}
	n := NewNotary(w, &fakeStorage{})

	if _, err := n.Certify(context.Background(), " "); !perr.IsCode(err, perr.ErrorCodeInput) || perr.MessageOf(err) != "No txid provided" {
		t.Fatalf("blank txid err = %v", err)
	}
	if len(w.calls) != 0 {
		t.Fatalf("wallet called for blank txid")
	}

	got, err := n.Certify(context.Background(), "tx-1")
	if err != nil || string(got) != string(cert) {
		t.Fatalf("Certify = %s, %v", got, err)
	}

	w.certErr = upstream("unknown tx")
	if _, err := n.Certify(context.Background(), "tx-1"); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("want upstream, got %v", err)
	}
}

func TestReady_IsConjunction(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		hasAddr := rapid.Bool().Draw(rt, "hasAddr")
		addrErr := rapid.Bool().Draw(rt, "addrErr")
		live := rapid.Bool().Draw(rt, "live")

		w := &fakeWallet{}
		if hasAddr {
			w.address = "bc1qexample"
		}
		if addrErr {
			w.addrErr = upstream("wallet down")
		}
		got := NewNotary(w, &fakeStorage{live: live}).Ready(context.Background())

		want := hasAddr && !addrErr && live
		if got != want {
			rt.Fatalf("Ready = %v, want %v", got, want)
		}
	})
}

func TestWalletSnapshot_Values(t *testing.T) {
	w := &fakeWallet{
		address:  "bc1qexample",
		balances: domain.Balances{Staked: dec("1.5"), Balance: dec("0.0051")},
		info:     json.RawMessage(`{"name":"main"}`),
		fee:      dec("0.0001"),
	}
	snap, err := NewNotary(w, &fakeStorage{}).WalletSnapshot(context.Background())
	if err != nil {
		t.Fatalf("WalletSnapshot: %v", err)
	}

	// 0.0001 * 255/1000 = 0.0000255, 0.0051 / 0.0000255 = 200 exactly
	if snap.Fee != "0.00002550" || snap.Notarizations != 200 {
		t.Fatalf("fee=%s notarizations=%d", snap.Fee, snap.Notarizations)
	}
	if snap.Staked != "1.5" || snap.Balance != "0.0051" || snap.Address != "bc1qexample" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if got := strings.Join(w.calls, ","); got != "refresh,info,fee,address" {
		t.Fatalf("call order = %s", got)
	}
	if len(w.confs) != 1 || w.confs[0] != 3 {
		t.Fatalf("fee confirmations = %v", w.confs)
	}

	b, _ := json.Marshal(snap)
	if !strings.Contains(string(b), `"staked":1.5`) || !strings.Contains(string(b), `"wallet":{"name":"main"}`) {
		t.Fatalf("wire = %s", b)
	}
}

func TestWalletSnapshot_NoPartialResult(t *testing.T) {
	w := &fakeWallet{
		info:   json.RawMessage(`{"name":"main"}`),
		feeErr: upstream("estimator offline"),
	}
	snap, err := NewNotary(w, &fakeStorage{}).WalletSnapshot(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeUpstream) || perr.MessageOf(err) != "Failed to read fee: estimator offline" {
		t.Fatalf("err = %v", err)
	}
	if snap.Wallet != nil || snap.Fee != "" {
		t.Fatalf("partial snapshot returned: %+v", snap)
	}
	if got := strings.Join(w.calls, ","); got != "refresh,info,fee" {
		t.Fatalf("calls after failure = %s", got)
	}
}

func TestNotarizations_Edges(t *testing.T) {
	cases := []struct {
		bal, fee string
		want     int64
	}{
		{"1", "0", 0},
		{"1", "-0.1", 0},
		{"0", "0.1", 0},
		{"-3", "0.1", 0},
		{"0.3", "0.1", 3},
		{"0.29999999", "0.1", 2},
		{"10", "3", 3},
	}
	for _, c := range cases {
		if got := Notarizations(dec(c.bal), dec(c.fee)); got != c.want {
			t.Fatalf("Notarizations(%s, %s) = %d, want %d", c.bal, c.fee, got, c.want)
		}
	}
}

func TestNotarizations_FloorProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		// amounts in 1e-8 units so every value is exactly representable
		feeUnits := rapid.Int64Range(1, 1_000_000_000).Draw(rt, "fee")
		k := rapid.Int64Range(0, 1_000_000).Draw(rt, "k")
		rem := rapid.Int64Range(0, feeUnits-1).Draw(rt, "rem")

		fee := decimal.New(feeUnits, -8)
		bal := decimal.New(k*feeUnits+rem, -8)

		if got := Notarizations(bal, fee); got != k {
			rt.Fatalf("floor(%s/%s) = %d, want %d", bal, fee, got, k)
		}
	})
}

func TestNotarizationFee_Exact(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		units := rapid.Int64Range(0, 1_000_000_000_000).Draw(rt, "base")
		base := decimal.New(units, -8)
		got := NotarizationFee(base)
		// fee * 1000 must give back base * 255 with no rounding
		if !got.Mul(decimal.NewFromInt(1000)).Equal(base.Mul(decimal.NewFromInt(255))) {
			rt.Fatalf("fee(%s) = %s is not exact", base, got)
		}
	})
}
