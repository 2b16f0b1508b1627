package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	perr "archiver/internal/platform/errors"
	"archiver/internal/services/api/archiver/domain"

	"github.com/shopspring/decimal"
)

const (
	cidDir  = "QmUNLLsPACCz1vLxQVkXqqLX5R1X345qqfHbsf67hvA3Nn"
	cidFile = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
)

type addCall struct {
	path      string
	recursive bool
	pin       bool
	pattern   string
}

type fakeStorage struct {
	live    bool
	entries []domain.Entry
	addErr  error

	probes int32
	adds   []addCall
}

func (f *fakeStorage) IsLive(context.Context) bool {
	atomic.AddInt32(&f.probes, 1)
	return f.live
}

func (f *fakeStorage) Add(_ context.Context, path string, recursive, pin bool, pattern string) ([]domain.Entry, error) {
	f.adds = append(f.adds, addCall{path, recursive, pin, pattern})
	return f.entries, f.addErr
}

// fakeVCS records every tool call and counts calls that started while another was running
type fakeVCS struct {
	delay time.Duration
	head  string

	initErr, addErr, commitErr, pushErr error

	active   int32
	overlaps int32

	mu       sync.Mutex
	calls    []string
	messages []string
}

func (f *fakeVCS) enter(name string) func() {
	if atomic.AddInt32(&f.active, 1) > 1 {
		atomic.AddInt32(&f.overlaps, 1)
	}
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return func() { atomic.AddInt32(&f.active, -1) }
}

func (f *fakeVCS) Init(context.Context) error {
	defer f.enter("init")()
	return f.initErr
}

func (f *fakeVCS) AddAll(context.Context) error {
	defer f.enter("add")()
	return f.addErr
}

func (f *fakeVCS) Commit(_ context.Context, message string) error {
	defer f.enter("commit")()
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
	return f.commitErr
}

func (f *fakeVCS) HeadRevision(context.Context) (string, error) {
	defer f.enter("head")()
	return f.head, nil
}

func (f *fakeVCS) Push(context.Context) error {
	defer f.enter("push")()
	return f.pushErr
}

func (f *fakeVCS) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type notarizeCall struct {
	xid, cid string
	register bool
}

type fakeWallet struct {
	address string
	addrErr error

	balances   domain.Balances
	refreshErr error
	info       json.RawMessage
	infoErr    error
	fee        decimal.Decimal
	feeErr     error

	txid      string
	submitErr error
	cert      json.RawMessage
	certErr   error

	mu    sync.Mutex
	calls []string
	subs  []notarizeCall
	confs []int
}

func (f *fakeWallet) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeWallet) Address(context.Context) (string, error) {
	f.record("address")
	return f.address, f.addrErr
}

func (f *fakeWallet) RefreshWallet(context.Context) (domain.Balances, error) {
	f.record("refresh")
	return f.balances, f.refreshErr
}

func (f *fakeWallet) WalletInfo(context.Context) (json.RawMessage, error) {
	f.record("info")
	return f.info, f.infoErr
}

func (f *fakeWallet) Fee(_ context.Context, confirmations int) (decimal.Decimal, error) {
	f.record("fee")
	f.confs = append(f.confs, confirmations)
	return f.fee, f.feeErr
}

func (f *fakeWallet) Notarize(_ context.Context, xid, cid string, register bool) (string, error) {
	f.record("notarize")
	f.subs = append(f.subs, notarizeCall{xid, cid, register})
	return f.txid, f.submitErr
}

func (f *fakeWallet) Certify(_ context.Context, txid string) (json.RawMessage, error) {
	f.record("certify")
	return f.cert, f.certErr
}

func upstream(msg string) error { return perr.Upstreamf("%s", msg) }

func writeFile(t *testing.T, p, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
