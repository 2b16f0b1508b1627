package service

import (
	"context"
	"testing"

	perr "archiver/internal/platform/errors"
	"archiver/internal/platform/testkit"
	"archiver/internal/services/api/archiver/domain"
)

type rig struct {
	st  *fakeStorage
	vcs *fakeVCS
	w   *fakeWallet
	svc *Svc
}

func newRig(t *testing.T) rig {
	t.Helper()
	st := &fakeStorage{live: true, entries: []domain.Entry{{Name: "ds1", Hash: cidDir}}}
	vcs := &fakeVCS{head: "3f786850e387550fdab836ed7e6dc881de23001b"}
	w := &fakeWallet{address: "bc1qexample", txid: "tx-1"}
	return rig{st, vcs, w, New(NewPinner(st, t.TempDir()), NewSnapshot(vcs), NewNotary(w, st))}
}

func TestNew_RequiresComponents(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, nil, nil) })
	testkit.MustPanic(t, func() { NewPinner(nil, "") })
	testkit.MustPanic(t, func() { NewSnapshot(nil) })
	testkit.MustPanic(t, func() { NewNotary(nil, &fakeStorage{}) })
}

func TestSvc_Endpoints(t *testing.T) {
	r := newRig(t)
	ctx := context.Background()

	if !r.svc.Ready(ctx).Ready {
		t.Fatalf("expected ready")
	}

	pin, err := r.svc.Pin(ctx, "ds1")
	if err != nil || pin != (domain.PinResult{Path: "ds1", CID: cidDir}) {
		t.Fatalf("Pin = %+v, %v", pin, err)
	}

	cr, err := r.svc.Commit(ctx, domain.CommitInput{Message: "initial import"})
	if err != nil || cr.OK != 1 || cr.GitHash != r.vcs.head {
		t.Fatalf("Commit = %+v, %v", cr, err)
	}

	pr, err := r.svc.Push(ctx)
	if err != nil || pr.OK != 1 {
		t.Fatalf("Push = %+v, %v", pr, err)
	}

	rec := domain.RecordInput{XID: "ds-1", CID: cidDir}
	if res, err := r.svc.Register(ctx, rec); err != nil || res.TxID != "tx-1" {
		t.Fatalf("Register = %+v, %v", res, err)
	}
	if res, err := r.svc.Notarize(ctx, rec); err != nil || res.TxID != "tx-1" {
		t.Fatalf("Notarize = %+v, %v", res, err)
	}
	if !r.w.subs[0].register || r.w.subs[1].register {
		t.Fatalf("register flags = %+v", r.w.subs)
	}
}

func TestSvc_ErrorsPassThrough(t *testing.T) {
	r := newRig(t)
	ctx := context.Background()
	r.vcs.pushErr = perr.VCSf("rejected")

	if _, err := r.svc.Push(ctx); !perr.IsCode(err, perr.ErrorCodeVersionControl) {
		t.Fatalf("Push err = %v", err)
	}
	if _, err := r.svc.Commit(ctx, domain.CommitInput{}); !perr.IsCode(err, perr.ErrorCodeInput) {
		t.Fatalf("Commit err = %v", err)
	}
	if _, err := r.svc.Pin(ctx, ""); !perr.IsCode(err, perr.ErrorCodeInput) {
		t.Fatalf("Pin err = %v", err)
	}
	if _, err := r.svc.Certify(ctx, domain.CertifyInput{}); !perr.IsCode(err, perr.ErrorCodeInput) {
		t.Fatalf("Certify err = %v", err)
	}
	r.w.refreshErr = perr.Upstreamf("rpc down")
	if _, err := r.svc.WalletInfo(ctx); !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("WalletInfo err = %v", err)
	}
}
