package service

import (
	"context"
	"path/filepath"
	"testing"

	perr "archiver/internal/platform/errors"
	"archiver/internal/services/api/archiver/domain"
)

func TestPin_EmptyPathMakesNoCalls(t *testing.T) {
	st := &fakeStorage{live: true}
	p := NewPinner(st, t.TempDir())

	for _, in := range []string{"", "   "} {
		_, err := p.Pin(context.Background(), in)
		if !perr.IsCode(err, perr.ErrorCodeInput) || perr.MessageOf(err) != "No path provided" {
			t.Fatalf("Pin(%q) err = %v", in, err)
		}
	}
	if st.probes != 0 || len(st.adds) != 0 {
		t.Fatalf("storage touched: probes=%d adds=%d", st.probes, len(st.adds))
	}
}

func TestPin_UnavailableSkipsAdd(t *testing.T) {
	st := &fakeStorage{live: false}
	_, err := NewPinner(st, t.TempDir()).Pin(context.Background(), "ds1")

	if !perr.IsCode(err, perr.ErrorCodeUnavailable) || perr.MessageOf(err) != "IPFS not available" {
		t.Fatalf("err = %v", err)
	}
	if st.probes != 1 || len(st.adds) != 0 {
		t.Fatalf("probes=%d adds=%d", st.probes, len(st.adds))
	}
}

func TestPin_AddFailureIsWrapped(t *testing.T) {
	st := &fakeStorage{live: true, addErr: upstream("connection reset")}
	_, err := NewPinner(st, t.TempDir()).Pin(context.Background(), "ds1")

	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("want upstream, got %v", err)
	}
	if got := perr.MessageOf(err); got != "Failed to pin data: connection reset" {
		t.Fatalf("message = %q", got)
	}
}

func TestPin_ReturnsLastEntryAndResolvesUnderRoot(t *testing.T) {
	root := t.TempDir()
	st := &fakeStorage{live: true, entries: []domain.Entry{
		{Name: "ds1/a.txt", Hash: cidFile},
		{Name: "ds1", Hash: cidDir},
	}}

	got, err := NewPinner(st, root).Pin(context.Background(), "ds1")
	if err != nil {
		t.Fatalf("Pin: %v", err)
	}
	if got != cidDir {
		t.Fatalf("cid = %q, want last entry %q", got, cidDir)
	}
	want := addCall{path: filepath.Join(root, "ds1"), recursive: true, pin: true, pattern: "**"}
	if len(st.adds) != 1 || st.adds[0] != want {
		t.Fatalf("add calls = %+v, want %+v", st.adds, want)
	}
}

func TestPin_RejectsEscapingPaths(t *testing.T) {
	st := &fakeStorage{live: true}
	p := NewPinner(st, t.TempDir())

	for _, in := range []string{"..", "../etc", "a/../../b"} {
		_, err := p.Pin(context.Background(), in)
		if !perr.IsCode(err, perr.ErrorCodeInput) || perr.MessageOf(err) != "Invalid path" {
			t.Fatalf("Pin(%q) err = %v", in, err)
		}
	}
	if st.probes != 0 {
		t.Fatalf("escaping paths should not probe storage")
	}

	// a leading slash stays under root
	st.entries = []domain.Entry{{Hash: cidDir}}
	if _, err := p.Pin(context.Background(), "/ds1"); err != nil {
		t.Fatalf("rooted path: %v", err)
	}
}

func TestPin_BadResults(t *testing.T) {
	cases := map[string][]domain.Entry{
		"empty":   nil,
		"bad cid": {{Name: "x", Hash: "not-a-cid"}},
	}
	for name, entries := range cases {
		st := &fakeStorage{live: true, entries: entries}
		_, err := NewPinner(st, t.TempDir()).Pin(context.Background(), "ds1")
		if !perr.IsCode(err, perr.ErrorCodeUpstream) {
			t.Fatalf("%s: want upstream, got %v", name, err)
		}
	}
}

func TestNewPinner_DefaultRoot(t *testing.T) {
	if p := NewPinner(&fakeStorage{}, ""); p.root != "." {
		t.Fatalf("root = %q", p.root)
	}
}
