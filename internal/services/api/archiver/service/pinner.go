package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	perr "archiver/internal/platform/errors"
	"archiver/internal/platform/logger"
	pstrings "archiver/internal/platform/strings"
	"archiver/internal/services/api/archiver/domain"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// pinPattern selects every entry below the pinned path
const pinPattern = "**"

// Pinner turns a local path into a pinned content identifier
type Pinner struct {
	store domain.Storage
	root  string
}

// NewPinner builds a Pinner resolving request paths under root
func NewPinner(store domain.Storage, root string) *Pinner {
	if store == nil {
		panic("archiver.Pinner requires a non nil Storage")
	}
	if root == "" {
		root = "."
	}
	return &Pinner{store: store, root: filepath.Clean(root)}
}

// Pin adds path recursively with pinning and returns the cid of the last entry,
// which the storage network reports as the root of the added tree
func (p *Pinner) Pin(ctx context.Context, path string) (string, error) {
	if pstrings.Blank(path) {
		return "", perr.WithField(perr.Inputf("No path provided"), "path")
	}
	full, err := p.resolve(path)
	if err != nil {
		return "", err
	}
	log := logger.C(ctx).With().Str("op", "pin").Str("path", path).Logger()

	start := time.Now()
	live := p.store.IsLive(ctx)
	durProbe := time.Since(start)
	if !live {
		log.Warn().Dur("dur_probe", durProbe).Msg("IPFS not available")
		return "", perr.Unavailablef("IPFS not available")
	}

	start = time.Now()
	entries, err := p.store.Add(ctx, full, true, true, pinPattern)
	durAdd := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("dur_probe", durProbe).Dur("dur_add", durAdd).Msg("pin failed")
		return "", perr.Wrapf(err, perr.ErrorCodeUpstream, "Failed to pin data: %s", perr.MessageOf(err))
	}
	if len(entries) == 0 {
		return "", perr.Upstreamf("Failed to pin data: no entries added")
	}

	last := entries[len(entries)-1].Hash
	c, err := cid.Decode(last)
	if err != nil {
		log.Error().Err(err).Str("cid", last).Msg("unparsable cid from storage")
		return "", perr.Wrapf(err, perr.ErrorCodeUpstream, "Failed to pin data: invalid cid %q", last)
	}

	ev := log.Info().
		Str("cid", c.String()).
		Uint64("cid_version", c.Version()).
		Uint64("codec", c.Type()).
		Dur("dur_probe", durProbe).
		Dur("dur_add", durAdd).
		Int("items", len(entries))
	if mh, err := multihash.Decode(c.Hash()); err == nil {
		ev = ev.Str("mh", mh.Name)
	}
	ev.Msg("pinned")

	return last, nil
}

// resolve maps a request path onto root and rejects anything that escapes it
func (p *Pinner) resolve(path string) (string, error) {
	full := filepath.Join(p.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(p.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", perr.WithField(perr.Inputf("Invalid path"), "path")
	}
	return full, nil
}
