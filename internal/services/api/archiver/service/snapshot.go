package service

import (
	"context"
	"sync"
	"time"

	perr "archiver/internal/platform/errors"
	"archiver/internal/platform/logger"
	pstrings "archiver/internal/platform/strings"
	"archiver/internal/services/api/archiver/domain"

	"golang.org/x/text/unicode/norm"
)

// Snapshot owns the version controlled working tree
// every mutation runs under mu so commit and push never overlap
type Snapshot struct {
	mu  sync.Mutex
	vcs domain.VersionControl
}

// NewSnapshot wraps vcs
func NewSnapshot(vcs domain.VersionControl) *Snapshot {
	if vcs == nil {
		panic("archiver.Snapshot requires a non nil VersionControl")
	}
	return &Snapshot{vcs: vcs}
}

// Init ensures the working tree exists; callers log and carry on when it fails
func (s *Snapshot) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.vcs.Init(ctx); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeVersionControl, "Failed to init repository: %s", perr.MessageOf(err))
	}
	return nil
}

// CommitAll stages everything, commits with message and returns the new head revision
func (s *Snapshot) CommitAll(ctx context.Context, message string) (string, error) {
	if pstrings.Blank(message) {
		return "", perr.WithField(perr.Inputf("No message provided"), "message")
	}
	log := logger.C(ctx).With().Str("op", "commit").Str("message", norm.NFC.String(message)).Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	fail := func(err error) (string, error) {
		log.Error().Err(err).Dur("dur", time.Since(start)).Msg("Failed to commit changes")
		return "", perr.Wrapf(err, perr.ErrorCodeVersionControl, "Failed to commit changes: %s", perr.MessageOf(err))
	}
	if err := s.vcs.AddAll(ctx); err != nil {
		return fail(err)
	}
	if err := s.vcs.Commit(ctx, message); err != nil {
		return fail(err)
	}
	head, err := s.vcs.HeadRevision(ctx)
	if err != nil {
		return fail(err)
	}

	log.Info().Str("githash", head).Dur("dur", time.Since(start)).Msg("git commit successful")
	return head, nil
}

// Push sends the current branch to its remote
func (s *Snapshot) Push(ctx context.Context) error {
	log := logger.C(ctx).With().Str("op", "push").Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := s.vcs.Push(ctx); err != nil {
		log.Error().Err(err).Dur("dur", time.Since(start)).Msg("Failed to push changes")
		return perr.Wrapf(err, perr.ErrorCodeVersionControl, "Failed to push changes: %s", perr.MessageOf(err))
	}
	log.Info().Dur("dur", time.Since(start)).Msg("git push successful")
	return nil
}
