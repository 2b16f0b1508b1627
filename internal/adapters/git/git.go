// Package git drives the git binary against one working tree
package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	perr "archiver/internal/platform/errors"
	"archiver/internal/platform/logger"
)

// Options configures a Repo
type Options struct {
	// Dir is the working tree, created on Init
	Dir string
	// Bin is the git executable, "git" when empty
	Bin string
	// Remote names an explicit push target; empty pushes to the branch's upstream
	Remote string

	// AuthorName and AuthorEmail override the commit identity when set
	AuthorName  string
	AuthorEmail string
}

// Repo runs git commands in Options.Dir
// it holds no lock; callers serialize mutating sequences
type Repo struct {
	opts Options
	log  logger.Logger
}

// New returns a Repo with defaults filled in
func New(o Options) *Repo {
	if o.Bin == "" {
		o.Bin = "git"
	}
	if o.Dir == "" {
		o.Dir = "data"
	}
	return &Repo{opts: o, log: *logger.Named("git")}
}

// Dir returns the working tree path
func (r *Repo) Dir() string { return r.opts.Dir }

// Init creates the working tree directory and runs git init, safe to repeat
func (r *Repo) Init(ctx context.Context) error {
	if err := os.MkdirAll(r.opts.Dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeVersionControl, "create %s", r.opts.Dir)
	}
	_, err := r.run(ctx, "init")
	return err
}

// AddAll stages every change in the tree
func (r *Repo) AddAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", "--all")
	return err
}

// Commit records the index with message
func (r *Repo) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "commit", "-m", message)
	return err
}

// HeadRevision returns the full hash of HEAD
func (r *Repo) HeadRevision(ctx context.Context) (string, error) {
	return r.run(ctx, "rev-parse", "HEAD")
}

// Push pushes the current branch to its configured upstream
// with Options.Remote set, HEAD goes to the same name on that remote instead
func (r *Repo) Push(ctx context.Context) error {
	_, err := r.run(ctx, r.pushArgs()...)
	return err
}

func (r *Repo) pushArgs() []string {
	if r.opts.Remote == "" {
		return []string{"push"}
	}
	return []string{"push", r.opts.Remote, "HEAD"}
}

// run executes git with identity overrides and returns trimmed stdout
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	full := r.globalArgs()
	full = append(full, args...)

	//nolint:gosec // G204: args are fixed verbs plus operator supplied values
	cmd := exec.CommandContext(ctx, r.opts.Bin, full...)
	cmd.Dir = r.opts.Dir
	// never block on a credential prompt
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		text := strings.TrimSpace(stderr.String())
		// commit reports "nothing to commit" on stdout
		if text == "" {
			text = strings.TrimSpace(stdout.String())
		}
		var ee *exec.Error
		if text == "" || errors.As(err, &ee) {
			text = "git " + args[0] + ": " + err.Error()
		}
		r.log.Debug().
			Strs("args", args).
			Dur("elapsed", elapsed).
			Str("text", text).
			Msg("git failed")
		// the message is git's own text, the exec error stays as cause
		return "", perr.Wrap(err, perr.ErrorCodeVersionControl, text)
	}
	r.log.Debug().Strs("args", args).Dur("elapsed", elapsed).Msg("git ok")
	return strings.TrimSpace(stdout.String()), nil
}

func (r *Repo) globalArgs() []string {
	out := []string{"-c", "commit.gpgsign=false"}
	if r.opts.AuthorName != "" {
		out = append(out, "-c", "user.name="+r.opts.AuthorName)
	}
	if r.opts.AuthorEmail != "" {
		out = append(out, "-c", "user.email="+r.opts.AuthorEmail)
	}
	return out
}
