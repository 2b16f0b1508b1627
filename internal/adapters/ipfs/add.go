package ipfs

import (
	"context"
	"io"
	"io/fs"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	perr "archiver/internal/platform/errors"
)

// Add uploads the file or tree at root and returns the add stream in daemon order
// with recursive set, directories are walked and only entries matching pattern are sent
// the daemon emits the root directory last
func (c *Client) Add(ctx context.Context, root string, recursive, pin bool, pattern string) ([]AddResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "ipfs add: %v", err)
	}
	if info.IsDir() && !recursive {
		return nil, perr.Newf(perr.ErrorCodeUpstream, "ipfs add: %s is a directory, use recursive", root)
	}
	m, err := compilePattern(pattern)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "ipfs add: bad pattern %q", pattern)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		werr := writeTree(mw, root, info, m)
		if werr == nil {
			werr = mw.Close()
		}
		_ = pw.CloseWithError(werr)
	}()

	q := url.Values{}
	q.Set("pin", strconv.FormatBool(pin))
	q.Set("progress", "false")
	q.Set("stream-channels", "true")

	start := time.Now()
	resp, err := c.post(ctx, "/api/v0/add", q, mw.FormDataContentType(), pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, err
	}
	out, err := decodeAddStream(resp)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("root", root).
		Int("items", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("ipfs add done")
	return out, nil
}

// writeTree streams root as multipart parts named relative to root's parent
func writeTree(mw *multipart.Writer, root string, info fs.FileInfo, m matcher) error {
	base := filepath.Base(root)
	if !info.IsDir() {
		return writeFile(mw, base, root)
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(filepath.Join(base, rel))
		if rel == "." {
			return writeDir(mw, base)
		}
		if d.IsDir() {
			if !m.enter(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
			return writeDir(mw, name)
		}
		if !d.Type().IsRegular() || !m.match(filepath.ToSlash(rel)) {
			return nil
		}
		return writeFile(mw, name, p)
	})
}

func partHeader(name, contentType string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+url.QueryEscape(name)+`"`)
	h.Set("Content-Type", contentType)
	return h
}

func writeDir(mw *multipart.Writer, name string) error {
	_, err := mw.CreatePart(partHeader(name, "application/x-directory"))
	return err
}

func writeFile(mw *multipart.Writer, name, p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	w, err := mw.CreatePart(partHeader(name, "application/octet-stream"))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
