// Package ipfs is a minimal Kubo RPC client covering liveness and recursive pinned adds
package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "archiver/internal/platform/errors"
	"archiver/internal/platform/logger"
)

const (
	baseURLDefault      = "http://127.0.0.1:5001"
	probeTimeoutDefault = 2 * time.Second
	defaultUA           = "archiver-api"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string

	// ProbeTimeout bounds the liveness probe only
	ProbeTimeout time.Duration

	// Timeout bounds every other call, 0 means none
	Timeout time.Duration
}

// AddResult is one line of the add stream
type AddResult struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size,omitempty"`
}

// Client talks to a Kubo daemon over its RPC API
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client with defaults filled in
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = probeTimeoutDefault
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("ipfs"),
	}
}

// rpcError is the body Kubo sends with non-200 replies
type rpcError struct {
	Message string `json:"Message"`
	Code    int    `json:"Code"`
	Type    string `json:"Type"`
}

// IsLive reports whether the daemon answers /api/v0/id within ProbeTimeout
func (c *Client) IsLive(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ProbeTimeout)
	defer cancel()

	resp, err := c.post(ctx, "/api/v0/id", nil, "", nil)
	if err != nil {
		c.log.Debug().Err(err).Msg("ipfs probe failed")
		return false
	}
	_ = drainAndClose(resp.Body)
	return true
}

// post issues an RPC call; Kubo accepts POST only
func (c *Client) post(ctx context.Context, path string, query url.Values, contentType string, body io.Reader) (*http.Response, error) {
	target := c.opts.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "ipfs new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "ipfs %s", path)
	}
	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("ipfs rpc response")

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var re rpcError
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &re) == nil && re.Message != "" {
			msg = re.Message
		}
		return nil, perr.Newf(perr.ErrorCodeUpstream, "ipfs %s: status %d: %s", path, resp.StatusCode, msg)
	}
	return resp, nil
}

// decodeAddStream reads the NDJSON result lines and any trailing stream error
func decodeAddStream(resp *http.Response) ([]AddResult, error) {
	defer func() { _ = resp.Body.Close() }()

	var out []AddResult
	dec := json.NewDecoder(resp.Body)
	for {
		var line struct {
			AddResult
			Message string `json:"Message"`
			Type    string `json:"Type"`
		}
		err := dec.Decode(&line)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "ipfs add: bad response")
		}
		if line.Type == "error" {
			return nil, perr.Newf(perr.ErrorCodeUpstream, "ipfs add: %s", line.Message)
		}
		// progress lines carry no hash
		if line.Hash == "" {
			continue
		}
		out = append(out, line.AddResult)
	}
	if msg := resp.Trailer.Get("X-Stream-Error"); msg != "" {
		return nil, perr.Newf(perr.ErrorCodeUpstream, "ipfs add: %s", msg)
	}
	return out, nil
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// String is for logs
func (c *Client) String() string { return fmt.Sprintf("ipfs(%s)", c.opts.BaseURL) }
