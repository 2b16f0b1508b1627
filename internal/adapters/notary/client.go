// Package notary is an HTTP JSON client for the notarization and wallet service
package notary

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	perr "archiver/internal/platform/errors"
	"archiver/internal/platform/logger"
	pnet "archiver/internal/platform/net"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	baseURLDefault = "http://127.0.0.1:5117"
	defaultUA      = "archiver-api"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds each call, 0 means none
	Timeout time.Duration
}

// Balances are the wallet amounts reported by a refresh
type Balances struct {
	Staked  decimal.Decimal `json:"staked"`
	Balance decimal.Decimal `json:"balance"`
}

// Client calls the notarization service
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
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("notary"),
	}
}

// Address returns the wallet address, empty when the wallet has none yet
func (c *Client) Address(ctx context.Context) (string, error) {
	var out struct {
		Address string `json:"address"`
	}
	if err := c.do(ctx, http.MethodGet, "/address", nil, &out); err != nil {
		return "", err
	}
	return out.Address, nil
}

// RefreshWallet asks the service to resync and returns the fresh balances
func (c *Client) RefreshWallet(ctx context.Context) (Balances, error) {
	var out Balances
	err := c.do(ctx, http.MethodPost, "/wallet/refresh", nil, &out)
	return out, err
}

// WalletInfo returns the wallet description as the service renders it
func (c *Client) WalletInfo(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/wallet", nil, &out)
	return out, err
}

// Fee returns the base fee for the given confirmation target
func (c *Client) Fee(ctx context.Context, confirmations int) (decimal.Decimal, error) {
	var out struct {
		Fee decimal.Decimal `json:"fee"`
	}
	q := url.Values{"confirmations": {strconv.Itoa(confirmations)}}
	err := c.do(ctx, http.MethodGet, "/fee?"+q.Encode(), nil, &out)
	return out.Fee, err
}

// Notarize submits one (xid, cid) record; register marks a first registration
func (c *Client) Notarize(ctx context.Context, xid, cid string, register bool) (string, error) {
	in := struct {
		XID      string `json:"xid"`
		CID      string `json:"cid"`
		Register bool   `json:"register"`
	}{xid, cid, register}
	var out struct {
		TxID string `json:"txid"`
	}
	if err := c.do(ctx, http.MethodPost, "/notarize", in, &out); err != nil {
		return "", err
	}
	if out.TxID == "" {
		return "", perr.Upstreamf("notary /notarize: empty txid")
	}
	return out.TxID, nil
}

// Certify returns the certificate for txid untouched
func (c *Client) Certify(ctx context.Context, txid string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, "/certify/"+url.PathEscape(txid), nil, &out)
	return out, err
}

// do sends one JSON request and decodes a 2xx reply into out
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "notary encode %s", path)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, body)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "notary new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", requestID(ctx))

	start := time.Now()
	resp, err := c.http.Do(req)
	lat := time.Since(start)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "notary %s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("notary http response")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "notary %s: read body: %v", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return perr.Newf(perr.ErrorCodeUpstream, "notary %s: status %d: %s", path, resp.StatusCode, errorText(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "notary %s: bad response: %v", path, err)
	}
	return nil
}

// errorText prefers an "error" or "message" field over the raw body
func errorText(raw []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorText {
		s = s[:maxErrorText]
		// back off to a rune boundary
		for len(s) > 0 && !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return s
}

// maxErrorText caps how much of a non-JSON error body is echoed
const maxErrorText = 512

// requestID forwards the inbound id so both logs line up
func requestID(ctx context.Context) string {
	if id := pnet.RequestID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
