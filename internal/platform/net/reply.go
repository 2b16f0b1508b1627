package net

import (
	"net/http"

	perr "archiver/internal/platform/errors"
)

// ErrorWire is the body of every error response
// error is always non-empty so clients can rely on it alone
type ErrorWire struct {
	Error     string         `json:"error"`
	Code      perr.ErrorCode `json:"code"`
	Field     string         `json:"field,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// Error builds an error body and its status
func Error(err error, reqID string) (int, ErrorWire) {
	if err == nil {
		err = perr.Internalf("unknown error")
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	msg := w.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	return status, ErrorWire{
		Error:     msg,
		Code:      w.Code,
		Field:     w.Field,
		RequestID: reqID,
	}
}
