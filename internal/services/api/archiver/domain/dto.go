// Package domain holds DTOs and ports for the archiver http and service contracts
package domain

import (
	"encoding/json"
)

// ReadyResult reports whether every dependency is usable
type ReadyResult struct {
	Ready bool `json:"ready" example:"true"`
}

// PinResult links a pinned path to its content identifier
type PinResult struct {
	Path string `json:"path" example:"datasets/ds1"`
	CID  string `json:"cid"  example:"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"`
}

// CommitInput is the body of a commit request
type CommitInput struct {
	Message string `json:"message" validate:"notblank" example:"initial import"`
}

// CommitResult carries the full revision of the new head
type CommitResult struct {
	OK      int    `json:"ok"      example:"1"`
	GitHash string `json:"githash" example:"3f786850e387550fdab836ed7e6dc881de23001b"`
}

// PushResult acknowledges a push
type PushResult struct {
	OK int `json:"ok" example:"1"`
}

// RecordInput links an external id to a content identifier
type RecordInput struct {
	XID string `json:"xid" validate:"notblank" example:"dataset-42"`
	CID string `json:"cid" validate:"notblank" example:"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"`
}

// NotarizationResult is the transaction issued for a record
type NotarizationResult struct {
	TxID string `json:"txid" example:"9f2c0d6f4b6c8a..."`
}

// CertifyInput selects the transaction to certify
type CertifyInput struct {
	TxID string `json:"txid" validate:"notblank" example:"9f2c0d6f4b6c8a..."`
}

// WalletSnapshot is computed on every request and never cached
// staked and balance are rendered as JSON numbers, fee as a fixed 8 decimal string
type WalletSnapshot struct {
	Wallet        json.RawMessage `json:"wallet"        swaggertype:"object"`
	Fee           string          `json:"fee"           example:"0.00002550"`
	Staked        json.Number     `json:"staked"        example:"1.5"`
	Balance       json.Number     `json:"balance"       example:"0.0042"`
	Notarizations int64           `json:"notarizations" example:"164"`
	Address       string          `json:"address"       example:"bc1qexample"`
}
