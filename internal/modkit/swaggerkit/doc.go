package swaggerkit

import (
	"encoding/json"
	"net/http"

	"archiver/internal/core/version"
)

// op describes one operation in the served document
type op struct {
	method, path, summary, tag string
	body                       string // request schema, empty for none
	result                     string // response schema
	badRequest                 bool
}

var ops = []op{
	{"get", "/ready", "Wallet address present and IPFS live", "Archiver", "", "ReadyResult", false},
	{"get", "/pin/{path}", "Pin a folder recursively and return its cid", "Archiver", "", "PinResult", true},
	{"post", "/commit", "Commit the snapshot working tree", "Archiver", "CommitInput", "CommitResult", true},
	{"get", "/push", "Push the snapshot repository to its remote", "Archiver", "", "PushResult", false},
	{"post", "/register", "Register an external id with a cid", "Archiver", "RecordInput", "NotarizationResult", true},
	{"post", "/notarize", "Notarize an external id with a cid", "Archiver", "RecordInput", "NotarizationResult", true},
	{"post", "/certify", "Certificate for a transaction, passed through as issued", "Archiver", "CertifyInput", "Certificate", true},
	{"get", "/walletinfo", "Wallet, fee, balances and remaining notarizations", "Archiver", "", "WalletSnapshot", false},
	{"get", "/meta/health", "Liveness of the API process itself", "Meta", "", "HealthResponse", false},
	{"get", "/meta/version", "Build and version info", "Meta", "", "BuildInfo", false},
	{"get", "/meta/service", "Service info and uptime", "Meta", "", "ServiceResponse", false},
}

func str(example string) map[string]any {
	return map[string]any{"type": "string", "example": example}
}

func object(required []string, props map[string]any) map[string]any {
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// schemas mirror the json tags of the archiver and meta DTOs
func schemas() map[string]any {
	return map[string]any{
		"ReadyResult": object(nil, map[string]any{"ready": map[string]any{"type": "boolean"}}),
		"PinResult":   object(nil, map[string]any{"path": str("datasets/ds1"), "cid": str("QmUNLLsPACCz1vLxQVkXqqLX5R1X345qqfHbsf67hvA3Nn")}),
		"CommitInput": object([]string{"message"}, map[string]any{"message": str("initial import")}),
		"CommitResult": object(nil, map[string]any{
			"ok":      map[string]any{"type": "integer", "example": 1},
			"githash": str("3f786850e387550fdab836ed7e6dc881de23001b"),
		}),
		"PushResult":         object(nil, map[string]any{"ok": map[string]any{"type": "integer", "example": 1}}),
		"RecordInput":        object([]string{"xid", "cid"}, map[string]any{"xid": str("dataset-42"), "cid": str("QmUNLLsPACCz1vLxQVkXqqLX5R1X345qqfHbsf67hvA3Nn")}),
		"NotarizationResult": object(nil, map[string]any{"txid": str("9f2c0d6f4b6c8a")}),
		"CertifyInput":       object([]string{"txid"}, map[string]any{"txid": str("9f2c0d6f4b6c8a")}),
		"Certificate":        map[string]any{"type": "object", "additionalProperties": true},
		"WalletSnapshot": object(nil, map[string]any{
			"wallet":        map[string]any{"type": "object", "additionalProperties": true},
			"fee":           str("0.00002550"),
			"staked":        map[string]any{"type": "number"},
			"balance":       map[string]any{"type": "number"},
			"notarizations": map[string]any{"type": "integer", "format": "int64"},
			"address":       str("bc1qexample"),
		}),
		"HealthResponse": object(nil, map[string]any{
			"ok": map[string]any{"type": "boolean"}, "service": str("archiver-api"),
			"started": str("2026-10-19T13:00:00Z"), "now": str("2026-10-19T13:05:00Z"),
		}),
		"ServiceResponse": object(nil, map[string]any{
			"name": str("archiver-api"), "started": str("2026-10-19T13:00:00Z"),
			"uptime": map[string]any{"type": "integer", "format": "int64"},
		}),
		"BuildInfo": object(nil, map[string]any{
			"service": str("archiver-api"), "version": str("dev"), "commit": str("none"), "date": str("unknown"),
		}),
		"ErrorResponse": object([]string{"error"}, map[string]any{
			"error":      str("No xid provided"),
			"code":       map[string]any{"type": "integer", "format": "int32"},
			"field":      str("xid"),
			"request_id": str("579f33bf50b1/abc-000001"),
		}),
	}
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonContent(description, schema string) map[string]any {
	return map[string]any{
		"description": description,
		"content":     map[string]any{"application/json": map[string]any{"schema": ref(schema)}},
	}
}

// Spec builds the OpenAPI document served at /api/docs/doc.json
func Spec() map[string]any {
	paths := map[string]any{}
	for _, o := range ops {
		responses := map[string]any{
			"200": jsonContent("OK", o.result),
			"500": jsonContent("Internal Server Error", "ErrorResponse"),
		}
		if o.badRequest {
			responses["400"] = jsonContent("Bad Request", "ErrorResponse")
		}
		node := map[string]any{
			"summary":   o.summary,
			"tags":      []string{o.tag},
			"responses": responses,
		}
		if o.body != "" {
			node["requestBody"] = map[string]any{
				"required": true,
				"content":  map[string]any{"application/json": map[string]any{"schema": ref(o.body)}},
			}
		}
		if o.path == "/pin/{path}" {
			node["parameters"] = []any{map[string]any{
				"name": "path", "in": "path", "required": true,
				"description": "Folder below the pin root, may contain slashes",
				"schema":      map[string]any{"type": "string"},
			}}
		}
		item, _ := paths[o.path].(map[string]any)
		if item == nil {
			item = map[string]any{}
			paths[o.path] = item
		}
		item[o.method] = node
	}

	bi := version.Info()
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "Archiver API",
			"version":     bi.Version,
			"description": "Pin datasets to IPFS, snapshot them in git and notarize them",
		},
		"servers":    []any{map[string]any{"url": "/api/v1"}},
		"paths":      paths,
		"components": map[string]any{"schemas": schemas()},
	}
}

// serveDocJSON serves the document built by Spec
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(Spec())
	}
}
