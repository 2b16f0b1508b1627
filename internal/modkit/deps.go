// Package modkit provides module wiring and core deps
package modkit

import (
	"archiver/internal/adapters/git"
	"archiver/internal/adapters/ipfs"
	"archiver/internal/adapters/notary"
	"archiver/internal/platform/config"
	"archiver/internal/platform/logger"
)

// Deps holds the process-wide clients passed to modules
// they are built once in main, never per request
type Deps struct {
	Log    logger.Logger
	Cfg    config.Conf
	IPFS   *ipfs.Client
	Git    *git.Repo
	Notary *notary.Client
}

// Missing names the clients that are nil so bootstrap can fail loudly
func (d Deps) Missing() []string {
	var out []string
	if d.IPFS == nil {
		out = append(out, "ipfs")
	}
	if d.Git == nil {
		out = append(out, "git")
	}
	if d.Notary == nil {
		out = append(out, "notary")
	}
	return out
}
