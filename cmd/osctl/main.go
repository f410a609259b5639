// Package main is the entry point for the osctl CLI.
//
// osctl reconciles OpenStack floating IPs and disk images against a declared
// desired state (present or absent). Each operation is idempotent: it
// inspects the current cloud inventory, performs the minimal safe action,
// and reports the normalized result together with a changed flag, making it
// safe to call repeatedly from automation pipelines.
//
// Commands: floating-ip, image.
//
// For detailed usage information, run:
//
//	osctl --help
package main

import (
	"fmt"
	"os"

	"github.com/osctl-io/osctl/cmd/osctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
