// Package handlers implements the execution logic behind the CLI commands:
// it builds the cloud client, invokes the reconcilers and renders their
// results.
package handlers

import (
	"context"

	"github.com/osctl-io/osctl/internal/cloud"
)

// Factory function variables - can be replaced in tests.
var (
	// newCloudClient authenticates against the cloud named in the params.
	newCloudClient = func(ctx context.Context, cloudName string) (cloud.Client, error) {
		return cloud.Connect(ctx, cloudName)
	}
)
