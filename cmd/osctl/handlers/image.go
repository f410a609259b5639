package handlers

import (
	"context"
	"os"
	"time"

	"github.com/osctl-io/osctl/internal/cloud"
	"github.com/osctl-io/osctl/internal/reconcile"
)

// ImageParams carries the flag values of the image command.
type ImageParams struct {
	Cloud     string
	URI       string
	ID        string
	Name      string
	Format    string
	Checksum  string
	State     string
	Wait      bool
	Timeout   time.Duration
	CheckMode bool
	JSON      bool
}

// Image reconciles a disk image against the desired state and prints the
// result.
//
// In check mode no cloud session is established at all; the reconciler
// echoes the inputs with changed=false.
func Image(ctx context.Context, params ImageParams) error {
	state, err := reconcile.ParseState(params.State)
	if err != nil {
		return err
	}

	spec := reconcile.ImageSpec{
		ID:        params.ID,
		Name:      params.Name,
		Format:    params.Format,
		Checksum:  params.Checksum,
		URI:       params.URI,
		State:     state,
		Wait:      params.Wait,
		Timeout:   params.Timeout,
		CheckMode: params.CheckMode,
	}

	var client cloud.Client
	if !params.CheckMode {
		client, err = newCloudClient(ctx, params.Cloud)
		if err != nil {
			return err
		}
	}

	result, err := reconcile.Image(ctx, client, spec)
	if err != nil {
		return err
	}

	return renderImage(os.Stdout, result, params.JSON)
}
