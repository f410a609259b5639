package handlers

import (
	"context"
	"os"
	"time"

	"github.com/osctl-io/osctl/internal/cloud"
	"github.com/osctl-io/osctl/internal/reconcile"
)

// FloatingIPParams carries the flag values of the floating-ip command.
type FloatingIPParams struct {
	Cloud     string
	Address   string
	Network   string
	Project   string
	State     string
	Wait      bool
	Timeout   time.Duration
	CheckMode bool
	JSON      bool
}

// FloatingIP reconciles a floating IP against the desired state and prints
// the result.
//
// In check mode no cloud session is established at all; the reconciler
// echoes the inputs with changed=false.
func FloatingIP(ctx context.Context, params FloatingIPParams) error {
	state, err := reconcile.ParseState(params.State)
	if err != nil {
		return err
	}

	spec := reconcile.FloatingIPSpec{
		Address:   params.Address,
		Network:   params.Network,
		Project:   params.Project,
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

	result, err := reconcile.FloatingIP(ctx, client, spec)
	if err != nil {
		return err
	}

	return renderFloatingIP(os.Stdout, result, params.JSON)
}
