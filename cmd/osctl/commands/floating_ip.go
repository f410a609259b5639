package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/osctl-io/osctl/cmd/osctl/handlers"
)

// FloatingIP returns the command for allocating or releasing floating IPs.
//
// With --state present (the default) a floating IP is allocated on the
// external network unless one matching the given scope already exists. With
// --state absent the named address is released if it exists. Both directions
// are idempotent.
//
// Flags:
//
//	--cloud: clouds.yaml entry to authenticate with (default: $OS_CLOUD)
//	--address: floating IP address; required for --state absent
//	--network: name or ID of the external network (required)
//	--project: name or ID of the project (default: the session's project)
//	--state: present or absent (default: present)
//	--wait: block until the address reaches a steady state
//	--timeout: how long mutating calls may block (default: 3m)
//	--check: report the intended effect without contacting the cloud
//	--json: print the result as JSON
func FloatingIP() *cobra.Command {
	var params handlers.FloatingIPParams

	cmd := &cobra.Command{
		Use:   "floating-ip",
		Short: "Allocate or release a floating IP on an external network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.FloatingIP(cmd.Context(), params)
		},
	}

	cmd.Flags().StringVar(&params.Cloud, "cloud", "", "Named clouds.yaml entry to authenticate with")
	cmd.Flags().StringVar(&params.Address, "address", "", "Floating IP address to allocate or release")
	cmd.Flags().StringVar(&params.Network, "network", "", "Name or ID of the external network")
	cmd.Flags().StringVar(&params.Project, "project", "", "Name or ID of the project, defaulting to the current project")
	cmd.Flags().StringVar(&params.State, "state", "present", "Desired state (present or absent)")
	cmd.Flags().BoolVar(&params.Wait, "wait", false, "Wait for the operation to reach a steady state")
	cmd.Flags().DurationVar(&params.Timeout, "timeout", 3*time.Minute, "Timeout for mutating operations")
	cmd.Flags().BoolVar(&params.CheckMode, "check", false, "Check mode: report intended effects without contacting the cloud")
	cmd.Flags().BoolVar(&params.JSON, "json", false, "Print the result as JSON")

	_ = cmd.MarkFlagRequired("network")

	return cmd
}
