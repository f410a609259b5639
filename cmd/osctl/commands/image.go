package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/osctl-io/osctl/cmd/osctl/handlers"
)

// Image returns the command for importing or deleting disk images.
//
// With --state present (the default) the image located by --uri is imported
// into the image repository unless an image with the same identity (ID, or
// name) exists. Remote URLs are downloaded into a temporary directory first;
// name and disk format are inferred from the URI when not given. With
// --state absent the image is deleted if it exists.
//
// Flags:
//
//	--cloud: clouds.yaml entry to authenticate with (default: $OS_CLOUD)
//	--uri: image location, a URL or a local path; required for --state present
//	--id: image ID
//	--name: image name (default: inferred from the URI)
//	--format: disk format, e.g. qcow2 or raw (default: inferred from the name)
//	--checksum: expected content digest as <algorithm>:<hexdigest>
//	--state: present or absent (default: present)
//	--wait: block until the image reaches a steady state
//	--timeout: how long mutating calls may block (default: 3m)
//	--check: report the intended effect without contacting the cloud
//	--json: print the result as JSON
func Image() *cobra.Command {
	var params handlers.ImageParams

	cmd := &cobra.Command{
		Use:   "image",
		Short: "Import or delete a disk image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Image(cmd.Context(), params)
		},
	}

	cmd.Flags().StringVar(&params.Cloud, "cloud", "", "Named clouds.yaml entry to authenticate with")
	cmd.Flags().StringVar(&params.URI, "uri", "", "Image location: a URL or a local path")
	cmd.Flags().StringVar(&params.ID, "id", "", "Image ID")
	cmd.Flags().StringVar(&params.Name, "name", "", "Image name, inferred from the URI when empty")
	cmd.Flags().StringVar(&params.Format, "format", "", "Disk format (e.g. qcow2, raw), inferred from the name when empty")
	cmd.Flags().StringVar(&params.Checksum, "checksum", "", "Expected content digest as <algorithm>:<hexdigest>")
	cmd.Flags().StringVar(&params.State, "state", "present", "Desired state (present or absent)")
	cmd.Flags().BoolVar(&params.Wait, "wait", false, "Wait for the operation to reach a steady state")
	cmd.Flags().DurationVar(&params.Timeout, "timeout", 3*time.Minute, "Timeout for mutating operations")
	cmd.Flags().BoolVar(&params.CheckMode, "check", false, "Check mode: report intended effects without contacting the cloud")
	cmd.Flags().BoolVar(&params.JSON, "json", false, "Print the result as JSON")

	return cmd
}
