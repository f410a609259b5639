// Package commands defines the CLI command tree.
//
// Commands here only parse arguments and bind flags; execution is delegated
// to functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the osctl CLI.
//
// The root command serves as the entry point and parent for all subcommands.
// It provides basic CLI metadata and organizes the command hierarchy.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "osctl",
		Short: "Reconcile OpenStack floating IPs and disk images",
	}

	// Reconciliation commands
	cmd.AddCommand(FloatingIP())
	cmd.AddCommand(Image())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
