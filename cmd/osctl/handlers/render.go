package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/c2h5oh/datasize"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/osctl-io/osctl/internal/reconcile"
)

var (
	changedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// styled applies the style only when stdout is a terminal, so piped output
// stays machine-friendly.
func styled(style lipgloss.Style, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return style.Render(s)
}

func changedLabel(changed bool) string {
	if changed {
		return styled(changedStyle, "changed")
	}
	return styled(unchangedStyle, "unchanged")
}

func printField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %s %s\n", styled(labelStyle, label+":"), value)
}

// renderFloatingIP prints a floating IP reconciliation result.
func renderFloatingIP(w io.Writer, result *reconcile.FloatingIPResult, asJSON bool) error {
	if asJSON {
		return renderJSON(w, result)
	}

	fmt.Fprintf(w, "floating-ip %s (%s)\n", result.State, changedLabel(result.Changed))
	printField(w, "address", result.Address)
	printField(w, "network", result.NetworkName)
	printField(w, "network id", result.NetworkID)
	printField(w, "project", result.ProjectName)
	printField(w, "project id", result.ProjectID)
	return nil
}

// renderImage prints an image reconciliation result.
func renderImage(w io.Writer, result *reconcile.ImageResult, asJSON bool) error {
	if asJSON {
		return renderJSON(w, result)
	}

	fmt.Fprintf(w, "image %s (%s)\n", result.State, changedLabel(result.Changed))
	printField(w, "id", result.ID)
	printField(w, "name", result.Name)
	if result.SizeBytes > 0 {
		printField(w, "size", datasize.ByteSize(result.SizeBytes).HumanReadable())
	}
	printField(w, "format", result.Format)
	printField(w, "checksum", result.Checksum)
	return nil
}

func renderJSON(w io.Writer, result any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
