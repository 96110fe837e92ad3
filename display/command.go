package display

import (
	"github.com/spf13/cobra"
)

// OutputFormat resolves the --format flag (local or persistent) of cmd,
// with --json forcing JSON. Commands without either flag print text.
func OutputFormat(cmd *cobra.Command) (Format, error) {
	if cmd == nil {
		return FormatText, nil
	}

	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		if on, _ := cmd.Flags().GetBool("json"); on {
			return FormatJSON, nil
		}
	}

	if f := cmd.Flags().Lookup("format"); f != nil {
		return ParseFormat(f.Value.String())
	}
	return FormatText, nil
}

// ShouldOutputJSON reports whether cmd should emit machine-readable JSON.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	format, err := OutputFormat(cmd)
	return err == nil && format == FormatJSON
}
