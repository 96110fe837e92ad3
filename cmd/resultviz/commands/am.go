package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/resultviz/am"
	"github.com/teranos/resultviz/display"
	"github.com/teranos/resultviz/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Show and validate resultviz configuration",
	Long: `am — Show and validate resultviz configuration

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (RESULTVIZ_* prefix, e.g. RESULTVIZ_LAYOUT_CHARGE)
3. Project config (./resultviz.toml, searched upwards)
4. User config (~/.resultviz/resultviz.toml)
5. System config (/etc/resultviz/resultviz.toml)
6. Default values

Examples:
  resultviz am show                    # Show current configuration
  resultviz am show --format json      # Show configuration in JSON format
  resultviz am get layout.charge       # Get specific config value
  resultviz am validate                # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective configuration merged from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a configuration value using dot notation (e.g., layout.charge, server.port)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

func init() {
	amShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")
	amShowCmd.Flags().Bool("sources", false, "List every setting with its source")
	amGetCmd.Flags().Bool("source", false, "Also print where the value came from")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	format, err := display.OutputFormat(cmd)
	if err != nil {
		return err
	}
	if format == display.FormatText {
		format = display.FormatTOML
	}

	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return err
	}

	if withSources, _ := cmd.Flags().GetBool("sources"); withSources {
		return display.Output(cmd.OutOrStdout(), intro, format)
	}

	if format != display.FormatJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "# resultviz configuration")
	}
	return display.Output(cmd.OutOrStdout(), nest(intro.Settings), format)
}

// nest rebuilds the section tree from flattened settings, keeping the
// masking applied by introspection.
func nest(settings []am.SettingInfo) map[string]interface{} {
	root := make(map[string]interface{})
	for _, s := range settings {
		m := root
		parts := strings.Split(s.Key, ".")
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]interface{})
			if !ok {
				next = make(map[string]interface{})
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = s.Value
	}
	return root
}

func runAmGet(cmd *cobra.Command, args []string) error {
	info, err := am.Lookup(args[0])
	if err != nil {
		return errors.Wrap(err, "configuration key not found")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, info.Value)
	if withSource, _ := cmd.Flags().GetBool("source"); withSource {
		fmt.Fprintf(out, "source: %s %s\n", info.Source, info.SourcePath)
	}
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")

	files := []struct {
		source am.ConfigSource
		path   string
	}{
		{am.SourceSystem, "/etc/resultviz/" + am.ConfigFileName},
		{am.SourceUser, am.UserConfigPath()},
		{am.SourceProject, am.FindProjectConfig()},
	}
	fmt.Fprintf(out, "  [%s]  built-in defaults\n", am.SourceDefault)
	for _, f := range files {
		status := "missing"
		if f.path == "" {
			f.path = "./" + am.ConfigFileName
		} else if _, err := os.Stat(f.path); err == nil {
			status = "found"
		}
		fmt.Fprintf(out, "  [%s]  %s (%s)\n", f.source, f.path, status)
	}
	fmt.Fprintf(out, "  [%s]  %s_* variables\n\n", am.SourceEnvironment, am.EnvPrefix)

	summary := am.GetConfigSummary()
	if sources, ok := summary["sources"].(map[string]int); ok {
		for _, s := range []am.ConfigSource{am.SourceDefault, am.SourceSystem, am.SourceUser, am.SourceProject, am.SourceEnvironment} {
			if n := sources[string(s)]; n > 0 {
				fmt.Fprintf(out, "%s: %d settings\n", s, n)
			}
		}
	}
	return nil
}
