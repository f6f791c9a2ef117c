package commands

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/standoff/am"
	"github.com/teranos/standoff/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage standoff configuration",
	Long: `am: Manage standoff configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (STANDOFF_* prefix)
3. Project config (./am.toml, searched up the directory tree)
4. User config (~/.standoff/am.toml)
5. Default values

Examples:
  standoff am show                    # Show current configuration
  standoff am show --format json      # Show configuration in JSON format
  standoff am init                    # Write ./am.toml with defaults
  standoff am validate                # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current standoff configuration from all sources",
	RunE:  runAmShow,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default values",
	Long: `Write a configuration file with default values to path (default ./am.toml).

An existing file is only replaced with --force; the previous contents are kept
as rotating .back1 to .back3 backups.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmInit,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show which configuration files are loaded",
	RunE:  runAmWhere,
}

var (
	configFormat string
	amInitForce  bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amInitCmd.Flags().BoolVar(&amInitForce, "force", false, "Replace an existing file")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amInitCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var data []byte
	switch configFormat {
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal config to %s", configFormat)
	}

	if configFormat != "json" {
		cmd.OutOrStdout().Write([]byte("# standoff configuration\n"))
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.ConfigFileName
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !amInitForce {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"pass --force to replace it; the old file is kept as a backup",
		)
	}

	if err := am.WriteFile(am.DefaultConfig(), path); err != nil {
		return err
	}
	abs, _ := filepath.Abs(path)
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", abs)
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	pterm.Fprintln(w, "Configuration cascade (later overrides earlier):")
	pterm.Fprintln(w, "  1. [DEFAULT]  Built-in defaults")
	pterm.Fprintln(w, "  2. [USER]     ~/.standoff/am.toml")
	pterm.Fprintln(w, "  3. [PROJECT]  ./am.toml (searches up directories)")
	pterm.Fprintln(w, "  4. [ENV]      STANDOFF_* environment variables")
	pterm.Fprintln(w)

	if ConfigFile != "" {
		pterm.Fprintln(w, pterm.Sprintf("Using only %s (--config)", ConfigFile))
		return nil
	}

	paths := am.ConfigPaths()
	if len(paths) == 0 {
		pterm.Fprintln(w, "No configuration files found; defaults and environment only")
		return nil
	}
	pterm.Fprintln(w, "Loaded files:")
	for _, p := range paths {
		pterm.Fprintln(w, "  "+p)
	}
	return nil
}
