package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/standoff/cmd/standoff/commands"
	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/logger"
)

var rootCmd = &cobra.Command{
	Use:   "standoff",
	Short: "standoff - stand-off annotations to RDF",
	Long: `standoff - convert stand-off text annotations to RDF Turtle.

Annotated documents (brat .ann files) are mapped through an ontology document
into per-user, per-document graphs, which can be uploaded to a triplestore.

Available commands:
  convert  - Convert annotation files to Turtle or SPARQL
  refresh  - Convert and upload a directory of annotation files
  ontology - Inspect and fetch the ontology mapping document
  norm     - Manage normalization entities
  db       - Manage the normalization database
  am       - Manage standoff configuration ("I am")
  version  - Show version information

Examples:
  standoff convert story.ann          # Turtle on stdout
  standoff refresh data/              # upload every document under data/
  standoff norm import entities.tsv   # seed normalization entities
  standoff am show                    # Show current configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")
	rootCmd.PersistentFlags().StringVar(&commands.ConfigFile, "config", "", "Use this configuration file instead of the am.toml cascade")

	rootCmd.AddCommand(commands.ConvertCmd)
	rootCmd.AddCommand(commands.RefreshCmd)
	rootCmd.AddCommand(commands.OntologyCmd)
	rootCmd.AddCommand(commands.NormCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
