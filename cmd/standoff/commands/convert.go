package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/standoff/annotation"
	"github.com/teranos/standoff/convert"
	"github.com/teranos/standoff/display"
	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/logger"
	"github.com/teranos/standoff/triplestore"
)

// ConvertCmd converts annotation files to Turtle
var ConvertCmd = &cobra.Command{
	Use:   "convert <file.ann>... | -",
	Short: "Convert stand-off annotations to RDF Turtle",
	Long: `Convert brat-style stand-off annotation files to RDF Turtle.

Each document is converted into the namespace <base_namespace><user>/<document>/.
Normalization records are resolved against the SQLite normalization database;
use --no-store to convert documents that have none.

With "-" the annotations are read from stdin and named by --document.

Examples:
  standoff convert story.ann                     # Turtle on stdout
  standoff convert --user alice -o out/ *.ann    # one .ttl per document
  standoff convert --sparql story.ann            # SPARQL INSERT DATA update
  standoff convert --json story.ann              # parts, stats and graph path`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

var (
	convertUser     string
	convertOntology string
	convertDB       string
	convertNoStore  bool
	convertOutput   string
	convertSPARQL   bool
	convertJSON     bool
	convertDocument string
)

func init() {
	ConvertCmd.Flags().StringVar(&convertUser, "user", "", "User namespace (overrides identity.user)")
	ConvertCmd.Flags().StringVar(&convertOntology, "ontology", "", "Ontology document (overrides ontology.path)")
	ConvertCmd.Flags().StringVar(&convertDB, "db", "", "Normalization database (overrides database.path)")
	ConvertCmd.Flags().BoolVar(&convertNoStore, "no-store", false, "Convert without a normalization database")
	ConvertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Write one file per document into this directory")
	ConvertCmd.Flags().BoolVar(&convertSPARQL, "sparql", false, "Emit a SPARQL INSERT DATA update instead of Turtle")
	ConvertCmd.Flags().BoolVarP(&convertJSON, "json", "j", false, "Output conversion results as JSON")
	ConvertCmd.Flags().StringVar(&convertDocument, "document", "stdin", "Document name for annotations read from stdin")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, stopMetrics, err := startMetrics(cfg.Metrics.Addr)
	if err != nil {
		return err
	}
	defer stopMetrics()

	cache, _, err := ontologyCache(ctx, cfg, convertOntology, m)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, convertDB, convertNoStore)
	if err != nil {
		return err
	}
	defer closeStore()

	user := cfg.Identity.User
	if convertUser != "" {
		user = convertUser
	}
	converter := convert.New(cache, store, convert.StaticIdentity(user),
		convert.WithMetrics(m),
		convert.WithLogger(logger.ComponentLogger("convert")),
	)

	var results []*convert.Result
	for _, arg := range args {
		src, err := sourceFor(cmd.InOrStdin(), arg)
		if err != nil {
			return err
		}

		result, err := converter.Parts(ctx, src)
		if err != nil {
			return err
		}
		results = append(results, result)

		if display.ShouldOutputJSON(cmd) {
			continue
		}
		if err := writeConversion(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Triplestore.Endpoint, result); err != nil {
			return err
		}
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), results)
	}
	return nil
}

func sourceFor(stdin io.Reader, arg string) (annotation.Source, error) {
	if arg != "-" {
		return annotation.FileSource{Path: arg}, nil
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read annotations from stdin")
	}
	return annotation.StringSource{Document: convertDocument, Content: string(content)}, nil
}

func writeConversion(stdout, stderr io.Writer, endpoint string, result *convert.Result) error {
	var (
		text string
		ext  string
	)
	if convertSPARQL {
		text = triplestore.InsertData(result.Output, endpoint+result.GraphPath)
		ext = ".rq"
	} else {
		text = result.Output.Document()
		ext = ".ttl"
	}

	if result.Stats.Skipped > 0 {
		pterm.Warning.WithWriter(stderr).Printfln("%s: skipped %d malformed records", result.Document, result.Stats.Skipped)
	}

	if convertOutput == "" {
		_, err := io.WriteString(stdout, text)
		return err
	}

	if err := os.MkdirAll(convertOutput, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", convertOutput)
	}
	path := filepath.Join(convertOutput, result.Document+ext)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	pterm.Success.WithWriter(stderr).Printfln("%s → %s (%d lines)", result.Document, path, result.Stats.Lines)
	return nil
}
