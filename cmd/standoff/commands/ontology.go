package commands

import (
	"context"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/standoff/display"
	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/logger"
	"github.com/teranos/standoff/ontology"
)

// OntologyCmd inspects the ontology mapping document
var OntologyCmd = &cobra.Command{
	Use:   "ontology",
	Short: "Inspect and fetch the ontology mapping document",
	Long: `Inspect and fetch the ontology mapping document.

The document maps annotation types to RDF vocabulary. It may be JSON, TOML
or YAML; the format follows the file extension.

Examples:
  standoff ontology show                         # namespaces and table sizes
  standoff ontology show --json                  # the parsed document
  standoff ontology check --constraint ">= 1.2"  # validate, lint, check version
  standoff ontology fetch https://example.org/ontomedia-data.json`,
}

var ontologyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the parsed ontology document",
	RunE:  runOntologyShow,
}

var ontologyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the ontology document and report lint warnings",
	RunE:  runOntologyCheck,
}

var ontologyFetchCmd = &cobra.Command{
	Use:   "fetch [source] [destination]",
	Short: "Download the ontology document",
	Long: `Download the ontology document from source to destination.

Source defaults to ontology.source and destination to ontology.path. Any
go-getter source works: http(s) URLs, local paths, s3:: and git:: forms.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runOntologyFetch,
}

var (
	ontologyPathFlag   string
	ontologyJSON       bool
	ontologyConstraint string
)

func init() {
	OntologyCmd.PersistentFlags().StringVar(&ontologyPathFlag, "ontology", "", "Ontology document (overrides ontology.path)")
	ontologyShowCmd.Flags().BoolVarP(&ontologyJSON, "json", "j", false, "Output the parsed document as JSON")
	ontologyCheckCmd.Flags().StringVar(&ontologyConstraint, "constraint", "", "Required version range (overrides ontology.version_constraint)")

	OntologyCmd.AddCommand(ontologyShowCmd)
	OntologyCmd.AddCommand(ontologyCheckCmd)
	OntologyCmd.AddCommand(ontologyFetchCmd)
}

// loadOntologyDocument parses the document without fetching or version checks
func loadOntologyDocument() (*ontology.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.Ontology.Path
	if ontologyPathFlag != "" {
		path = ontologyPathFlag
	}
	return ontology.NewFileLoader(path).Load()
}

func runOntologyShow(cmd *cobra.Command, args []string) error {
	doc, err := loadOntologyDocument()
	if err != nil {
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), doc)
	}
	printOntology(cmd.OutOrStdout(), doc)
	return nil
}

func printOntology(w io.Writer, doc *ontology.Config) {
	pterm.Fprintln(w, pterm.Sprintf("%s %s", pterm.LightCyan("Ontology:"), doc.Source))
	if doc.Version != "" {
		pterm.Fprintln(w, pterm.Sprintf("%s %s", pterm.LightCyan("Version:"), doc.Version))
	}
	pterm.Fprintln(w, pterm.Sprintf("%s %s", pterm.LightCyan("Base namespace:"), doc.BaseNamespace))
	pterm.Fprintln(w, pterm.Sprintf("%s %s", pterm.LightCyan("Graph base:"), doc.BaseURL))
	pterm.Fprintln(w)

	ns := pterm.TableData{{"Prefix", "URI"}}
	for _, n := range doc.Namespaces {
		ns = append(ns, []string{n.Prefix, n.URI})
	}
	pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(ns).Render()
	pterm.Fprintln(w)

	tables := pterm.TableData{
		{"Table", "Entries"},
		{"category_map", strconv.Itoa(len(doc.CategoryMap))},
		{"relationship_map", strconv.Itoa(len(doc.RelationshipMap))},
		{"extended_rdf_map", strconv.Itoa(len(doc.ExtendedMap))},
		{"string_literals", strconv.Itoa(len(doc.StringLiterals))},
		{"class_literals", strconv.Itoa(len(doc.ClassLiterals))},
	}
	pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(tables).Render()
}

func runOntologyCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := loadOntologyDocument()
	if err != nil {
		return err
	}

	constraint := cfg.Ontology.VersionConstraint
	if ontologyConstraint != "" {
		constraint = ontologyConstraint
	}
	if err := checkOntologyVersion(doc, constraint); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	warnings := doc.Lint()
	for _, w := range warnings {
		pterm.Warning.WithWriter(out).Println(w)
	}
	pterm.Success.WithWriter(out).Printfln("%s is valid (%d namespaces, %d warnings)", doc.Source, len(doc.Namespaces), len(warnings))
	return nil
}

func runOntologyFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, dst := cfg.Ontology.Source, cfg.Ontology.Path
	if ontologyPathFlag != "" {
		dst = ontologyPathFlag
	}
	if len(args) > 0 {
		src = args[0]
	}
	if len(args) > 1 {
		dst = args[1]
	}
	if src == "" {
		return errors.WithHint(
			errors.New("no ontology source given"),
			"pass a source or set ontology.source in am.toml",
		)
	}

	if err := ontology.Fetch(ctx, src, dst, logger.ComponentLogger("ontology")); err != nil {
		return err
	}

	doc, err := ontology.NewFileLoader(dst).Load()
	if err != nil {
		return errors.Wrapf(err, "fetched %s but it does not parse", dst)
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Fetched %s → %s (version %s)", src, dst, versionOrNone(doc.Version))
	return nil
}

func versionOrNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
