package commands

import (
	"context"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/standoff/convert"
	"github.com/teranos/standoff/display"
	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/internal/httpclient"
	"github.com/teranos/standoff/logger"
	"github.com/teranos/standoff/triplestore"
)

// RefreshCmd re-uploads every annotated document under a directory
var RefreshCmd = &cobra.Command{
	Use:   "refresh <dir>",
	Short: "Convert and upload every .ann file under a directory",
	Long: `Convert every .ann file under <dir> and PUT each graph to the triplestore.

Documents are expected at <dir>/.../<user>/<document>.ann: the parent directory
names the user. Documents that produce no statements are not uploaded.
Uploads are paced by triplestore.requests_per_second and triplestore.burst.

Examples:
  standoff refresh data/                              # upload to triplestore.endpoint
  standoff refresh --dry-run data/                    # convert only, show graph URLs
  standoff refresh --endpoint http://localhost:8000 data/`,
	Args: cobra.ExactArgs(1),
	RunE: runRefresh,
}

var (
	refreshEndpoint string
	refreshOntology string
	refreshDB       string
	refreshDryRun   bool
	refreshJSON     bool
)

func init() {
	RefreshCmd.Flags().StringVar(&refreshEndpoint, "endpoint", "", "Triplestore endpoint (overrides triplestore.endpoint)")
	RefreshCmd.Flags().StringVar(&refreshOntology, "ontology", "", "Ontology document (overrides ontology.path)")
	RefreshCmd.Flags().StringVar(&refreshDB, "db", "", "Normalization database (overrides database.path)")
	RefreshCmd.Flags().BoolVar(&refreshDryRun, "dry-run", false, "Convert without uploading")
	RefreshCmd.Flags().BoolVarP(&refreshJSON, "json", "j", false, "Output per-file results as JSON")
}

type refreshReport struct {
	Files   []triplestore.FileResult `json:"files"`
	Errors  map[string]string        `json:"errors,omitempty"`
	Summary triplestore.Summary      `json:"summary"`
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	endpoint := cfg.Triplestore.Endpoint
	if refreshEndpoint != "" {
		endpoint = refreshEndpoint
	}
	if endpoint == "" && !refreshDryRun {
		return errors.WithHint(
			errors.New("no triplestore endpoint configured"),
			"set triplestore.endpoint in am.toml, STANDOFF_TRIPLESTORE_ENDPOINT, or pass --endpoint",
		)
	}

	m, stopMetrics, err := startMetrics(cfg.Metrics.Addr)
	if err != nil {
		return err
	}
	defer stopMetrics()

	cache, ontologyPath, err := ontologyCache(ctx, cfg, refreshOntology, m)
	if err != nil {
		return err
	}
	if cfg.Ontology.Watch {
		go func() {
			if err := cache.Watch(ctx, ontologyPath); err != nil {
				logger.Warnw("Ontology watch stopped", logger.FieldPath, ontologyPath, logger.FieldError, err)
			}
		}()
	}

	store, closeStore, err := openStore(cfg, refreshDB, false)
	if err != nil {
		return err
	}
	defer closeStore()

	converter := convert.New(cache, store, convert.StaticIdentity(cfg.Identity.User),
		convert.WithMetrics(m),
		convert.WithLogger(logger.ComponentLogger("convert")),
	)

	client := triplestore.NewClient(endpoint,
		httpclient.New(time.Duration(cfg.Triplestore.TimeoutSeconds)*time.Second, httpclient.Options{
			BlockPrivateIP: cfg.Triplestore.BlockPrivateIP,
		}),
		triplestore.WithMetrics(m),
		triplestore.WithLogger(logger.ComponentLogger("triplestore")),
	)

	refresher := triplestore.NewRefresher(converter, client,
		cfg.Triplestore.RequestsPerSecond, cfg.Triplestore.Burst,
		logger.ComponentLogger("refresh"),
	)
	refresher.DryRun = refreshDryRun

	results, err := refresher.Refresh(ctx, args[0])
	if err != nil {
		return err
	}

	summary := triplestore.Summarize(results)
	if display.ShouldOutputJSON(cmd) {
		report := refreshReport{Files: results, Summary: summary}
		for _, r := range results {
			if r.Err != nil {
				if report.Errors == nil {
					report.Errors = make(map[string]string)
				}
				report.Errors[r.Path] = r.Err.Error()
			}
		}
		if err := display.WriteJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printRefresh(cmd.OutOrStdout(), results, summary)
	}

	if summary.Failed > 0 {
		return errors.Newf("%d of %d documents failed", summary.Failed, len(results))
	}
	return nil
}

func printRefresh(w io.Writer, results []triplestore.FileResult, summary triplestore.Summary) {
	rows := pterm.TableData{{"Document", "User", "Outcome", "Graph"}}
	for _, r := range results {
		outcome := "uploaded"
		switch {
		case r.Err != nil:
			outcome = pterm.Red("failed: " + r.Err.Error())
		case r.Empty:
			outcome = pterm.Gray("empty")
		case !r.Uploaded:
			outcome = pterm.Yellow("dry run")
		}
		rows = append(rows, []string{r.Document, r.User, outcome, r.GraphURL})
	}
	pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(rows).Render()

	pterm.Fprintln(w, pterm.Sprintf("%s uploaded, %s empty, %s failed",
		pterm.Green(summary.Uploaded), pterm.Gray(summary.Empty), pterm.Red(summary.Failed)))
}
