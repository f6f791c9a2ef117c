package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/standoff/db"
	"github.com/teranos/standoff/display"
	"github.com/teranos/standoff/errors"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the normalization database",
	Long: `Manage the SQLite normalization database.

Examples:
  standoff db migrate             # create or upgrade the schema
  standoff db stats               # entity, attribute and link counts`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runDbMigrate,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show normalization database statistics",
	RunE:  runDbStats,
}

var dbPathFlag string

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Normalization database (overrides database.path)")
	DbCmd.AddCommand(dbMigrateCmd)
	dbStatsCmd.Flags().BoolP("json", "j", false, "Output statistics as JSON")
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg, dbPathFlag)
	if err != nil {
		return err
	}
	defer database.Close()

	latest, err := db.SchemaVersion(database)
	if err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Schema at version %s", latest)
	return nil
}

type dbStats struct {
	Path       string         `json:"path"`
	Entities   map[string]int `json:"entities"`
	Attributes int            `json:"attributes"`
	Links      int            `json:"global_links"`
	Databases  int            `json:"databases"`
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.Database.Path
	if dbPathFlag != "" {
		path = dbPathFlag
	}
	database, err := openDatabase(cfg, path)
	if err != nil {
		return err
	}
	defer database.Close()

	stats := dbStats{Path: path, Entities: map[string]int{"global": 0, "local": 0}}

	rows, err := database.Query(`SELECT scope, COUNT(*) FROM norm_entities GROUP BY scope`)
	if err != nil {
		return errors.Wrap(err, "failed to count entities")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			scope string
			n     int
		)
		if err := rows.Scan(&scope, &n); err != nil {
			return errors.Wrap(err, "failed to scan entity count")
		}
		stats.Entities[scope] = n
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to count entities")
	}

	err = database.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM norm_attributes),
			(SELECT COUNT(*) FROM norm_global_links),
			(SELECT COUNT(DISTINCT db_name) FROM norm_entities)
	`).Scan(&stats.Attributes, &stats.Links, &stats.Databases)
	if err != nil {
		return errors.Wrap(err, "failed to query storage stats")
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), stats)
	}

	w := cmd.OutOrStdout()
	pterm.Fprintln(w, "Normalization Database Statistics")
	pterm.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	pterm.Fprintln(w, pterm.Sprintf("Database Path:    %s", stats.Path))
	pterm.Fprintln(w, pterm.Sprintf("Global Entities:  %d", stats.Entities["global"]))
	pterm.Fprintln(w, pterm.Sprintf("Local Entities:   %d", stats.Entities["local"]))
	pterm.Fprintln(w, pterm.Sprintf("Attributes:       %d", stats.Attributes))
	pterm.Fprintln(w, pterm.Sprintf("Global Links:     %d", stats.Links))
	pterm.Fprintln(w, pterm.Sprintf("Source Databases: %d", stats.Databases))
	return nil
}
