package commands

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teranos/standoff/am"
	"github.com/teranos/standoff/db"
	"github.com/teranos/standoff/errors"
	"github.com/teranos/standoff/logger"
	"github.com/teranos/standoff/metrics"
	"github.com/teranos/standoff/normdb"
	"github.com/teranos/standoff/ontology"
	"github.com/teranos/standoff/version"
)

// ConfigFile, when set, replaces the am.toml cascade with a single file
var ConfigFile string

// loadConfig loads and validates the am configuration
func loadConfig() (*am.Config, error) {
	var (
		cfg *am.Config
		err error
	)
	if ConfigFile != "" {
		cfg, err = am.LoadFromFile(ConfigFile)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// openDatabase opens and migrates the normalization database.
// If dbPath is empty, the configured path is used.
func openDatabase(cfg *am.Config, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	database, err := db.OpenWithMigrations(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open normalization database at %s", dbPath)
	}
	return database, nil
}

// openStore opens the normalization store unless disabled. The returned
// closer is always safe to call.
func openStore(cfg *am.Config, dbPath string, disabled bool) (normdb.Store, func(), error) {
	if disabled {
		return nil, func() {}, nil
	}
	database, err := openDatabase(cfg, dbPath)
	if err != nil {
		return nil, func() {}, err
	}
	return normdb.NewSQLStore(database, logger.ComponentLogger("normdb")), func() { database.Close() }, nil
}

// checkedLoader enforces a version constraint on every document it loads
// and counts each load in the reload metric.
type checkedLoader struct {
	inner      ontology.Loader
	constraint string
	metrics    *metrics.Metrics
}

func (l checkedLoader) Load() (*ontology.Config, error) {
	cfg, err := l.inner.Load()
	if err == nil {
		err = checkOntologyVersion(cfg, l.constraint)
	}
	l.metrics.OntologyReloaded(err)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkOntologyVersion applies constraint, or the built-in supported range
// when no constraint is configured and the document declares a version.
func checkOntologyVersion(cfg *ontology.Config, constraint string) error {
	if constraint == "" {
		if cfg.Version == "" {
			return nil
		}
		constraint = version.OntologyConstraint
	}
	return cfg.CheckVersion(constraint)
}

// ontologyCache fetches the configured remote source, if any, and returns a
// cache over the local document. pathOverride replaces ontology.path.
func ontologyCache(ctx context.Context, cfg *am.Config, pathOverride string, m *metrics.Metrics) (*ontology.Cache, string, error) {
	path := cfg.Ontology.Path
	if pathOverride != "" {
		path = pathOverride
	}

	if cfg.Ontology.Source != "" && pathOverride == "" {
		if err := ontology.Fetch(ctx, cfg.Ontology.Source, path, logger.ComponentLogger("ontology")); err != nil {
			return nil, "", err
		}
	}

	loader := checkedLoader{
		inner:      ontology.NewFileLoader(path),
		constraint: cfg.Ontology.VersionConstraint,
		metrics:    m,
	}
	return ontology.NewCache(loader, ontology.WithLogger(logger.ComponentLogger("ontology"))), path, nil
}

// startMetrics creates the collectors and serves them on addr. With an
// empty addr it returns nil metrics, which every recorder accepts.
func startMetrics(addr string) (*metrics.Metrics, func(), error) {
	if addr == "" {
		return nil, func() {}, nil
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return nil, func() {}, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("Metrics server stopped", logger.FieldEndpoint, addr, logger.FieldError, err)
		}
	}()
	logger.Infow("Serving metrics", logger.FieldEndpoint, addr)

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
	return m, stop, nil
}
