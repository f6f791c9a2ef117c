// Package am holds the standoff application configuration ("I am").
//
// Configuration is TOML, merged from ~/.standoff/am.toml and the nearest
// am.toml found walking up from the working directory, then overridden by
// STANDOFF_* environment variables.
package am

// Config represents the standoff application configuration
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database" toml:"database"`
	Ontology    OntologyConfig    `mapstructure:"ontology" toml:"ontology"`
	Identity    IdentityConfig    `mapstructure:"identity" toml:"identity"`
	Triplestore TriplestoreConfig `mapstructure:"triplestore" toml:"triplestore"`
	Metrics     MetricsConfig     `mapstructure:"metrics" toml:"metrics"`
}

// DatabaseConfig configures the SQLite normalization database
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// OntologyConfig locates the ontology mapping document
type OntologyConfig struct {
	Path              string `mapstructure:"path" toml:"path"`                             // Local mapping document (.json, .toml, .yaml)
	Source            string `mapstructure:"source" toml:"source"`                         // Optional remote source fetched into Path before loading
	Watch             bool   `mapstructure:"watch" toml:"watch"`                           // Reload the snapshot when Path changes
	VersionConstraint string `mapstructure:"version_constraint" toml:"version_constraint"` // semver constraint on the document's version
}

// IdentityConfig supplies the user that namespaces converted documents
type IdentityConfig struct {
	User string `mapstructure:"user" toml:"user"`
}

// TriplestoreConfig configures graph uploads
type TriplestoreConfig struct {
	Endpoint          string  `mapstructure:"endpoint" toml:"endpoint"`                       // RESTful graph store endpoint, graph URI is appended
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" toml:"timeout_seconds"`         // Per-request timeout
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second"` // 0 = unlimited
	Burst             int     `mapstructure:"burst" toml:"burst"`
	BlockPrivateIP    bool    `mapstructure:"block_private_ip" toml:"block_private_ip"`
}

// MetricsConfig configures the prometheus endpoint
type MetricsConfig struct {
	Addr string `mapstructure:"addr" toml:"addr"` // e.g. ":9464"; empty disables
}

// Default file and directory permissions
const (
	DefaultDirPermissions  = 0750
	DefaultFilePermissions = 0644
)
