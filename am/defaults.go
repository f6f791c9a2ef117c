package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "normdb.sqlite")

	// Ontology defaults
	v.SetDefault("ontology.path", "ontomedia-data.json")
	v.SetDefault("ontology.source", "")
	v.SetDefault("ontology.watch", false)
	v.SetDefault("ontology.version_constraint", "")

	// Identity defaults
	v.SetDefault("identity.user", "")

	// Triplestore defaults
	v.SetDefault("triplestore.endpoint", "")
	v.SetDefault("triplestore.timeout_seconds", 30)
	v.SetDefault("triplestore.requests_per_second", 5.0) // Polite default for shared stores
	v.SetDefault("triplestore.burst", 1)
	v.SetDefault("triplestore.block_private_ip", false) // Local stores (4store, Sesame) are common

	// Metrics defaults
	v.SetDefault("metrics.addr", "")
}

// BindSensitiveEnvVars explicitly binds configuration that is commonly supplied by the environment
func BindSensitiveEnvVars(v *viper.Viper) {
	// The original deployment set the endpoint with Apache SetEnv
	v.BindEnv("triplestore.endpoint", "STANDOFF_TRIPLESTORE_ENDPOINT", "TRIPLESTORE_RESTFUL_ENDPOINT")
	v.BindEnv("identity.user", "STANDOFF_IDENTITY_USER", "STANDOFF_USER")
}

// DefaultConfig returns the configuration produced by defaults alone
func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always unmarshal
		return &Config{}
	}
	return cfg
}
