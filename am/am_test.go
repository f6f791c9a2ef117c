package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance: no user/project config, no env
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "normdb.sqlite", cfg.Database.Path)
	assert.Equal(t, "ontomedia-data.json", cfg.Ontology.Path)
	assert.False(t, cfg.Ontology.Watch)
	assert.Equal(t, 30, cfg.Triplestore.TimeoutSeconds)
	assert.Equal(t, 5.0, cfg.Triplestore.RequestsPerSecond)
	assert.Equal(t, 1, cfg.Triplestore.Burst)
	assert.Empty(t, cfg.Metrics.Addr)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	content := `
[database]
path = "/var/lib/standoff/norm.db"

[ontology]
path = "Narrative/ontomedia-data.json"
watch = true
version_constraint = ">= 1.0, < 2"

[identity]
user = "keith"

[triplestore]
endpoint = "http://localhost:8000/data/"
requests_per_second = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/standoff/norm.db", cfg.Database.Path)
	assert.Equal(t, "Narrative/ontomedia-data.json", cfg.Ontology.Path)
	assert.True(t, cfg.Ontology.Watch)
	assert.Equal(t, ">= 1.0, < 2", cfg.Ontology.VersionConstraint)
	assert.Equal(t, "keith", cfg.Identity.User)
	assert.Equal(t, "http://localhost:8000/data/", cfg.Triplestore.Endpoint)
	assert.Equal(t, 0.0, cfg.Triplestore.RequestsPerSecond)
	// Unset keys keep their defaults
	assert.Equal(t, 30, cfg.Triplestore.TimeoutSeconds)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config { return *DefaultConfig() }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "empty database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "empty ontology path", mutate: func(c *Config) { c.Ontology.Path = "" }, wantErr: true},
		{name: "bad version constraint", mutate: func(c *Config) { c.Ontology.VersionConstraint = "not a version" }, wantErr: true},
		{name: "good version constraint", mutate: func(c *Config) { c.Ontology.VersionConstraint = "^1.2" }, wantErr: false},
		{name: "zero timeout", mutate: func(c *Config) { c.Triplestore.TimeoutSeconds = 0 }, wantErr: true},
		{name: "negative rate", mutate: func(c *Config) { c.Triplestore.RequestsPerSecond = -1 }, wantErr: true},
		{name: "zero rate is unlimited", mutate: func(c *Config) { c.Triplestore.RequestsPerSecond = 0; c.Triplestore.Burst = 0 }, wantErr: false},
		{name: "rate without burst", mutate: func(c *Config) { c.Triplestore.Burst = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteFile_RoundTripAndBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", ConfigFileName)

	cfg := DefaultConfig()
	cfg.Identity.User = "alice"
	require.NoError(t, WriteFile(cfg, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Identity.User)
	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)

	// Second write rotates the first into .back1
	cfg.Identity.User = "bob"
	require.NoError(t, WriteFile(cfg, path))

	backup, err := LoadFromFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, "alice", backup.Identity.User)
}

func TestLoad_EnvOverride(t *testing.T) {
	Reset()
	defer Reset()

	t.Setenv("STANDOFF_IDENTITY_USER", "env-user")
	t.Setenv("TRIPLESTORE_RESTFUL_ENDPOINT", "http://store.example/data/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-user", cfg.Identity.User)
	assert.Equal(t, "http://store.example/data/", cfg.Triplestore.Endpoint)
}
