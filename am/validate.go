package am

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/standoff/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path cannot be empty")
	}

	if c.Ontology.Path == "" {
		return errors.New("ontology.path cannot be empty")
	}

	if c.Ontology.VersionConstraint != "" {
		if _, err := semver.NewConstraint(c.Ontology.VersionConstraint); err != nil {
			return errors.Wrapf(err, "ontology.version_constraint %q is not a valid semver constraint", c.Ontology.VersionConstraint)
		}
	}

	// Timeout: 0 would make every upload fail immediately
	if c.Triplestore.TimeoutSeconds <= 0 {
		return errors.Newf("triplestore.timeout_seconds must be > 0, got %d", c.Triplestore.TimeoutSeconds)
	}

	// Rate: 0 = unlimited, negative = invalid
	if c.Triplestore.RequestsPerSecond < 0 {
		return errors.Newf("triplestore.requests_per_second must be >= 0, got %f", c.Triplestore.RequestsPerSecond)
	}
	if c.Triplestore.RequestsPerSecond > 0 && c.Triplestore.Burst < 1 {
		return errors.Newf("triplestore.burst must be >= 1 when rate limited, got %d", c.Triplestore.Burst)
	}

	return nil
}
