// Package version reports build information and the range of ontology
// document versions this build understands.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// OntologyConstraint is the range of ontology document versions the
// converter's table layout supports. Unversioned documents are accepted.
const OntologyConstraint = ">= 1.0.0, < 2.0.0"

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	Ontology   string `json:"ontology_versions"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information. Without ldflags the
// commit falls back to the VCS stamp recorded by the go tool.
func Get() Info {
	commit, built := CommitHash, BuildTime
	if commit == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					commit = s.Value
				case "vcs.time":
					if built == "unknown" {
						built = s.Value
					}
				}
			}
		}
	}
	return Info{
		CommitHash: commit,
		BuildTime:  built,
		Version:    Version,
		Ontology:   OntologyConstraint,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("standoff %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
	}
	return fmt.Sprintf("standoff dev (commit %s, built %s)", i.Short(), i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// SemVer parses Version, returning nil for untagged builds
func (i Info) SemVer() *semver.Version {
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return nil
	}
	return v
}
