package ontology

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/standoff/errors"
)

// CheckVersion verifies the document's version satisfies constraint
// (e.g. ">= 1.2, < 2"). An empty constraint accepts any document.
func (c *Config) CheckVersion(constraint string) error {
	if constraint == "" {
		return nil
	}

	cons, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid ontology version constraint %q", constraint)
	}

	if c.Version == "" {
		return errors.WithHint(
			errors.Mark(errors.Newf("ontology %s has no version, required %s", c.Source, constraint), errors.ErrConfigUnavailable),
			"add a version field to the ontology document",
		)
	}

	v, err := semver.NewVersion(c.Version)
	if err != nil {
		return errors.WrapConfigUnavailable(err, "ontology version "+c.Version)
	}

	if ok, reasons := cons.Validate(v); !ok {
		msg := "ontology version " + v.String() + " does not satisfy " + constraint
		if len(reasons) > 0 {
			msg += ": " + reasons[0].Error()
		}
		return errors.Mark(errors.New(msg), errors.ErrConfigUnavailable)
	}
	return nil
}
