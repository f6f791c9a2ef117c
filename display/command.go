// Package display decides between human and machine output for CLI commands.
package display

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// OutputEnv selects JSON output for every command when set to "json"
const OutputEnv = "STANDOFF_OUTPUT"

// ShouldOutputJSON determines if a command should output JSON. An explicit
// --json flag wins; otherwise STANDOFF_OUTPUT decides.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd != nil {
		if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			return jsonFlag
		}
	}
	return strings.EqualFold(os.Getenv(OutputEnv), "json")
}
