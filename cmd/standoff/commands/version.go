package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/standoff/display"
	"github.com/teranos/standoff/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show standoff version information",
	Long:  `Display version, build time, commit hash, supported ontology versions and platform.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if display.ShouldOutputJSON(cmd) {
			return display.WriteJSON(cmd.OutOrStdout(), info)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, info.String())
		fmt.Fprintf(w, "Ontology: %s\n", info.Ontology)
		fmt.Fprintf(w, "Platform: %s\n", info.Platform)
		fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
