package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opensource-legal/caracara/internal/domain"
)

// Build information (set via ldflags).
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("caracara %s (engine %s, commit %s, built %s)\n",
			Version, domain.EngineVersion, Commit, BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
