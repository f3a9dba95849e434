package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "buildlog",
	Short: "Project tracking with an honest timer",
	Long: `buildlog is a personal project-tracking dashboard for solo builders.

Track projects, time building and debugging sessions with threshold
nudges, and keep debug and learning logs next to the work.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
