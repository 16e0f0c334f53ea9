package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/gridedit/internal/app"
)

// Version info (set by ldflags)
var version = "dev"

func main() {
	var debug bool
	rootCmd := &cobra.Command{
		Use:          "gridedit [file]",
		Short:        "Grid-based terminal text editor",
		Args:         cobra.MaximumNArgs(1),
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.New(args, debug).Run()
		},
	}
	rootCmd.SetErrPrefix("gridedit:")
	rootCmd.Flags().BoolVar(&debug, "debug", os.Getenv("GRIDEDIT_DEBUG") != "", "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
