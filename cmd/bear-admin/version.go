package main

import (
	"fmt"
	"runtime"

	"bear/internal/core/version"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			bi := version.Info("bear-admin")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bear-admin version %s\n", bi.Version)
			fmt.Fprintf(out, "  commit:     %s\n", bi.Commit)
			fmt.Fprintf(out, "  built:      %s\n", bi.Date)
			fmt.Fprintf(out, "  go version: %s\n", runtime.Version())
		},
	}
}
