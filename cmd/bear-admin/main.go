// Command bear-admin is the operator cli for admin credentials and tokens
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bear-admin",
		Short:         "bear operator tools",
		Long:          `bear-admin hashes admin passwords for the admin table and issues or inspects admin tokens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(hashPasswordCmd())
	cmd.AddCommand(issueTokenCmd())
	cmd.AddCommand(verifyTokenCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}
