package main

import (
	"fmt"

	"github.com/Harshitk-cp/crag/internal/buildconfig"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print client and server versions",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cragctl %s (%s)\n", buildconfig.Version(), buildconfig.Commit())

		server, err := newClient().Version(cmd.Context())
		if err != nil {
			fmt.Fprintf(out, "server unreachable: %v\n", err)
			return
		}
		fmt.Fprintf(out, "server  %s (%s)\n", server["version"], server["commit"])
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
