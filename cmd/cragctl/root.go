package main

import (
	"fmt"
	"os"

	"github.com/Harshitk-cp/crag/internal/client"
	"github.com/Harshitk-cp/crag/internal/config"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	output    string
)

var rootCmd = &cobra.Command{
	Use:   "cragctl",
	Short: "Ask questions against a crag server",
	Long: `cragctl talks to a running crag server. It can ask questions with or
without grounding correction, inspect and forget conversation threads, and
add documents to the vector index.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch output {
		case outputText, outputJSON, outputYAML:
			return nil
		default:
			return fmt.Errorf("unknown output format %q (valid options: text, json, yaml)", output)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient() *client.Client {
	return client.New(serverURL)
}

func init() {
	_ = config.Load()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", config.ServerURL(), "crag server base URL")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
}
