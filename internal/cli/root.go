// Package cli implements the s3pulsectl operator commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "s3pulsectl",
	Short: "s3pulse operator CLI",
	Long: `s3pulsectl drives a running s3pulse service from the terminal.

Post storage-change notifications, seed sample traffic, and trigger
summary reports on demand.`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("service-url", "http://localhost:8086", "s3pulse service URL")
}

func serviceURL(cmd *cobra.Command) string {
	url, _ := cmd.Flags().GetString("service-url")
	return url
}
