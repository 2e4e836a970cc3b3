package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Trigger a summary report",
	Long:  "Run the reporting pipeline for today, or for an explicit date",
	Example: `  s3pulsectl report
  s3pulsectl report --date 05-01-2024`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")

		path := "/v1/reports/run"
		if date != "" {
			path += "?date=" + date
		}

		client := newServiceClient(serviceURL(cmd))
		resp, err := client.postJSON(path, nil)
		if err != nil {
			return fmt.Errorf("failed to run report: %w", err)
		}

		fmt.Printf("%s\n", resp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("date", "d", "", "Report date (DD-MM-YYYY, default today)")
}
