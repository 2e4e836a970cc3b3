package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a storage-change notification",
	Long:  "Post a single object notification to the ingestion endpoint",
	Example: `  s3pulsectl send --bucket uploads --key reports/q3.pdf --event-name ObjectCreated:Put
  s3pulsectl send --json '{"Records":[{"eventName":"ObjectRemoved:Delete","s3":{"bucket":{"name":"b"},"object":{"key":"k"}}}]}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawJSON, _ := cmd.Flags().GetString("json")
		bucket, _ := cmd.Flags().GetString("bucket")
		key, _ := cmd.Flags().GetString("key")
		eventName, _ := cmd.Flags().GetString("event-name")
		eventTime, _ := cmd.Flags().GetString("event-time")

		var payload interface{}
		if rawJSON != "" {
			var doc map[string]interface{}
			if err := json.Unmarshal([]byte(rawJSON), &doc); err != nil {
				return fmt.Errorf("invalid --json payload: %w", err)
			}
			payload = doc
		} else {
			if bucket == "" || key == "" {
				return fmt.Errorf("either --json or both --bucket and --key are required")
			}
			if eventTime == "" {
				eventTime = time.Now().UTC().Format(time.RFC3339)
			}
			payload = notificationPayload(bucket, key, eventName, eventTime)
		}

		client := newServiceClient(serviceURL(cmd))
		resp, err := client.postJSON("/v1/notifications", payload)
		if err != nil {
			return fmt.Errorf("failed to send notification: %w", err)
		}

		fmt.Printf("notification accepted: %s\n", resp)
		return nil
	},
}

// notificationPayload builds a minimal Records payload in the bucket
// notification shape.
func notificationPayload(bucket, key, eventName, eventTime string) map[string]interface{} {
	return map[string]interface{}{
		"Records": []map[string]interface{}{
			{
				"eventName": eventName,
				"eventTime": eventTime,
				"s3": map[string]interface{}{
					"bucket": map[string]interface{}{"name": bucket},
					"object": map[string]interface{}{"key": key},
				},
			},
		},
	}
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringP("bucket", "b", "", "Bucket name")
	sendCmd.Flags().StringP("key", "k", "", "Object key")
	sendCmd.Flags().String("event-name", "ObjectCreated:Put", "Event type label")
	sendCmd.Flags().String("event-time", "", "Event timestamp (RFC3339, default now)")
	sendCmd.Flags().String("json", "", "Literal JSON notification payload")
}
