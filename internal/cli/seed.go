package cli

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
)

var objectEvents = []string{
	"ObjectCreated:Put",
	"ObjectCreated:Post",
	"ObjectCreated:CompleteMultipartUpload",
	"ObjectRemoved:Delete",
}

var objectExtensions = []string{".csv", ".json", ".log", ".parquet", ".txt"}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed sample notifications",
	Long:  "Generate fake storage-change notifications and post them in batches",
	Example: `  s3pulsectl seed --count 50
  s3pulsectl seed --count 200 --batch-size 25 --bucket demo-bucket`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		bucket, _ := cmd.Flags().GetString("bucket")
		seed, _ := cmd.Flags().GetInt64("seed")

		if count <= 0 {
			return fmt.Errorf("--count must be positive")
		}
		if batchSize <= 0 || batchSize > 25 {
			return fmt.Errorf("--batch-size must be between 1 and 25 (store batch limit)")
		}

		faker := gofakeit.New(seed)
		client := newServiceClient(serviceURL(cmd))

		sent := 0
		for sent < count {
			n := batchSize
			if remaining := count - sent; remaining < n {
				n = remaining
			}

			records := make([]map[string]interface{}, 0, n)
			for i := 0; i < n; i++ {
				records = append(records, fakeRecord(faker, bucket))
			}

			payload := map[string]interface{}{"Records": records}
			if _, err := client.postJSON("/v1/notifications", payload); err != nil {
				return fmt.Errorf("failed to send batch after %d notifications: %w", sent, err)
			}
			sent += n
		}

		fmt.Printf("seeded %d notifications\n", sent)
		return nil
	},
}

// fakeRecord builds one notification with a plausible object key and a
// recent event time.
func fakeRecord(faker *gofakeit.Faker, bucket string) map[string]interface{} {
	if bucket == "" {
		bucket = fmt.Sprintf("%s-%s", faker.Word(), faker.Word())
	}

	key := fmt.Sprintf("%s/%s%s",
		faker.Word(),
		faker.Username(),
		objectExtensions[faker.IntRange(0, len(objectExtensions)-1)],
	)

	eventTime := time.Now().UTC().Add(-time.Duration(faker.IntRange(0, 6)) * time.Hour)

	return map[string]interface{}{
		"eventName":    objectEvents[faker.IntRange(0, len(objectEvents)-1)],
		"eventTime":    eventTime.Format(time.RFC3339),
		"awsRegion":    "eu-west-1",
		"eventSource":  "aws:s3",
		"eventVersion": "2.1",
		"s3": map[string]interface{}{
			"bucket": map[string]interface{}{"name": bucket},
			"object": map[string]interface{}{
				"key":  key,
				"size": faker.IntRange(128, 10*1024*1024),
				"eTag": faker.UUID(),
			},
		},
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntP("count", "n", 25, "Number of notifications to send")
	seedCmd.Flags().Int("batch-size", 25, "Notifications per request")
	seedCmd.Flags().String("bucket", "", "Fixed bucket name (default random per record)")
	seedCmd.Flags().Int64("seed", 0, "Deterministic generator seed (0 = random)")
}
