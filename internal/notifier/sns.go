package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/driftline-systems/s3pulse/internal/models"
)

// SNSConfig holds topic addressing for the SNS channel.
type SNSConfig struct {
	TopicARN string
	Region   string
	// Endpoint overrides the service endpoint, for local stacks.
	Endpoint string
}

// SNSChannel publishes reports to an SNS topic as a single text message with
// an indented JSON body.
type SNSChannel struct {
	client   *sns.Client
	topicARN string
}

// NewSNSChannel builds an SNS channel from the default AWS credential chain.
func NewSNSChannel(ctx context.Context, cfg SNSConfig) (*SNSChannel, error) {
	if cfg.TopicARN == "" {
		return nil, fmt.Errorf("sns topic arn is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var clientOpts []func(*sns.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &SNSChannel{
		client:   sns.NewFromConfig(awsCfg, clientOpts...),
		topicARN: cfg.TopicARN,
	}, nil
}

func (s *SNSChannel) Type() string {
	return "sns"
}

// Send publishes one message per invocation, even when the report is empty;
// a zero-row day still produces a "{}" body so consumers can tell "no
// events" from "no report".
func (s *SNSChannel) Send(ctx context.Context, report *models.Report) error {
	body, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}
