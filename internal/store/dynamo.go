package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/driftline-systems/s3pulse/internal/models"
)

// Config holds DynamoDB table addressing.
type Config struct {
	Table            string
	CreatedDateIndex string
	Region           string
	// Endpoint overrides the service endpoint, for local stacks.
	Endpoint string
}

// DynamoClient implements BatchWriter and DateQuerier against a DynamoDB
// table with a createdDate-keyed global secondary index.
type DynamoClient struct {
	db  *dynamodb.Client
	cfg Config
}

// NewDynamoClient builds a client from the default AWS credential chain.
func NewDynamoClient(ctx context.Context, cfg Config) (*DynamoClient, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("dynamo table name is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var clientOpts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &DynamoClient{
		db:  dynamodb.NewFromConfig(awsCfg, clientOpts...),
		cfg: cfg,
	}, nil
}

// BatchWrite submits all events as one BatchWriteItem request. The batch is
// not chunked: a sequence past the store's native limit (25 items) fails at
// the store and that failure is surfaced as-is. An empty batch is a no-op
// success, not an error.
func (c *DynamoClient) BatchWrite(ctx context.Context, events []models.StoredEvent) (*WriteResult, error) {
	if len(events) == 0 {
		return &WriteResult{}, nil
	}

	requests := make([]types.WriteRequest, 0, len(events))
	for _, ev := range events {
		item, err := marshalItem(ev)
		if err != nil {
			return nil, fmt.Errorf("marshal event %s: %w", ev.EventID, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	out, err := c.db.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			c.cfg.Table: requests,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("batch write to %s: %w", c.cfg.Table, err)
	}

	unprocessed := len(out.UnprocessedItems[c.cfg.Table])
	return &WriteResult{
		Written:     len(requests) - unprocessed,
		Unprocessed: unprocessed,
	}, nil
}

// QueryByDate runs an equality query on the createdDate index and decodes
// the rows. Only the first result page is consumed; the expected daily
// volume fits one page, and that limit is deliberate rather than hidden.
func (c *DynamoClient) QueryByDate(ctx context.Context, date string) ([]models.StoredEvent, error) {
	out, err := c.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.cfg.Table),
		IndexName:              aws.String(c.cfg.CreatedDateIndex),
		KeyConditionExpression: aws.String("createdDate = :v1"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v1": &types.AttributeValueMemberS{Value: date},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query %s by createdDate: %w", c.cfg.CreatedDateIndex, err)
	}

	events := make([]models.StoredEvent, 0, len(out.Items))
	for _, item := range out.Items {
		ev, err := unmarshalItem(item)
		if err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// fixedAttributes are the schema fields owned by StoredEvent itself; they
// are stripped from the pass-through map on decode.
var fixedAttributes = []string{"eventId", "createdDate", "eventName", "createdAt", "modifiedAt"}

// marshalItem flattens the event into one item: pass-through fields first,
// then the fixed schema on top so derived fields win any collision.
func marshalItem(ev models.StoredEvent) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(ev.Extra)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = make(map[string]types.AttributeValue)
	}
	fixed, err := attributevalue.MarshalMap(ev)
	if err != nil {
		return nil, err
	}
	for k, v := range fixed {
		item[k] = v
	}
	return item, nil
}

func unmarshalItem(item map[string]types.AttributeValue) (models.StoredEvent, error) {
	var ev models.StoredEvent
	if err := attributevalue.UnmarshalMap(item, &ev); err != nil {
		return models.StoredEvent{}, err
	}

	extra := make(map[string]interface{})
	if err := attributevalue.UnmarshalMap(item, &extra); err != nil {
		return models.StoredEvent{}, err
	}
	for _, k := range fixedAttributes {
		delete(extra, k)
	}
	if len(extra) > 0 {
		ev.Extra = extra
	}
	return ev, nil
}
