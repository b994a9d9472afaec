package runlog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DynamoRecorder stores run records in a DynamoDB table.
// The partition key is dataset (string), the sort key run_id (string).
type DynamoRecorder struct {
	client DDBClient
	table  string
}

var _ Recorder = (*DynamoRecorder)(nil)

// NewDynamoRecorder creates a recorder writing to table.
func NewDynamoRecorder(client DDBClient, table string) *DynamoRecorder {
	return &DynamoRecorder{client: client, table: table}
}

func (d *DynamoRecorder) Record(ctx context.Context, r Record) error {
	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                toItem(r),
		ConditionExpression: aws.String("attribute_not_exists(run_id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrDuplicateRun
		}
		return fmt.Errorf("runlog: put item: %w", err)
	}
	return nil
}

func (d *DynamoRecorder) List(ctx context.Context, dataset string, limit int) ([]Record, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(d.table),
		KeyConditionExpression: aws.String("dataset = :ds"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ds": &types.AttributeValueMemberS{Value: dataset},
		},
		ScanIndexForward: aws.Bool(false), // newest run ids first
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(min(limit, 1<<30)))
	}

	resp, err := d.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("runlog: query: %w", err)
	}

	out := make([]Record, 0, len(resp.Items))
	for _, item := range resp.Items {
		r, err := fromItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func toItem(r Record) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"dataset":    &types.AttributeValueMemberS{Value: r.Dataset},
		"run_id":     &types.AttributeValueMemberS{Value: r.RunID},
		"strategy":   &types.AttributeValueMemberS{Value: r.Strategy},
		"workers":    &types.AttributeValueMemberN{Value: strconv.Itoa(r.Workers)},
		"fill":       &types.AttributeValueMemberS{Value: r.Fill},
		"active":     &types.AttributeValueMemberN{Value: strconv.Itoa(r.Active)},
		"sorted":     &types.AttributeValueMemberBOOL{Value: r.Sorted},
		"elapsed_ns": &types.AttributeValueMemberN{Value: strconv.FormatInt(int64(r.Elapsed), 10)},
		"started_at": &types.AttributeValueMemberS{Value: r.StartedAt.UTC().Format(time.RFC3339Nano)},
	}
	if r.Aggregator != "" {
		item["aggregator"] = &types.AttributeValueMemberS{Value: r.Aggregator}
	}
	if r.Output != "" {
		item["output"] = &types.AttributeValueMemberS{Value: r.Output}
	}
	return item
}

func fromItem(item map[string]types.AttributeValue) (Record, error) {
	var r Record
	var err error

	str := func(name string, required bool) string {
		v, ok := item[name].(*types.AttributeValueMemberS)
		if !ok {
			if required && err == nil {
				err = fmt.Errorf("runlog: invalid %s attribute", name)
			}
			return ""
		}
		return v.Value
	}
	num := func(name string) int64 {
		v, ok := item[name].(*types.AttributeValueMemberN)
		if !ok {
			if err == nil {
				err = fmt.Errorf("runlog: invalid %s attribute", name)
			}
			return 0
		}
		n, perr := strconv.ParseInt(v.Value, 10, 64)
		if perr != nil && err == nil {
			err = fmt.Errorf("runlog: parse %s: %w", name, perr)
		}
		return n
	}

	r.Dataset = str("dataset", true)
	r.RunID = str("run_id", true)
	r.Strategy = str("strategy", true)
	r.Fill = str("fill", true)
	r.Aggregator = str("aggregator", false)
	r.Output = str("output", false)
	r.Workers = int(num("workers"))
	r.Active = int(num("active"))
	r.Elapsed = time.Duration(num("elapsed_ns"))
	if b, ok := item["sorted"].(*types.AttributeValueMemberBOOL); ok {
		r.Sorted = b.Value
	}
	if ts := str("started_at", true); ts != "" {
		t, perr := time.Parse(time.RFC3339Nano, ts)
		if perr != nil && err == nil {
			err = fmt.Errorf("runlog: parse started_at: %w", perr)
		}
		r.StartedAt = t
	}
	return r, err
}
