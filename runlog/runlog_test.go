package runlog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue // dataset:run_id -> item
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dataset := params.Item["dataset"].(*types.AttributeValueMemberS).Value
	runID := params.Item["run_id"].(*types.AttributeValueMemberS).Value
	key := dataset + ":" + runID

	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(run_id)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dataset := params.ExpressionAttributeValues[":ds"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["dataset"].(*types.AttributeValueMemberS).Value == dataset {
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		a := items[i]["run_id"].(*types.AttributeValueMemberS).Value
		b := items[j]["run_id"].(*types.AttributeValueMemberS).Value
		if aws.ToBool(params.ScanIndexForward) {
			return a < b
		}
		return a > b
	})

	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}

	return &dynamodb.QueryOutput{Items: items}, nil
}

type failingDDBClient struct {
	mock.Mock
}

func (m *failingDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *failingDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func record(id string, at time.Time) Record {
	return Record{
		RunID:      id,
		Dataset:    "c8.raw",
		Strategy:   "threads",
		Workers:    4,
		Aggregator: "concat",
		Fill:       "growable",
		Active:     1234,
		Sorted:     true,
		Output:     "morton_codes_pthread.txt",
		Elapsed:    1500 * time.Millisecond,
		StartedAt:  at,
	}
}

func testRecorder(t *testing.T, rec Recorder) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	r1 := record("20261017T120000Z-threads", base)
	r2 := record("20261017T120100Z-seq", base.Add(time.Minute))
	r2.Strategy, r2.Workers, r2.Aggregator = "seq", 1, ""
	r3 := record("20261017T120200Z-dist", base.Add(2*time.Minute))
	r3.Dataset = "other.raw"

	require.NoError(t, rec.Record(ctx, r1))
	require.NoError(t, rec.Record(ctx, r2))
	require.NoError(t, rec.Record(ctx, r3))
	assert.ErrorIs(t, rec.Record(ctx, r1), ErrDuplicateRun)

	got, err := rec.List(ctx, "c8.raw", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, r2, got[0])
	assert.Equal(t, r1, got[1])

	got, err = rec.List(ctx, "c8.raw", 1)
	require.NoError(t, err)
	assert.Equal(t, []Record{r2}, got)

	got, err = rec.List(ctx, "missing.raw", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryRecorder(t *testing.T) {
	testRecorder(t, NewMemoryRecorder())
}

func TestDynamoRecorder(t *testing.T) {
	testRecorder(t, NewDynamoRecorder(newMockDDBClient(), "voxsort-runs"))
}

func TestDynamoRecorder_Errors(t *testing.T) {
	client := new(failingDDBClient)
	rec := NewDynamoRecorder(client, "voxsort-runs")
	boom := errors.New("throttled")

	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return aws.ToString(in.TableName) == "voxsort-runs"
	})).Return(nil, boom).Once()
	err := rec.Record(context.Background(), record("x", time.Now()))
	assert.ErrorIs(t, err, boom)

	client.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{{
			"dataset": &types.AttributeValueMemberS{Value: "c8.raw"},
		}},
	}, nil).Once()
	_, err = rec.List(context.Background(), "c8.raw", 0)
	assert.Error(t, err)

	client.AssertExpectations(t)
}
