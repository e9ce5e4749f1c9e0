package repository

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDB caps BatchWriteItem at 25 requests.
const batchWriteChunkSize = 25

func batchWrite(ctx context.Context, ddb *dynamodb.Client, tableName string, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += batchWriteChunkSize {
		end := start + batchWriteChunkSize
		if end > len(requests) {
			end = len(requests)
		}

		pending := requests[start:end]
		for len(pending) > 0 {
			out, err := ddb.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					tableName: pending,
				},
			})
			if err != nil {
				return err
			}
			pending = out.UnprocessedItems[tableName]
		}
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Monetary values are stored as strings to keep exact decimal text across
// the wire instead of DynamoDB number normalization.
func floatToString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringToFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func stringToTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
