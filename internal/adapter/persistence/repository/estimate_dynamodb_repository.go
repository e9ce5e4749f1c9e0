package repository

import (
	"context"
	"errors"

	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase"
	"billingapp/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultEstimatesTableName     = "estimates"
	defaultEstimateItemsTableName = "estimate_items"
	estimateItemsEstimateIDIndex  = "estimate_id-index"
)

type estimateRecord struct {
	ID             string `dynamodbav:"id"`
	ClientID       string `dynamodbav:"client_id"`
	ClientName     string `dynamodbav:"client_name"`
	Status         string `dynamodbav:"status"`
	Date           string `dynamodbav:"date,omitempty"`
	ExpirationDate string `dynamodbav:"expiration_date,omitempty"`
	Subtotal       string `dynamodbav:"subtotal"`
	TaxRate        string `dynamodbav:"tax_rate"`
	TaxAmount      string `dynamodbav:"tax_amount"`
	Total          string `dynamodbav:"total"`
	Notes          string `dynamodbav:"notes,omitempty"`
	Terms          string `dynamodbav:"terms,omitempty"`
	UserID         string `dynamodbav:"user_id,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
}

type estimateItemRecord struct {
	ID          string `dynamodbav:"id"`
	EstimateID  string `dynamodbav:"estimate_id"`
	Description string `dynamodbav:"description"`
	Quantity    string `dynamodbav:"quantity"`
	Rate        string `dynamodbav:"rate"`
	Taxable     bool   `dynamodbav:"tax"`
	Total       string `dynamodbav:"total"`
	Category    string `dynamodbav:"category"`
	CreatedAt   string `dynamodbav:"created_at,omitempty"`
}

// EstimateDynamoRepository persists Estimate entities in DynamoDB.
//
// Table requirements:
//   - estimates: PK id (string). The id is the human-readable estimate
//     number, so the conditional put doubles as a uniqueness check.
//   - estimate_items: PK id (string), GSI estimate_id-index (PK: estimate_id)
//
// Items live in their own table; replacing an estimate's items is
// delete-then-insert against the GSI, mirroring how the web client edited
// line item rows.

type EstimateDynamoRepository struct {
	ddb        *dynamodb.Client
	tableName  string
	itemsTable string
}

var _ interfaces.IEstimateRepository = (*EstimateDynamoRepository)(nil)

func NewEstimateDynamoRepository(ddb *dynamodb.Client) *EstimateDynamoRepository {
	return &EstimateDynamoRepository{
		ddb:        ddb,
		tableName:  getenvDefault("ESTIMATES_TABLE", defaultEstimatesTableName),
		itemsTable: getenvDefault("ESTIMATE_ITEMS_TABLE", defaultEstimateItemsTableName),
	}
}

func (r *EstimateDynamoRepository) Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	av, err := attributevalue.MarshalMap(toEstimateRecord(e))
	if err != nil {
		return entities.Estimate{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Estimate{}, usecase.ErrEstimateNumberTaken
		}
		return entities.Estimate{}, err
	}

	if err := r.putItems(ctx, e.ID, e.Items); err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	if len(out.Item) == 0 {
		return entities.Estimate{}, nil
	}

	var rec estimateRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return entities.Estimate{}, err
	}

	items, err := r.queryItems(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	e := fromEstimateRecord(rec)
	e.Items = items
	return e, nil
}

func (r *EstimateDynamoRepository) List(ctx context.Context) ([]entities.Estimate, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	itemsOut, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.itemsTable),
	})
	if err != nil {
		return nil, err
	}

	itemsByEstimate := make(map[string][]entities.LineItem)
	for _, raw := range itemsOut.Items {
		var rec estimateItemRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, err
		}
		itemsByEstimate[rec.EstimateID] = append(itemsByEstimate[rec.EstimateID], fromEstimateItemRecord(rec))
	}

	estimates := make([]entities.Estimate, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec estimateRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, err
		}
		e := fromEstimateRecord(rec)
		e.Items = itemsByEstimate[e.ID]
		estimates = append(estimates, e)
	}
	return estimates, nil
}

// ListIDs returns every estimate number; the generator scans them to pick
// the next free daily sequence.
func (r *EstimateDynamoRepository) ListIDs(ctx context.Context) ([]string, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName:            aws.String(r.tableName),
		ProjectionExpression: aws.String("#id"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(out.Items))
	for _, raw := range out.Items {
		if v, ok := raw["id"].(*types.AttributeValueMemberS); ok {
			ids = append(ids, v.Value)
		}
	}
	return ids, nil
}

func (r *EstimateDynamoRepository) Update(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	av, err := attributevalue.MarshalMap(toEstimateRecord(e))
	if err != nil {
		return entities.Estimate{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Estimate{}, nil
		}
		return entities.Estimate{}, err
	}
	return e, nil
}

// ReplaceItems drops the estimate's item rows and inserts the new set.
// The two steps are not atomic; a failure in between leaves the estimate
// without items.
func (r *EstimateDynamoRepository) ReplaceItems(ctx context.Context, estimateID string, items []entities.LineItem) error {
	if err := r.deleteItems(ctx, estimateID); err != nil {
		return err
	}
	return r.putItems(ctx, estimateID, items)
}

// Delete removes the item rows first, then the estimate header. A failure
// after the item delete leaves a reachable itemless estimate rather than
// orphaned item rows.
func (r *EstimateDynamoRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := r.deleteItems(ctx, id); err != nil {
		return false, err
	}

	out, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(out.Attributes) > 0, nil
}

func (r *EstimateDynamoRepository) queryItems(ctx context.Context, estimateID string) ([]entities.LineItem, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.itemsTable),
		IndexName:              aws.String(estimateItemsEstimateIDIndex),
		KeyConditionExpression: aws.String("estimate_id = :eid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eid": &types.AttributeValueMemberS{Value: estimateID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.LineItem, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec estimateItemRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, err
		}
		items = append(items, fromEstimateItemRecord(rec))
	}
	return items, nil
}

func (r *EstimateDynamoRepository) putItems(ctx context.Context, estimateID string, items []entities.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		av, err := attributevalue.MarshalMap(toEstimateItemRecord(estimateID, item))
		if err != nil {
			return err
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}
	return batchWrite(ctx, r.ddb, r.itemsTable, requests)
}

func (r *EstimateDynamoRepository) deleteItems(ctx context.Context, estimateID string) error {
	existing, err := r.queryItems(ctx, estimateID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(existing))
	for _, item := range existing {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: item.ID},
				},
			},
		})
	}
	return batchWrite(ctx, r.ddb, r.itemsTable, requests)
}

func toEstimateRecord(e entities.Estimate) estimateRecord {
	return estimateRecord{
		ID:             e.ID,
		ClientID:       e.ClientID,
		ClientName:     e.ClientName,
		Status:         string(e.Status),
		Date:           timeToString(e.Date),
		ExpirationDate: timeToString(e.ExpirationDate),
		Subtotal:       floatToString(e.Subtotal),
		TaxRate:        floatToString(e.TaxRate),
		TaxAmount:      floatToString(e.TaxAmount),
		Total:          floatToString(e.Total),
		Notes:          e.Notes,
		Terms:          e.Terms,
		UserID:         e.UserID,
		CreatedAt:      timeToString(e.CreatedAt),
		UpdatedAt:      timeToString(e.UpdatedAt),
	}
}

func fromEstimateRecord(rec estimateRecord) entities.Estimate {
	return entities.Estimate{
		ID:             rec.ID,
		ClientID:       rec.ClientID,
		ClientName:     rec.ClientName,
		Status:         entities.EstimateStatus(rec.Status),
		Date:           stringToTime(rec.Date),
		ExpirationDate: stringToTime(rec.ExpirationDate),
		Subtotal:       stringToFloat(rec.Subtotal),
		TaxRate:        stringToFloat(rec.TaxRate),
		TaxAmount:      stringToFloat(rec.TaxAmount),
		Total:          stringToFloat(rec.Total),
		Notes:          rec.Notes,
		Terms:          rec.Terms,
		UserID:         rec.UserID,
		CreatedAt:      stringToTime(rec.CreatedAt),
		UpdatedAt:      stringToTime(rec.UpdatedAt),
	}
}

func toEstimateItemRecord(estimateID string, item entities.LineItem) estimateItemRecord {
	return estimateItemRecord{
		ID:          item.ID,
		EstimateID:  estimateID,
		Description: item.Description,
		Quantity:    floatToString(item.Quantity),
		Rate:        floatToString(item.Rate),
		Taxable:     item.Taxable,
		Total:       floatToString(item.Total),
		Category:    string(item.Category),
		CreatedAt:   timeToString(item.CreatedAt),
	}
}

func fromEstimateItemRecord(rec estimateItemRecord) entities.LineItem {
	return entities.LineItem{
		ID:          rec.ID,
		Description: rec.Description,
		Quantity:    stringToFloat(rec.Quantity),
		Rate:        stringToFloat(rec.Rate),
		Taxable:     rec.Taxable,
		Total:       stringToFloat(rec.Total),
		Category:    entities.ItemCategory(rec.Category),
		CreatedAt:   stringToTime(rec.CreatedAt),
	}
}
