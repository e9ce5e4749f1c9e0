package repository

import (
	"context"
	"errors"

	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultItemsTableName = "items"

type catalogItemRecord struct {
	ID          string `dynamodbav:"id"`
	Name        string `dynamodbav:"name"`
	Description string `dynamodbav:"description,omitempty"`
	Category    string `dynamodbav:"category"`
	Rate        string `dynamodbav:"rate"`
	Taxable     bool   `dynamodbav:"tax"`
	UserID      string `dynamodbav:"user_id,omitempty"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
}

// CatalogItemDynamoRepository persists CatalogItem entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)

type CatalogItemDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ICatalogItemRepository = (*CatalogItemDynamoRepository)(nil)

func NewCatalogItemDynamoRepository(ddb *dynamodb.Client) *CatalogItemDynamoRepository {
	return &CatalogItemDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("ITEMS_TABLE", defaultItemsTableName),
	}
}

func (r *CatalogItemDynamoRepository) Create(ctx context.Context, it entities.CatalogItem) (entities.CatalogItem, error) {
	av, err := attributevalue.MarshalMap(toCatalogItemRecord(it))
	if err != nil {
		return entities.CatalogItem{}, err
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
		return entities.CatalogItem{}, err
	}
	return it, nil
}

func (r *CatalogItemDynamoRepository) GetByID(ctx context.Context, id string) (entities.CatalogItem, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.CatalogItem{}, err
	}
	if len(out.Item) == 0 {
		return entities.CatalogItem{}, nil
	}

	var rec catalogItemRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return entities.CatalogItem{}, err
	}
	return fromCatalogItemRecord(rec), nil
}

func (r *CatalogItemDynamoRepository) List(ctx context.Context) ([]entities.CatalogItem, error) {
	out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.CatalogItem, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec catalogItemRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, err
		}
		items = append(items, fromCatalogItemRecord(rec))
	}
	return items, nil
}

func (r *CatalogItemDynamoRepository) Update(ctx context.Context, it entities.CatalogItem) (entities.CatalogItem, error) {
	av, err := attributevalue.MarshalMap(toCatalogItemRecord(it))
	if err != nil {
		return entities.CatalogItem{}, err
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
			return entities.CatalogItem{}, nil
		}
		return entities.CatalogItem{}, err
	}
	return it, nil
}

func (r *CatalogItemDynamoRepository) Delete(ctx context.Context, id string) (bool, error) {
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

func toCatalogItemRecord(it entities.CatalogItem) catalogItemRecord {
	return catalogItemRecord{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Category:    string(it.Category),
		Rate:        floatToString(it.Rate),
		Taxable:     it.Taxable,
		UserID:      it.UserID,
		CreatedAt:   timeToString(it.CreatedAt),
		UpdatedAt:   timeToString(it.UpdatedAt),
	}
}

func fromCatalogItemRecord(rec catalogItemRecord) entities.CatalogItem {
	return entities.CatalogItem{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Category:    entities.ItemCategory(rec.Category),
		Rate:        stringToFloat(rec.Rate),
		Taxable:     rec.Taxable,
		UserID:      rec.UserID,
		CreatedAt:   stringToTime(rec.CreatedAt),
		UpdatedAt:   stringToTime(rec.UpdatedAt),
	}
}
