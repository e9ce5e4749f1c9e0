package repository

import (
	"context"
	"time"

	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentsTableName = "payments"
	paymentsInvoiceIDIndex   = "invoice_id-index"
)

type invoicePaymentRecord struct {
	ID                 string                 `dynamodbav:"id"`
	InvoiceID          string                 `dynamodbav:"invoice_id"`
	Date               string                 `dynamodbav:"date"`
	Status             string                 `dynamodbav:"status"`
	ProviderPayload    map[string]interface{} `dynamodbav:"provider_payload,omitempty"`
	ProviderPayloadRaw string                 `dynamodbav:"provider_payload_raw,omitempty"`
}

// InvoicePaymentDynamoRepository persists InvoicePayment entities in
// DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: invoice_id-index (PK: invoice_id)

type InvoicePaymentDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IInvoicePaymentRepository = (*InvoicePaymentDynamoRepository)(nil)

func NewInvoicePaymentDynamoRepository(ddb *dynamodb.Client) *InvoicePaymentDynamoRepository {
	return &InvoicePaymentDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PAYMENTS_TABLE", defaultPaymentsTableName),
	}
}

func (r *InvoicePaymentDynamoRepository) Create(ctx context.Context, p entities.InvoicePayment) (entities.InvoicePayment, error) {
	av, err := attributevalue.MarshalMap(toInvoicePaymentRecord(p))
	if err != nil {
		return entities.InvoicePayment{}, err
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
		return entities.InvoicePayment{}, err
	}
	return p, nil
}

func (r *InvoicePaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.InvoicePayment, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.InvoicePayment{}, err
	}
	if len(out.Item) == 0 {
		return entities.InvoicePayment{}, nil
	}

	var rec invoicePaymentRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return entities.InvoicePayment{}, err
	}
	return fromInvoicePaymentRecord(rec), nil
}

func (r *InvoicePaymentDynamoRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]entities.InvoicePayment, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsInvoiceIDIndex),
		KeyConditionExpression: aws.String("invoice_id = :iid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":iid": &types.AttributeValueMemberS{Value: invoiceID},
		},
	})
	if err != nil {
		return nil, err
	}

	payments := make([]entities.InvoicePayment, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec invoicePaymentRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, err
		}
		payments = append(payments, fromInvoicePaymentRecord(rec))
	}
	return payments, nil
}

func toInvoicePaymentRecord(p entities.InvoicePayment) invoicePaymentRecord {
	return invoicePaymentRecord{
		ID:                 p.ID,
		InvoiceID:          p.InvoiceID,
		Date:               p.Date.UTC().Format(time.RFC3339Nano),
		Status:             string(p.Status),
		ProviderPayload:    p.ProviderPayload,
		ProviderPayloadRaw: string(p.ProviderPayloadRaw),
	}
}

func fromInvoicePaymentRecord(rec invoicePaymentRecord) entities.InvoicePayment {
	dt, _ := time.Parse(time.RFC3339Nano, rec.Date)
	return entities.InvoicePayment{
		ID:                 rec.ID,
		InvoiceID:          rec.InvoiceID,
		Date:               dt,
		Status:             entities.PaymentStatus(rec.Status),
		ProviderPayload:    rec.ProviderPayload,
		ProviderPayloadRaw: []byte(rec.ProviderPayloadRaw),
	}
}
