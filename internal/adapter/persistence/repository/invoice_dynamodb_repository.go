package repository

import (
	"context"
	"errors"
	"time"

	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultInvoicesTableName     = "invoices"
	defaultInvoiceItemsTableName = "invoice_items"
	invoiceItemsInvoiceIDIndex   = "invoice_id-index"
)

type invoiceRecord struct {
	ID         string `dynamodbav:"id"`
	ClientID   string `dynamodbav:"client_id"`
	ClientName string `dynamodbav:"client_name"`
	Status     string `dynamodbav:"status"`
	Date       string `dynamodbav:"date,omitempty"`
	DueDate    string `dynamodbav:"due_date,omitempty"`
	Subtotal   string `dynamodbav:"subtotal"`
	TaxRate    string `dynamodbav:"tax_rate"`
	TaxAmount  string `dynamodbav:"tax_amount"`
	Total      string `dynamodbav:"total"`
	Notes      string `dynamodbav:"notes,omitempty"`
	Terms      string `dynamodbav:"terms,omitempty"`
	EstimateID string `dynamodbav:"estimate_id,omitempty"`
	PaidDate   string `dynamodbav:"paid_date,omitempty"`
	UserID     string `dynamodbav:"user_id,omitempty"`
	CreatedAt  string `dynamodbav:"created_at"`
	UpdatedAt  string `dynamodbav:"updated_at"`
}

type invoiceItemRecord struct {
	ID          string `dynamodbav:"id"`
	InvoiceID   string `dynamodbav:"invoice_id"`
	Description string `dynamodbav:"description"`
	Quantity    string `dynamodbav:"quantity"`
	Rate        string `dynamodbav:"rate"`
	Taxable     bool   `dynamodbav:"tax"`
	Total       string `dynamodbav:"total"`
	Category    string `dynamodbav:"category"`
	CreatedAt   string `dynamodbav:"created_at,omitempty"`
}

// InvoiceDynamoRepository persists Invoice entities in DynamoDB.
//
// Table requirements:
//   - invoices: PK id (string)
//   - invoice_items: PK id (string), GSI invoice_id-index (PK: invoice_id)

type InvoiceDynamoRepository struct {
	ddb        *dynamodb.Client
	tableName  string
	itemsTable string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb *dynamodb.Client) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{
		ddb:        ddb,
		tableName:  getenvDefault("INVOICES_TABLE", defaultInvoicesTableName),
		itemsTable: getenvDefault("INVOICE_ITEMS_TABLE", defaultInvoiceItemsTableName),
	}
}

func (r *InvoiceDynamoRepository) Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	av, err := attributevalue.MarshalMap(toInvoiceRecord(inv))
	if err != nil {
		return entities.Invoice{}, err
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
		return entities.Invoice{}, err
	}

	if err := r.putItems(ctx, inv.ID, inv.Items); err != nil {
		return entities.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Item) == 0 {
		return entities.Invoice{}, nil
	}

	var rec invoiceRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return entities.Invoice{}, err
	}

	items, err := r.queryItems(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}

	inv := fromInvoiceRecord(rec)
	inv.Items = items
	return inv, nil
}

func (r *InvoiceDynamoRepository) List(ctx context.Context) ([]entities.Invoice, error) {
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

	itemsByInvoice := make(map[string][]entities.LineItem)
	for _, raw := range itemsOut.Items {
		var rec invoiceItemRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, err
		}
		itemsByInvoice[rec.InvoiceID] = append(itemsByInvoice[rec.InvoiceID], fromInvoiceItemRecord(rec))
	}

	invoices := make([]entities.Invoice, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec invoiceRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, err
		}
		inv := fromInvoiceRecord(rec)
		inv.Items = itemsByInvoice[inv.ID]
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func (r *InvoiceDynamoRepository) Update(ctx context.Context, inv entities.Invoice) (entities.Invoice, error) {
	av, err := attributevalue.MarshalMap(toInvoiceRecord(inv))
	if err != nil {
		return entities.Invoice{}, err
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
			return entities.Invoice{}, nil
		}
		return entities.Invoice{}, err
	}
	return inv, nil
}

// ReplaceItems drops the invoice's item rows and inserts the new set.
// The two steps are not atomic; a failure in between leaves the invoice
// without items.
func (r *InvoiceDynamoRepository) ReplaceItems(ctx context.Context, invoiceID string, items []entities.LineItem) error {
	if err := r.deleteItems(ctx, invoiceID); err != nil {
		return err
	}
	return r.putItems(ctx, invoiceID, items)
}

// MarkPaid flips the invoice to paid and stamps the paid date in a single
// update expression.
func (r *InvoiceDynamoRepository) MarkPaid(ctx context.Context, id string, paidDate time.Time) (entities.Invoice, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #status = :status, #paid_date = :paid_date, #updated_at = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(entities.InvoiceStatusPaid)},
			":paid_date":  &types.AttributeValueMemberS{Value: timeToString(paidDate)},
			":updated_at": &types.AttributeValueMemberS{Value: timeToString(time.Now())},
		},
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#paid_date":  "paid_date",
			"#updated_at": "updated_at",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Invoice{}, nil
		}
		return entities.Invoice{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Invoice{}, nil
	}

	var rec invoiceRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceRecord(rec), nil
}

// Delete removes the item rows first, then the invoice header. A failure
// after the item delete leaves a reachable itemless invoice rather than
// orphaned item rows.
func (r *InvoiceDynamoRepository) Delete(ctx context.Context, id string) (bool, error) {
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

func (r *InvoiceDynamoRepository) queryItems(ctx context.Context, invoiceID string) ([]entities.LineItem, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.itemsTable),
		IndexName:              aws.String(invoiceItemsInvoiceIDIndex),
		KeyConditionExpression: aws.String("invoice_id = :iid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":iid": &types.AttributeValueMemberS{Value: invoiceID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.LineItem, 0, len(out.Items))
	for _, raw := range out.Items {
		var rec invoiceItemRecord
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, err
		}
		items = append(items, fromInvoiceItemRecord(rec))
	}
	return items, nil
}

func (r *InvoiceDynamoRepository) putItems(ctx context.Context, invoiceID string, items []entities.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		av, err := attributevalue.MarshalMap(toInvoiceItemRecord(invoiceID, item))
		if err != nil {
			return err
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}
	return batchWrite(ctx, r.ddb, r.itemsTable, requests)
}

func (r *InvoiceDynamoRepository) deleteItems(ctx context.Context, invoiceID string) error {
	existing, err := r.queryItems(ctx, invoiceID)
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

func toInvoiceRecord(inv entities.Invoice) invoiceRecord {
	rec := invoiceRecord{
		ID:         inv.ID,
		ClientID:   inv.ClientID,
		ClientName: inv.ClientName,
		Status:     string(inv.Status),
		Date:       timeToString(inv.Date),
		DueDate:    timeToString(inv.DueDate),
		Subtotal:   floatToString(inv.Subtotal),
		TaxRate:    floatToString(inv.TaxRate),
		TaxAmount:  floatToString(inv.TaxAmount),
		Total:      floatToString(inv.Total),
		Notes:      inv.Notes,
		Terms:      inv.Terms,
		EstimateID: inv.EstimateID,
		UserID:     inv.UserID,
		CreatedAt:  timeToString(inv.CreatedAt),
		UpdatedAt:  timeToString(inv.UpdatedAt),
	}
	if inv.PaidDate != nil {
		rec.PaidDate = timeToString(*inv.PaidDate)
	}
	return rec
}

func fromInvoiceRecord(rec invoiceRecord) entities.Invoice {
	inv := entities.Invoice{
		ID:         rec.ID,
		ClientID:   rec.ClientID,
		ClientName: rec.ClientName,
		Status:     entities.InvoiceStatus(rec.Status),
		Date:       stringToTime(rec.Date),
		DueDate:    stringToTime(rec.DueDate),
		Subtotal:   stringToFloat(rec.Subtotal),
		TaxRate:    stringToFloat(rec.TaxRate),
		TaxAmount:  stringToFloat(rec.TaxAmount),
		Total:      stringToFloat(rec.Total),
		Notes:      rec.Notes,
		Terms:      rec.Terms,
		EstimateID: rec.EstimateID,
		UserID:     rec.UserID,
		CreatedAt:  stringToTime(rec.CreatedAt),
		UpdatedAt:  stringToTime(rec.UpdatedAt),
	}
	if rec.PaidDate != "" {
		paid := stringToTime(rec.PaidDate)
		inv.PaidDate = &paid
	}
	return inv
}

func toInvoiceItemRecord(invoiceID string, item entities.LineItem) invoiceItemRecord {
	return invoiceItemRecord{
		ID:          item.ID,
		InvoiceID:   invoiceID,
		Description: item.Description,
		Quantity:    floatToString(item.Quantity),
		Rate:        floatToString(item.Rate),
		Taxable:     item.Taxable,
		Total:       floatToString(item.Total),
		Category:    string(item.Category),
		CreatedAt:   timeToString(item.CreatedAt),
	}
}

func fromInvoiceItemRecord(rec invoiceItemRecord) entities.LineItem {
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
