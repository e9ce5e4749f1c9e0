package response

import (
	"testing"
	"time"

	"billingapp/internal/domain/entities"
)

func TestFromEstimate(t *testing.T) {
	now := time.Now().UTC()
	e := entities.Estimate{
		ID:         "JS-20250407-01",
		ClientID:   "client-1",
		ClientName: "John Smith",
		Status:     entities.EstimateStatusApproved,
		TaxRate:    10,
		Subtotal:   100,
		TaxAmount:  10,
		Total:      110,
		Items: []entities.LineItem{
			{ID: "li-1", Description: "Labor", Quantity: 2, Rate: 50, Total: 100, Category: entities.ItemCategoryLabor},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	res := FromEstimate(e)
	if res.ID != "JS-20250407-01" || res.EstimateNumber != "JS-20250407-01" {
		t.Fatalf("unexpected ids: %+v", res)
	}
	if res.ClientID != "client-1" || res.ClientName != "John Smith" {
		t.Fatalf("unexpected client fields: %+v", res)
	}
	if res.Total != 110 || res.Status != "approved" {
		t.Fatalf("unexpected mapped fields: %+v", res)
	}
	if len(res.Items) != 1 || res.Items[0].Category != "labor" {
		t.Fatalf("unexpected items: %+v", res.Items)
	}
	if !res.CreatedAt.Equal(now) || !res.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected dates: %+v", res)
	}
}

func TestFromEstimates(t *testing.T) {
	out := FromEstimates([]entities.Estimate{{ID: "a"}, {ID: "b"}})
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Fatalf("unexpected slice mapping: %+v", out)
	}
}
