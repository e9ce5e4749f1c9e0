package request

import (
	"errors"
	"testing"

	"billingapp/internal/domain/entities"
)

func TestLineItemRequest_ToLineItem(t *testing.T) {
	r := LineItemRequest{
		ID:          " li-1 ",
		Description: "Brake pads",
		Quantity:    2,
		Rate:        40,
		Taxable:     true,
		Total:       80,
		Category:    "materials",
	}
	item, err := r.ToLineItem()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "li-1" {
		t.Fatalf("expected li-1, got %q", item.ID)
	}
	if item.Category != entities.ItemCategoryMaterials {
		t.Fatalf("expected materials, got %q", item.Category)
	}
	if item.Total != 80 {
		t.Fatalf("expected 80, got %v", item.Total)
	}

	r2 := LineItemRequest{ID: "   ", Description: "Labor"}
	if _, err := r2.ToLineItem(); !errors.Is(err, ErrInvalidLineItemPayload) {
		t.Fatalf("expected ErrInvalidLineItemPayload, got %v", err)
	}
}

func TestEstimateRequest_ToNewEstimate(t *testing.T) {
	r := EstimateRequest{
		ClientID: "client-1",
		TaxRate:  10,
		Items: []LineItemRequest{
			{ID: "li-1", Description: "Labor", Quantity: 1, Rate: 50, Total: 50, Category: "labor"},
		},
		Notes: "net 30",
	}
	ne, err := r.ToNewEstimate("user-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ne.UserID != "user-9" {
		t.Fatalf("expected user-9, got %q", ne.UserID)
	}
	if len(ne.Items) != 1 || ne.Items[0].ID != "li-1" {
		t.Fatalf("unexpected items: %+v", ne.Items)
	}

	r.Items = append(r.Items, LineItemRequest{Description: "Missing id"})
	if _, err := r.ToNewEstimate("user-9"); !errors.Is(err, ErrInvalidLineItemPayload) {
		t.Fatalf("expected ErrInvalidLineItemPayload, got %v", err)
	}
}

func TestEstimateUpdateRequest_ToEstimateUpdate(t *testing.T) {
	rate := 8.5
	notes := "updated"
	items := []LineItemRequest{{ID: "li-2", Description: "Paint", Quantity: 1, Rate: 20, Total: 20}}
	r := EstimateUpdateRequest{TaxRate: &rate, Notes: &notes, Items: &items}

	upd, err := r.ToEstimateUpdate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.TaxRate == nil || *upd.TaxRate != 8.5 {
		t.Fatalf("unexpected tax rate: %+v", upd.TaxRate)
	}
	if upd.Date != nil || upd.ExpirationDate != nil {
		t.Fatal("expected untouched fields to stay nil")
	}
	if upd.Items == nil || len(*upd.Items) != 1 || (*upd.Items)[0].ID != "li-2" {
		t.Fatalf("unexpected items: %+v", upd.Items)
	}
}
