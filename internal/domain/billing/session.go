package billing

import (
	"errors"
	"math"

	"billingapp/internal/domain/entities"

	"github.com/google/uuid"
)

var (
	ErrLineItemMissingID          = errors.New("line item id is required")
	ErrLineItemMissingDescription = errors.New("line item description is required")
)

// ItemUpdate is one mutation applied to a single line item. The closed set of
// operations replaces free-form field updates so every payload is typed.
type ItemUpdate interface {
	apply(item *entities.LineItem)
}

type SetDescription struct{ Description string }

type SetQuantity struct{ Quantity float64 }

type SetRate struct{ Rate float64 }

type SetCategory struct{ Category entities.ItemCategory }

type SetTaxable struct{ Taxable bool }

func (op SetDescription) apply(item *entities.LineItem) { item.Description = op.Description }

func (op SetQuantity) apply(item *entities.LineItem) {
	item.Quantity = op.Quantity
	item.Total = item.Quantity * item.Rate
}

func (op SetRate) apply(item *entities.LineItem) {
	item.Rate = op.Rate
	item.Total = item.Quantity * item.Rate
}

func (op SetCategory) apply(item *entities.LineItem) { item.Category = op.Category }

func (op SetTaxable) apply(item *entities.LineItem) { item.Taxable = op.Taxable }

// Session owns the line items of one estimate-editing session and keeps the
// derived totals consistent after every mutation. It is exclusively owned by
// a single editing flow and is not safe for concurrent use.
type Session struct {
	items   []entities.LineItem
	taxRate float64
	totals  Totals

	newID func() string
}

func NewSession(taxRate float64) *Session {
	s := &Session{
		taxRate: taxRate,
		newID:   uuid.NewString,
	}
	s.recompute()
	return s
}

// AddBlankItem appends an empty labor row the user fills in afterwards.
func (s *Session) AddBlankItem() entities.LineItem {
	item := entities.LineItem{
		ID:       s.newID(),
		Quantity: 1,
		Rate:     0,
		Total:    0,
		Category: entities.ItemCategoryLabor,
	}
	s.items = append(s.items, item)
	s.recompute()
	return item
}

// AddItem appends a pre-populated row, e.g. one selected from the catalog.
// ID and description are required. Quantity and rate are corrected to usable
// defaults, and the total is always recomputed before insertion so a stale
// caller-supplied total cannot break the session invariant.
func (s *Session) AddItem(item entities.LineItem) error {
	if item.ID == "" {
		return ErrLineItemMissingID
	}
	if item.Description == "" {
		return ErrLineItemMissingDescription
	}
	if item.Quantity <= 0 || math.IsNaN(item.Quantity) {
		item.Quantity = 1
	}
	if math.IsNaN(item.Rate) {
		item.Rate = 0
	}
	if !item.Category.Valid() {
		item.Category = entities.ItemCategoryOther
	}
	item.Total = item.Quantity * item.Rate
	s.items = append(s.items, item)
	s.recompute()
	return nil
}

// Apply runs one update operation against the item matching id. A recompute
// follows every hit; an unknown id is a no-op.
func (s *Session) Apply(id string, op ItemUpdate) {
	for i := range s.items {
		if s.items[i].ID == id {
			op.apply(&s.items[i])
			s.recompute()
			return
		}
	}
}

// Remove drops the item matching id; a no-op when absent.
func (s *Session) Remove(id string) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.recompute()
			return
		}
	}
}

// SetTaxRate changes the session tax rate and recomputes totals without
// touching items.
func (s *Session) SetTaxRate(taxRate float64) {
	s.taxRate = taxRate
	s.recompute()
}

// Items returns a copy of the current line items; the session keeps
// exclusive ownership of its backing slice.
func (s *Session) Items() []entities.LineItem {
	out := make([]entities.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Session) Totals() Totals { return s.totals }

func (s *Session) TaxRate() float64 { return s.taxRate }

func (s *Session) recompute() {
	s.totals = CalculateTotals(s.items, s.taxRate)
}
