package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"billingapp/internal/domain/billing"
	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrInvalidInvoiceID = errors.New("invalid invoice id")
)

// IInvoiceUseCase exposes invoice operations, including deriving an invoice
// from an approved estimate.
type IInvoiceUseCase interface {
	Create(ctx context.Context, in NewInvoice) (entities.Invoice, error)
	CreateFromEstimate(ctx context.Context, estimateID string, dueDate time.Time) (entities.Invoice, error)
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	List(ctx context.Context) ([]entities.Invoice, error)
	Update(ctx context.Context, id string, upd InvoiceUpdate) (entities.Invoice, error)
	Send(ctx context.Context, id string) (entities.Invoice, error)
	MarkOverdue(ctx context.Context, id string) (entities.Invoice, error)
	Delete(ctx context.Context, id string) error
}

type NewInvoice struct {
	ClientID   string
	Date       time.Time
	DueDate    time.Time
	TaxRate    float64
	Items      []entities.LineItem
	Notes      string
	Terms      string
	EstimateID string
	UserID     string
}

// InvoiceUpdate is a partial update; nil fields are left untouched. When
// Items is non-nil the whole item set is replaced and totals recomputed.
type InvoiceUpdate struct {
	Date    *time.Time
	DueDate *time.Time
	TaxRate *float64
	Items   *[]entities.LineItem
	Notes   *string
	Terms   *string
}

type InvoiceUseCase struct {
	repo      interfaces.IInvoiceRepository
	estimates interfaces.IEstimateRepository
	clients   interfaces.IClientRepository
	log       *zap.Logger

	now func() time.Time
}

var _ IInvoiceUseCase = (*InvoiceUseCase)(nil)

func NewInvoiceUseCase(repo interfaces.IInvoiceRepository, estimates interfaces.IEstimateRepository, clients interfaces.IClientRepository, log *zap.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, estimates: estimates, clients: clients, log: log, now: time.Now}
}

func (u *InvoiceUseCase) Create(ctx context.Context, in NewInvoice) (entities.Invoice, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return entities.Invoice{}, ErrInvalidClientID
	}

	client, err := u.clients.GetByID(ctx, clientID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if client.ID == "" {
		return entities.Invoice{}, ErrClientNotFound
	}

	session := billing.NewSession(in.TaxRate)
	for _, item := range in.Items {
		if err := session.AddItem(item); err != nil {
			u.log.Warn("line item rejected", zap.String("item_id", item.ID), zap.Error(err))
			return entities.Invoice{}, fmt.Errorf("%w: %v", ErrInvalidLineItem, err)
		}
	}
	totals := session.Totals()

	now := u.now().UTC()
	inv := entities.Invoice{
		ID:         uuid.NewString(),
		ClientID:   client.ID,
		ClientName: client.Name,
		Status:     entities.InvoiceStatusDraft,
		Date:       in.Date,
		DueDate:    in.DueDate,
		Items:      session.Items(),
		Subtotal:   totals.Subtotal,
		TaxRate:    totals.TaxRate,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		Notes:      in.Notes,
		Terms:      in.Terms,
		EstimateID: strings.TrimSpace(in.EstimateID),
		UserID:     in.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := u.repo.Create(ctx, inv)
	if err != nil {
		u.log.Error("invoice create failed", zap.String("invoice_id", inv.ID), zap.Error(err))
		return entities.Invoice{}, err
	}
	u.log.Info("invoice created",
		zap.String("invoice_id", created.ID),
		zap.String("client_id", created.ClientID),
		zap.Float64("total", created.Total))
	return created, nil
}

// CreateFromEstimate copies an estimate's client, items, and totals into a
// new draft invoice linked back through EstimateID.
func (u *InvoiceUseCase) CreateFromEstimate(ctx context.Context, estimateID string, dueDate time.Time) (entities.Invoice, error) {
	estimateID = strings.TrimSpace(estimateID)
	if estimateID == "" {
		return entities.Invoice{}, ErrInvalidEstimateID
	}

	est, err := u.estimates.GetByID(ctx, estimateID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if est.ID == "" {
		return entities.Invoice{}, ErrEstimateNotFound
	}

	now := u.now().UTC()
	if dueDate.IsZero() {
		dueDate = now.AddDate(0, 0, 30)
	}

	items := make([]entities.LineItem, len(est.Items))
	copy(items, est.Items)
	for i := range items {
		items[i].ID = uuid.NewString()
	}

	inv := entities.Invoice{
		ID:         uuid.NewString(),
		ClientID:   est.ClientID,
		ClientName: est.ClientName,
		Status:     entities.InvoiceStatusDraft,
		Date:       now,
		DueDate:    dueDate,
		Items:      items,
		Subtotal:   est.Subtotal,
		TaxRate:    est.TaxRate,
		TaxAmount:  est.TaxAmount,
		Total:      est.Total,
		Notes:      est.Notes,
		Terms:      est.Terms,
		EstimateID: est.ID,
		UserID:     est.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := u.repo.Create(ctx, inv)
	if err != nil {
		u.log.Error("invoice from estimate failed", zap.String("estimate_id", estimateID), zap.Error(err))
		return entities.Invoice{}, err
	}
	u.log.Info("invoice created from estimate",
		zap.String("invoice_id", created.ID),
		zap.String("estimate_id", estimateID))
	return created, nil
}

func (u *InvoiceUseCase) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Invoice{}, ErrInvalidInvoiceID
	}

	inv, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}
	if inv.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

// List returns all invoices, newest first.
func (u *InvoiceUseCase) List(ctx context.Context) ([]entities.Invoice, error) {
	invoices, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
	return invoices, nil
}

func (u *InvoiceUseCase) Update(ctx context.Context, id string, upd InvoiceUpdate) (entities.Invoice, error) {
	existing, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}

	if upd.Date != nil {
		existing.Date = *upd.Date
	}
	if upd.DueDate != nil {
		existing.DueDate = *upd.DueDate
	}
	if upd.Notes != nil {
		existing.Notes = *upd.Notes
	}
	if upd.Terms != nil {
		existing.Terms = *upd.Terms
	}
	if upd.TaxRate != nil {
		existing.TaxRate = *upd.TaxRate
	}

	if upd.Items != nil {
		session := billing.NewSession(existing.TaxRate)
		for _, item := range *upd.Items {
			if err := session.AddItem(item); err != nil {
				u.log.Warn("line item rejected", zap.String("invoice_id", id), zap.Error(err))
				return entities.Invoice{}, fmt.Errorf("%w: %v", ErrInvalidLineItem, err)
			}
		}
		if err := u.repo.ReplaceItems(ctx, id, session.Items()); err != nil {
			u.log.Error("invoice item replacement failed", zap.String("invoice_id", id), zap.Error(err))
			return entities.Invoice{}, err
		}
		existing.Items = session.Items()
	}

	totals := billing.CalculateTotals(existing.Items, existing.TaxRate)
	existing.Subtotal = totals.Subtotal
	existing.TaxAmount = totals.TaxAmount
	existing.Total = totals.Total
	existing.UpdatedAt = u.now().UTC()

	updated, err := u.repo.Update(ctx, existing)
	if err != nil {
		u.log.Error("invoice update failed", zap.String("invoice_id", id), zap.Error(err))
		return entities.Invoice{}, err
	}
	if updated.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	return updated, nil
}

func (u *InvoiceUseCase) Send(ctx context.Context, id string) (entities.Invoice, error) {
	return u.updateStatus(ctx, id, entities.InvoiceStatusSent)
}

func (u *InvoiceUseCase) MarkOverdue(ctx context.Context, id string) (entities.Invoice, error) {
	return u.updateStatus(ctx, id, entities.InvoiceStatusOverdue)
}

func (u *InvoiceUseCase) updateStatus(ctx context.Context, id string, status entities.InvoiceStatus) (entities.Invoice, error) {
	existing, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Invoice{}, err
	}

	existing.Status = status
	existing.UpdatedAt = u.now().UTC()

	updated, err := u.repo.Update(ctx, existing)
	if err != nil {
		u.log.Error("invoice status update failed", zap.String("invoice_id", id), zap.Error(err))
		return entities.Invoice{}, err
	}
	if updated.ID == "" {
		return entities.Invoice{}, ErrInvoiceNotFound
	}
	u.log.Info("invoice status updated", zap.String("invoice_id", id), zap.String("status", string(status)))
	return updated, nil
}

func (u *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInvoiceID
	}

	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		u.log.Error("invoice delete failed", zap.String("invoice_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrInvoiceNotFound
	}
	u.log.Info("invoice deleted", zap.String("invoice_id", id))
	return nil
}
