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

	"go.uber.org/zap"
)

var (
	ErrEstimateNotFound    = errors.New("estimate not found")
	ErrInvalidEstimateID   = errors.New("invalid estimate id")
	ErrInvalidLineItem     = errors.New("invalid line item")
	ErrEstimateNumberTaken = errors.New("estimate number taken")
)

// IEstimateUseCase exposes estimate operations.
//
// Creation is where the domain module earns its keep: line items run through
// a billing.Session (validation, quantity/rate correction, per-item total),
// totals are computed server-side, and the id is the generated
// human-readable estimate number.
type IEstimateUseCase interface {
	Create(ctx context.Context, in NewEstimate) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	List(ctx context.Context) ([]entities.Estimate, error)
	Update(ctx context.Context, id string, upd EstimateUpdate) (entities.Estimate, error)
	MarkPending(ctx context.Context, id string) (entities.Estimate, error)
	Approve(ctx context.Context, id string) (entities.Estimate, error)
	Decline(ctx context.Context, id string) (entities.Estimate, error)
	Delete(ctx context.Context, id string) error
}

type NewEstimate struct {
	ClientID       string
	Date           time.Time
	ExpirationDate time.Time
	TaxRate        float64
	Items          []entities.LineItem
	Notes          string
	Terms          string
	UserID         string
}

// EstimateUpdate is a partial update; nil fields are left untouched. When
// Items is non-nil the whole item set is replaced and totals recomputed.
type EstimateUpdate struct {
	Date           *time.Time
	ExpirationDate *time.Time
	TaxRate        *float64
	Items          *[]entities.LineItem
	Notes          *string
	Terms          *string
}

type EstimateUseCase struct {
	repo    interfaces.IEstimateRepository
	clients interfaces.IClientRepository
	log     *zap.Logger

	now func() time.Time
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(repo interfaces.IEstimateRepository, clients interfaces.IClientRepository, log *zap.Logger) *EstimateUseCase {
	return &EstimateUseCase{repo: repo, clients: clients, log: log, now: time.Now}
}

func (u *EstimateUseCase) Create(ctx context.Context, in NewEstimate) (entities.Estimate, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return entities.Estimate{}, ErrInvalidClientID
	}

	client, err := u.clients.GetByID(ctx, clientID)
	if err != nil {
		return entities.Estimate{}, err
	}
	if client.ID == "" {
		return entities.Estimate{}, ErrClientNotFound
	}

	session := billing.NewSession(in.TaxRate)
	for _, item := range in.Items {
		if err := session.AddItem(item); err != nil {
			u.log.Warn("line item rejected", zap.String("item_id", item.ID), zap.Error(err))
			return entities.Estimate{}, fmt.Errorf("%w: %v", ErrInvalidLineItem, err)
		}
	}
	totals := session.Totals()

	existingIDs, err := u.repo.ListIDs(ctx)
	if err != nil {
		return entities.Estimate{}, err
	}
	number := billing.GenerateEstimateNumber(client.Name, existingIDs, u.now())

	now := u.now().UTC()
	e := entities.Estimate{
		ID:             number,
		ClientID:       client.ID,
		ClientName:     client.Name,
		Status:         entities.EstimateStatusDraft,
		Date:           in.Date,
		ExpirationDate: in.ExpirationDate,
		Items:          session.Items(),
		Subtotal:       totals.Subtotal,
		TaxRate:        totals.TaxRate,
		TaxAmount:      totals.TaxAmount,
		Total:          totals.Total,
		Notes:          in.Notes,
		Terms:          in.Terms,
		UserID:         in.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := u.repo.Create(ctx, e)
	if err != nil {
		u.log.Error("estimate create failed", zap.String("estimate_id", e.ID), zap.Error(err))
		return entities.Estimate{}, err
	}
	u.log.Info("estimate created",
		zap.String("estimate_id", created.ID),
		zap.String("client_id", created.ClientID),
		zap.Float64("total", created.Total))
	return created, nil
}

func (u *EstimateUseCase) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return e, nil
}

// List returns all estimates, newest first.
func (u *EstimateUseCase) List(ctx context.Context) ([]entities.Estimate, error) {
	estimates, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(estimates, func(i, j int) bool {
		return estimates[i].CreatedAt.After(estimates[j].CreatedAt)
	})
	return estimates, nil
}

func (u *EstimateUseCase) Update(ctx context.Context, id string, upd EstimateUpdate) (entities.Estimate, error) {
	existing, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	if upd.Date != nil {
		existing.Date = *upd.Date
	}
	if upd.ExpirationDate != nil {
		existing.ExpirationDate = *upd.ExpirationDate
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
				u.log.Warn("line item rejected", zap.String("estimate_id", id), zap.Error(err))
				return entities.Estimate{}, fmt.Errorf("%w: %v", ErrInvalidLineItem, err)
			}
		}
		// Replacement is delete-then-insert in the repository; an error
		// between the two steps leaves the estimate without items.
		if err := u.repo.ReplaceItems(ctx, id, session.Items()); err != nil {
			u.log.Error("estimate item replacement failed", zap.String("estimate_id", id), zap.Error(err))
			return entities.Estimate{}, err
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
		u.log.Error("estimate update failed", zap.String("estimate_id", id), zap.Error(err))
		return entities.Estimate{}, err
	}
	if updated.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return updated, nil
}

func (u *EstimateUseCase) MarkPending(ctx context.Context, id string) (entities.Estimate, error) {
	return u.updateStatus(ctx, id, entities.EstimateStatusPending)
}

func (u *EstimateUseCase) Approve(ctx context.Context, id string) (entities.Estimate, error) {
	return u.updateStatus(ctx, id, entities.EstimateStatusApproved)
}

func (u *EstimateUseCase) Decline(ctx context.Context, id string) (entities.Estimate, error) {
	return u.updateStatus(ctx, id, entities.EstimateStatusDeclined)
}

func (u *EstimateUseCase) updateStatus(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error) {
	existing, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}

	existing.Status = status
	existing.UpdatedAt = u.now().UTC()

	updated, err := u.repo.Update(ctx, existing)
	if err != nil {
		u.log.Error("estimate status update failed", zap.String("estimate_id", id), zap.Error(err))
		return entities.Estimate{}, err
	}
	if updated.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	u.log.Info("estimate status updated", zap.String("estimate_id", id), zap.String("status", string(status)))
	return updated, nil
}

func (u *EstimateUseCase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidEstimateID
	}

	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		u.log.Error("estimate delete failed", zap.String("estimate_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrEstimateNotFound
	}
	u.log.Info("estimate deleted", zap.String("estimate_id", id))
	return nil
}
