package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrInvalidClientID   = errors.New("invalid client id")
	ErrInvalidClientName = errors.New("invalid client name")
)

// IClientUseCase exposes client directory operations. Estimates consume it as
// the client-lookup collaborator (id -> name for display and numbering).
type IClientUseCase interface {
	Create(ctx context.Context, in NewClient) (entities.Client, error)
	GetByID(ctx context.Context, id string) (entities.Client, error)
	List(ctx context.Context) ([]entities.Client, error)
	Update(ctx context.Context, id string, upd ClientUpdate) (entities.Client, error)
	Delete(ctx context.Context, id string) error
}

// NewClient carries the fields a caller provides when creating a client.
type NewClient struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
	UserID  string
}

// ClientUpdate is a partial update; nil fields are left untouched.
type ClientUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

type ClientUseCase struct {
	repo interfaces.IClientRepository
	log  *zap.Logger
}

var _ IClientUseCase = (*ClientUseCase)(nil)

func NewClientUseCase(repo interfaces.IClientRepository, log *zap.Logger) *ClientUseCase {
	return &ClientUseCase{repo: repo, log: log}
}

func (u *ClientUseCase) Create(ctx context.Context, in NewClient) (entities.Client, error) {
	if strings.TrimSpace(in.Name) == "" {
		return entities.Client{}, ErrInvalidClientName
	}

	now := time.Now().UTC()
	c := entities.Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Notes:     in.Notes,
		UserID:    in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := u.repo.Create(ctx, c)
	if err != nil {
		u.log.Error("client create failed", zap.Error(err))
		return entities.Client{}, err
	}
	u.log.Info("client created", zap.String("client_id", created.ID))
	return created, nil
}

func (u *ClientUseCase) GetByID(ctx context.Context, id string) (entities.Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Client{}, ErrInvalidClientID
	}

	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Client{}, err
	}
	if c.ID == "" {
		return entities.Client{}, ErrClientNotFound
	}
	return c, nil
}

// List returns all clients, newest first.
func (u *ClientUseCase) List(ctx context.Context) ([]entities.Client, error) {
	clients, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].CreatedAt.After(clients[j].CreatedAt)
	})
	return clients, nil
}

func (u *ClientUseCase) Update(ctx context.Context, id string, upd ClientUpdate) (entities.Client, error) {
	existing, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Client{}, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return entities.Client{}, ErrInvalidClientName
		}
		existing.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		existing.Email = strings.TrimSpace(*upd.Email)
	}
	if upd.Phone != nil {
		existing.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		existing.Address = strings.TrimSpace(*upd.Address)
	}
	if upd.Notes != nil {
		existing.Notes = *upd.Notes
	}
	existing.UpdatedAt = time.Now().UTC()

	updated, err := u.repo.Update(ctx, existing)
	if err != nil {
		u.log.Error("client update failed", zap.String("client_id", id), zap.Error(err))
		return entities.Client{}, err
	}
	return updated, nil
}

func (u *ClientUseCase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidClientID
	}

	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		u.log.Error("client delete failed", zap.String("client_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrClientNotFound
	}
	u.log.Info("client deleted", zap.String("client_id", id))
	return nil
}
