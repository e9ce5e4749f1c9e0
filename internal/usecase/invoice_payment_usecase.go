package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var (
	ErrInvoicePaymentNotFound         = errors.New("invoice payment not found")
	ErrInvoiceNotPayable              = errors.New("invoice not payable")
	ErrInvalidProviderPayload         = errors.New("invalid payment provider payload")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// IInvoicePaymentUseCase encapsulates settling an invoice through the
// payment gateway: create the payment, persist the provider response, and
// mark the invoice paid on approval.
type IInvoicePaymentUseCase interface {
	CreateAndSettle(ctx context.Context, invoiceID string, payload json.RawMessage) (entities.InvoicePayment, error)
	GetByID(ctx context.Context, id string) (entities.InvoicePayment, error)
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]entities.InvoicePayment, error)
}

type InvoicePaymentUseCase struct {
	repo     interfaces.IInvoicePaymentRepository
	invoices interfaces.IInvoiceRepository
	gateway  interfaces.IPaymentGateway
	log      *zap.Logger

	now func() time.Time
}

var _ IInvoicePaymentUseCase = (*InvoicePaymentUseCase)(nil)

func NewInvoicePaymentUseCase(repo interfaces.IInvoicePaymentRepository, invoices interfaces.IInvoiceRepository, gateway interfaces.IPaymentGateway, log *zap.Logger) *InvoicePaymentUseCase {
	return &InvoicePaymentUseCase{repo: repo, invoices: invoices, gateway: gateway, log: log, now: time.Now}
}

func (u *InvoicePaymentUseCase) CreateAndSettle(ctx context.Context, invoiceID string, payload json.RawMessage) (entities.InvoicePayment, error) {
	u.log.Info("payment settle start", zap.String("invoice_id", invoiceID), zap.Int("payload_len", len(payload)))
	mockMode := IsPaymentGatewayMockEnabled()

	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return entities.InvoicePayment{}, ErrInvalidInvoiceID
	}
	if len(payload) == 0 || !json.Valid(payload) {
		if mockMode {
			payload = json.RawMessage("{}")
		} else {
			u.log.Warn("invalid provider payload", zap.String("invoice_id", invoiceID))
			return entities.InvoicePayment{}, ErrInvalidProviderPayload
		}
	}
	if u.gateway == nil {
		u.log.Error("payment gateway not configured", zap.String("invoice_id", invoiceID))
		return entities.InvoicePayment{}, errors.New("payment gateway not configured")
	}

	inv, err := u.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		u.log.Error("invoice load failed", zap.String("invoice_id", invoiceID), zap.Error(err))
		return entities.InvoicePayment{}, err
	}
	if inv.ID == "" {
		return entities.InvoicePayment{}, ErrInvoiceNotFound
	}
	if !mockMode && inv.Status != entities.InvoiceStatusSent && inv.Status != entities.InvoiceStatusOverdue {
		u.log.Warn("invoice not payable",
			zap.String("invoice_id", invoiceID),
			zap.String("status", string(inv.Status)))
		return entities.InvoicePayment{}, ErrInvoiceNotPayable
	}

	payload = u.enrichPayload(payload, inv, mockMode)

	providerPaymentID, providerStatus, providerResp, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		u.log.Error("payment gateway failed", zap.String("invoice_id", invoiceID), zap.Error(err))
		switch {
		case isGatewayCustomerNotFound(err):
			return entities.InvoicePayment{}, ErrPaymentGatewayCustomerNotFound
		case isGatewayUnauthorized(err):
			return entities.InvoicePayment{}, ErrPaymentGatewayUnauthorized
		case isGatewayBadRequest(err):
			return entities.InvoicePayment{}, ErrPaymentGatewayBadRequest
		}
		return entities.InvoicePayment{}, err
	}
	u.log.Info("payment gateway success",
		zap.String("invoice_id", invoiceID),
		zap.String("provider_payment_id", providerPaymentID),
		zap.String("provider_status", providerStatus))

	status := entities.PaymentStatusApproved
	if providerStatus != "" && providerStatus != "approved" {
		status = entities.PaymentStatusDeclined
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		u.log.Warn("provider response unmarshal failed", zap.String("invoice_id", invoiceID), zap.Error(err))
	}

	now := u.now().UTC()
	p := entities.InvoicePayment{
		ID:                 providerPaymentID,
		InvoiceID:          invoiceID,
		Date:               now,
		Status:             status,
		ProviderPayloadRaw: providerResp,
		ProviderPayload:    parsed,
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		u.log.Error("payment create failed", zap.String("invoice_id", invoiceID), zap.Error(err))
		return entities.InvoicePayment{}, err
	}

	if status == entities.PaymentStatusApproved {
		if _, err := u.invoices.MarkPaid(ctx, invoiceID, now); err != nil {
			// The payment is already recorded; surface the inconsistency
			// instead of rolling back.
			u.log.Error("invoice mark-paid failed after payment", zap.String("invoice_id", invoiceID), zap.Error(err))
			return entities.InvoicePayment{}, err
		}
	}

	u.log.Info("payment settle success",
		zap.String("invoice_id", invoiceID),
		zap.String("payment_id", created.ID),
		zap.String("status", string(created.Status)))
	return created, nil
}

func (u *InvoicePaymentUseCase) GetByID(ctx context.Context, id string) (entities.InvoicePayment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.InvoicePayment{}, ErrInvoicePaymentNotFound
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.InvoicePayment{}, err
	}
	if p.ID == "" {
		return entities.InvoicePayment{}, ErrInvoicePaymentNotFound
	}
	return p, nil
}

func (u *InvoicePaymentUseCase) ListByInvoiceID(ctx context.Context, invoiceID string) ([]entities.InvoicePayment, error) {
	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return nil, ErrInvalidInvoiceID
	}
	return u.repo.ListByInvoiceID(ctx, invoiceID)
}

// enrichPayload forces the linkage and amount fields the provider needs.
// The source of truth for the amount is the invoice in the database, never
// the caller payload.
func (u *InvoicePaymentUseCase) enrichPayload(payload json.RawMessage, inv entities.Invoice, mockMode bool) json.RawMessage {
	var reqMap map[string]any
	if err := json.Unmarshal(payload, &reqMap); err != nil {
		return payload
	}

	if !mockMode {
		ensurePayerDefaults(reqMap)
	}
	if _, ok := reqMap["external_reference"]; !ok {
		reqMap["external_reference"] = inv.ID
	}
	if _, ok := reqMap["description"]; !ok {
		reqMap["description"] = fmt.Sprintf("Invoice %s for %s", inv.ID, inv.ClientName)
	}
	reqMap["transaction_amount"] = inv.Total

	b, err := json.Marshal(reqMap)
	if err != nil {
		return payload
	}
	return b
}

func hasNonEmptyString(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(s) != ""
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

// ensurePayerDefaults fills sandbox-safe payer defaults when the caller
// provided none. Either payer.id or payer.email satisfies the provider.
func ensurePayerDefaults(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}

	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}

	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") {
		if email := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL")); email != "" {
			payer["email"] = email
		} else if strings.HasPrefix(strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")), "TEST-") {
			payer["email"] = "test_user_br@testuser.com"
		}
	}
}

// IsPaymentGatewayMockEnabled reports whether the external gateway should be
// bypassed (local development and CI).
func IsPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

func isGatewayBadRequest(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, `"error":"bad_request"`) || strings.Contains(msg, `"status":400`)
}

func isGatewayUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, `"status":401`) || strings.Contains(msg, "unauthorized")
}

func isGatewayCustomerNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "customer not found") || strings.Contains(msg, "cc_rejected_customer_not_found")
}
