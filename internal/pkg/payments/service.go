package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolpay-labs/schoolpay/app/models"
)

var validate = validator.New()

// Service implements payment creation and live status queries against
// the gateway.
type Service struct {
	cfg     Config
	repo    Repository
	gateway Gateway
}

// NewService creates a payment service from injected collaborators.
func NewService(cfg Config, repo Repository, gateway Gateway) *Service {
	return &Service{cfg: cfg, repo: repo, gateway: gateway}
}

// NewServiceFromDB creates a payment service from a GORM DB handle.
func NewServiceFromDB(cfg Config, db *gorm.DB) *Service {
	return NewService(cfg, NewRepository(db), NewGatewayClient(cfg))
}

// ParseAmount coerces the caller-supplied amount (JSON number or
// string) into a positive decimal.
func ParseAmount(v any) (float64, error) {
	var amt float64
	switch n := v.(type) {
	case float64:
		amt = n
	case float32:
		amt = float64(n)
	case int:
		amt = float64(n)
	case int64:
		amt = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: valid amount greater than 0 is required", ErrValidation)
		}
		amt = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: valid amount greater than 0 is required", ErrValidation)
		}
		amt = f
	default:
		return 0, fmt.Errorf("%w: valid amount greater than 0 is required", ErrValidation)
	}
	if amt <= 0 || math.IsNaN(amt) || math.IsInf(amt, 0) {
		return 0, fmt.Errorf("%w: valid amount greater than 0 is required", ErrValidation)
	}
	return amt, nil
}

// CreatePayment validates the request, persists an order, registers a
// collect request with the gateway and patches the order with the
// gateway-assigned id and redirect URL.
//
// The order row is written before the gateway call; when that call
// fails the row stays with an empty collect_request_id and is never
// considered active. The gateway failure is surfaced to the caller.
func (s *Service) CreatePayment(ctx context.Context, amount any, student StudentInput) (*CreatePaymentResult, error) {
	student.Name = strings.TrimSpace(student.Name)
	student.ID = strings.TrimSpace(student.ID)
	student.Email = strings.ToLower(strings.TrimSpace(student.Email))
	if err := validate.Struct(student); err != nil {
		return nil, fmt.Errorf("%w: complete student info is required (name, id, email)", ErrValidation)
	}

	amt, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderID:   uuid.NewString(),
		SchoolID:  s.cfg.SchoolID,
		TrusteeID: s.cfg.TrusteeID,
		StudentInfo: models.StudentInfo{
			Name:  student.Name,
			ID:    student.ID,
			Email: student.Email,
		},
		GatewayName: s.cfg.GatewayName,
		OrderAmount: amt,
	}
	if err := s.repo.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	cr, err := s.gateway.CreateCollectRequest(ctx, amt)
	if err != nil {
		log.Printf("payment creation failed for order %s: %v", order.OrderID, err)
		return nil, err
	}

	if err := s.repo.UpdateOrder(order.OrderID, map[string]any{
		"collect_request_id": cr.CollectRequestID,
		"payment_url":        cr.PaymentURL,
	}); err != nil {
		return nil, fmt.Errorf("update order %s: %w", order.OrderID, err)
	}

	return &CreatePaymentResult{
		SchoolID:         s.cfg.SchoolID,
		Amount:           amt,
		CollectRequestID: cr.CollectRequestID,
		PaymentURL:       cr.PaymentURL,
		Sign:             cr.Sign,
	}, nil
}

// GetStatus performs a live authoritative read against the gateway.
// Deliberately uncached: status must reflect the gateway's current
// state, not a possibly-stale local copy.
func (s *Service) GetStatus(ctx context.Context, collectRequestID string) (*StatusResult, error) {
	id := strings.TrimSpace(collectRequestID)
	if id == "" {
		return nil, fmt.Errorf("%w: collect_request_id is required", ErrValidation)
	}

	payload, _, err := s.gateway.GetCollectRequestStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		CollectRequestID: id,
		Status:           NormalizeStatus(strField(payload, "status")),
		GatewayResponse:  payload,
	}, nil
}
