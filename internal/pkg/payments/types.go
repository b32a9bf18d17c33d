package payments

import (
	"time"

	"github.com/schoolpay-labs/schoolpay/app/models"
)

// StudentInput is the caller-supplied student block of a payment
// request. All three fields are required after trimming.
type StudentInput struct {
	Name  string `json:"name" validate:"required"`
	ID    string `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// CollectRequest is the gateway's answer to a create call.
type CollectRequest struct {
	CollectRequestID string
	PaymentURL       string
	Sign             string
	SignMethod       string
}

// CreatePaymentResult is the external contract of payment creation. It
// surfaces only gateway-assigned identifiers, never internal keys.
type CreatePaymentResult struct {
	SchoolID         string  `json:"school_id"`
	Amount           float64 `json:"amount"`
	CollectRequestID string  `json:"collect_request_id"`
	PaymentURL       string  `json:"payment_url"`
	Sign             string  `json:"sign"`
}

// StatusResult is the normalized view of a live gateway status read.
type StatusResult struct {
	CollectRequestID string         `json:"collect_request_id"`
	Status           string         `json:"status"`
	GatewayResponse  map[string]any `json:"gateway_response"`
}

// InboundWebhook is the transport-neutral view of one webhook
// delivery, resolved at the HTTP boundary before any business logic.
type InboundWebhook struct {
	// RawPayload is the verbatim body (POST) or query string (GET),
	// captured for the audit log before interpretation.
	RawPayload string
	// OrderInfo holds the delivery's claims under gateway field names.
	OrderInfo map[string]any
}

// ReconcileOutcome describes what a processed delivery produced.
type ReconcileOutcome struct {
	CollectRequestID string             `json:"collect_request_id"`
	OrderInfo        models.OrderStatus `json:"order_info"`
	GatewayResponse  map[string]any     `json:"gateway_response,omitempty"`
	IsFallback       bool               `json:"is_fallback"`
	SignMethod       string             `json:"-"`
	LogID            uint               `json:"-"`
}

// Transaction is one row of the admin aggregation: an order joined
// with its latest settlement state, defaults applied where no status
// record exists yet.
type Transaction struct {
	CollectRequestID  string    `json:"collect_request_id"`
	SchoolID          string    `json:"school_id"`
	TrusteeID         string    `json:"trustee_id"`
	StudentName       string    `json:"student_name"`
	StudentID         string    `json:"student_id"`
	StudentEmail      string    `json:"student_email"`
	GatewayName       string    `json:"gateway_name"`
	OrderAmount       float64   `json:"order_amount"`
	TransactionAmount float64   `json:"transaction_amount"`
	Gateway           string    `json:"gateway"`
	PaymentMode       string    `json:"payment_mode"`
	PaymentDetails    string    `json:"payment_details"`
	BankReference     string    `json:"bank_reference"`
	Status            string    `json:"status"`
	PaymentMessage    string    `json:"payment_message"`
	PaymentTime       time.Time `json:"payment_time"`
	ErrorMessage      string    `json:"error_message"`
}
