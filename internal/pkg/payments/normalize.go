package payments

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/schoolpay-labs/schoolpay/app/models"
)

// ExtractCollectRequestID derives the canonical collect request id from
// a raw inbound order identifier. Gateways may append a sub-identifier
// after a slash; only the prefix is the order key.
func ExtractCollectRequestID(orderID string) string {
	id := strings.TrimSpace(orderID)
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return id[:i]
	}
	return id
}

// NormalizeStatus maps an arbitrary gateway status token onto the
// closed lowercase vocabulary. Unrecognized tokens become "unknown",
// never an error.
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success", "successful":
		return models.PaymentStatusSuccess
	case "failed", "failure":
		return models.PaymentStatusFailed
	case "cancelled", "canceled":
		return models.PaymentStatusCancelled
	case "pending":
		return models.PaymentStatusPending
	default:
		return models.PaymentStatusUnknown
	}
}

// BuildOrderStatus resolves the merged webhook + enrichment payloads
// into one OrderStatus row. The enrichment payload overrides webhook
// fields wherever both carry a key, and per-field aliases are resolved
// with a fixed precedence:
//
//	payment_mode:    details.payment_mode > payment_mode
//	bank_reference:  details.bank_ref    > bank_reference
//	payment_details: payemnt_details (gateway typo) > payment_details
//	payment_message: Payment_message (gateway casing) > payment_message
//
// payment_time falls back to now when absent or unparseable.
func BuildOrderStatus(collectRequestID string, webhook, enriched map[string]any, now time.Time, fallback bool) models.OrderStatus {
	merged := make(map[string]any, len(webhook)+len(enriched))
	for k, v := range webhook {
		merged[k] = v
	}
	for k, v := range enriched {
		merged[k] = v
	}

	details := nestedMap(merged, "details")

	return models.OrderStatus{
		CollectRequestID:  collectRequestID,
		OrderAmount:       floatField(merged, "order_amount"),
		TransactionAmount: floatField(merged, "transaction_amount"),
		Gateway:           strField(merged, "gateway"),
		PaymentMode:       firstNonEmpty(strField(details, "payment_mode"), strField(merged, "payment_mode")),
		BankReference:     firstNonEmpty(strField(details, "bank_ref"), strField(merged, "bank_reference")),
		PaymentDetails:    strField(merged, "payemnt_details", "payment_details"),
		Status:            NormalizeStatus(strField(merged, "status")),
		PaymentMessage:    strField(merged, "Payment_message", "payment_message"),
		ErrorMessage:      strField(merged, "error_message"),
		PaymentTime:       timeField(merged, "payment_time", now),
		IsFallback:        fallback,
	}
}

// strField returns the first present, non-empty string value among the
// given keys.
func strField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// floatField tolerates the numeric shapes gateways actually send:
// JSON numbers, numeric strings, integers. Missing or bad => 0.
func floatField(m map[string]any, key string) float64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func timeField(m map[string]any, key string, def time.Time) time.Time {
	s := strField(m, key)
	if s == "" {
		return def
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return def
}

func nestedMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key]; ok {
		if sub, ok := v.(map[string]any); ok {
			return sub
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
