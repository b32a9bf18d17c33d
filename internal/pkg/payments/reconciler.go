package payments

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/schoolpay-labs/schoolpay/app/models"
)

// Reconciler merges inbound gateway webhooks with (best-effort) live
// gateway reads into the settlement record. Deliveries may arrive
// zero, one or many times, over GET or POST, with partial or renamed
// fields; processing is idempotent per collect_request_id.
type Reconciler struct {
	cfg     Config
	repo    Repository
	gateway Gateway
}

func NewReconciler(cfg Config, repo Repository, gateway Gateway) *Reconciler {
	return &Reconciler{cfg: cfg, repo: repo, gateway: gateway}
}

func NewReconcilerFromDB(cfg Config, db *gorm.DB) *Reconciler {
	return NewReconciler(cfg, NewRepository(db), NewGatewayClient(cfg))
}

// InboundFromQuery resolves a GET delivery from the verbatim query
// string. The gateway names the identifier EdvironCollectRequestId
// there; older variants send collect_request_id. A malformed escape in
// one pair must not discard the rest: ParseQuery reports the error but
// still returns every well-formed pair, and those are kept.
func InboundFromQuery(rawQuery string) InboundWebhook {
	query, err := url.ParseQuery(rawQuery)
	if err != nil && query == nil {
		query = url.Values{}
	}
	info := map[string]any{}
	if id := firstNonEmpty(strings.TrimSpace(query.Get("EdvironCollectRequestId")), strings.TrimSpace(query.Get("collect_request_id"))); id != "" {
		info["order_id"] = id
	}
	if v := strings.TrimSpace(query.Get("status")); v != "" {
		info["status"] = v
	}
	if v := strings.TrimSpace(query.Get("reason")); v != "" {
		info["error_message"] = v
	}
	return InboundWebhook{
		RawPayload: rawQuery,
		OrderInfo:  info,
	}
}

// InboundFromBody resolves a POST delivery carrying {order_info: ...}.
// A body that fails to parse still yields the verbatim raw payload so
// the audit row gets written before the delivery is rejected.
func InboundFromBody(body []byte) InboundWebhook {
	in := InboundWebhook{RawPayload: string(body)}
	var parsed struct {
		OrderInfo map[string]any `json:"order_info"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.OrderInfo != nil {
		in.OrderInfo = parsed.OrderInfo
	} else {
		in.OrderInfo = map[string]any{}
	}
	return in
}

// Process runs one delivery through the reconciliation stages:
// raw audit log, identifier extraction, best-effort enrichment,
// normalization, atomic upsert, log finalization.
//
// Only a missing identifier is an error (the sender gets a 400).
// Storage hiccups and enrichment failures are logged and absorbed —
// asking the gateway to retry would not fix a local outage, and
// unpredictable retry behavior on non-200s is worse than a degraded
// record.
func (r *Reconciler) Process(ctx context.Context, in InboundWebhook) (*ReconcileOutcome, error) {
	rawID, _ := in.OrderInfo["order_id"].(string)
	rawID = strings.TrimSpace(rawID)

	// Raw capture happens before any interpretation, so a delivery is
	// auditable even when every later stage fails.
	lg := &models.WebhookLog{
		RawPayload: in.RawPayload,
		OrderID:    rawID,
		Status:     models.WebhookLogReceived,
	}
	if err := r.repo.AppendWebhookLog(lg); err != nil {
		log.Printf("webhook log append failed: %v", err)
	}

	if rawID == "" {
		return nil, ErrMissingOrderID
	}
	collectRequestID := ExtractCollectRequestID(rawID)

	enriched, signMethod, err := r.gateway.GetCollectRequestStatus(ctx, collectRequestID)
	fallback := err != nil
	if fallback {
		log.Printf("could not fetch full order data for %s, proceeding with webhook payload: %v", collectRequestID, err)
		enriched = nil
	}

	st := BuildOrderStatus(collectRequestID, in.OrderInfo, enriched, time.Now().UTC(), fallback)
	if err := r.repo.UpsertOrderStatus(&st); err != nil {
		log.Printf("order status upsert failed for %s: %v", collectRequestID, err)
	}

	if lg.ID != 0 {
		if err := r.repo.MarkLogProcessed(lg.ID, signMethod); err != nil {
			log.Printf("webhook log finalize failed for %s: %v", collectRequestID, err)
		}
	}

	return &ReconcileOutcome{
		CollectRequestID: collectRequestID,
		OrderInfo:        st,
		GatewayResponse:  enriched,
		IsFallback:       fallback,
		SignMethod:       signMethod,
		LogID:            lg.ID,
	}, nil
}
