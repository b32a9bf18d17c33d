package models

import "time"

// Lifecycle states of a webhook log entry itself (not of the payment).
const (
	WebhookLogReceived  = "RECEIVED"
	WebhookLogProcessed = "PROCESSED"
)

// WebhookLog is the append-only audit trail of inbound gateway
// deliveries. One row per delivery attempt, created before any payload
// interpretation and never deleted; duplicate deliveries produce
// duplicate rows on purpose.
type WebhookLog struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// RawPayload is the verbatim inbound body or query string,
	// preserved even when parsing fails later.
	RawPayload string `gorm:"type:longtext;not null" json:"raw_payload"`
	// OrderID is the identifier exactly as received, before the
	// slash-prefix cleanup.
	OrderID     string     `gorm:"type:varchar(191);default:'';index" json:"order_id"`
	Status      string     `gorm:"type:varchar(20);not null;default:'RECEIVED';index" json:"status"`
	SignMethod  string     `gorm:"type:varchar(40);default:''" json:"sign_method"`
	ProcessedAt *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
