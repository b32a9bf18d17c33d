package models

import "time"

// Canonical settlement status vocabulary. Every write into
// OrderStatus.Status goes through payments.NormalizeStatus which maps
// arbitrary gateway tokens onto exactly these values.
const (
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusPending   = "pending"
	PaymentStatusUnknown   = "unknown"
)

// OrderStatus holds the latest known settlement state for a collect
// request. There is at most one row per CollectRequestID; all writes
// are full-row upserts keyed on it (last write wins, no field merge
// across deliveries).
type OrderStatus struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	CollectRequestID  string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_order_statuses_collect_request_id" json:"collect_request_id"`
	OrderAmount       float64   `gorm:"not null;default:0" json:"order_amount"`
	TransactionAmount float64   `gorm:"not null;default:0" json:"transaction_amount"`
	Gateway           string    `gorm:"type:varchar(100);default:''" json:"gateway"`
	PaymentMode       string    `gorm:"type:varchar(100);default:''" json:"payment_mode"`
	PaymentDetails    string    `gorm:"type:text" json:"payment_details"`
	BankReference     string    `gorm:"type:varchar(191);default:''" json:"bank_reference"`
	Status            string    `gorm:"type:varchar(32);not null;default:'unknown';index" json:"status"`
	PaymentMessage    string    `gorm:"type:text" json:"payment_message"`
	ErrorMessage      string    `gorm:"type:text" json:"error_message"`
	PaymentTime       time.Time `gorm:"not null" json:"payment_time"`
	// IsFallback marks records written without live gateway
	// confirmation, i.e. sourced only from the inbound webhook payload.
	IsFallback bool      `gorm:"default:false" json:"is_fallback"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
