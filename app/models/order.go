package models

import "time"

// Gateway name tags persisted on orders. Fixed per deployment; only
// edviron is wired today.
const (
	GatewayNameEdviron = "edviron"
)

// StudentInfo is embedded into Order. Name and ID are trimmed, the
// email is stored lower-cased.
type StudentInfo struct {
	Name  string `gorm:"column:student_name;type:varchar(200);not null" json:"name"`
	ID    string `gorm:"column:student_id;type:varchar(100);not null" json:"id"`
	Email string `gorm:"column:student_email;type:varchar(200);not null" json:"email"`
}

// Order is the payment intent created when a student requests a fee
// payment. CollectRequestID stays empty until the gateway answers the
// create call; an order without it is incomplete and never considered
// active.
type Order struct {
	ID               uint        `gorm:"primaryKey" json:"-"`
	OrderID          string      `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	CollectRequestID string      `gorm:"type:varchar(191);default:'';index" json:"collect_request_id"`
	SchoolID         string      `gorm:"type:varchar(100);not null;index" json:"school_id"`
	TrusteeID        string      `gorm:"type:varchar(100);default:''" json:"trustee_id"`
	StudentInfo      StudentInfo `gorm:"embedded" json:"student_info"`
	GatewayName      string      `gorm:"type:varchar(50);not null" json:"gateway_name"`
	OrderAmount      float64     `gorm:"not null" json:"order_amount"`
	PaymentURL       string      `gorm:"type:text" json:"payment_url"`
	CreatedAt        time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}
