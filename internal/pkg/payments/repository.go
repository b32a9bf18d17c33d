package payments

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/schoolpay-labs/schoolpay/app/models"
)

// Repository provides the DB operations used by the payment services
// and the webhook reconciler.
type Repository interface {
	CreateOrder(o *models.Order) error
	UpdateOrder(orderID string, patch map[string]any) error
	GetOrderByCollectRequestID(collectRequestID string) (*models.Order, error)
	UpsertOrderStatus(st *models.OrderStatus) error
	AppendWebhookLog(lg *models.WebhookLog) error
	MarkLogProcessed(id uint, signMethod string) error
	ListTransactions() ([]Transaction, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateOrder(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *gormRepository) UpdateOrder(orderID string, patch map[string]any) error {
	return r.db.Model(&models.Order{}).Where("order_id = ?", orderID).Updates(patch).Error
}

func (r *gormRepository) GetOrderByCollectRequestID(collectRequestID string) (*models.Order, error) {
	var o models.Order
	err := r.db.Where("collect_request_id = ?", collectRequestID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpsertOrderStatus is the single mutation point for settlement state.
// The upsert is atomic per collect_request_id and replaces the whole
// row, so concurrent deliveries cannot interleave fields from two
// payloads.
func (r *gormRepository) UpsertOrderStatus(st *models.OrderStatus) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "collect_request_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"order_amount",
			"transaction_amount",
			"gateway",
			"payment_mode",
			"payment_details",
			"bank_reference",
			"status",
			"payment_message",
			"error_message",
			"payment_time",
			"is_fallback",
			"updated_at",
		}),
	}).Create(st).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("collect_request_id = ?", st.CollectRequestID).First(st).Error
}

func (r *gormRepository) AppendWebhookLog(lg *models.WebhookLog) error {
	return r.db.Create(lg).Error
}

func (r *gormRepository) MarkLogProcessed(id uint, signMethod string) error {
	now := time.Now()
	return r.db.Model(&models.WebhookLog{}).Where("id = ?", id).Updates(map[string]any{
		"status":       models.WebhookLogProcessed,
		"sign_method":  signMethod,
		"processed_at": &now,
	}).Error
}

// ListTransactions joins every order with its settlement state, keeping
// orders that have no status record yet (shown as pending with zero
// amounts), newest settlement first.
func (r *gormRepository) ListTransactions() ([]Transaction, error) {
	var out []Transaction
	err := r.db.Table("orders").
		Select(`orders.collect_request_id,
			orders.school_id,
			orders.trustee_id,
			orders.student_name,
			orders.student_id,
			orders.student_email,
			orders.gateway_name,
			orders.order_amount,
			COALESCE(order_statuses.transaction_amount, 0) AS transaction_amount,
			COALESCE(NULLIF(order_statuses.gateway, ''), orders.gateway_name) AS gateway,
			COALESCE(order_statuses.payment_mode, '') AS payment_mode,
			COALESCE(order_statuses.payment_details, '') AS payment_details,
			COALESCE(order_statuses.bank_reference, '') AS bank_reference,
			COALESCE(NULLIF(order_statuses.status, ''), 'pending') AS status,
			COALESCE(order_statuses.payment_message, '') AS payment_message,
			COALESCE(order_statuses.payment_time, orders.created_at) AS payment_time,
			COALESCE(order_statuses.error_message, '') AS error_message`).
		Joins("LEFT JOIN order_statuses ON order_statuses.collect_request_id = orders.collect_request_id AND orders.collect_request_id <> ''").
		Order("payment_time DESC").
		Scan(&out).Error
	return out, err
}
