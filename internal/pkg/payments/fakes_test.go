package payments

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/schoolpay-labs/schoolpay/app/models"
)

// fakeRepository is an in-memory Repository good enough for the
// service and reconciler tests: it reproduces the single-row-per-id
// upsert semantics without a database.
type fakeRepository struct {
	mu sync.Mutex

	orders   []*models.Order
	statuses map[string]*models.OrderStatus
	logs     []*models.WebhookLog

	createOrderErr error
	upsertErr      error
	appendLogErr   error
	nextID         uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{statuses: map[string]*models.OrderStatus{}}
}

func (f *fakeRepository) CreateOrder(o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createOrderErr != nil {
		return f.createOrderErr
	}
	f.nextID++
	o.ID = f.nextID
	o.CreatedAt = time.Now()
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeRepository) UpdateOrder(orderID string, patch map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.OrderID == orderID {
			if v, ok := patch["collect_request_id"].(string); ok {
				o.CollectRequestID = v
			}
			if v, ok := patch["payment_url"].(string); ok {
				o.PaymentURL = v
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepository) GetOrderByCollectRequestID(collectRequestID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.CollectRequestID == collectRequestID && collectRequestID != "" {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpsertOrderStatus(st *models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if existing, ok := f.statuses[st.CollectRequestID]; ok {
		st.ID = existing.ID
		st.CreatedAt = existing.CreatedAt
	} else {
		f.nextID++
		st.ID = f.nextID
		st.CreatedAt = time.Now()
	}
	st.UpdatedAt = time.Now()
	cp := *st
	f.statuses[st.CollectRequestID] = &cp
	return nil
}

func (f *fakeRepository) AppendWebhookLog(lg *models.WebhookLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendLogErr != nil {
		return f.appendLogErr
	}
	f.nextID++
	lg.ID = f.nextID
	lg.CreatedAt = time.Now()
	if lg.Status == "" {
		lg.Status = models.WebhookLogReceived
	}
	f.logs = append(f.logs, lg)
	return nil
}

func (f *fakeRepository) MarkLogProcessed(id uint, signMethod string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, lg := range f.logs {
		if lg.ID == id {
			now := time.Now()
			lg.Status = models.WebhookLogProcessed
			lg.SignMethod = signMethod
			lg.ProcessedAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListTransactions() ([]Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Transaction, 0, len(f.orders))
	for _, o := range f.orders {
		tx := Transaction{
			CollectRequestID: o.CollectRequestID,
			SchoolID:         o.SchoolID,
			TrusteeID:        o.TrusteeID,
			StudentName:      o.StudentInfo.Name,
			StudentID:        o.StudentInfo.ID,
			StudentEmail:     o.StudentInfo.Email,
			GatewayName:      o.GatewayName,
			OrderAmount:      o.OrderAmount,
			Gateway:          o.GatewayName,
			Status:           models.PaymentStatusPending,
			PaymentTime:      o.CreatedAt,
		}
		if st, ok := f.statuses[o.CollectRequestID]; ok && o.CollectRequestID != "" {
			tx.TransactionAmount = st.TransactionAmount
			if st.Gateway != "" {
				tx.Gateway = st.Gateway
			}
			tx.PaymentMode = st.PaymentMode
			tx.PaymentDetails = st.PaymentDetails
			tx.BankReference = st.BankReference
			if st.Status != "" {
				tx.Status = st.Status
			}
			tx.PaymentMessage = st.PaymentMessage
			tx.PaymentTime = st.PaymentTime
			tx.ErrorMessage = st.ErrorMessage
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentTime.After(out[j].PaymentTime) })
	return out, nil
}

// fakeGateway lets tests script gateway answers per call.
type fakeGateway struct {
	mu sync.Mutex

	createResult *CollectRequest
	createErr    error
	statusResult map[string]any
	statusErr    error

	createCalls []float64
	statusCalls []string
}

func (g *fakeGateway) CreateCollectRequest(_ context.Context, amount float64) (*CollectRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls = append(g.createCalls, amount)
	if g.createErr != nil {
		return nil, g.createErr
	}
	if g.createResult == nil {
		return nil, errors.New("fake gateway: no create result scripted")
	}
	cp := *g.createResult
	return &cp, nil
}

func (g *fakeGateway) GetCollectRequestStatus(_ context.Context, collectRequestID string) (map[string]any, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusCalls = append(g.statusCalls, collectRequestID)
	if g.statusErr != nil {
		return nil, SignMethodJWT, g.statusErr
	}
	return g.statusResult, SignMethodJWT, nil
}
