package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	createCollectTimeout = 15 * time.Second
	statusQueryTimeout   = 10 * time.Second
	// Short-lived signs for status reads; create signs carry no expiry.
	statusSignTTL = 5 * time.Minute
)

// Gateway is the outbound contract against the payment gateway. It is
// an interface so services and the reconciler can be tested against a
// fake.
type Gateway interface {
	CreateCollectRequest(ctx context.Context, amount float64) (*CollectRequest, error)
	GetCollectRequestStatus(ctx context.Context, collectRequestID string) (map[string]any, string, error)
}

// GatewayClient signs and sends collect-request calls to the external
// payment gateway and translates responses into internal shapes.
type GatewayClient struct {
	cfg          Config
	createSigner *SignerChain
	statusSigner *SignerChain

	HTTPClient *http.Client
}

func NewGatewayClient(cfg Config) *GatewayClient {
	return &GatewayClient{
		cfg:          cfg,
		createSigner: NewDefaultSignerChain(cfg.PGKey, 0),
		statusSigner: NewDefaultSignerChain(cfg.PGKey, statusSignTTL),
		HTTPClient:   &http.Client{},
	}
}

type createCollectResponse struct {
	CollectRequestID     string `json:"collect_request_id"`
	CollectRequestURL    string `json:"collect_request_url"`
	CollectRequestURLAlt string `json:"Collect_request_url"`
	PaymentURL           string `json:"payment_url"`
}

// CreateCollectRequest registers a payment intent with the gateway and
// returns the assigned collect request id and redirect URL.
func (c *GatewayClient) CreateCollectRequest(ctx context.Context, amount float64) (*CollectRequest, error) {
	claims := map[string]string{
		"school_id":    c.cfg.SchoolID,
		"amount":       strconv.FormatFloat(amount, 'f', -1, 64),
		"callback_url": c.cfg.CallbackURL,
	}
	sign, method, err := c.createSigner.Sign(claims)
	if err != nil {
		return nil, &GatewayError{Op: "create-collect-request", Err: err}
	}

	payload := map[string]string{
		"school_id":    claims["school_id"],
		"amount":       claims["amount"],
		"callback_url": claims["callback_url"],
		"sign":         sign,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &GatewayError{Op: "create-collect-request", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, createCollectTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayBaseURL+"/create-collect-request", bytes.NewReader(raw))
	if err != nil {
		return nil, &GatewayError{Op: "create-collect-request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: "create-collect-request", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{Op: "create-collect-request", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out createCollectResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &GatewayError{Op: "create-collect-request", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body)), Err: err}
	}
	if strings.TrimSpace(out.CollectRequestID) == "" {
		return nil, &GatewayError{Op: "create-collect-request", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	paymentURL := out.CollectRequestURL
	if paymentURL == "" {
		paymentURL = out.CollectRequestURLAlt
	}
	if paymentURL == "" {
		paymentURL = out.PaymentURL
	}

	return &CollectRequest{
		CollectRequestID: strings.TrimSpace(out.CollectRequestID),
		PaymentURL:       paymentURL,
		Sign:             sign,
		SignMethod:       method,
	}, nil
}

// GetCollectRequestStatus performs the live authoritative status read.
// The sign method is returned even on failure so callers can record
// which scheme was attempted.
func (c *GatewayClient) GetCollectRequestStatus(ctx context.Context, collectRequestID string) (map[string]any, string, error) {
	claims := map[string]string{
		"school_id":          c.cfg.SchoolID,
		"collect_request_id": collectRequestID,
	}
	sign, method, err := c.statusSigner.Sign(claims)
	if err != nil {
		return nil, "", &GatewayError{Op: "collect-request-status", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, statusQueryTimeout)
	defer cancel()

	u := c.cfg.GatewayBaseURL + "/collect-request/" + url.PathEscape(collectRequestID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, method, &GatewayError{Op: "collect-request-status", Err: err}
	}
	q := req.URL.Query()
	q.Set("school_id", c.cfg.SchoolID)
	q.Set("sign", sign)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, method, &GatewayError{Op: "collect-request-status", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, method, &GatewayError{Op: "collect-request-status", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return nil, method, &GatewayError{Op: "collect-request-status", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body)), Err: err}
	}
	return payload, method, nil
}
