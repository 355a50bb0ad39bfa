package payflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"loanhub-backend/internal/domain/loan"
)

// OrderHandle identifies an authorized-but-uncaptured order at the provider.
type OrderHandle struct {
	ID     string
	Amount float64
}

// Capture is the provider's confirmation that money has moved.
type Capture struct {
	ProviderTxnID string
	Amount        float64
}

// Provider is the only coupling to the external payment processor: create an
// order for a fixed amount, capture it after payer approval. Neither call
// touches loan state.
type Provider interface {
	// Ready reports whether the provider finished initializing. The Pay
	// action must stay disabled until it does.
	Ready() bool
	CreateOrder(ctx context.Context, amount float64) (OrderHandle, error)
	CaptureOrder(ctx context.Context, h OrderHandle) (Capture, error)
}

// RESTProvider drives a checkout-orders style provider API.
type RESTProvider struct {
	baseURL  string
	clientID string
	http     *http.Client
	ready    atomic.Bool
}

func NewRESTProvider(baseURL, clientID string, timeout time.Duration) *RESTProvider {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &RESTProvider{
		baseURL:  baseURL,
		clientID: clientID,
		http:     &http.Client{Timeout: timeout},
	}
}

// Init probes the provider once; until it succeeds Ready stays false.
func (p *RESTProvider) Init(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v2/checkout/ready", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.clientID)
	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: init status %d", ErrProvider, resp.StatusCode)
	}
	p.ready.Store(true)
	return nil
}

func (p *RESTProvider) Ready() bool { return p.ready.Load() }

type orderResp struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type captureResp struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount struct {
		Value string `json:"value"`
	} `json:"amount"`
}

// CreateOrder authorizes exactly amount (2dp). The payer never supplies or
// adjusts this value.
func (p *RESTProvider) CreateOrder(ctx context.Context, amount float64) (OrderHandle, error) {
	if !p.Ready() {
		return OrderHandle{}, ErrProviderNotReady
	}
	amount = loan.Round2(amount)
	if amount <= 0 {
		return OrderHandle{}, fmt.Errorf("%w: non-positive amount", ErrProvider)
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"amount": map[string]string{
			"currency_code": "USD",
			"value":         strconv.FormatFloat(amount, 'f', 2, 64),
		},
	}
	var out orderResp
	if err := p.post(ctx, "/v2/checkout/orders", body, &out); err != nil {
		return OrderHandle{}, err
	}
	if out.ID == "" {
		return OrderHandle{}, fmt.Errorf("%w: empty order id", ErrProvider)
	}
	return OrderHandle{ID: out.ID, Amount: amount}, nil
}

// CaptureOrder finalizes the order after payer approval. A payer abandon
// surfaces as ErrProviderCancelled; anything else is ErrProvider.
func (p *RESTProvider) CaptureOrder(ctx context.Context, h OrderHandle) (Capture, error) {
	if !p.Ready() {
		return Capture{}, ErrProviderNotReady
	}
	var out captureResp
	if err := p.post(ctx, "/v2/checkout/orders/"+h.ID+"/capture", nil, &out); err != nil {
		return Capture{}, err
	}
	switch out.Status {
	case "COMPLETED":
	case "CANCELLED", "VOIDED":
		return Capture{}, ErrProviderCancelled
	default:
		return Capture{}, fmt.Errorf("%w: capture status %q", ErrProvider, out.Status)
	}
	amount, err := strconv.ParseFloat(out.Amount.Value, 64)
	if err != nil || out.ID == "" {
		return Capture{}, fmt.Errorf("%w: malformed capture response", ErrProvider)
	}
	return Capture{ProviderTxnID: out.ID, Amount: amount}, nil
}

func (p *RESTProvider) post(ctx context.Context, path string, body any, out any) error {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.clientID)

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPaymentRequired, resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: declined (%d)", ErrProvider, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
