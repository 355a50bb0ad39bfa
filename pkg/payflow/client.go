package payflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loanhub-backend/internal/domain/loan"
)

const csrfHeader = "X-CSRFToken"

// LoanView is one row of the loan-history payload.
type LoanView struct {
	ID       uint64 `json:"id"`
	Category struct {
		Name string `json:"name"`
	} `json:"category"`
	RequestAmount     float64 `json:"request_amount"`
	TermYears         uint    `json:"term_years"`
	InterestAmount    float64 `json:"interest_amount"`
	TotalWithInterest float64 `json:"total_with_interest"`
	Status            string  `json:"status"`
	IsFullyPaid       bool    `json:"is_fully_paid"`
	RequestDate       string  `json:"request_date"`
}

// DisplayStatus collapses the dual server fields using the shared projection.
func (v *LoanView) DisplayStatus() loan.DisplayStatus {
	return loan.ProjectStatus(loan.Status(v.Status), v.IsFullyPaid)
}

// AmountDue recomputes the total locally and cross-checks the server figure.
// A mismatch is a defect to surface, not a number to silently trust.
func (v *LoanView) AmountDue() (float64, bool) {
	local := loan.TotalWithInterest(v.RequestAmount, v.TermYears)
	return v.TotalWithInterest, local == v.TotalWithInterest
}

// APIClient is the session-aware client for the loanhub REST API. It owns
// the cookie jar (session + csrf cookies) and echoes the anti-forgery token
// in the header on every mutating call.
type APIClient struct {
	baseURL string
	http    *http.Client
	csrf    string
	log     *logrus.Entry
}

func NewAPIClient(baseURL string, timeout time.Duration) (*APIClient, error) {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout, Jar: jar},
		log:     logrus.WithField("component", "payflow.client"),
	}, nil
}

// FetchCSRF bootstraps the anti-forgery token before the first mutating call.
func (c *APIClient) FetchCSRF(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/api/csrf/", nil, nil); err != nil {
		return err
	}
	c.refreshCSRFFromJar()
	if c.csrf == "" {
		return fmt.Errorf("%w: no csrf cookie set", ErrUnavailable)
	}
	return nil
}

func (c *APIClient) Login(ctx context.Context, username, password string) error {
	if c.csrf == "" {
		if err := c.FetchCSRF(ctx); err != nil {
			return err
		}
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login/", body, nil); err != nil {
		return err
	}
	// login rotates the csrf cookie
	c.refreshCSRFFromJar()
	return nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout/", nil, nil)
}

func (c *APIClient) LoanHistory(ctx context.Context) ([]LoanView, error) {
	var out []LoanView
	if err := c.do(ctx, http.MethodGet, "/api/loan-history/", nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if _, ok := out[i].AmountDue(); !ok {
			c.log.WithField("loan_id", out[i].ID).Warn("server interest figure disagrees with local computation")
		}
	}
	return out, nil
}

// RecordPayment reports a provider capture to the server. The provider
// transaction id is the idempotency key end to end: the replay header is
// derived from it deterministically so a retried call replays instead of
// re-executing.
func (c *APIClient) RecordPayment(ctx context.Context, loanID uint64, providerTxnID string, amount float64) error {
	body := map[string]any{
		"transaction_id": providerTxnID,
		"amount":         loan.Round2(amount),
	}
	path := "/api/pay-loan/" + strconv.FormatUint(loanID, 10) + "/"
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
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
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet && method != http.MethodHead {
		req.Header.Set(csrfHeader, c.csrf)
		// deterministic per request content: retries replay, not re-execute
		req.Header.Set("X-Request-Id", requestIDFor(path, body))
		req.Header.Set("X-Request-At", time.Now().UTC().Format(time.RFC3339))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return err
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *APIClient) refreshCSRFFromJar() {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return
	}
	for _, ck := range c.http.Jar.Cookies(u) {
		if ck.Name == "csrftoken" {
			c.csrf = ck.Value
		}
	}
}

// mapStatus sorts an HTTP status into the client taxonomy. 401 and 403 stay
// distinct from everything else so a pending capture is never discarded over
// an auth problem.
func mapStatus(code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthenticated
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusConflict:
		return ErrRejected
	case code == http.StatusUnprocessableEntity, code == http.StatusBadRequest:
		return ErrValidation
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: not found", ErrValidation)
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	}
}

// requestIDFor derives a stable UUID from the request content so every retry
// of the same logical request carries the same replay key.
func requestIDFor(path string, body any) string {
	b, _ := json.Marshal(body)
	return uuid.NewSHA1(uuid.NameSpaceURL, append([]byte(path), b...)).String()
}
