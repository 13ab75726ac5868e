// Package backend is the HTTP client for the ledger backend. The backend
// owns balances, transaction history, the plan catalog, and the idempotency
// of crediting; this client only transports requests.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"shake-ai-wallet/internal/config"
	"shake-ai-wallet/internal/domain"
	"shake-ai-wallet/internal/domain/model"
)

type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zerolog.Logger
	entropy io.Reader
}

func NewClient(cfg *config.BackendConfig, logger *zerolog.Logger) *Client {
	c := &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.AccessToken,
		client:  &http.Client{Timeout: cfg.Timeout},
		log:     logger,
		// One Client serves every in-flight crediting request; the locked
		// reader serializes ULID generation across concurrent callers.
		entropy: &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)},
	}
	c.warnIfTokenExpired()
	return c
}

// warnIfTokenExpired inspects the access token's exp claim without verifying
// the signature (the backend verifies; the client only wants an early,
// actionable log line instead of a wall of 401s).
func (c *Client) warnIfTokenExpired() {
	if c.token == "" {
		return
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, &claims); err != nil {
		return // opaque token; nothing to inspect
	}
	if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < time.Minute {
		c.log.Warn().Time("expires_at", claims.ExpiresAt.Time).Msg("backend access token is expired or about to expire")
	}
}

type purchaseRequest struct {
	SessionID string `json:"session_id"`
	PlanID    int64  `json:"plan_id"`
}

type purchaseResponse struct {
	Balance int64 `json:"balance"`
}

// PurchaseCoins asks the ledger to credit the coins bought through the given
// checkout session. The ledger decides idempotency; the attached ULID
// idempotency key only lets it correlate duplicate deliveries of the same
// attempt.
func (c *Client) PurchaseCoins(ctx context.Context, sessionID string, planID int64) (int64, error) {
	body, err := json.Marshal(purchaseRequest{SessionID: sessionID, PlanID: planID})
	if err != nil {
		return 0, fmt.Errorf("marshal purchase request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/wallet/purchase", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create purchase request: %w", err)
	}
	req.Header.Set("Idempotency-Key", ulid.MustNew(ulid.Timestamp(time.Now()), c.entropy).String())

	var resp purchaseResponse
	if err := c.do(req, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (c *Client) Balance(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/wallet/balance", nil)
	if err != nil {
		return 0, err
	}
	var resp struct {
		Balance int64 `json:"balance"`
	}
	if err := c.do(req, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (c *Client) Transactions(ctx context.Context) ([]*model.Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/wallet/transactions", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Transactions []*model.Transaction `json:"transactions"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (c *Client) Plans(ctx context.Context) ([]*model.CoinPlan, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/plans", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Plans []*model.CoinPlan `json:"plans"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Plans, nil
}

type sessionRequest struct {
	Items      []model.CheckoutItem `json:"items"`
	SuccessURL string               `json:"success_url"`
	CancelURL  string               `json:"cancel_url"`
	Meta       map[string]string    `json:"meta,omitempty"`
}

// CreateCheckoutSession asks the backend to mint a provider checkout session.
// The backend answers with the provider's session record embedded as a JSON
// string payload; the caller parses it.
func (c *Client) CreateCheckoutSession(ctx context.Context, items []model.CheckoutItem, successURL, cancelURL string, meta map[string]string) (string, error) {
	body, err := json.Marshal(sessionRequest{Items: items, SuccessURL: successURL, CancelURL: cancelURL, Meta: meta})
	if err != nil {
		return "", fmt.Errorf("marshal session request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create session request: %w", err)
	}
	var resp struct {
		Payload string `json:"payload"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Payload, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		detail := fmt.Sprintf("status %d", resp.StatusCode)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			detail = fmt.Sprintf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("backend %s: %s: %w", req.URL.Path, detail, domain.ErrUnauthorized)
		case http.StatusNotFound:
			return fmt.Errorf("backend %s: %s: %w", req.URL.Path, detail, domain.ErrNotFound)
		}
		return fmt.Errorf("backend %s: %s", req.URL.Path, detail)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal backend response: %w, body: %s", err, string(body))
	}
	return nil
}
