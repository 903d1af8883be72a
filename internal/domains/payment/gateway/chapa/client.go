package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"staybook-backend/internal/config"
	"staybook-backend/internal/domains/payment"
)

// Client integrates the Chapa hosted checkout API. Authentication is a
// Bearer secret key on every call.
type Client struct {
	cfg        config.ChapaConfig
	httpClient *http.Client
}

func NewClient(cfg config.ChapaConfig) (payment.Gateway, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("chapa secret key is required")
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("chapa api url is required")
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type initializeRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

func (c *Client) Initialize(ctx context.Context, req payment.GatewayRequest) (string, error) {
	if req.TxRef == "" {
		return "", fmt.Errorf("tx_ref is required")
	}
	if len(req.TxRef) > payment.MaxTxRefLen {
		return "", fmt.Errorf("tx_ref exceeds %d characters", payment.MaxTxRefLen)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return "", fmt.Errorf("amount must be positive")
	}

	body, err := json.Marshal(initializeRequest{
		Amount:      req.Amount.StringFixed(2),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		TxRef:       req.TxRef,
		CallbackURL: c.cfg.CallbackURL,
	})
	if err != nil {
		return "", fmt.Errorf("marshal initialize request: %w", err)
	}

	var resp initializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &resp); err != nil {
		return "", err
	}

	if resp.Status != "success" || resp.Data.CheckoutURL == "" {
		return "", fmt.Errorf("%w: %s", payment.ErrGatewayDeclined, resp.Message)
	}

	return resp.Data.CheckoutURL, nil
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string          `json:"status"`
		Reference string          `json:"reference"`
		Amount    decimal.Decimal `json:"amount"`
		Currency  string          `json:"currency"`
	} `json:"data"`
}

func (c *Client) Verify(ctx context.Context, txRef string) (*payment.GatewayResult, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+txRef, nil, &resp); err != nil {
		return nil, err
	}

	return &payment.GatewayResult{
		TransactionID: resp.Data.Reference,
		Success:       resp.Status == "success" && resp.Data.Status == "success",
		Amount:        resp.Data.Amount,
		Currency:      resp.Data.Currency,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIURL+path, reader)
	if err != nil {
		return fmt.Errorf("build chapa request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read chapa response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", payment.ErrGatewayUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode chapa response: %w", err)
	}
	return nil
}
