package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"secure-recipe/internal/infrastructure/config"
	"secure-recipe/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrMissingSecretKey no Paystack secret configured
var ErrMissingSecretKey = errors.New("paystack secret key is not configured")

// VerifyResponse body of GET /transaction/verify/{reference}
type VerifyResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    *Transaction `json:"data"`
}

// Transaction the verified transaction
type Transaction struct {
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Customer  *Customer `json:"customer"`
}

// Customer the paying customer
type Customer struct {
	Email string `json:"email"`
}

// Gateway looks up a transaction by reference
type Gateway interface {
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error)
}

// PaystackClient Paystack REST client
type PaystackClient struct {
	client *resty.Client
}

// NewPaystackClient creates a Paystack client authenticated with the secret key
func NewPaystackClient(cfg config.PaystackConfig) (*PaystackClient, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Accept", "application/json")

	return &PaystackClient{client: client}, nil
}

// VerifyTransaction fetches the transaction state. Paystack answers unknown
// references with a 4xx and a JSON body carrying status false, so the body is
// decoded whatever the status code; only an unreadable body is an error.
func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("reference", reference).
		Get("/transaction/verify/{reference}")
	if err != nil {
		return nil, fmt.Errorf("failed to reach paystack: %w", err)
	}

	var body VerifyResponse
	if err := common.ParseJSONBytes(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("invalid paystack response (status %d): %w", resp.StatusCode(), err)
	}

	if resp.StatusCode() >= http.StatusInternalServerError {
		return nil, fmt.Errorf("paystack server error (status %d): %s", resp.StatusCode(), body.Message)
	}

	common.LogDebug("Paystack verification response",
		zap.Int("status_code", resp.StatusCode()),
		zap.Bool("status", body.Status),
		zap.String("message", body.Message),
	)

	return &body, nil
}
