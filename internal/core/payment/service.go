package payment

import (
	"context"
	"errors"
	"strings"

	"secure-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// Verification statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Result messages
const (
	MessageVerified = "Payment verified! Premium features unlocked."
	MessageFailed   = "Payment verification failed."
)

// Result outcome of a payment verification
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

// Succeeded reports whether the payment was confirmed
func (r *Result) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Service verifies payment references against the gateway
type Service struct {
	gateway Gateway
}

// NewService creates a payment service; a nil gateway fails every verification with a gateway error
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// Verify checks reference with the gateway. A definite answer from the gateway
// comes back as a Result; anything that prevents a definite answer is
// common.ErrPaymentGateway and is never replaced by a made up result.
func (s *Service) Verify(ctx context.Context, reference string) (*Result, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, common.ErrMissingReference
	}

	if s.gateway == nil {
		return nil, common.ErrPaymentGateway.Wrap(errors.New("payment gateway not configured"))
	}

	resp, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, common.ErrPaymentGateway.Wrap(err)
	}

	if !resp.Status {
		common.LogInfo("Payment not verified",
			zap.String("reference", reference),
			zap.String("gateway_message", resp.Message),
		)
		return failed(), nil
	}

	if resp.Data == nil {
		return nil, common.ErrPaymentGateway.Wrap(errors.New("gateway reported success without transaction data"))
	}

	if resp.Data.Status != StatusSuccess {
		common.LogInfo("Payment not verified",
			zap.String("reference", reference),
			zap.String("transaction_status", resp.Data.Status),
		)
		return failed(), nil
	}

	if resp.Data.Customer == nil || resp.Data.Customer.Email == "" {
		return nil, common.ErrPaymentGateway.Wrap(errors.New("gateway response has no customer email"))
	}

	common.LogInfo("Payment verified",
		zap.String("reference", reference),
		zap.Int64("amount", resp.Data.Amount),
		zap.String("currency", resp.Data.Currency),
	)

	return &Result{
		Status:  StatusSuccess,
		Message: MessageVerified,
		Email:   resp.Data.Customer.Email,
	}, nil
}

func failed() *Result {
	return &Result{Status: StatusFailed, Message: MessageFailed}
}
