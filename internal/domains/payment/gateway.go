package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway is the payment provider integration. The production implementation
// talks to Chapa; tests use a scripted fake.
type Gateway interface {
	// Initialize registers the charge and returns the hosted checkout URL.
	Initialize(ctx context.Context, req GatewayRequest) (string, error)

	// Verify asks the gateway for the final state of a reference.
	Verify(ctx context.Context, txRef string) (*GatewayResult, error)
}

// GatewayRequest carries everything the provider needs to open a checkout.
type GatewayRequest struct {
	TxRef     string
	Amount    decimal.Decimal
	Currency  string
	Email     string
	FirstName string
	LastName  string
}

// GatewayResult is the provider's verdict on a reference.
type GatewayResult struct {
	// TransactionID is the provider-side reference, set on success.
	TransactionID string
	Success       bool
	Amount        decimal.Decimal
	Currency      string
}
