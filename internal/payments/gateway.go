package payments

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

const transactionIDLength = 12

// ChargeRequest is what the gateway needs to charge an order.
type ChargeRequest struct {
	OrderID int64
	Amount  decimal.Decimal
	Method  enums.PaymentMethod
}

// ChargeResult is the gateway outcome.
type ChargeResult struct {
	Status        enums.PaymentStatus
	TransactionID string
}

// Gateway charges a customer for an order.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// MockGateway approves every charge.
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (MockGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	txn, err := security.PrefixedToken("TXN", transactionIDLength)
	if err != nil {
		return nil, err
	}
	return &ChargeResult{Status: enums.PaymentStatusCompleted, TransactionID: txn}, nil
}
