package enums

import (
	"fmt"
	"slices"
	"strings"
)

// PaymentStatus is the gateway outcome stored on a payment row.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (p PaymentStatus) String() string { return string(p) }

func (p PaymentStatus) IsValid() bool {
	return slices.Contains([]PaymentStatus{PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed}, p)
}

// Settled is true once the gateway captured funds; only settled payments
// advance the order to confirmed.
func (p PaymentStatus) Settled() bool {
	return p == PaymentStatusCompleted
}

func ParsePaymentStatus(value string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status %q", value)
	}
	return status, nil
}
