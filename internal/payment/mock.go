package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// MockRail is a mock implementation of Rail for testing.
type MockRail struct {
	// PayoutFn can be set by tests to control behavior.
	PayoutFn func(ctx context.Context, arenaID, winnerAddress string, amount decimal.Decimal) (*Receipt, error)

	// Call tracking
	PayoutCalls []PayoutCall
}

// PayoutCall records the parameters of a Payout call.
type PayoutCall struct {
	ArenaID       string
	WinnerAddress string
	Amount        decimal.Decimal
}

// NewMockRail creates a new mock payment rail.
func NewMockRail() *MockRail {
	return &MockRail{
		PayoutCalls: []PayoutCall{},
	}
}

// Payout implements Rail.Payout.
func (m *MockRail) Payout(ctx context.Context, arenaID, winnerAddress string, amount decimal.Decimal) (*Receipt, error) {
	m.PayoutCalls = append(m.PayoutCalls, PayoutCall{
		ArenaID:       arenaID,
		WinnerAddress: winnerAddress,
		Amount:        amount,
	})

	if m.PayoutFn != nil {
		return m.PayoutFn(ctx, arenaID, winnerAddress, amount)
	}

	// Default behavior: accept the payout
	return &Receipt{Signature: "mock-signature"}, nil
}

// Reset clears all call tracking.
func (m *MockRail) Reset() {
	m.PayoutCalls = []PayoutCall{}
}

// Ensure MockRail implements the Rail interface.
var _ Rail = (*MockRail)(nil)
