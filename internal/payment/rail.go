// Package payment abstracts the escrow rail that holds and disburses staked
// funds. The engine only ever supplies an amount and a destination; building
// and signing the actual payment primitive happens on the other side of this
// interface.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Receipt is the rail's acknowledgment of a disbursement.
type Receipt struct {
	Signature string
}

// Rail disburses a prize pool to a winner.
type Rail interface {
	Payout(ctx context.Context, arenaID, winnerAddress string, amount decimal.Decimal) (*Receipt, error)
}
