package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LogRail is a dry-run Rail: it records the payout in the log and returns a
// synthetic signature. Used when no escrow backend is configured, so the
// settlement flow stays exercisable end to end.
type LogRail struct{}

// NewLogRail creates a dry-run payment rail.
func NewLogRail() *LogRail {
	return &LogRail{}
}

// Payout implements Rail.
func (r *LogRail) Payout(_ context.Context, arenaID, winnerAddress string, amount decimal.Decimal) (*Receipt, error) {
	signature := fmt.Sprintf("dryrun-%s-%d", uuid.NewString()[:8], time.Now().Unix())
	slog.Info("Dry-run payout",
		"arena", arenaID,
		"address", winnerAddress,
		"amount", amount.String(),
		"signature", signature)
	return &Receipt{Signature: signature}, nil
}

var _ Rail = (*LogRail)(nil)
