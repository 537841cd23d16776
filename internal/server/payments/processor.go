// Package payments contains the transaction-processing service: deposits,
// withdrawals, purchase settlement and seller ratings. The service itself
// holds no state; every operation delegates to a ledger whose atomicity is
// guaranteed by the store's single lock.
package payments

import (
	"context"

	"marketd/internal/logging"
)

// Ledger is the slice of the store the processor needs. Implementations
// must make every call atomic with respect to all other store operations.
type Ledger interface {
	Deposit(ctx context.Context, userID string, amount float64) error
	Withdraw(ctx context.Context, userID string, amount float64) error
	ProcessPurchase(ctx context.Context, buyerID, itemID string) error
	RateSeller(ctx context.Context, sellerID string, rating float64) error
	SellerRating(ctx context.Context, sellerID string) (float64, int, error)
}

// Processor is the single place money and ownership change hands.
type Processor struct {
	ledger Ledger
	logger logging.Logger
}

func NewProcessor(ledger Ledger, logger logging.Logger) *Processor {
	return &Processor{
		ledger: ledger,
		logger: logger.With("module", "payments"),
	}
}

// AddFunds credits the user's balance.
func (p *Processor) AddFunds(ctx context.Context, userID string, amount float64) error {
	return p.ledger.Deposit(ctx, userID, amount)
}

// WithdrawFunds debits the user's balance, failing without state change if
// the amount is non-positive or exceeds the balance.
func (p *Processor) WithdrawFunds(ctx context.Context, userID string, amount float64) error {
	return p.ledger.Withdraw(ctx, userID, amount)
}

// ProcessPurchase settles the sale of itemID to buyerID: all-or-nothing
// debit, credit and sold-marking.
func (p *Processor) ProcessPurchase(ctx context.Context, buyerID, itemID string) error {
	if err := p.ledger.ProcessPurchase(ctx, buyerID, itemID); err != nil {
		return err
	}
	p.logger.Info(ctx, "purchase settled", "buyer", buyerID, "item", itemID)
	return nil
}

// RateSeller applies a rating to the seller's oldest unrated sale.
func (p *Processor) RateSeller(ctx context.Context, sellerID string, rating float64) error {
	return p.ledger.RateSeller(ctx, sellerID, rating)
}

// SellerRating reports the average of the seller's rated sales and the
// rating count.
func (p *Processor) SellerRating(ctx context.Context, sellerID string) (float64, int, error) {
	return p.ledger.SellerRating(ctx, sellerID)
}
