package store

import (
	"context"
	"fmt"

	"marketd/internal/common"
	"marketd/internal/server/models"
)

// Deposit adds a positive amount to the user's balance.
func (s *Store) Deposit(ctx context.Context, userID string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	user, err := s.userByIDLocked(userID)
	if err != nil {
		return err
	}

	user.Balance += amount
	if err := s.writeUsersLocked(); err != nil {
		user.Balance -= amount
		return fmt.Errorf("persisting users: %w", err)
	}
	return nil
}

// Withdraw removes a positive amount from the user's balance. The balance
// never goes negative: attempts to overdraw fail with no state change.
func (s *Store) Withdraw(ctx context.Context, userID string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	user, err := s.userByIDLocked(userID)
	if err != nil {
		return err
	}
	if amount > user.Balance {
		return common.ErrInsufficientFunds
	}

	user.Balance -= amount
	if err := s.writeUsersLocked(); err != nil {
		user.Balance += amount
		return fmt.Errorf("persisting users: %w", err)
	}
	return nil
}

// ProcessPurchase settles a sale: it debits the buyer, credits the seller
// and marks the item sold, all under the store lock so concurrent purchases
// of the same item produce exactly one sale. Every precondition is checked
// before any state changes; a persistence failure rolls the whole
// settlement back.
func (s *Store) ProcessPurchase(ctx context.Context, buyerID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemLocked(itemID)
	if err != nil {
		return err
	}
	if item.Sold {
		return common.ErrAlreadySold
	}

	buyer, err := s.userByIDLocked(buyerID)
	if err != nil {
		return err
	}
	if buyerID == item.SellerID {
		return common.ErrSelfPurchase
	}
	seller, err := s.userByIDLocked(item.SellerID)
	if err != nil {
		return err
	}

	if buyer.Balance < item.Price {
		return common.ErrInsufficientFunds
	}

	buyer.Balance -= item.Price
	seller.Balance += item.Price
	item.Sold = true
	item.BuyerID = buyerID

	rollback := func() {
		buyer.Balance += item.Price
		seller.Balance -= item.Price
		item.Sold = false
		item.BuyerID = ""
	}

	if err := s.writeUsersLocked(); err != nil {
		rollback()
		return fmt.Errorf("persisting users: %w", err)
	}
	if err := s.writeItemsLocked(); err != nil {
		rollback()
		// Put the user table back in line with memory.
		if werr := s.writeUsersLocked(); werr != nil {
			s.logger.Error(ctx, "user table rewrite failed during rollback", "error", werr)
		}
		return fmt.Errorf("persisting items: %w", err)
	}
	return nil
}

// RateSeller records a buyer rating against the seller's oldest unrated
// sold item. Each sold item takes at most one rating, so a seller can
// collect no more ratings than sales.
func (s *Store) RateSeller(ctx context.Context, sellerID string, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rating <= 0 || rating > 5 {
		return common.ErrInvalidRating
	}
	if _, err := s.userByIDLocked(sellerID); err != nil {
		return err
	}

	sold := s.itemsLocked(func(it *models.Item) bool {
		return it.SellerID == sellerID && it.Sold
	})
	if len(sold) == 0 {
		return common.ErrNoSoldItems
	}

	for _, item := range sold {
		if item.Rating != 0 {
			continue
		}
		item.Rating = rating
		if err := s.writeItemsLocked(); err != nil {
			item.Rating = 0
			return fmt.Errorf("persisting items: %w", err)
		}
		return nil
	}
	return common.ErrAllItemsRated
}

// SellerRating returns the mean of the nonzero ratings across the seller's
// sold items, and how many sales have been rated. A seller with no rated
// sales has rating 0.
func (s *Store) SellerRating(ctx context.Context, sellerID string) (float64, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.userByIDLocked(sellerID); err != nil {
		return 0, 0, err
	}

	var sum float64
	var count int
	for _, item := range s.items {
		if item.SellerID == sellerID && item.Sold && item.Rating > 0 {
			sum += item.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}
