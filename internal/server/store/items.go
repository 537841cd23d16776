package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"marketd/internal/common"
	"marketd/internal/server/models"
)

// AddItem creates a listing for an existing seller. Tags are derived from
// the description at creation time and never recomputed afterwards.
func (s *Store) AddItem(ctx context.Context, sellerID, title, description, category string, price float64) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if price < 0 {
		return nil, common.ErrInvalidPrice
	}
	if _, err := s.userByIDLocked(sellerID); err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		Title:       title,
		Description: description,
		Category:    category,
		Tags:        s.tagger.Extract(description),
		Price:       price,
		Seq:         s.nextSeqLocked(),
	}
	s.items[item.ID] = item

	if err := s.writeItemsLocked(); err != nil {
		delete(s.items, item.ID)
		return nil, fmt.Errorf("persisting items: %w", err)
	}
	return cloneItem(item), nil
}

// GetItem returns the item with the given id.
func (s *Store) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemLocked(itemID)
	if err != nil {
		return nil, err
	}
	return cloneItem(item), nil
}

// AllItems returns every item in creation order.
func (s *Store) AllItems(ctx context.Context) []*models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.itemsLocked(func(*models.Item) bool { return true }))
}

// ActiveItems returns the unsold items in creation order.
func (s *Store) ActiveItems(ctx context.Context) []*models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.itemsLocked(func(it *models.Item) bool { return !it.Sold }))
}

// Listings returns the items listed by a user, optionally restricted to
// unsold ones. The view is recomputed from the item table on every call so
// it cannot drift from item state.
func (s *Store) Listings(ctx context.Context, userID string, activeOnly bool) ([]*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.userByIDLocked(userID); err != nil {
		return nil, err
	}
	return cloneItems(s.itemsLocked(func(it *models.Item) bool {
		return it.SellerID == userID && (!activeOnly || !it.Sold)
	})), nil
}

// PurchaseHistory returns the items a user has bought, in creation order.
func (s *Store) PurchaseHistory(ctx context.Context, userID string) ([]*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.userByIDLocked(userID); err != nil {
		return nil, err
	}
	return cloneItems(s.itemsLocked(func(it *models.Item) bool {
		return it.Sold && it.BuyerID == userID
	})), nil
}

// RemoveItem deletes a listing. Only the item's own seller may remove it,
// and only while it is unsold.
func (s *Store) RemoveItem(ctx context.Context, itemID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemLocked(itemID)
	if err != nil {
		return err
	}
	if item.SellerID != requesterID {
		return common.ErrNotSeller
	}
	if item.Sold {
		return common.ErrAlreadySold
	}

	delete(s.items, itemID)
	if err := s.writeItemsLocked(); err != nil {
		s.items[itemID] = item
		return fmt.Errorf("persisting items: %w", err)
	}
	return nil
}

// MarkSold records a direct sale: the item becomes sold to buyerID without
// a funds transfer. The buyer must resolve to an existing user and an item
// can only ever be sold once.
func (s *Store) MarkSold(ctx context.Context, itemID, buyerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.itemLocked(itemID)
	if err != nil {
		return err
	}
	if item.Sold {
		return common.ErrAlreadySold
	}
	if _, err := s.userByIDLocked(buyerID); err != nil {
		return err
	}

	item.Sold = true
	item.BuyerID = buyerID

	if err := s.writeItemsLocked(); err != nil {
		item.Sold = false
		item.BuyerID = ""
		return fmt.Errorf("persisting items: %w", err)
	}
	return nil
}

// ActiveSellers returns the users with at least one unsold listing, ordered
// by username.
func (s *Store) ActiveSellers(ctx context.Context) []*models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make(map[string]bool)
	for _, item := range s.items {
		if !item.Sold {
			active[item.SellerID] = true
		}
	}

	var sellers []*models.User
	for id := range active {
		if u, ok := s.usersByID[id]; ok {
			sellers = append(sellers, cloneUser(u))
		}
	}
	sort.Slice(sellers, func(i, j int) bool { return sellers[i].Username < sellers[j].Username })
	return sellers
}

func (s *Store) itemLocked(itemID string) (*models.Item, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return item, nil
}

// itemsLocked collects the items matching keep, ordered by creation.
func (s *Store) itemsLocked(keep func(*models.Item) bool) []*models.Item {
	var items []*models.Item
	for _, item := range s.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Seq < items[j].Seq })
	return items
}

func (s *Store) nextSeqLocked() int64 {
	s.nextSeq++
	return s.nextSeq
}
