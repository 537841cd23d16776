// Package store implements the authoritative in-memory state of the
// marketplace and its flat-file persistence. One Store instance is shared by
// every connection handler; a single mutex serializes all reads and writes,
// including the file rewrites that accompany each mutation. That trades
// write throughput for the guarantees the system actually needs: no lost
// updates, no double-sell, instantaneous consistency across handlers.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"marketd/internal/common"
	"marketd/internal/logging"
	"marketd/internal/server/models"
)

// Tagger derives searchable tags from an item description. Satisfied by
// tags.Extractor.
type Tagger interface {
	Extract(description string) []string
}

// Store owns the user, item and message tables. All exported methods are
// safe for concurrent use and hand out copies of the stored records, so a
// caller reading a result never races a concurrent mutation.
type Store struct {
	mu     sync.Mutex
	logger logging.Logger
	tagger Tagger

	dataDir string

	usersByName map[string]*models.User
	usersByID   map[string]*models.User
	items       map[string]*models.Item
	messages    []*models.Message

	// conversations is the role-keyed conversation index:
	// userID -> ("buying_from_<sellerID>" | "selling_to_<buyerID>") -> file name.
	conversations map[string]map[string]string

	nextSeq       int64
	lastTimestamp int64
}

// New creates an empty store persisting into dataDir. Call Load before
// serving requests.
func New(dataDir string, tagger Tagger, logger logging.Logger) *Store {
	return &Store{
		logger:        logger.With("module", "store"),
		tagger:        tagger,
		dataDir:       dataDir,
		usersByName:   make(map[string]*models.User),
		usersByID:     make(map[string]*models.User),
		items:         make(map[string]*models.Item),
		conversations: make(map[string]map[string]string),
	}
}

// Load reads the user and item tables and rescans the conversation files,
// rebuilding the role-keyed index and the in-memory message list. It must
// complete before the server accepts connections.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadUsersLocked(ctx); err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if err := s.loadItemsLocked(ctx); err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	if err := s.loadConversationsLocked(ctx); err != nil {
		return fmt.Errorf("loading conversations: %w", err)
	}

	s.logger.Info(ctx, "store loaded",
		"users", len(s.usersByID), "items", len(s.items), "messages", len(s.messages))
	return nil
}

// AddUser registers a new account with a zero balance. The username must be
// unused (case-sensitive comparison).
func (s *Store) AddUser(ctx context.Context, username, password, bio string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByName[username]; exists {
		return nil, common.ErrUsernameTaken
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: password,
		Bio:      bio,
	}
	s.usersByName[username] = user
	s.usersByID[user.ID] = user

	if err := s.writeUsersLocked(); err != nil {
		delete(s.usersByName, username)
		delete(s.usersByID, user.ID)
		return nil, fmt.Errorf("persisting users: %w", err)
	}
	return cloneUser(user), nil
}

// Login checks the credentials with exact equality and returns the user.
func (s *Store) Login(ctx context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByName[username]
	if !ok || user.Password != password {
		return nil, common.ErrUnauthorized
	}
	return cloneUser(user), nil
}

// GetUserByID returns the user with the given id.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.userByIDLocked(userID)
	if err != nil {
		return nil, err
	}
	return cloneUser(user), nil
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneUser(user), nil
}

// AllUsers returns every user, ordered by username.
func (s *Store) AllUsers(ctx context.Context) []*models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneUsers(s.usersSortedLocked())
}

// DeleteUser removes the account and cascades: active listings are dropped,
// the user's messages and conversation files are deleted and both sides of
// the conversation index are scrubbed. Sold items and messages recorded
// under other users stay behind as historical records, even though their
// seller/sender reference no longer resolves.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.userByIDLocked(userID)
	if err != nil {
		return err
	}

	for id, item := range s.items {
		if item.SellerID == userID && !item.Sold {
			delete(s.items, id)
		}
	}

	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.SenderID != userID && m.ReceiverID != userID {
			kept = append(kept, m)
		}
	}
	s.messages = kept

	delete(s.usersByName, user.Username)
	delete(s.usersByID, userID)

	staleFiles := s.removeUserConversationsLocked(userID)

	if err := s.writeUsersLocked(); err != nil {
		return fmt.Errorf("persisting users: %w", err)
	}
	if err := s.writeItemsLocked(); err != nil {
		return fmt.Errorf("persisting items: %w", err)
	}

	s.deleteConversationFilesLocked(ctx, staleFiles)
	return nil
}

func (s *Store) userByIDLocked(userID string) (*models.User, error) {
	user, ok := s.usersByID[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

// The clone helpers copy records at the exported boundary. Tags slices are
// shared: they are written once at creation or load and never mutated.

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneUsers(users []*models.User) []*models.User {
	out := make([]*models.User, len(users))
	for i, u := range users {
		out[i] = cloneUser(u)
	}
	return out
}

func cloneItem(it *models.Item) *models.Item {
	c := *it
	return &c
}

func cloneItems(items []*models.Item) []*models.Item {
	out := make([]*models.Item, len(items))
	for i, it := range items {
		out[i] = cloneItem(it)
	}
	return out
}

func cloneMessage(m *models.Message) *models.Message {
	c := *m
	return &c
}
