package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketd/internal/server/models"
)

// Conversations are persisted append-only, one file per buyer/seller pair,
// named buyer_<buyerId>_seller_<sellerId>.txt with one "senderId:content"
// line per message. The roles are fixed at send time: when a message
// references an item, the item's seller takes the seller role; otherwise
// the sender is assumed to be the buyer.

const (
	keyBuyingFrom = "buying_from_"
	keySellingTo  = "selling_to_"
)

func conversationFileName(buyerID, sellerID string) string {
	return "buyer_" + buyerID + "_seller_" + sellerID + ".txt"
}

// AddMessage validates both parties, determines the buyer/seller pair,
// appends the message to the pair's conversation file and only then records
// it in memory and in the role-keyed index. itemID may be empty.
func (s *Store) AddMessage(ctx context.Context, senderID, receiverID, content, itemID string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.userByIDLocked(senderID); err != nil {
		return nil, err
	}
	if _, err := s.userByIDLocked(receiverID); err != nil {
		return nil, err
	}

	buyerID, sellerID := senderID, receiverID
	if itemID != "" {
		item, err := s.itemLocked(itemID)
		if err != nil {
			return nil, err
		}
		if item.SellerID == senderID {
			buyerID, sellerID = receiverID, senderID
		}
	}

	fileName := s.resolveConversationFileLocked(buyerID, sellerID)
	if err := s.appendConversationLineLocked(fileName, senderID, content); err != nil {
		return nil, fmt.Errorf("appending to conversation file: %w", err)
	}

	s.indexConversationLocked(buyerID, sellerID, fileName)

	msg := &models.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  s.nextTimestampLocked(),
	}
	s.messages = append(s.messages, msg)
	return cloneMessage(msg), nil
}

// MessagesBetween returns every message exchanged between the two users,
// ordered by ascending timestamp (stable on ties).
func (s *Store) MessagesBetween(ctx context.Context, userAID, userBID string) []*models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var msgs []*models.Message
	for _, m := range s.messages {
		if (m.SenderID == userAID && m.ReceiverID == userBID) ||
			(m.SenderID == userBID && m.ReceiverID == userAID) {
			msgs = append(msgs, cloneMessage(m))
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp < msgs[j].Timestamp })
	return msgs
}

// ConversationPartners returns the ids of everyone the user has a
// conversation with, in either role, sorted for deterministic output.
func (s *Store) ConversationPartners(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.userByIDLocked(userID); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for key := range s.conversations[userID] {
		switch {
		case strings.HasPrefix(key, keyBuyingFrom):
			seen[strings.TrimPrefix(key, keyBuyingFrom)] = true
		case strings.HasPrefix(key, keySellingTo):
			seen[strings.TrimPrefix(key, keySellingTo)] = true
		}
	}

	partners := make([]string, 0, len(seen))
	for id := range seen {
		partners = append(partners, id)
	}
	sort.Strings(partners)
	return partners, nil
}

// resolveConversationFileLocked returns the existing file for the pair if
// the buyer's index already knows it, or the canonical new name otherwise.
func (s *Store) resolveConversationFileLocked(buyerID, sellerID string) string {
	if m := s.conversations[buyerID]; m != nil {
		if name, ok := m[keyBuyingFrom+sellerID]; ok {
			return name
		}
	}
	return conversationFileName(buyerID, sellerID)
}

func (s *Store) indexConversationLocked(buyerID, sellerID, fileName string) {
	if s.conversations[buyerID] == nil {
		s.conversations[buyerID] = make(map[string]string)
	}
	s.conversations[buyerID][keyBuyingFrom+sellerID] = fileName

	if s.conversations[sellerID] == nil {
		s.conversations[sellerID] = make(map[string]string)
	}
	s.conversations[sellerID][keySellingTo+buyerID] = fileName
}

func (s *Store) appendConversationLineLocked(fileName, senderID, content string) error {
	f, err := os.OpenFile(filepath.Join(s.dataDir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o660)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%s:%s\n", senderID, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadConversationsLocked scans the data directory for conversation files,
// rebuilds the role-keyed index for both participants and reloads the
// messages with synthetic ascending timestamps (the files do not record
// send times, only order).
func (s *Store) loadConversationsLocked(ctx context.Context) error {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		buyerID, sellerID, ok := parseConversationFileName(name)
		if !ok {
			continue
		}

		s.indexConversationLocked(buyerID, sellerID, name)

		lines, err := readLines(filepath.Join(s.dataDir, name))
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable conversation file", "file", name, "error", err)
			continue
		}

		for _, line := range lines {
			colon := strings.Index(line, ":")
			if colon <= 0 {
				continue
			}
			senderID := line[:colon]
			receiverID := sellerID
			if senderID != buyerID {
				receiverID = buyerID
			}
			s.messages = append(s.messages, &models.Message{
				ID:         uuid.NewString(),
				SenderID:   senderID,
				ReceiverID: receiverID,
				Content:    line[colon+1:],
				Timestamp:  s.nextTimestampLocked(),
			})
		}
	}
	return nil
}

func parseConversationFileName(name string) (buyerID, sellerID string, ok bool) {
	if !strings.HasPrefix(name, "buyer_") || !strings.HasSuffix(name, ".txt") {
		return "", "", false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, "buyer_"), ".txt")
	buyerID, sellerID, ok = strings.Cut(rest, "_seller_")
	if !ok || buyerID == "" || sellerID == "" {
		return "", "", false
	}
	return buyerID, sellerID, true
}

// removeUserConversationsLocked drops the user's own index entries and the
// entries pointing at them from other users' maps, returning the file names
// that should be deleted from disk.
func (s *Store) removeUserConversationsLocked(userID string) []string {
	var files []string
	for _, name := range s.conversations[userID] {
		files = append(files, name)
	}
	delete(s.conversations, userID)

	for _, convs := range s.conversations {
		delete(convs, keyBuyingFrom+userID)
		delete(convs, keySellingTo+userID)
	}
	return files
}

// deleteConversationFilesLocked removes conversation files best-effort;
// failures are logged, not rolled back.
func (s *Store) deleteConversationFilesLocked(ctx context.Context, files []string) {
	for _, name := range files {
		if err := os.Remove(filepath.Join(s.dataDir, name)); err != nil && !os.IsNotExist(err) {
			s.logger.Error(ctx, "failed to delete conversation file", "file", name, "error", err)
		}
	}
}

// nextTimestampLocked returns a unix-millisecond timestamp that is strictly
// greater than any previously issued one, so message order is total even
// when several messages land in the same millisecond.
func (s *Store) nextTimestampLocked() int64 {
	ts := time.Now().UnixMilli()
	if ts <= s.lastTimestamp {
		ts = s.lastTimestamp + 1
	}
	s.lastTimestamp = ts
	return ts
}
