package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketd/internal/common"
)

func TestAddMessage_BuyerInitiates(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	seller := mustAddUser(t, s, "alice")
	buyer := mustAddUser(t, s, "bob")
	item := mustAddItem(t, s, seller.ID, "Bike", 100)

	msg, err := s.AddMessage(ctx, buyer.ID, seller.ID, "still available?", item.ID)
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, msg.SenderID)
	assert.Equal(t, seller.ID, msg.ReceiverID)

	// Sender is not the item's seller, so the sender is the buyer and the
	// file is named accordingly.
	path := filepath.Join(dir, "buyer_"+buyer.ID+"_seller_"+seller.ID+".txt")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buyer.ID+":still available?\n", string(data))
}

func TestAddMessage_SellerReplyUsesSameFile(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	seller := mustAddUser(t, s, "alice")
	buyer := mustAddUser(t, s, "bob")
	item := mustAddItem(t, s, seller.ID, "Bike", 100)

	_, err := s.AddMessage(ctx, buyer.ID, seller.ID, "still available?", item.ID)
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, seller.ID, buyer.ID, "yes it is", item.ID)
	require.NoError(t, err)

	path := filepath.Join(dir, "buyer_"+buyer.ID+"_seller_"+seller.ID+".txt")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		buyer.ID+":still available?\n"+seller.ID+":yes it is\n",
		string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var convFiles int
	for _, e := range entries {
		if e.Name() != "users.txt" && e.Name() != "items.txt" {
			convFiles++
		}
	}
	assert.Equal(t, 1, convFiles, "both directions share one file")
}

func TestAddMessage_Validation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	alice := mustAddUser(t, s, "alice")
	bob := mustAddUser(t, s, "bob")

	_, err := s.AddMessage(ctx, "missing", bob.ID, "hi", "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.AddMessage(ctx, alice.ID, "missing", "hi", "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.AddMessage(ctx, alice.ID, bob.ID, "hi", "missing-item")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Without an item reference the sender defaults to the buyer role.
	_, err = s.AddMessage(ctx, alice.ID, bob.ID, "hi", "")
	assert.NoError(t, err)
}

func TestMessagesBetween_OrderedByTimestamp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	alice := mustAddUser(t, s, "alice")
	bob := mustAddUser(t, s, "bob")
	carol := mustAddUser(t, s, "carol")

	_, err := s.AddMessage(ctx, alice.ID, bob.ID, "one", "")
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, alice.ID, carol.ID, "noise", "")
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, bob.ID, alice.ID, "two", "")
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, alice.ID, bob.ID, "three", "")
	require.NoError(t, err)

	msgs := s.MessagesBetween(ctx, alice.ID, bob.ID)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
	assert.Equal(t, "three", msgs[2].Content)
	assert.Less(t, msgs[0].Timestamp, msgs[1].Timestamp)
	assert.Less(t, msgs[1].Timestamp, msgs[2].Timestamp)
}

func TestConversationPartners(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	alice := mustAddUser(t, s, "alice")
	bob := mustAddUser(t, s, "bob")
	carol := mustAddUser(t, s, "carol")

	item := mustAddItem(t, s, alice.ID, "Bike", 100)

	// bob messages alice as a buyer; alice messages carol as a buyer.
	_, err := s.AddMessage(ctx, bob.ID, alice.ID, "hi", item.ID)
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, alice.ID, carol.ID, "hello", "")
	require.NoError(t, err)

	partners, err := s.ConversationPartners(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, partners, 2)
	assert.Contains(t, partners, bob.ID)
	assert.Contains(t, partners, carol.ID)
	assert.True(t, sortedStrings(partners))

	partners, err = s.ConversationPartners(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, partners)

	_, err = s.ConversationPartners(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func sortedStrings(ss []string) bool {
	for i := 1; i < len(ss); i++ {
		if ss[i-1] > ss[i] {
			return false
		}
	}
	return true
}

func TestConversations_ReloadedFromFiles(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	alice := mustAddUser(t, s, "alice")
	bob := mustAddUser(t, s, "bob")

	_, err := s.AddMessage(ctx, bob.ID, alice.ID, "first", "")
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, alice.ID, bob.ID, "second", "")
	require.NoError(t, err)

	s2 := reopen(t, dir)

	msgs := s2.MessagesBetween(ctx, alice.ID, bob.ID)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, bob.ID, msgs[0].SenderID)
	assert.Equal(t, alice.ID, msgs[0].ReceiverID)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, alice.ID, msgs[1].SenderID)

	partners, err := s2.ConversationPartners(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, partners)
}

func TestConversations_MessageContentMayContainColon(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	alice := mustAddUser(t, s, "alice")
	bob := mustAddUser(t, s, "bob")

	_, err := s.AddMessage(ctx, bob.ID, alice.ID, "meet at 10:30", "")
	require.NoError(t, err)

	s2 := reopen(t, dir)
	msgs := s2.MessagesBetween(ctx, alice.ID, bob.ID)
	require.Len(t, msgs, 1)
	assert.Equal(t, "meet at 10:30", msgs[0].Content)
}
