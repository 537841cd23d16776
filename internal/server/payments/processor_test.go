package payments

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketd/internal/common"
	"marketd/internal/logging"
	"marketd/internal/server/store"
	"marketd/internal/server/tags"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func balance(t *testing.T, st *store.Store, userID string) float64 {
	t.Helper()
	u, err := st.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	return u.Balance
}

func newTestProcessor(t *testing.T) (*Processor, *store.Store) {
	t.Helper()

	st := store.New(t.TempDir(), tags.NewExtractorFromLists(nil, nil), testLogger())
	require.NoError(t, st.Load(context.Background()))
	return NewProcessor(st, testLogger()), st
}

func TestProcessor_FundsFlow(t *testing.T) {
	p, st := newTestProcessor(t)
	ctx := context.Background()

	user, err := st.AddUser(ctx, "alice", "secret", "")
	require.NoError(t, err)

	require.NoError(t, p.AddFunds(ctx, user.ID, 40))
	require.NoError(t, p.WithdrawFunds(ctx, user.ID, 15))
	assert.Equal(t, 25.0, balance(t, st, user.ID))

	assert.ErrorIs(t, p.WithdrawFunds(ctx, user.ID, 1000), common.ErrInsufficientFunds)
	assert.ErrorIs(t, p.AddFunds(ctx, user.ID, -1), common.ErrInvalidAmount)
}

func TestProcessor_RatingFlow(t *testing.T) {
	p, st := newTestProcessor(t)
	ctx := context.Background()

	seller, err := st.AddUser(ctx, "alice", "secret", "")
	require.NoError(t, err)
	buyer, err := st.AddUser(ctx, "bob", "secret", "")
	require.NoError(t, err)

	item, err := st.AddItem(ctx, seller.ID, "Bike", "city bike", "Sports", 10)
	require.NoError(t, err)

	require.NoError(t, p.AddFunds(ctx, buyer.ID, 50))
	require.NoError(t, p.ProcessPurchase(ctx, buyer.ID, item.ID))

	require.NoError(t, p.RateSeller(ctx, seller.ID, 4))
	assert.ErrorIs(t, p.RateSeller(ctx, seller.ID, 5), common.ErrAllItemsRated)

	avg, count, err := p.SellerRating(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, avg)
	assert.Equal(t, 1, count)
}

// Concurrent purchases of one item must produce exactly one sale and move
// the price exactly once.
func TestProcessor_ConcurrentPurchase_SingleSale(t *testing.T) {
	p, st := newTestProcessor(t)
	ctx := context.Background()

	seller, err := st.AddUser(ctx, "seller", "secret", "")
	require.NoError(t, err)

	const buyers = 8
	buyerIDs := make([]string, buyers)
	for i := range buyerIDs {
		u, err := st.AddUser(ctx, fmt.Sprintf("buyer%d", i), "secret", "")
		require.NoError(t, err)
		require.NoError(t, p.AddFunds(ctx, u.ID, 100))
		buyerIDs[i] = u.ID
	}

	item, err := st.AddItem(ctx, seller.ID, "Bike", "city bike", "Sports", 60)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := range buyerIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = p.ProcessPurchase(ctx, buyerIDs[i], item.ID)
		}(i)
	}
	wg.Wait()

	var won int
	for i, err := range errs {
		if err == nil {
			won++
			u, gerr := st.GetUserByID(ctx, buyerIDs[i])
			require.NoError(t, gerr)
			assert.Equal(t, 40.0, u.Balance)
		} else {
			assert.ErrorIs(t, err, common.ErrAlreadySold)
		}
	}
	assert.Equal(t, 1, won, "exactly one purchase succeeds")
	assert.Equal(t, 60.0, balance(t, st, seller.ID))
}

// Concurrent deposits and withdrawals must conserve money: no update may
// be lost and the balance may never go negative.
func TestProcessor_ConcurrentFunds_Conserved(t *testing.T) {
	p, st := newTestProcessor(t)
	ctx := context.Background()

	user, err := st.AddUser(ctx, "alice", "secret", "")
	require.NoError(t, err)
	require.NoError(t, p.AddFunds(ctx, user.ID, 1000))

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				assert.NoError(t, p.AddFunds(ctx, user.ID, 5))
				assert.NoError(t, p.WithdrawFunds(ctx, user.ID, 5))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000.0, balance(t, st, user.ID))
}
