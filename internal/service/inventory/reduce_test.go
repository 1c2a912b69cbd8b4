package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	client "github.com/mamadbah2/stockdesk/pkg/clients/inventory"
)

func loadedStore(t *testing.T) (*Store, func() int, func() int) {
	store, mock, _ := newTestStore(bolt())
	require.NoError(t, store.LoadInventory(context.Background()))
	fetchesBefore := mock.Fetches()
	fetches := func() int { return mock.Fetches() - fetchesBefore }
	reduces := func() int { return len(mock.Reductions()) }
	return store, fetches, reduces
}

func stockOf(t *testing.T, store *Store, id string) int {
	item, ok := store.Item(id)
	require.True(t, ok)
	return item.Stock
}

// ============================================
// Scenario Tests
// ============================================

func TestReduceStock_AcceptedReloadsAndClearsDraft(t *testing.T) {
	store, fetches, reduces := loadedStore(t)
	store.SetReductionDraft("a1", "3")

	err := store.ReduceStock(context.Background(), "a1", "r1", "3")

	require.NoError(t, err)
	assert.Equal(t, 1, reduces())
	assert.Equal(t, 1, fetches())
	assert.Equal(t, "", store.ReductionDraft("a1"))
	assert.Equal(t, 7, stockOf(t, store, "a1"))

	item, _ := store.Item("a1")
	assert.NotEqual(t, "r1", item.Revision)
}

func TestReduceStock_NegativeQuantitySendsNothing(t *testing.T) {
	store, fetches, reduces := loadedStore(t)
	store.SetReductionDraft("a1", "-5")

	err := store.ReduceStock(context.Background(), "a1", "r1", "-5")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, msgInvalidQuantity, vErr.Message)
	assert.Zero(t, reduces())
	assert.Zero(t, fetches())
	assert.Equal(t, 10, stockOf(t, store, "a1"))
	assert.Equal(t, "-5", store.ReductionDraft("a1"))
}

func TestReduceStock_StaleRevisionKeepsDraft(t *testing.T) {
	store, fetches, reduces := loadedStore(t)
	store.SetReductionDraft("a1", "3")

	err := store.ReduceStock(context.Background(), "a1", "r0", "3")

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.ErrorIs(t, err, client.ErrConflict)
	assert.Equal(t, "Document update conflict.", opErr.Message)
	assert.Equal(t, 1, reduces())
	assert.Zero(t, fetches())
	assert.Equal(t, 10, stockOf(t, store, "a1"))
	assert.Equal(t, "3", store.ReductionDraft("a1"))
}

// ============================================
// Validation Tests
// ============================================

func TestReduceStock_InvalidQuantities(t *testing.T) {
	for _, raw := range []string{"", "   ", "0", "-1", "abc", "2.5", "3x"} {
		t.Run(raw, func(t *testing.T) {
			store, _, reduces := loadedStore(t)

			err := store.ReduceStock(context.Background(), "a1", "r1", raw)

			assert.ErrorIs(t, err, ErrInvalidQuantity)
			assert.Zero(t, reduces())
		})
	}
}

func TestReduceStock_TrimsWhitespace(t *testing.T) {
	store, _, reduces := loadedStore(t)

	require.NoError(t, store.ReduceStock(context.Background(), "a1", "r1", " 2 "))

	assert.Equal(t, 1, reduces())
	assert.Equal(t, 8, stockOf(t, store, "a1"))
}

func TestReduceStock_MissingRevision(t *testing.T) {
	store, _, reduces := loadedStore(t)

	err := store.ReduceStock(context.Background(), "a1", "", "3")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ErrorIs(t, err, ErrMissingRevision)
	assert.Zero(t, reduces())
}

// ============================================
// Draft Tests
// ============================================

func TestReductionDrafts_IndependentPerItem(t *testing.T) {
	store, _, _ := newTestStore(bolt(), models.InventoryItem{ID: "b2", Revision: "q1", Name: "Bracket", Stock: 5})
	require.NoError(t, store.LoadInventory(context.Background()))
	store.SetReductionDraft("a1", "3")
	store.SetReductionDraft("b2", "1")

	require.NoError(t, store.ReduceStock(context.Background(), "a1", "r1", "3"))

	assert.Equal(t, map[string]string{"b2": "1"}, store.ReductionDrafts())
}

func TestSubmitReduction_UsesDraftAndKnownRevision(t *testing.T) {
	store, _, _ := newTestStore(bolt())
	require.NoError(t, store.LoadInventory(context.Background()))
	store.SetReductionDraft("a1", "4")

	require.NoError(t, store.SubmitReduction(context.Background(), "a1"))

	assert.Equal(t, 6, stockOf(t, store, "a1"))
	assert.Empty(t, store.ReductionDraft("a1"))
}

func TestSubmitReduction_UnknownItem(t *testing.T) {
	store, _, _ := loadedStore(t)

	err := store.SubmitReduction(context.Background(), "zz")

	assert.ErrorIs(t, err, ErrUnknownItem)
}

// ============================================
// In-flight Guard Tests
// ============================================

func TestReduceStock_RejectsConcurrentRequestForSameItem(t *testing.T) {
	store, mock, up := newTestStore(bolt(), models.InventoryItem{ID: "b2", Revision: "q1", Stock: 5})
	require.NoError(t, store.LoadInventory(context.Background()))

	started := make(chan struct{})
	release := make(chan struct{})
	mock.ReduceStockFunc = func(ctx context.Context, id string, quantity int, revision string) (*models.InventoryItem, error) {
		if id == "a1" {
			close(started)
			<-release
		}
		return up.reduce(ctx, id, quantity, revision)
	}

	done := make(chan error, 1)
	go func() { done <- store.ReduceStock(context.Background(), "a1", "r1", "1") }()
	<-started

	err := store.ReduceStock(context.Background(), "a1", "r1", "1")
	assert.ErrorIs(t, err, ErrBusy)

	assert.NoError(t, store.ReduceStock(context.Background(), "b2", "q1", "1"))

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, mock.Reductions(), 2)
}

// ============================================
// Reload Ordering Tests
// ============================================

func TestReduceStock_ReloadDoesNotJoinEarlierFetch(t *testing.T) {
	store, mock, up := newTestStore(bolt())
	require.NoError(t, store.LoadInventory(context.Background()))

	started := make(chan struct{})
	release := make(chan struct{})
	parked := true
	mock.FetchInventoryFunc = func(ctx context.Context) ([]models.InventoryItem, error) {
		if parked {
			parked = false
			stale, _ := up.fetch(ctx)
			close(started)
			<-release
			return stale, nil
		}
		return up.fetch(ctx)
	}

	done := make(chan error, 1)
	go func() { done <- store.LoadInventory(context.Background()) }()
	<-started

	require.NoError(t, store.ReduceStock(context.Background(), "a1", "r1", "3"))

	assert.Equal(t, 3, mock.Fetches())
	assert.Equal(t, 7, stockOf(t, store, "a1"))

	close(release)
	require.NoError(t, <-done)

	item, ok := store.Item("a1")
	require.True(t, ok)
	assert.Equal(t, 7, item.Stock, "older fetch must not overwrite the reload")
	assert.NotEqual(t, "r1", item.Revision)
}
