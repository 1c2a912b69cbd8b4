package inventory

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	client "github.com/mamadbah2/stockdesk/pkg/clients/inventory"
)

const (
	actionLoad      = "load"
	actionAdd       = "add"
	actionReducePfx = "reduce:"
)

// Store holds the operator's inventory snapshot and the form state around it.
// The item list is only ever replaced as a whole by LoadInventory.
type Store struct {
	client client.Client
	logger *zap.Logger

	mu             sync.RWMutex
	items          []models.InventoryItem
	loaded         bool
	fetchSeq       uint64
	appliedSeq     uint64
	nameQuery      string
	stockRoomQuery string
	draft          models.NewItemDraft
	reductions     map[string]string

	loads    singleflight.Group
	guardsMu sync.Mutex
	guards   map[string]*semaphore.Weighted
}

// NewStore wires an empty store over the API client.
func NewStore(c client.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client:     c,
		logger:     logger,
		items:      []models.InventoryItem{},
		draft:      models.DefaultItemDraft(),
		reductions: make(map[string]string),
		guards:     make(map[string]*semaphore.Weighted),
	}
}

// LoadInventory fetches the full list and swaps it in. On failure the previous
// snapshot stays in place. Concurrent callers share one outstanding fetch.
func (s *Store) LoadInventory(ctx context.Context) error {
	_, err, _ := s.loads.Do(actionLoad, func() (interface{}, error) {
		return nil, s.fetch(ctx)
	})
	if err != nil {
		s.logger.Error("failed to fetch inventory", zap.Error(err))
		return operationError(err, msgLoadFailed)
	}

	s.logger.Debug("inventory loaded", zap.Int("items", len(s.Items())))
	return nil
}

// reload issues a fresh fetch after a mutation. A fetch already in flight
// started before the mutation, so it is not joined and its result is dropped
// once a newer one has been applied.
func (s *Store) reload(ctx context.Context) error {
	s.loads.Forget(actionLoad)
	return s.LoadInventory(ctx)
}

func (s *Store) fetch(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	items, err := s.client.FetchInventory(ctx)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.InventoryItem{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.appliedSeq {
		s.logger.Debug("dropping superseded inventory fetch", zap.Uint64("seq", seq))
		return nil
	}
	s.items = items
	s.loaded = true
	s.appliedSeq = seq
	return nil
}

// Reset drops the snapshot and all form state, as on a fresh login. Fetches
// still in flight are discarded when they return.
func (s *Store) Reset() {
	s.loads.Forget(actionLoad)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []models.InventoryItem{}
	s.loaded = false
	s.appliedSeq = s.fetchSeq
	s.nameQuery = ""
	s.stockRoomQuery = ""
	s.draft = models.DefaultItemDraft()
	s.reductions = make(map[string]string)
	s.logger.Debug("inventory state reset")
}

// AddItem submits the current draft. On success the list is reloaded and the
// draft reset to its defaults; on failure the draft is kept for another attempt.
func (s *Store) AddItem(ctx context.Context) error {
	draft := s.Draft()
	if err := draft.Validate(); err != nil {
		return &ValidationError{Message: err.Error(), Err: fmt.Errorf("%w: %v", ErrInvalidDraft, err)}
	}

	release, err := s.acquire(actionAdd)
	if err != nil {
		return err
	}
	defer release()

	if err := s.client.CreateItem(ctx, draft); err != nil {
		s.logger.Error("failed to add item", zap.String("name", draft.Name), zap.Error(err))
		return operationError(err, msgAddFailed)
	}

	s.logger.Info("item added", zap.String("name", draft.Name), zap.String("stock_room", string(draft.StockRoom)))

	// The item exists upstream now; a failed reload is logged by LoadInventory.
	_ = s.reload(ctx)

	s.mu.Lock()
	s.draft = models.DefaultItemDraft()
	s.mu.Unlock()
	return nil
}

// Loaded reports whether at least one fetch has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Items returns a copy of the current snapshot.
func (s *Store) Items() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InventoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// Item looks an item up in the current snapshot.
func (s *Store) Item(id string) (models.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.InventoryItem{}, false
}

// FilteredView applies the given queries to the current snapshot.
func (s *Store) FilteredView(nameQuery, stockRoomQuery string) []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterItems(s.items, nameQuery, stockRoomQuery)
}

// SetFilters stores the two filter predicates used by View.
func (s *Store) SetFilters(nameQuery, stockRoomQuery string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nameQuery = nameQuery
	s.stockRoomQuery = stockRoomQuery
}

// Filters returns the stored name and stock-room queries.
func (s *Store) Filters() (nameQuery, stockRoomQuery string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nameQuery, s.stockRoomQuery
}

// View applies the stored filters to the current snapshot.
func (s *Store) View() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterItems(s.items, s.nameQuery, s.stockRoomQuery)
}

// Draft returns the new item draft.
func (s *Store) Draft() models.NewItemDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// SetDraft replaces the new item draft.
func (s *Store) SetDraft(d models.NewItemDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}

// acquire enforces at most one outstanding request per action.
func (s *Store) acquire(action string) (func(), error) {
	s.guardsMu.Lock()
	sem, ok := s.guards[action]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.guards[action] = sem
	}
	s.guardsMu.Unlock()

	if !sem.TryAcquire(1) {
		s.logger.Warn("rejected concurrent request", zap.String("action", action))
		return nil, &OperationError{Message: msgBusy, Err: ErrBusy}
	}
	return func() { sem.Release(1) }, nil
}
