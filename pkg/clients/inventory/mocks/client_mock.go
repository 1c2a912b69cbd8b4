package mocks

import (
	"context"
	"sync"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

// MockClient is a mock implementation of inventory.Client for testing.
// Set the *Func fields to control results; every call is recorded.
type MockClient struct {
	mu sync.Mutex

	FetchInventoryFunc func(ctx context.Context) ([]models.InventoryItem, error)
	CreateItemFunc     func(ctx context.Context, draft models.NewItemDraft) error
	ReduceStockFunc    func(ctx context.Context, id string, quantity int, revision string) (*models.InventoryItem, error)
	LoginFunc          func(ctx context.Context, username, password string) (*models.LoginResponse, error)
	RegisterFunc       func(ctx context.Context, username, password string) (map[string]any, error)

	FetchCalls    int
	CreateCalls   []models.NewItemDraft
	ReduceCalls   []ReduceCall
	LoginCalls    []models.Credentials
	RegisterCalls []models.Credentials
}

// ReduceCall records parameters passed to ReduceStock
type ReduceCall struct {
	ID       string
	Quantity int
	Revision string
}

// NewMockClient creates a MockClient serving items from FetchInventory.
func NewMockClient(items ...models.InventoryItem) *MockClient {
	return &MockClient{
		FetchInventoryFunc: func(context.Context) ([]models.InventoryItem, error) {
			out := make([]models.InventoryItem, len(items))
			copy(out, items)
			return out, nil
		},
	}
}

func (m *MockClient) FetchInventory(ctx context.Context) ([]models.InventoryItem, error) {
	m.mu.Lock()
	m.FetchCalls++
	fn := m.FetchInventoryFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(ctx)
}

func (m *MockClient) CreateItem(ctx context.Context, draft models.NewItemDraft) error {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, draft)
	fn := m.CreateItemFunc
	m.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(ctx, draft)
}

func (m *MockClient) ReduceStock(ctx context.Context, id string, quantity int, revision string) (*models.InventoryItem, error) {
	m.mu.Lock()
	m.ReduceCalls = append(m.ReduceCalls, ReduceCall{ID: id, Quantity: quantity, Revision: revision})
	fn := m.ReduceStockFunc
	m.mu.Unlock()

	if fn == nil {
		return &models.InventoryItem{ID: id}, nil
	}
	return fn(ctx, id, quantity, revision)
}

func (m *MockClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	m.mu.Lock()
	m.LoginCalls = append(m.LoginCalls, models.Credentials{Username: username, Password: password})
	fn := m.LoginFunc
	m.mu.Unlock()

	if fn == nil {
		return &models.LoginResponse{}, nil
	}
	return fn(ctx, username, password)
}

func (m *MockClient) Register(ctx context.Context, username, password string) (map[string]any, error) {
	m.mu.Lock()
	m.RegisterCalls = append(m.RegisterCalls, models.Credentials{Username: username, Password: password})
	fn := m.RegisterFunc
	m.mu.Unlock()

	if fn == nil {
		return map[string]any{}, nil
	}
	return fn(ctx, username, password)
}

// Fetches returns the number of FetchInventory calls so far.
func (m *MockClient) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCalls
}

// Reductions returns a copy of the recorded ReduceStock calls.
func (m *MockClient) Reductions() []ReduceCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ReduceCall, len(m.ReduceCalls))
	copy(out, m.ReduceCalls)
	return out
}
