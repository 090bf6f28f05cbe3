package repository

import (
	"FlowCS/entity"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory record store used for local runs and
// demos when Mongo is disabled. It holds the same record shapes as the
// Mongo repository and is safe for concurrent sessions.
type MemoryStore struct {
	mu         sync.Mutex
	accounts   map[string]*entity.Account
	orders     map[string]*entity.Order
	products   map[string]*entity.Product
	quotes     map[string]*entity.Quote
	devices    map[string]*entity.Device
	complaints []entity.Complaint
}

// NewMemoryStore creates a store pre-seeded with demo records.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: map[string]*entity.Account{
			"user1001": {AccountID: "user1001", Password: "pa$$word1", Name: "Demo User", CreatedAt: time.Now()},
		},
		orders: map[string]*entity.Order{
			"O20240904": {OrderID: "O20240904", AccountID: "user1001", ProductName: "Phone X", Status: "shipped", Eta: "2025-12-05"},
		},
		products: map[string]*entity.Product{
			"phone x": {Name: "Phone X", Price: "699.00", Stock: 42, Description: "Flagship phone"},
		},
		quotes: map[string]*entity.Quote{
			"AAPL": {Symbol: "AAPL", Price: "227.30", Trend: "up"},
		},
		devices: make(map[string]*entity.Device),
	}
}

func (m *MemoryStore) GetOrder(_ context.Context, orderID string) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[orderID], nil
}

func (m *MemoryStore) GetProduct(_ context.Context, name string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[strings.ToLower(name)], nil
}

func (m *MemoryStore) ChangePassword(_ context.Context, accountID, oldPassword, newPassword string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[accountID]
	if !ok || account.Password != oldPassword {
		return false, nil
	}
	account.Password = newPassword
	return true, nil
}

func (m *MemoryStore) DeactivateAccount(_ context.Context, accountID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[accountID]; !ok {
		return false, nil
	}
	delete(m.accounts, accountID)
	return true, nil
}

func (m *MemoryStore) InsertComplaint(_ context.Context, accountID, description string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refID := "C" + strings.ToUpper(uuid.NewString()[:8])
	m.complaints = append(m.complaints, entity.Complaint{
		RefID:       refID,
		AccountID:   accountID,
		Description: description,
		CreatedAt:   time.Now(),
	})
	return refID, nil
}

func (m *MemoryStore) SetDeviceState(_ context.Context, name, state string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[name] = &entity.Device{Name: name, State: state, UpdatedAt: time.Now()}
	return true, nil
}

func (m *MemoryStore) GetQuote(_ context.Context, symbol string) (*entity.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quotes[strings.ToUpper(symbol)], nil
}
