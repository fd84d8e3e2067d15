package auth

import (
	"sync"
)

// Store operations that MemoryStore can be told to fail
const (
	OpStore    = "store"
	OpRetrieve = "retrieve"
	OpList     = "list"
	OpDelete   = "delete"
)

// MemoryStore keeps accounts in process memory. Tests use it in place of the
// keychain and the encrypted file.
type MemoryStore struct {
	mu       sync.RWMutex
	table    shopTable
	failures map[string]error
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		table:    shopTable{},
		failures: map[string]error{},
	}
}

// NewMemoryManager creates a Manager over a single memory store
func NewMemoryManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	return NewManagerWithStores(store), store
}

// FailOn makes every later call of op return err. A nil err clears it.
func (m *MemoryStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

func (m *MemoryStore) Store(account *ShopAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[OpStore]; err != nil {
		return err
	}
	return m.table.put(account)
}

func (m *MemoryStore) Retrieve(shop string) (*ShopAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[OpRetrieve]; err != nil {
		return nil, err
	}
	return m.table.get(shop)
}

func (m *MemoryStore) List() ([]*ShopAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[OpList]; err != nil {
		return nil, err
	}
	return m.table.accounts(), nil
}

func (m *MemoryStore) Delete(shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[OpDelete]; err != nil {
		return err
	}
	return m.table.remove(shop)
}

// Len returns the number of stored shops
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.table)
}
