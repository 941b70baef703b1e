// Package memory provides an in-memory Store implementation (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/ledger"
	"github.com/atlasbank/ledger-engine/report"
)

// Interface compliance checks.
var (
	_ ledger.TxStore    = (*Memory)(nil)
	_ bank.ClientStore  = (*Memory)(nil)
	_ bank.AccountStore = (*Memory)(nil)
	_ report.Store      = (*Memory)(nil)
)

// Memory keeps all records in maps guarded by a single RWMutex.
type Memory struct {
	mu        sync.RWMutex
	clients   map[string]bank.Client
	accounts  map[string]ledger.Account
	movements map[string]ledger.Movement
}

func New() *Memory {
	return &Memory{
		clients:   make(map[string]bank.Client),
		accounts:  make(map[string]ledger.Account),
		movements: make(map[string]ledger.Movement),
	}
}

// =============================================================================
// CLIENT STORE
// =============================================================================

// SaveClient inserts or updates a client, enforcing the same uniqueness
// rules the sqlite schema does: one login id and one identification per
// client.
func (m *Memory) SaveClient(_ context.Context, c *bank.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.clients {
		if other.ID == c.ID {
			continue
		}
		if other.ClientID == c.ClientID || other.Person.Identification == c.Person.Identification {
			return fmt.Errorf("client %q: %w", c.ClientID, bank.ErrDuplicateClient)
		}
	}
	m.clients[c.ID] = *c
	return nil
}

func (m *Memory) FindClient(_ context.Context, id string) (*bank.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.clients[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *Memory) FindClientByClientID(_ context.Context, clientID string) (*bank.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if c.ClientID == clientID {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Memory) FindClientByIdentification(_ context.Context, identification string) (*bank.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if c.Person.Identification == identification {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListClients(_ context.Context) ([]bank.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	clients := make([]bank.Client, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	return clients, nil
}

// =============================================================================
// ACCOUNT STORE
// =============================================================================

// SaveAccount inserts or updates an account, enforcing the sqlite
// schema's unique account number.
func (m *Memory) SaveAccount(_ context.Context, a *ledger.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.accounts {
		if other.ID != a.ID && other.Number == a.Number {
			return fmt.Errorf("account %q: %w", a.Number, bank.ErrDuplicateAccount)
		}
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *Memory) FindAccount(_ context.Context, id string) (*ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findAccountLocked(id), nil
}

func (m *Memory) findAccountLocked(id string) *ledger.Account {
	if a, ok := m.accounts[id]; ok {
		return &a
	}
	return nil
}

func (m *Memory) FindAccountByNumber(_ context.Context, number string) (*ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.Number == number {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListAccounts(_ context.Context) ([]ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]ledger.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (m *Memory) ListAccountsByClient(_ context.Context, clientID string) ([]ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []ledger.Account
	for _, a := range m.accounts {
		if a.ClientID == clientID {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

// =============================================================================
// MOVEMENT STORE
// =============================================================================

func (m *Memory) SaveMovement(_ context.Context, mov *ledger.Movement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveMovementLocked(mov)
}

func (m *Memory) saveMovementLocked(mov *ledger.Movement) error {
	m.movements[mov.ID] = *mov
	return nil
}

func (m *Memory) FindMovement(_ context.Context, id string) (*ledger.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findMovementLocked(id), nil
}

func (m *Memory) findMovementLocked(id string) *ledger.Movement {
	if mov, ok := m.movements[id]; ok {
		return &mov
	}
	return nil
}

func (m *Memory) ListMovements(_ context.Context, accountID string) ([]ledger.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listMovementsLocked(accountID), nil
}

func (m *Memory) listMovementsLocked(accountID string) []ledger.Movement {
	var movements []ledger.Movement
	for _, mov := range m.movements {
		if mov.AccountID == accountID {
			movements = append(movements, mov)
		}
	}
	ledger.OrderMovements(movements)
	return movements
}

func (m *Memory) ListMovementsInRange(_ context.Context, accountID string, from, to time.Time) ([]ledger.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listMovementsInRangeLocked(accountID, from, to), nil
}

func (m *Memory) listMovementsInRangeLocked(accountID string, from, to time.Time) []ledger.Movement {
	var movements []ledger.Movement
	for _, mov := range m.movements {
		if mov.AccountID != accountID {
			continue
		}
		if mov.Date.Before(from) || mov.Date.After(to) {
			continue
		}
		movements = append(movements, mov)
	}
	ledger.OrderMovements(movements)
	return movements
}

func (m *Memory) ListAllMovements(_ context.Context) ([]ledger.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listAllMovementsLocked(), nil
}

func (m *Memory) listAllMovementsLocked() []ledger.Movement {
	movements := make([]ledger.Movement, 0, len(m.movements))
	for _, mov := range m.movements {
		movements = append(movements, mov)
	}
	ledger.OrderMovements(movements)
	return movements
}

func (m *Memory) DeleteMovement(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.movements, id)
	return nil
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// WithTx executes fn within a transaction, simulated with a snapshot of
// the movement map that is restored on error.
func (m *Memory) WithTx(_ context.Context, fn func(ledger.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[string]ledger.Movement, len(m.movements))
	for id, mov := range m.movements {
		snapshot[id] = mov
	}

	if err := fn(&txView{parent: m}); err != nil {
		m.movements = snapshot
		return err
	}
	return nil
}

// txView operates under the parent's already-held lock.
type txView struct {
	parent *Memory
}

var _ ledger.Store = (*txView)(nil)

func (tv *txView) FindAccount(_ context.Context, id string) (*ledger.Account, error) {
	return tv.parent.findAccountLocked(id), nil
}

func (tv *txView) FindMovement(_ context.Context, id string) (*ledger.Movement, error) {
	return tv.parent.findMovementLocked(id), nil
}

func (tv *txView) ListMovements(_ context.Context, accountID string) ([]ledger.Movement, error) {
	return tv.parent.listMovementsLocked(accountID), nil
}

func (tv *txView) ListMovementsInRange(_ context.Context, accountID string, from, to time.Time) ([]ledger.Movement, error) {
	return tv.parent.listMovementsInRangeLocked(accountID, from, to), nil
}

func (tv *txView) ListAllMovements(_ context.Context) ([]ledger.Movement, error) {
	return tv.parent.listAllMovementsLocked(), nil
}

func (tv *txView) SaveMovement(_ context.Context, mov *ledger.Movement) error {
	return tv.parent.saveMovementLocked(mov)
}

func (tv *txView) DeleteMovement(_ context.Context, id string) error {
	delete(tv.parent.movements, id)
	return nil
}
