package budget

import (
	"testing"
	"time"
)

// GBP is a helper for tests to create pound money from const
func GBP(v float64) Money { return M(v, "GBP") }

// NO is a helper for tests to create money with no currency set
func NO(v float64) Money { return M(v, "") }

// at builds a deterministic instant within the test calendar.
func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

// newTestEngine returns an engine on a fresh in-memory store.
func newTestEngine(t *testing.T) (*Engine, *MemoryStore) {
	t.Helper()
	store := &MemoryStore{}
	e, err := NewEngine(store)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e, store
}

// mustAccount creates an account or fails the test.
func mustAccount(t *testing.T, e *Engine, name string, typ AccountType, balance Money) Account {
	t.Helper()
	acc, err := e.AddAccount(name, typ, "", balance)
	if err != nil {
		t.Fatalf("AddAccount(%s): %v", name, err)
	}
	return acc
}

// mustPot creates a pot or fails the test.
func mustPot(t *testing.T, e *Engine, accountID int, name string) Pot {
	t.Helper()
	p, err := e.AddPot(accountID, name, false)
	if err != nil {
		t.Fatalf("AddPot(%s): %v", name, err)
	}
	return p
}

// balanceOf re-reads an account balance from the engine.
func balanceOf(t *testing.T, e *Engine, id int) Money {
	t.Helper()
	acc, err := e.AccountByID(id)
	if err != nil {
		t.Fatalf("AccountByID(%d): %v", id, err)
	}
	return acc.Balance
}

// potBalanceOf re-reads a pot balance from the engine.
func potBalanceOf(t *testing.T, e *Engine, accountID int, name string) Money {
	t.Helper()
	acc, err := e.AccountByID(accountID)
	if err != nil {
		t.Fatalf("AccountByID(%d): %v", accountID, err)
	}
	for _, p := range acc.Pots {
		if p.Name == name {
			return p.Balance
		}
	}
	t.Fatalf("pot %q not found on account %d", name, accountID)
	return Money{}
}
