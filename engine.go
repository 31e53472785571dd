package budget

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Engine is the single-writer ledger engine. It owns the whole entity graph
// and serializes every operation behind one mutex: state is never read and
// mutated by two logical operations concurrently, and every mutating
// operation persists synchronously before returning.
//
// The engine is explicitly constructed and holds its own persistence handle;
// there is no process-wide default instance.
type Engine struct {
	mu    sync.Mutex
	state *ledgerState
	store Store
	log   *zap.SugaredLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger injects a structured logger. The default is a nop logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine loads the ledger from the store (an empty ledger if the store
// holds no document yet) and returns a ready engine.
func NewEngine(store Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: store,
		log:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}

	data, err := store.Load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		e.state = newLedgerState()
	case err != nil:
		return nil, fmt.Errorf("could not load ledger: %w", err)
	default:
		state, err := decodeStateBytes(data)
		if err != nil {
			return nil, fmt.Errorf("could not load ledger: %w", err)
		}
		e.state = state
	}
	e.log.Debugw("ledger loaded",
		"accounts", len(e.state.Accounts),
		"transactions", len(e.state.Transactions))
	return e, nil
}

// persist writes the current state through the store. The caller holds the
// mutex. On failure the in-memory state stands: the change is applied but
// not yet durable, and the Persistence error surfaces to the caller.
func (e *Engine) persist() error {
	data, err := encodeStateBytes(e.state)
	if err != nil {
		return PersistenceErr(err)
	}
	if err := e.store.Save(data); err != nil {
		e.log.Errorw("persist failed", "error", err)
		return PersistenceErr(err)
	}
	return nil
}

// account returns a pointer into the engine's state for the given ID.
func (e *Engine) account(id int) (*Account, error) {
	for i := range e.state.Accounts {
		if e.state.Accounts[i].ID == id {
			return &e.state.Accounts[i], nil
		}
	}
	return nil, NotFoundf("account %d not found", id)
}

// pot returns a pointer to the named pot of the account. The lookup is
// case-insensitive, matching the per-account uniqueness rule.
func pot(acc *Account, name string) (*Pot, error) {
	for i := range acc.Pots {
		if strings.EqualFold(acc.Pots[i].Name, name) {
			return &acc.Pots[i], nil
		}
	}
	return nil, NotFoundf("pot %q not found on account %q", name, acc.Name)
}

// transaction returns a pointer into the engine's state for the given ID.
func (e *Engine) transaction(id int) (*TransactionRecord, error) {
	for i := range e.state.Transactions {
		if e.state.Transactions[i].ID == id {
			return &e.state.Transactions[i], nil
		}
	}
	return nil, NotFoundf("transaction %d not found", id)
}

// Read accessors. Each returns deep copies: consumers never observe (or
// mutate) the engine's own graph.

// Accounts returns all accounts.
func (e *Engine) Accounts() []Account {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Account, 0, len(e.state.Accounts))
	for _, a := range e.state.Accounts {
		out = append(out, a.Clone())
	}
	return out
}

// AccountByID returns one account.
func (e *Engine) AccountByID(id int) (Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(id)
	if err != nil {
		return Account{}, err
	}
	return acc.Clone(), nil
}

// Transactions returns all transaction records.
func (e *Engine) Transactions() []TransactionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]TransactionRecord, 0, len(e.state.Transactions))
	for _, tx := range e.state.Transactions {
		out = append(out, tx.Clone())
	}
	return out
}

// TransferSchedules returns all transfer schedules.
func (e *Engine) TransferSchedules() []TransferSchedule {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]TransferSchedule, 0, len(e.state.TransferSchedules))
	for _, ts := range e.state.TransferSchedules {
		out = append(out, ts.Clone())
	}
	return out
}

// IncomeSchedules returns all income schedules.
func (e *Engine) IncomeSchedules() []IncomeSchedule {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]IncomeSchedule, 0, len(e.state.IncomeSchedules))
	for _, is := range e.state.IncomeSchedules {
		out = append(out, is.Clone())
	}
	return out
}

// ProcessedTransactions returns the scheduled-processing audit trail.
func (e *Engine) ProcessedTransactions() []ProcessedTransactionLog {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ProcessedTransactionLog, len(e.state.ProcessedTransactions))
	copy(out, e.state.ProcessedTransactions)
	return out
}

// Targets returns all savings targets.
func (e *Engine) Targets() []TargetRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]TargetRecord, len(e.state.Targets))
	copy(out, e.state.Targets)
	return out
}

// BalanceReductionLogs returns the monthly-reduction audit trail.
func (e *Engine) BalanceReductionLogs() []BalanceReductionLog {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]BalanceReductionLog, len(e.state.BalanceReductionLogs))
	copy(out, e.state.BalanceReductionLogs)
	return out
}

// Export returns the full ledger document as an opaque blob.
func (e *Engine) Export() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return encodeStateBytes(e.state)
}

// Import replaces the entire ledger with the given document, normalized as
// on load, and persists it.
func (e *Engine) Import(blob []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, err := decodeStateBytes(blob)
	if err != nil {
		return InvalidOperationf("invalid import document: %v", err)
	}
	e.state = state
	e.log.Infow("ledger imported", "accounts", len(state.Accounts))
	return e.persist()
}

// ClearAll resets to an empty ledger with all counters at 1.
func (e *Engine) ClearAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = newLedgerState()
	e.log.Infow("ledger cleared")
	return e.persist()
}
