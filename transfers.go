package budget

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTransferParams carries the fields of a new TransferSchedule. Empty pot
// names select the account's main balance as the endpoint.
type NewTransferParams struct {
	FromAccountID   int
	FromPotName     string
	ToAccountID     int
	ToPotName       string
	Amount          Money
	CreditAccountID *int
}

// AddTransferSchedule creates a standing transfer instruction. The domain
// enforces a single pending schedule per destination: an active,
// not-completed schedule already targeting the same account/pot pair is
// rejected. Credit-linked schedules get a pre-created creditCardPayment
// record that accumulates one event per execution.
func (e *Engine) AddTransferSchedule(params NewTransferParams) (TransferSchedule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.account(params.FromAccountID); err != nil {
		return TransferSchedule{}, err
	}
	if _, err := e.account(params.ToAccountID); err != nil {
		return TransferSchedule{}, err
	}
	for _, ts := range e.state.TransferSchedules {
		if ts.IsActive && !ts.IsCompleted &&
			ts.ToAccountID == params.ToAccountID &&
			strings.EqualFold(ts.ToPotName, params.ToPotName) {
			return TransferSchedule{}, InvalidOperationf(
				"a pending transfer schedule already targets account %d pot %q", params.ToAccountID, params.ToPotName)
		}
	}

	ts := TransferSchedule{
		ID:              next(&e.state.Counters.TransferSchedule),
		FromAccountID:   params.FromAccountID,
		FromPotName:     params.FromPotName,
		ToAccountID:     params.ToAccountID,
		ToPotName:       params.ToPotName,
		Amount:          params.Amount,
		IsActive:        true,
		CreditAccountID: clonePtr(params.CreditAccountID),
	}
	if ts.CreditAccountID != nil {
		rec := TransactionRecord{
			ID:        next(&e.state.Counters.Transaction),
			Name:      "Credit card payment",
			Amount:    params.Amount,
			Kind:      KindCreditCardPayment,
			AccountID: params.ToAccountID,
		}
		e.state.Transactions = append(e.state.Transactions, rec)
		ts.PaymentRecordID = &rec.ID
	}
	e.state.TransferSchedules = append(e.state.TransferSchedules, ts)
	e.log.Infow("transfer schedule added", "id", ts.ID, "from", ts.FromAccountID, "to", ts.ToAccountID, "pot", ts.ToPotName)
	if err := e.persist(); err != nil {
		return TransferSchedule{}, err
	}
	return ts.Clone(), nil
}

// DeleteTransferSchedule removes a standing transfer instruction.
func (e *Engine) DeleteTransferSchedule(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.TransferSchedules {
		if e.state.TransferSchedules[i].ID == id {
			e.state.TransferSchedules = append(e.state.TransferSchedules[:i], e.state.TransferSchedules[i+1:]...)
			return e.persist()
		}
	}
	return NotFoundf("transfer schedule %d not found", id)
}

// ExecuteTransferSchedule executes one standing transfer as of the given
// time: debits the source endpoint (insufficient funds fail the execution),
// then credits the destination endpoint. Non-credit-linked schedules are
// marked completed after one successful execution; credit-linked schedules
// stay re-executable and append one event to their payment record instead.
func (e *Engine) ExecuteTransferSchedule(id int, asOf time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.TransferSchedules {
		if e.state.TransferSchedules[i].ID == id {
			if err := e.executeTransfer(&e.state.TransferSchedules[i], asOf); err != nil {
				return err
			}
			return e.persist()
		}
	}
	return NotFoundf("transfer schedule %d not found", id)
}

// ExecuteAllTransferSchedules executes every active, not-yet-completed
// schedule independently. A schedule whose debit fails is skipped without
// aborting the batch; the batch reports how many succeeded and only fails
// if the final write-through fails.
func (e *Engine) ExecuteAllTransferSchedules(asOf time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	executed := 0
	for i := range e.state.TransferSchedules {
		ts := &e.state.TransferSchedules[i]
		if !ts.IsActive || ts.IsCompleted {
			continue
		}
		if err := e.executeTransfer(ts, asOf); err != nil {
			e.log.Debugw("transfer skipped", "id", ts.ID, "reason", err)
			continue
		}
		executed++
	}
	return executed, e.persist()
}

// executeTransfer moves the schedule amount between the resolved endpoints.
// The caller holds the mutex and persists.
func (e *Engine) executeTransfer(ts *TransferSchedule, asOf time.Time) error {
	if !ts.IsActive {
		return InvalidOperationf("transfer schedule %d is inactive", ts.ID)
	}
	if ts.IsCompleted && ts.CreditAccountID == nil {
		return InvalidOperationf("transfer schedule %d already completed", ts.ID)
	}

	// Resolve both endpoints before touching any balance, so a NotFound
	// never leaves a half-applied move. When source and destination are the
	// same account these resolve to the same state entry, so there is no
	// lost-update copy to reconcile.
	src, err := e.account(ts.FromAccountID)
	if err != nil {
		return err
	}
	dst, err := e.account(ts.ToAccountID)
	if err != nil {
		return err
	}
	var srcPot, dstPot *Pot
	if ts.FromPotName != "" {
		if srcPot, err = pot(src, ts.FromPotName); err != nil {
			return err
		}
	}
	if ts.ToPotName != "" {
		if dstPot, err = pot(dst, ts.ToPotName); err != nil {
			return err
		}
	}

	// Debit the source endpoint first.
	if srcPot != nil {
		if srcPot.Balance.LessThan(ts.Amount) {
			return InvalidOperationf("insufficient funds in pot %q", srcPot.Name)
		}
		srcPot.Balance = srcPot.Balance.Sub(ts.Amount)
	} else {
		if src.Balance.LessThan(ts.Amount) {
			return InvalidOperationf("insufficient funds in account %q", src.Name)
		}
		src.Balance = src.Balance.Sub(ts.Amount)
	}

	// Credit the destination unconditionally once the debit succeeded.
	if dstPot != nil {
		dstPot.Balance = dstPot.Balance.Add(ts.Amount)
	} else {
		dst.Balance = dst.Balance.Add(ts.Amount)
	}

	if ts.CreditAccountID != nil {
		// Completion would block re-execution; credit-linked schedules run
		// every period and accumulate events on their payment record.
		rec := e.paymentRecord(ts)
		rec.Events = append(rec.Events, TransactionEvent{
			ID:        uuid.NewString(),
			Timestamp: asOf,
			Amount:    ts.Amount,
		})
	} else {
		ts.IsCompleted = true
	}
	t := asOf
	ts.LastExecuted = &t
	e.state.LastTransferExecution = &t
	e.log.Infow("transfer executed", "id", ts.ID, "amount", ts.Amount.String())
	return nil
}

// paymentRecord returns the schedule's linked creditCardPayment record,
// re-creating it if the link was detached (e.g. by an execution purge).
func (e *Engine) paymentRecord(ts *TransferSchedule) *TransactionRecord {
	if ts.PaymentRecordID != nil {
		if rec, err := e.transaction(*ts.PaymentRecordID); err == nil {
			return rec
		}
	}
	rec := TransactionRecord{
		ID:        next(&e.state.Counters.Transaction),
		Name:      "Credit card payment",
		Amount:    ts.Amount,
		Kind:      KindCreditCardPayment,
		AccountID: ts.ToAccountID,
	}
	e.state.Transactions = append(e.state.Transactions, rec)
	id := rec.ID
	ts.PaymentRecordID = &id
	return &e.state.Transactions[len(e.state.Transactions)-1]
}

// ResetAllBalances zeroes the balance of every account and pot not flagged
// as reset-excluded, clears completion on transfer schedules so they run
// again, and drops captured reduction baselines.
func (e *Engine) ResetAllBalances() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.Accounts {
		acc := &e.state.Accounts[i]
		if !acc.ExcludeFromReset {
			acc.Balance = M(0, acc.Balance.Currency())
		}
		acc.ReductionBaseline = nil
		for j := range acc.Pots {
			p := &acc.Pots[j]
			if !p.ExcludeFromReset {
				p.Balance = M(0, p.Balance.Currency())
			}
		}
	}
	for i := range e.state.TransferSchedules {
		e.state.TransferSchedules[i].IsCompleted = false
	}
	e.log.Infow("balances reset")
	return e.persist()
}
