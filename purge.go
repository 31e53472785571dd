package budget

import "time"

// PurgeExecutions removes every recorded execution whose timestamp falls in
// the inclusive [from, to] window: transaction events, income schedule
// events and the matching audit rows. Balances are deliberately untouched;
// the purge rewrites history, it does not undo it. A record stripped of all
// its events becomes re-executable again: yearly records lose their
// completion flag and emptied income schedules are cleared back to pending.
// Returns the number of events removed.
func (e *Engine) PurgeExecutions(from, to time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inRange := func(ts time.Time) bool {
		return !ts.Before(from) && !ts.After(to)
	}
	removed := 0

	for i := range e.state.Transactions {
		tx := &e.state.Transactions[i]
		kept := tx.Events[:0]
		for _, ev := range tx.Events {
			if inRange(ev.Timestamp) {
				removed++
				continue
			}
			kept = append(kept, ev)
		}
		hadEvents := len(tx.Events) > 0
		tx.Events = kept
		if hadEvents && len(kept) == 0 {
			if tx.Kind == KindYearly {
				tx.IsCompleted = false
			}
			if tx.Kind == KindCreditCardPayment {
				e.detachPaymentRecord(tx.ID)
			}
		}
	}

	for i := range e.state.IncomeSchedules {
		is := &e.state.IncomeSchedules[i]
		kept := is.Events[:0]
		for _, ev := range is.Events {
			if inRange(ev.Timestamp) {
				removed++
				continue
			}
			kept = append(kept, ev)
		}
		hadEvents := len(is.Events) > 0
		is.Events = kept
		if hadEvents && len(kept) == 0 {
			is.IsCompleted = false
			is.LastExecuted = nil
		}
	}

	keptLogs := e.state.ProcessedTransactions[:0]
	for _, pl := range e.state.ProcessedTransactions {
		if inRange(pl.ProcessedAt) {
			continue
		}
		keptLogs = append(keptLogs, pl)
	}
	e.state.ProcessedTransactions = keptLogs

	e.log.Infow("executions purged", "from", from, "to", to, "removed", removed)
	if err := e.persist(); err != nil {
		return 0, err
	}
	return removed, nil
}

// PurgeExecutionsAt removes the executions recorded at one exact timestamp.
func (e *Engine) PurgeExecutionsAt(ts time.Time) (int, error) {
	return e.PurgeExecutions(ts, ts)
}

// detachPaymentRecord unlinks transfer schedules from a payment record whose
// execution history was emptied; the next execution re-creates the link.
func (e *Engine) detachPaymentRecord(recordID int) {
	for i := range e.state.TransferSchedules {
		ts := &e.state.TransferSchedules[i]
		if ts.PaymentRecordID != nil && *ts.PaymentRecordID == recordID {
			ts.PaymentRecordID = nil
		}
	}
}
