package budget

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markdias/abudgetapp-sub002/date"
)

// SkippedTransaction reports a due record that could not be applied.
type SkippedTransaction struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ProcessResult is the outcome of one scheduled-processing run. When
// BlockedReason is set the run mutated nothing.
type ProcessResult struct {
	Processed     []TransactionRecord  `json:"processed"`
	Skipped       []SkippedTransaction `json:"skipped,omitempty"`
	BlockedReason string               `json:"blockedReason,omitempty"`
}

// ProcessScheduledTransactions applies every scheduled, creditCardCharge
// and yearly record whose due date has arrived, exactly once per period.
// It is idempotent within a calendar month: re-running it with no state
// change in between yields an empty processed list.
//
// Pot funding comes first: while any transfer schedule is pending, the run
// is blocked until at least one transfer has executed this month, and the
// effective day used for due-date comparison never precedes the day the
// funding transfers ran.
func (e *Engine) ProcessScheduledTransactions(asOf time.Time) (ProcessResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result ProcessResult
	today := date.FromTime(asOf)
	period := today.Key()

	if reason := e.transferGate(today); reason != "" {
		result.BlockedReason = reason
		e.log.Infow("scheduled processing blocked", "reason", reason)
		return result, nil
	}
	effective := e.effectiveDate(today)

	for i := range e.state.Transactions {
		tx := &e.state.Transactions[i]
		switch tx.Kind {
		case KindScheduled, KindCreditCardCharge:
			e.processMonthly(tx, effective, period, asOf, &result)
		case KindYearly:
			e.processYearly(tx, today, period, asOf, &result)
		}
	}

	e.reconcilePots(effective, today)

	e.log.Infow("scheduled processing done",
		"period", period,
		"processed", len(result.Processed),
		"skipped", len(result.Skipped))
	return result, e.persist()
}

// transferGate returns the blocking reason while pot funding is pending:
// any active, not-completed transfer schedule with no transfer execution
// recorded in the current month blocks processing.
func (e *Engine) transferGate(today date.Date) string {
	pending := false
	for _, ts := range e.state.TransferSchedules {
		if ts.IsActive && !ts.IsCompleted {
			pending = true
			break
		}
	}
	if !pending {
		return ""
	}
	if last := e.state.LastTransferExecution; last != nil {
		on := date.FromTime(*last)
		if on.Year() == today.Year() && on.Month() == today.Month() {
			return ""
		}
	}
	return "transfer schedules are pending: execute transfers before processing scheduled transactions"
}

// effectiveDate returns the day used for due-date comparison: the maximum
// of today and the day transfers last executed this month, so a bill is
// never considered due before the transfer that funds it ran.
func (e *Engine) effectiveDate(today date.Date) date.Date {
	day := today.Day()
	if last := e.state.LastTransferExecution; last != nil {
		on := date.FromTime(*last)
		if on.Year() == today.Year() && on.Month() == today.Month() && on.Day() > day {
			day = on.Day()
		}
	}
	return date.Clamped(today.Year(), today.Month(), day)
}

func (e *Engine) processMonthly(tx *TransactionRecord, effective date.Date, period string, asOf time.Time, result *ProcessResult) {
	sd, err := ParseScheduleDate(tx.Date)
	if err != nil {
		result.Skipped = append(result.Skipped, SkippedTransaction{ID: tx.ID, Name: tx.Name, Reason: err.Error()})
		return
	}
	due := sd.DueDate(effective.Year(), effective.Month())
	if due.After(effective) {
		return // not due yet
	}
	if e.alreadyProcessed(tx, period) {
		return
	}
	e.apply(tx, period, asOf, result)
}

func (e *Engine) processYearly(tx *TransactionRecord, today date.Date, period string, asOf time.Time, result *ProcessResult) {
	if tx.IsCompleted {
		return // fires again only after MarkYearlyReady
	}
	yd, err := ParseYearlyDate(tx.YearlyDate)
	if err != nil {
		result.Skipped = append(result.Skipped, SkippedTransaction{ID: tx.ID, Name: tx.Name, Reason: err.Error()})
		return
	}
	if !yd.DueOn(today) {
		return
	}
	if e.apply(tx, period, asOf, result) {
		tx.IsCompleted = true
	}
}

// alreadyProcessed reports whether the record fired this period, either per
// the processed log or per its own event history.
func (e *Engine) alreadyProcessed(tx *TransactionRecord, period string) bool {
	for _, pl := range e.state.ProcessedTransactions {
		if pl.PaymentID == tx.ID && pl.Period == period {
			return true
		}
	}
	for _, ev := range tx.Events {
		if date.FromTime(ev.Timestamp).Key() == period {
			return true
		}
	}
	return false
}

// apply debits the record's destination endpoint (and linked credit
// account), records the execution event and the audit row. Missing
// endpoints skip the record with a reason instead of failing the run.
func (e *Engine) apply(tx *TransactionRecord, period string, asOf time.Time, result *ProcessResult) bool {
	dest, err := e.account(tx.AccountID)
	if err != nil {
		result.Skipped = append(result.Skipped, SkippedTransaction{ID: tx.ID, Name: tx.Name, Reason: err.Error()})
		return false
	}
	var destPot *Pot
	if tx.PotName != "" {
		if destPot, err = pot(dest, tx.PotName); err != nil {
			result.Skipped = append(result.Skipped, SkippedTransaction{ID: tx.ID, Name: tx.Name, Reason: err.Error()})
			return false
		}
	}
	var credit *Account
	if tx.CreditAccountID != nil {
		if credit, err = e.account(*tx.CreditAccountID); err != nil {
			result.Skipped = append(result.Skipped, SkippedTransaction{ID: tx.ID, Name: tx.Name, Reason: err.Error()})
			return false
		}
	}

	if destPot != nil {
		destPot.Balance = destPot.Balance.Sub(tx.Amount)
	} else {
		dest.Balance = dest.Balance.Sub(tx.Amount)
	}
	if credit != nil {
		credit.Balance = credit.Balance.Sub(tx.Amount)
	}

	tx.Events = append(tx.Events, TransactionEvent{
		ID:        uuid.NewString(),
		Timestamp: asOf,
		Amount:    tx.Amount,
	})
	e.state.ProcessedTransactions = append(e.state.ProcessedTransactions, ProcessedTransactionLog{
		ID:          next(&e.state.Counters.Processed),
		PaymentID:   tx.ID,
		Period:      period,
		Name:        tx.Name,
		Amount:      tx.Amount,
		ProcessedAt: asOf,
	})
	result.Processed = append(result.Processed, tx.Clone())
	return true
}

// reconcilePots forces every pot's balance to the sum of amounts of
// not-yet-due records targeting it, so a pot's visible balance always
// represents funds still reserved for upcoming bills, independent of
// processing order.
func (e *Engine) reconcilePots(effective, today date.Date) {
	for i := range e.state.Accounts {
		acc := &e.state.Accounts[i]
		for j := range acc.Pots {
			p := &acc.Pots[j]
			sum := M(0, p.Balance.Currency())
			for _, tx := range e.state.Transactions {
				if tx.AccountID != acc.ID || !strings.EqualFold(tx.PotName, p.Name) || tx.PotName == "" {
					continue
				}
				switch tx.Kind {
				case KindScheduled, KindCreditCardCharge:
					sd, err := ParseScheduleDate(tx.Date)
					if err != nil {
						continue
					}
					if sd.DueDate(effective.Year(), effective.Month()).After(effective) {
						sum = sum.Add(tx.Amount)
					}
				case KindYearly:
					yd, err := ParseYearlyDate(tx.YearlyDate)
					if err != nil || tx.IsCompleted {
						continue
					}
					upcoming := date.Clamped(today.Year(), yd.Month, yd.Day)
					if upcoming.After(today) {
						sum = sum.Add(tx.Amount)
					}
				}
			}
			p.Balance = sum
		}
	}
}
