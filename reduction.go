package budget

import (
	"time"

	"github.com/google/uuid"

	"github.com/markdias/abudgetapp-sub002/date"
)

// maxReductionLogs caps the reduction audit trail; oldest rows drop first.
const maxReductionLogs = 500

// ApplyMonthlyReduction walks every depletable account and sets its balance
// to a linear projection of the month's baseline toward zero at month end:
//
//	adjusted = baseline * remainingDays / (daysInMonth - 1)
//
// where remainingDays counts from the asOf day. The baseline is captured at
// the first application in each period and reused for the rest of the month,
// so applying twice on the same day changes nothing. Credit accounts and
// reset-excluded accounts are left alone. Returns the audit rows written.
func (e *Engine) ApplyMonthlyReduction(asOf time.Time) ([]BalanceReductionLog, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := date.FromTime(asOf)
	period := today.Key()
	daysInMonth := date.DaysIn(today.Year(), today.Month())
	remaining := daysInMonth - today.Day()

	var applied []BalanceReductionLog
	for i := range e.state.Accounts {
		acc := &e.state.Accounts[i]
		if acc.Type == AccountCredit || acc.ExcludeFromReset {
			continue
		}
		if acc.ReductionBaseline == nil || acc.ReductionBaseline.Period != period {
			acc.ReductionBaseline = &ReductionBaseline{Amount: acc.Balance, Period: period}
		}

		adjusted := acc.ReductionBaseline.Amount.Scale(remaining, daysInMonth-1)
		if adjusted.Abs().LessThan(M(0.005, adjusted.Currency())) {
			adjusted = M(0, adjusted.Currency())
		}
		reduced := acc.Balance.Sub(adjusted)
		acc.Balance = adjusted

		applied = append(applied, BalanceReductionLog{
			ID:            uuid.NewString(),
			AccountID:     acc.ID,
			AccountName:   acc.Name,
			Baseline:      acc.ReductionBaseline.Amount,
			NewBalance:    adjusted,
			AmountReduced: reduced,
			Period:        period,
			Day:           today.Day(),
			CreatedAt:     asOf,
		})
	}

	e.state.BalanceReductionLogs = append(e.state.BalanceReductionLogs, applied...)
	if n := len(e.state.BalanceReductionLogs); n > maxReductionLogs {
		e.state.BalanceReductionLogs = e.state.BalanceReductionLogs[n-maxReductionLogs:]
	}
	e.log.Infow("monthly reduction applied", "period", period, "day", today.Day(), "accounts", len(applied))
	if err := e.persist(); err != nil {
		return nil, err
	}
	return applied, nil
}
