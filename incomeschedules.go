package budget

import (
	"time"

	"github.com/google/uuid"
)

// NewIncomeScheduleParams carries the fields of a new IncomeSchedule.
type NewIncomeScheduleParams struct {
	AccountID int
	Name      string
	Amount    Money
}

// AddIncomeSchedule creates a recurring income instruction for an account.
func (e *Engine) AddIncomeSchedule(params NewIncomeScheduleParams) (IncomeSchedule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.account(params.AccountID); err != nil {
		return IncomeSchedule{}, err
	}
	is := IncomeSchedule{
		ID:        next(&e.state.Counters.IncomeSchedule),
		AccountID: params.AccountID,
		Name:      params.Name,
		Amount:    params.Amount,
		IsActive:  true,
	}
	e.state.IncomeSchedules = append(e.state.IncomeSchedules, is)
	e.log.Infow("income schedule added", "id", is.ID, "name", is.Name)
	if err := e.persist(); err != nil {
		return IncomeSchedule{}, err
	}
	return is.Clone(), nil
}

// DeleteIncomeSchedule removes a recurring income instruction. Recorded
// executions stay applied: only the instruction goes away.
func (e *Engine) DeleteIncomeSchedule(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.IncomeSchedules {
		if e.state.IncomeSchedules[i].ID == id {
			e.state.IncomeSchedules = append(e.state.IncomeSchedules[:i], e.state.IncomeSchedules[i+1:]...)
			return e.persist()
		}
	}
	return NotFoundf("income schedule %d not found", id)
}

// ExecuteIncomeSchedule credits the schedule amount to the target account,
// records the execution event and marks the schedule completed until its
// completion is cleared again. Inactive or already completed schedules fail
// with InvalidOperation.
func (e *Engine) ExecuteIncomeSchedule(id int, asOf time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.IncomeSchedules {
		if e.state.IncomeSchedules[i].ID == id {
			if err := e.executeIncome(&e.state.IncomeSchedules[i], asOf); err != nil {
				return err
			}
			return e.persist()
		}
	}
	return NotFoundf("income schedule %d not found", id)
}

// ExecuteAllIncomeSchedules executes every active, not-yet-completed income
// schedule independently, skipping failures, and reports how many applied.
func (e *Engine) ExecuteAllIncomeSchedules(asOf time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	executed := 0
	for i := range e.state.IncomeSchedules {
		is := &e.state.IncomeSchedules[i]
		if !is.IsActive || is.IsCompleted {
			continue
		}
		if err := e.executeIncome(is, asOf); err != nil {
			e.log.Debugw("income schedule skipped", "id", is.ID, "reason", err)
			continue
		}
		executed++
	}
	return executed, e.persist()
}

func (e *Engine) executeIncome(is *IncomeSchedule, asOf time.Time) error {
	if !is.IsActive {
		return InvalidOperationf("income schedule %d is inactive", is.ID)
	}
	if is.IsCompleted {
		return InvalidOperationf("income schedule %d already completed", is.ID)
	}
	acc, err := e.account(is.AccountID)
	if err != nil {
		return err
	}
	acc.Balance = acc.Balance.Add(is.Amount)
	is.Events = append(is.Events, TransactionEvent{
		ID:        uuid.NewString(),
		Timestamp: asOf,
		Amount:    is.Amount,
	})
	is.IsCompleted = true
	t := asOf
	is.LastExecuted = &t
	e.log.Infow("income schedule executed", "id", is.ID, "amount", is.Amount.String())
	return nil
}
