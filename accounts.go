package budget

import (
	"strings"
	"time"
)

// AccountUpdate carries the account fields an update may change; nil fields
// are left untouched. Balance is deliberately absent: balances change only
// through the defined mutation paths.
type AccountUpdate struct {
	Name             *string
	Category         *string
	Type             *AccountType
	CreditLimit      *Money
	ExcludeFromReset *bool
}

// AddAccount creates an account with the given opening balance.
func (e *Engine) AddAccount(name string, typ AccountType, category string, balance Money) (Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc := Account{
		ID:       next(&e.state.Counters.Account),
		Name:     name,
		Balance:  balance,
		Type:     typ,
		Category: category,
	}
	e.state.Accounts = append(e.state.Accounts, acc)
	e.log.Infow("account added", "id", acc.ID, "name", name)
	if err := e.persist(); err != nil {
		return Account{}, err
	}
	return acc.Clone(), nil
}

// UpdateAccount applies the non-nil fields of the update.
func (e *Engine) UpdateAccount(id int, update AccountUpdate) (Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(id)
	if err != nil {
		return Account{}, err
	}
	if update.Name != nil {
		acc.Name = *update.Name
	}
	if update.Category != nil {
		acc.Category = *update.Category
	}
	if update.Type != nil {
		acc.Type = *update.Type
	}
	if update.CreditLimit != nil {
		limit := *update.CreditLimit
		acc.CreditLimit = &limit
	}
	if update.ExcludeFromReset != nil {
		acc.ExcludeFromReset = *update.ExcludeFromReset
	}
	if err := e.persist(); err != nil {
		return Account{}, err
	}
	return acc.Clone(), nil
}

// DeleteAccount removes the account and cascades: the balance effects of
// every TransactionRecord referencing it (as source or destination) are
// reversed, those records are removed, and IncomeSchedules, targets and
// transfer schedules bound to the account are removed with it.
func (e *Engine) DeleteAccount(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.account(id); err != nil {
		return err
	}

	kept := e.state.Transactions[:0]
	for i := range e.state.Transactions {
		tx := &e.state.Transactions[i]
		refers := tx.AccountID == id || (tx.FromAccountID != nil && *tx.FromAccountID == id)
		if refers {
			e.reverseTransactionEffects(tx)
			continue
		}
		if tx.CreditAccountID != nil && *tx.CreditAccountID == id {
			tx.CreditAccountID = nil
		}
		kept = append(kept, *tx)
	}
	e.state.Transactions = kept

	schedules := e.state.IncomeSchedules[:0]
	for _, is := range e.state.IncomeSchedules {
		if is.AccountID != id {
			schedules = append(schedules, is)
		}
	}
	e.state.IncomeSchedules = schedules

	targets := e.state.Targets[:0]
	for _, tg := range e.state.Targets {
		if tg.AccountID != id {
			targets = append(targets, tg)
		}
	}
	e.state.Targets = targets

	transfers := e.state.TransferSchedules[:0]
	for _, ts := range e.state.TransferSchedules {
		if ts.FromAccountID != id && ts.ToAccountID != id {
			transfers = append(transfers, ts)
		}
	}
	e.state.TransferSchedules = transfers

	accounts := e.state.Accounts[:0]
	for _, acc := range e.state.Accounts {
		if acc.ID != id {
			accounts = append(accounts, acc)
		}
	}
	e.state.Accounts = accounts
	e.log.Infow("account deleted", "id", id)
	return e.persist()
}

// AddPot creates a named pot on the account. Pot names are unique per
// account, case-insensitively.
func (e *Engine) AddPot(accountID int, name string, excludeFromReset bool) (Pot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return Pot{}, err
	}
	for _, p := range acc.Pots {
		if strings.EqualFold(p.Name, name) {
			return Pot{}, InvalidOperationf("pot %q already exists on account %q", name, acc.Name)
		}
	}
	p := Pot{
		ID:               next(&e.state.Counters.Pot),
		AccountID:        accountID,
		Name:             name,
		Balance:          M(0, acc.Balance.Currency()),
		ExcludeFromReset: excludeFromReset,
	}
	acc.Pots = append(acc.Pots, p)
	e.log.Infow("pot added", "account", accountID, "name", name)
	if err := e.persist(); err != nil {
		return Pot{}, err
	}
	return p, nil
}

// UpdatePot renames a pot or changes its reset exclusion. A rename clashing
// with another pot on the same account fails.
func (e *Engine) UpdatePot(accountID, potID int, name *string, excludeFromReset *bool) (Pot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return Pot{}, err
	}
	var target *Pot
	for i := range acc.Pots {
		if acc.Pots[i].ID == potID {
			target = &acc.Pots[i]
			break
		}
	}
	if target == nil {
		return Pot{}, NotFoundf("pot %d not found on account %q", potID, acc.Name)
	}
	if name != nil {
		for _, p := range acc.Pots {
			if p.ID != potID && strings.EqualFold(p.Name, *name) {
				return Pot{}, InvalidOperationf("pot %q already exists on account %q", *name, acc.Name)
			}
		}
		target.Name = *name
	}
	if excludeFromReset != nil {
		target.ExcludeFromReset = *excludeFromReset
	}
	if err := e.persist(); err != nil {
		return Pot{}, err
	}
	clone := *target
	clone.ScheduledPayments = cloneScheduledPayments(clone.ScheduledPayments)
	return clone, nil
}

// DeletePot removes a pot from its account.
func (e *Engine) DeletePot(accountID, potID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return err
	}
	for i := range acc.Pots {
		if acc.Pots[i].ID == potID {
			acc.Pots = append(acc.Pots[:i], acc.Pots[i+1:]...)
			return e.persist()
		}
	}
	return NotFoundf("pot %d not found on account %q", potID, acc.Name)
}

// AddIncome records an income and posts its amount to the account balance
// immediately. The optional pot name is an attribution only.
func (e *Engine) AddIncome(accountID int, amount Money, description, potName string, on time.Time) (Income, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return Income{}, err
	}
	in := Income{
		ID:          next(&e.state.Counters.Income),
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		Date:        on,
		PotName:     potName,
	}
	acc.Incomes = append(acc.Incomes, in)
	acc.Balance = acc.Balance.Add(amount)
	if err := e.persist(); err != nil {
		return Income{}, err
	}
	return in, nil
}

// DeleteIncome removes an income record and reverses its balance effect.
func (e *Engine) DeleteIncome(accountID, incomeID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return err
	}
	for i := range acc.Incomes {
		if acc.Incomes[i].ID == incomeID {
			acc.Balance = acc.Balance.Sub(acc.Incomes[i].Amount)
			acc.Incomes = append(acc.Incomes[:i], acc.Incomes[i+1:]...)
			return e.persist()
		}
	}
	return NotFoundf("income %d not found on account %q", incomeID, acc.Name)
}

// AddExpense records an expense and debits the owning account immediately.
// The optional destination fields attribute money that left this account
// into another account or pot; they carry no balance effect of their own.
func (e *Engine) AddExpense(accountID int, amount Money, description string, on time.Time, toAccountID *int, toPotName string) (Expense, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return Expense{}, err
	}
	ex := Expense{
		ID:          next(&e.state.Counters.Expense),
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		Date:        on,
		ToAccountID: clonePtr(toAccountID),
		ToPotName:   toPotName,
	}
	acc.Expenses = append(acc.Expenses, ex)
	acc.Balance = acc.Balance.Sub(amount)
	if err := e.persist(); err != nil {
		return Expense{}, err
	}
	return ex, nil
}

// ExpenseUpdate carries the expense fields an update may change.
type ExpenseUpdate struct {
	Amount      *Money
	Description *string
	Date        *time.Time
}

// UpdateExpense applies the non-nil fields, adjusting the account balance
// by the amount difference.
func (e *Engine) UpdateExpense(accountID, expenseID int, update ExpenseUpdate) (Expense, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return Expense{}, err
	}
	for i := range acc.Expenses {
		if acc.Expenses[i].ID != expenseID {
			continue
		}
		ex := &acc.Expenses[i]
		if update.Amount != nil {
			acc.Balance = acc.Balance.Add(ex.Amount).Sub(*update.Amount)
			ex.Amount = *update.Amount
		}
		if update.Description != nil {
			ex.Description = *update.Description
		}
		if update.Date != nil {
			ex.Date = *update.Date
		}
		if err := e.persist(); err != nil {
			return Expense{}, err
		}
		out := *ex
		out.ToAccountID = clonePtr(out.ToAccountID)
		return out, nil
	}
	return Expense{}, NotFoundf("expense %d not found on account %q", expenseID, acc.Name)
}

// DeleteExpense removes an expense record and credits its amount back.
func (e *Engine) DeleteExpense(accountID, expenseID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return err
	}
	for i := range acc.Expenses {
		if acc.Expenses[i].ID == expenseID {
			acc.Balance = acc.Balance.Add(acc.Expenses[i].Amount)
			acc.Expenses = append(acc.Expenses[:i], acc.Expenses[i+1:]...)
			return e.persist()
		}
	}
	return NotFoundf("expense %d not found on account %q", expenseID, acc.Name)
}

// AddTarget attaches a savings goal to an account. Targets never affect
// balances.
func (e *Engine) AddTarget(accountID int, name string, amount Money) (TargetRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.account(accountID); err != nil {
		return TargetRecord{}, err
	}
	tg := TargetRecord{
		ID:        next(&e.state.Counters.Target),
		AccountID: accountID,
		Name:      name,
		Amount:    amount,
	}
	e.state.Targets = append(e.state.Targets, tg)
	if err := e.persist(); err != nil {
		return TargetRecord{}, err
	}
	return tg, nil
}

// DeleteTarget removes a savings goal.
func (e *Engine) DeleteTarget(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.Targets {
		if e.state.Targets[i].ID == id {
			e.state.Targets = append(e.state.Targets[:i], e.state.Targets[i+1:]...)
			return e.persist()
		}
	}
	return NotFoundf("target %d not found", id)
}

// AddScheduledPayment attaches a recurring commitment to the account, or to
// one of its pots when potName is given.
func (e *Engine) AddScheduledPayment(accountID int, potName string, name string, amount Money, dayOfMonth, company, typ string) (ScheduledPayment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return ScheduledPayment{}, err
	}
	if _, err := ParseScheduleDate(dayOfMonth); err != nil {
		return ScheduledPayment{}, InvalidOperationf("invalid day of month: %v", err)
	}
	sp := ScheduledPayment{
		ID:         next(&e.state.Counters.ScheduledPayment),
		Name:       name,
		Amount:     amount,
		DayOfMonth: dayOfMonth,
		Company:    company,
		Type:       typ,
	}
	if potName != "" {
		p, err := pot(acc, potName)
		if err != nil {
			return ScheduledPayment{}, err
		}
		p.ScheduledPayments = append(p.ScheduledPayments, sp)
	} else {
		acc.ScheduledPayments = append(acc.ScheduledPayments, sp)
	}
	if err := e.persist(); err != nil {
		return ScheduledPayment{}, err
	}
	return sp, nil
}

// ScheduledPaymentUpdate carries the commitment fields an update may change.
type ScheduledPaymentUpdate struct {
	Name        *string
	Amount      *Money
	DayOfMonth  *string
	Company     *string
	Type        *string
	IsCompleted *bool
}

// UpdateScheduledPayment applies the non-nil fields to a commitment on the
// account or the named pot.
func (e *Engine) UpdateScheduledPayment(accountID int, potName string, paymentID int, update ScheduledPaymentUpdate) (ScheduledPayment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return ScheduledPayment{}, err
	}
	list := acc.ScheduledPayments
	if potName != "" {
		p, err := pot(acc, potName)
		if err != nil {
			return ScheduledPayment{}, err
		}
		list = p.ScheduledPayments
	}
	for i := range list {
		if list[i].ID != paymentID {
			continue
		}
		sp := &list[i]
		if update.DayOfMonth != nil {
			if _, err := ParseScheduleDate(*update.DayOfMonth); err != nil {
				return ScheduledPayment{}, InvalidOperationf("invalid day of month: %v", err)
			}
			sp.DayOfMonth = *update.DayOfMonth
		}
		if update.Name != nil {
			sp.Name = *update.Name
		}
		if update.Amount != nil {
			sp.Amount = *update.Amount
		}
		if update.Company != nil {
			sp.Company = *update.Company
		}
		if update.Type != nil {
			sp.Type = *update.Type
		}
		if update.IsCompleted != nil {
			sp.IsCompleted = *update.IsCompleted
		}
		if err := e.persist(); err != nil {
			return ScheduledPayment{}, err
		}
		out := *sp
		out.LastExecuted = clonePtr(out.LastExecuted)
		return out, nil
	}
	return ScheduledPayment{}, NotFoundf("scheduled payment %d not found", paymentID)
}

// DeleteScheduledPayment removes a recurring commitment from the account or
// the named pot.
func (e *Engine) DeleteScheduledPayment(accountID int, potName string, paymentID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	acc, err := e.account(accountID)
	if err != nil {
		return err
	}
	list := &acc.ScheduledPayments
	if potName != "" {
		p, err := pot(acc, potName)
		if err != nil {
			return err
		}
		list = &p.ScheduledPayments
	}
	for i := range *list {
		if (*list)[i].ID == paymentID {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return e.persist()
		}
	}
	return NotFoundf("scheduled payment %d not found", paymentID)
}
