package budget

// NewTransactionParams carries the fields of a new TransactionRecord.
type NewTransactionParams struct {
	Name            string
	Vendor          string
	Amount          Money
	Kind            TransactionKind
	Date            string // day-of-month-like, parsed per ParseScheduleDate
	YearlyDate      string // DD-MM-YYYY, yearly kind only
	FromAccountID   *int
	AccountID       int // destination account
	PotName         string
	CreditAccountID *int
}

// AddTransaction creates a recurring transaction record. The record carries
// no immediate balance effect: scheduled processing applies it when due.
func (e *Engine) AddTransaction(params NewTransactionParams) (TransactionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.account(params.AccountID); err != nil {
		return TransactionRecord{}, err
	}
	switch params.Kind {
	case KindScheduled, KindCreditCardCharge:
		if _, err := ParseScheduleDate(params.Date); err != nil {
			return TransactionRecord{}, InvalidOperationf("invalid transaction date: %v", err)
		}
	case KindYearly:
		if _, err := ParseYearlyDate(params.YearlyDate); err != nil {
			return TransactionRecord{}, InvalidOperationf("invalid yearly date: %v", err)
		}
	case KindCreditCardPayment:
		// accumulates events only, no due date
	default:
		return TransactionRecord{}, InvalidOperationf("unknown transaction kind %q", params.Kind)
	}

	tx := TransactionRecord{
		ID:              next(&e.state.Counters.Transaction),
		Name:            params.Name,
		Vendor:          params.Vendor,
		Amount:          params.Amount,
		Kind:            params.Kind,
		Date:            params.Date,
		YearlyDate:      params.YearlyDate,
		FromAccountID:   clonePtr(params.FromAccountID),
		AccountID:       params.AccountID,
		PotName:         params.PotName,
		CreditAccountID: clonePtr(params.CreditAccountID),
	}
	e.state.Transactions = append(e.state.Transactions, tx)
	e.log.Infow("transaction added", "id", tx.ID, "name", tx.Name, "kind", tx.Kind)
	if err := e.persist(); err != nil {
		return TransactionRecord{}, err
	}
	return tx.Clone(), nil
}

// DeleteTransaction removes a record, reversing the balance effects of its
// recorded executions, and detaches any transfer schedule referencing it.
func (e *Engine) DeleteTransaction(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.Transactions {
		if e.state.Transactions[i].ID != id {
			continue
		}
		e.reverseTransactionEffects(&e.state.Transactions[i])
		e.state.Transactions = append(e.state.Transactions[:i], e.state.Transactions[i+1:]...)
		for j := range e.state.TransferSchedules {
			ts := &e.state.TransferSchedules[j]
			if ts.PaymentRecordID != nil && *ts.PaymentRecordID == id {
				ts.PaymentRecordID = nil
			}
		}
		return e.persist()
	}
	return NotFoundf("transaction %d not found", id)
}

// MarkYearlyReady clears the completion flag of a yearly record so it can
// fire again the following year.
func (e *Engine) MarkYearlyReady(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, err := e.transaction(id)
	if err != nil {
		return err
	}
	if tx.Kind != KindYearly {
		return InvalidOperationf("transaction %q is not yearly", tx.Name)
	}
	tx.IsCompleted = false
	return e.persist()
}

// reverseTransactionEffects credits back, for every recorded execution of
// the record, the destination endpoint it debited and the linked credit
// account. Endpoints that no longer exist are skipped. The caller holds the
// mutex and is responsible for persisting.
func (e *Engine) reverseTransactionEffects(tx *TransactionRecord) {
	for _, ev := range tx.Events {
		if dest, err := e.account(tx.AccountID); err == nil {
			if tx.PotName != "" {
				if p, err := pot(dest, tx.PotName); err == nil {
					p.Balance = p.Balance.Add(ev.Amount)
				}
			} else {
				dest.Balance = dest.Balance.Add(ev.Amount)
			}
		}
		if tx.CreditAccountID != nil {
			if credit, err := e.account(*tx.CreditAccountID); err == nil {
				credit.Balance = credit.Balance.Add(ev.Amount)
			}
		}
	}
}
