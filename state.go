package budget

import (
	"encoding/json"
	"slices"
	"time"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountCurrent AccountType = "current"
	AccountSavings AccountType = "savings"
	AccountCredit  AccountType = "credit"
)

// TransactionKind discriminates how a TransactionRecord's date field is
// interpreted and how the record is processed.
type TransactionKind string

const (
	KindScheduled         TransactionKind = "scheduled"
	KindYearly            TransactionKind = "yearly"
	KindCreditCardCharge  TransactionKind = "creditCardCharge"
	KindCreditCardPayment TransactionKind = "creditCardPayment"
)

// ReductionBaseline is the balance captured at the first monthly-reduction
// application in a period, used as the depletion anchor.
type ReductionBaseline struct {
	Amount Money  `json:"amount"`
	Period string `json:"period"`
}

// Pot is a named sub-balance nested under an Account, used to ring-fence
// funds for specific recurring bills or goals. Pot names are unique within
// their account, case-insensitively.
type Pot struct {
	ID                int                `json:"id"`
	AccountID         int                `json:"accountId"`
	Name              string             `json:"name"`
	Balance           Money              `json:"balance"`
	ExcludeFromReset  bool               `json:"excludeFromReset"`
	ScheduledPayments []ScheduledPayment `json:"scheduledPayments,omitempty"`
}

// Income is a historical record of money received into an account.
type Income struct {
	ID          int       `json:"id"`
	AccountID   int       `json:"accountId"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	PotName     string    `json:"potName,omitempty"`
}

// Expense is a historical record of money spent from an account. The
// optional destination fields attribute money that left one account into
// another; they never carry a balance effect of their own.
type Expense struct {
	ID          int       `json:"id"`
	AccountID   int       `json:"accountId"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	ToAccountID *int      `json:"toAccountId,omitempty"`
	ToPotName   string    `json:"toPotName,omitempty"`
}

// ScheduledPayment is a recurring commitment attached to an account or pot.
type ScheduledPayment struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Amount       Money      `json:"amount"`
	DayOfMonth   string     `json:"dayOfMonth"`
	Company      string     `json:"company,omitempty"`
	Type         string     `json:"type,omitempty"`
	IsCompleted  bool       `json:"isCompleted"`
	LastExecuted *time.Time `json:"lastExecuted,omitempty"`
}

// Account is the top level ledger entity, owning pots and historical records.
type Account struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	Balance           Money              `json:"balance"`
	Type              AccountType        `json:"type"`
	Category          string             `json:"category,omitempty"`
	CreditLimit       *Money             `json:"creditLimit,omitempty"`
	ExcludeFromReset  bool               `json:"excludeFromReset"`
	ReductionBaseline *ReductionBaseline `json:"reductionBaseline,omitempty"`
	Pots              []Pot              `json:"pots,omitempty"`
	ScheduledPayments []ScheduledPayment `json:"scheduledPayments,omitempty"`
	Incomes           []Income           `json:"incomes,omitempty"`
	Expenses          []Expense          `json:"expenses,omitempty"`
}

// UnmarshalJSON tolerates the legacy key naming of historical documents
// (field-name fallback, no version numbers).
func (a *Account) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var errs []error
	errs = append(errs,
		pick(raw, &a.ID, "id"),
		pick(raw, &a.Name, "name"),
		pick(raw, &a.Balance, "balance"),
		pick(raw, &a.Type, "type", "accountType"),
		pick(raw, &a.Category, "category"),
		pick(raw, &a.CreditLimit, "creditLimit", "limit"),
		pick(raw, &a.ExcludeFromReset, "excludeFromReset", "excludedFromReset"),
		pick(raw, &a.ReductionBaseline, "reductionBaseline", "monthlyBaseline"),
		pick(raw, &a.Pots, "pots"),
		pick(raw, &a.ScheduledPayments, "scheduledPayments", "payments"),
		pick(raw, &a.Incomes, "incomes"),
		pick(raw, &a.Expenses, "expenses"),
	)
	return firstError(errs)
}

// TransactionEvent records one execution occurrence of a recurring record.
type TransactionEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Amount    Money     `json:"amount"`
}

// TransactionRecord is the canonical ledger entry driving scheduled
// processing. The semantics of Date depend on Kind; YearlyDate is the
// distinct DD-MM-YYYY field of yearly records.
type TransactionRecord struct {
	ID              int
	Name            string
	Vendor          string
	Amount          Money
	Kind            TransactionKind
	Date            string
	YearlyDate      string
	FromAccountID   *int
	AccountID       int
	PotName         string
	CreditAccountID *int
	IsCompleted     bool
	Events          []TransactionEvent
}

// MarshalJSON writes the canonical ordered form of the record.
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("name", r.Name)
	w.Optional("vendor", r.Vendor)
	w.Append("amount", r.Amount)
	w.Append("kind", r.Kind)
	w.Optional("date", r.Date)
	w.Optional("yearlyDate", r.YearlyDate)
	if r.FromAccountID != nil {
		w.Append("fromAccountId", *r.FromAccountID)
	}
	w.Append("accountId", r.AccountID)
	w.Optional("potName", r.PotName)
	if r.CreditAccountID != nil {
		w.Append("creditAccountId", *r.CreditAccountID)
	}
	w.Append("isCompleted", r.IsCompleted)
	if len(r.Events) > 0 {
		w.Append("events", r.Events)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON tolerates legacy key names for the fields that were renamed
// across schema generations.
func (r *TransactionRecord) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var errs []error
	errs = append(errs,
		pick(raw, &r.ID, "id"),
		pick(raw, &r.Name, "name"),
		pick(raw, &r.Vendor, "vendor", "company"),
		pick(raw, &r.Amount, "amount"),
		pick(raw, &r.Kind, "kind", "type"),
		pick(raw, &r.Date, "date", "dayOfMonth"),
		pick(raw, &r.YearlyDate, "yearlyDate", "annualDate"),
		pick(raw, &r.FromAccountID, "fromAccountId", "sourceAccountId"),
		pick(raw, &r.AccountID, "accountId", "destinationAccountId"),
		pick(raw, &r.PotName, "potName", "toPot"),
		pick(raw, &r.CreditAccountID, "creditAccountId", "linkedCreditAccountId"),
		pick(raw, &r.IsCompleted, "isCompleted", "completed"),
		pick(raw, &r.Events, "events", "history"),
	)
	return firstError(errs)
}

// TransferSchedule is a standing instruction to move a fixed amount from one
// account/pot endpoint to another.
type TransferSchedule struct {
	ID              int        `json:"id"`
	FromAccountID   int        `json:"fromAccountId"`
	FromPotName     string     `json:"fromPotName,omitempty"`
	ToAccountID     int        `json:"toAccountId"`
	ToPotName       string     `json:"toPotName,omitempty"`
	Amount          Money      `json:"amount"`
	IsActive        bool       `json:"isActive"`
	IsCompleted     bool       `json:"isCompleted"`
	LastExecuted    *time.Time `json:"lastExecuted,omitempty"`
	CreditAccountID *int       `json:"creditAccountId,omitempty"`
	PaymentRecordID *int       `json:"paymentRecordId,omitempty"`
}

// UnmarshalJSON tolerates legacy key names.
func (t *TransferSchedule) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var errs []error
	errs = append(errs,
		pick(raw, &t.ID, "id"),
		pick(raw, &t.FromAccountID, "fromAccountId", "sourceAccountId"),
		pick(raw, &t.FromPotName, "fromPotName", "fromPot"),
		pick(raw, &t.ToAccountID, "toAccountId", "destinationAccountId"),
		pick(raw, &t.ToPotName, "toPotName", "toPot"),
		pick(raw, &t.Amount, "amount"),
		pick(raw, &t.IsActive, "isActive", "active"),
		pick(raw, &t.IsCompleted, "isCompleted", "completed"),
		pick(raw, &t.LastExecuted, "lastExecuted"),
		pick(raw, &t.CreditAccountID, "creditAccountId", "linkedCreditAccountId"),
		pick(raw, &t.PaymentRecordID, "paymentRecordId", "paymentTransactionId"),
	)
	return firstError(errs)
}

// IncomeSchedule is a recurring income instruction tied to an account.
type IncomeSchedule struct {
	ID           int                `json:"id"`
	AccountID    int                `json:"accountId"`
	Name         string             `json:"name"`
	Amount       Money              `json:"amount"`
	IsActive     bool               `json:"isActive"`
	IsCompleted  bool               `json:"isCompleted"`
	Events       []TransactionEvent `json:"events,omitempty"`
	LastExecuted *time.Time         `json:"lastExecuted,omitempty"`
}

// TargetRecord is a balance-neutral savings-goal annotation on an account.
type TargetRecord struct {
	ID        int    `json:"id"`
	AccountID int    `json:"accountId"`
	Name      string `json:"name"`
	Amount    Money  `json:"amount"`
}

// ProcessedTransactionLog is the immutable audit row written each time a
// scheduled or yearly record fires. The (PaymentID, Period) pair guarantees
// at-most-once execution per period.
type ProcessedTransactionLog struct {
	ID          int       `json:"id"`
	PaymentID   int       `json:"paymentId"`
	Period      string    `json:"period"`
	Name        string    `json:"name"`
	Amount      Money     `json:"amount"`
	ProcessedAt time.Time `json:"processedAt"`
}

// BalanceReductionLog is the audit row of one monthly depletion application.
type BalanceReductionLog struct {
	ID            string    `json:"id"`
	AccountID     int       `json:"accountId"`
	AccountName   string    `json:"accountName"`
	Baseline      Money     `json:"baseline"`
	NewBalance    Money     `json:"newBalance"`
	AmountReduced Money     `json:"amountReduced"`
	Period        string    `json:"period"`
	Day           int       `json:"day"`
	CreatedAt     time.Time `json:"createdAt"`
}

// counters holds the next process-assigned ID per collection.
type counters struct {
	Account          int `json:"account"`
	Pot              int `json:"pot"`
	Income           int `json:"income"`
	Expense          int `json:"expense"`
	ScheduledPayment int `json:"scheduledPayment"`
	Transaction      int `json:"transaction"`
	TransferSchedule int `json:"transferSchedule"`
	IncomeSchedule   int `json:"incomeSchedule"`
	Target           int `json:"target"`
	Processed        int `json:"processed"`
}

func next(counter *int) int {
	if *counter < 1 {
		*counter = 1
	}
	id := *counter
	*counter++
	return id
}

// ledgerState is the whole persisted entity graph. It is owned exclusively
// by the engine; consumers only ever see copies.
type ledgerState struct {
	Accounts              []Account                 `json:"accounts"`
	Transactions          []TransactionRecord       `json:"transactions"`
	TransferSchedules     []TransferSchedule        `json:"transferSchedules"`
	IncomeSchedules       []IncomeSchedule          `json:"incomeSchedules"`
	Targets               []TargetRecord            `json:"targets"`
	ProcessedTransactions []ProcessedTransactionLog `json:"processedTransactions"`
	BalanceReductionLogs  []BalanceReductionLog     `json:"balanceReductionLogs"`
	LastTransferExecution *time.Time                `json:"lastTransferExecution,omitempty"`
	Counters              counters                  `json:"counters"`
}

// UnmarshalJSON tolerates the legacy collection key names of historical
// documents. Missing collections decode as empty; missing counters as 1.
func (s *ledgerState) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var errs []error
	errs = append(errs,
		pick(raw, &s.Accounts, "accounts"),
		pick(raw, &s.Transactions, "transactions", "payments"),
		pick(raw, &s.TransferSchedules, "transferSchedules", "potTransferSchedules"),
		pick(raw, &s.IncomeSchedules, "incomeSchedules"),
		pick(raw, &s.Targets, "targets", "savingsTargets"),
		pick(raw, &s.ProcessedTransactions, "processedTransactions", "processedPayments"),
		pick(raw, &s.BalanceReductionLogs, "balanceReductionLogs", "reductionLogs"),
		pick(raw, &s.LastTransferExecution, "lastTransferExecution"),
		pick(raw, &s.Counters, "counters", "nextIds"),
	)
	return firstError(errs)
}

// pick unmarshals the first present, non-null key of raw into dst. Later
// keys are the legacy fallbacks. A missing key leaves dst untouched.
func pick(raw map[string]json.RawMessage, dst any, keys ...string) error {
	for _, k := range keys {
		if v, ok := raw[k]; ok && len(v) > 0 && string(v) != "null" {
			return json.Unmarshal(v, dst)
		}
	}
	return nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		Accounts:              []Account{},
		Transactions:          []TransactionRecord{},
		TransferSchedules:     []TransferSchedule{},
		IncomeSchedules:       []IncomeSchedule{},
		Targets:               []TargetRecord{},
		ProcessedTransactions: []ProcessedTransactionLog{},
		BalanceReductionLogs:  []BalanceReductionLog{},
		Counters: counters{
			Account: 1, Pot: 1, Income: 1, Expense: 1, ScheduledPayment: 1,
			Transaction: 1, TransferSchedule: 1, IncomeSchedule: 1, Target: 1, Processed: 1,
		},
	}
}

// normalize repairs a freshly decoded state: nil collections become empty
// and every next-ID counter is re-derived to exceed the maximum ID actually
// present, defending against hand-edited or partially written documents.
func (s *ledgerState) normalize() {
	if s.Accounts == nil {
		s.Accounts = []Account{}
	}
	if s.Transactions == nil {
		s.Transactions = []TransactionRecord{}
	}
	if s.TransferSchedules == nil {
		s.TransferSchedules = []TransferSchedule{}
	}
	if s.IncomeSchedules == nil {
		s.IncomeSchedules = []IncomeSchedule{}
	}
	if s.Targets == nil {
		s.Targets = []TargetRecord{}
	}
	if s.ProcessedTransactions == nil {
		s.ProcessedTransactions = []ProcessedTransactionLog{}
	}
	if s.BalanceReductionLogs == nil {
		s.BalanceReductionLogs = []BalanceReductionLog{}
	}

	maxAccount, maxPot, maxIncome, maxExpense, maxPayment := 0, 0, 0, 0, 0
	for _, a := range s.Accounts {
		maxAccount = maxInt(maxAccount, a.ID)
		for _, p := range a.Pots {
			maxPot = maxInt(maxPot, p.ID)
			for _, sp := range p.ScheduledPayments {
				maxPayment = maxInt(maxPayment, sp.ID)
			}
		}
		for _, sp := range a.ScheduledPayments {
			maxPayment = maxInt(maxPayment, sp.ID)
		}
		for _, in := range a.Incomes {
			maxIncome = maxInt(maxIncome, in.ID)
		}
		for _, ex := range a.Expenses {
			maxExpense = maxInt(maxExpense, ex.ID)
		}
	}
	maxTx, maxTransfer, maxIncomeSched, maxTarget, maxProcessed := 0, 0, 0, 0, 0
	for _, tx := range s.Transactions {
		maxTx = maxInt(maxTx, tx.ID)
	}
	for _, ts := range s.TransferSchedules {
		maxTransfer = maxInt(maxTransfer, ts.ID)
	}
	for _, is := range s.IncomeSchedules {
		maxIncomeSched = maxInt(maxIncomeSched, is.ID)
	}
	for _, tg := range s.Targets {
		maxTarget = maxInt(maxTarget, tg.ID)
	}
	for _, pl := range s.ProcessedTransactions {
		maxProcessed = maxInt(maxProcessed, pl.ID)
	}

	s.Counters.Account = maxInt(s.Counters.Account, maxAccount+1)
	s.Counters.Pot = maxInt(s.Counters.Pot, maxPot+1)
	s.Counters.Income = maxInt(s.Counters.Income, maxIncome+1)
	s.Counters.Expense = maxInt(s.Counters.Expense, maxExpense+1)
	s.Counters.ScheduledPayment = maxInt(s.Counters.ScheduledPayment, maxPayment+1)
	s.Counters.Transaction = maxInt(s.Counters.Transaction, maxTx+1)
	s.Counters.TransferSchedule = maxInt(s.Counters.TransferSchedule, maxTransfer+1)
	s.Counters.IncomeSchedule = maxInt(s.Counters.IncomeSchedule, maxIncomeSched+1)
	s.Counters.Target = maxInt(s.Counters.Target, maxTarget+1)
	s.Counters.Processed = maxInt(s.Counters.Processed, maxProcessed+1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Clone methods: consumers never see the engine's own state graph.

func (a Account) Clone() Account {
	a.CreditLimit = clonePtr(a.CreditLimit)
	a.ReductionBaseline = clonePtr(a.ReductionBaseline)
	a.Pots = slices.Clone(a.Pots)
	for i := range a.Pots {
		a.Pots[i].ScheduledPayments = cloneScheduledPayments(a.Pots[i].ScheduledPayments)
	}
	a.ScheduledPayments = cloneScheduledPayments(a.ScheduledPayments)
	a.Incomes = slices.Clone(a.Incomes)
	a.Expenses = slices.Clone(a.Expenses)
	for i := range a.Expenses {
		a.Expenses[i].ToAccountID = clonePtr(a.Expenses[i].ToAccountID)
	}
	return a
}

func (r TransactionRecord) Clone() TransactionRecord {
	r.FromAccountID = clonePtr(r.FromAccountID)
	r.CreditAccountID = clonePtr(r.CreditAccountID)
	r.Events = slices.Clone(r.Events)
	return r
}

func (t TransferSchedule) Clone() TransferSchedule {
	t.LastExecuted = clonePtr(t.LastExecuted)
	t.CreditAccountID = clonePtr(t.CreditAccountID)
	t.PaymentRecordID = clonePtr(t.PaymentRecordID)
	return t
}

func (i IncomeSchedule) Clone() IncomeSchedule {
	i.Events = slices.Clone(i.Events)
	i.LastExecuted = clonePtr(i.LastExecuted)
	return i
}

func cloneScheduledPayments(sps []ScheduledPayment) []ScheduledPayment {
	out := slices.Clone(sps)
	for i := range out {
		out[i].LastExecuted = clonePtr(out[i].LastExecuted)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
