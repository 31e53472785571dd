package budget

import (
	"testing"
	"time"
)

func TestPurgeRemovesEventsInWindowOnly(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "A", AccountCurrent, GBP(1000))
	if _, err := e.AddTransaction(NewTransactionParams{
		Name: "Rent", Amount: GBP(100), Kind: KindScheduled, Date: "1", AccountID: acc.ID,
	}); err != nil {
		t.Fatal(err)
	}

	// two executions in different months
	if _, err := e.ProcessScheduledTransactions(at(2026, time.July, 15)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ProcessScheduledTransactions(at(2026, time.August, 15)); err != nil {
		t.Fatal(err)
	}
	balanceBefore := balanceOf(t, e, acc.ID)

	removed, err := e.PurgeExecutions(at(2026, time.July, 1), at(2026, time.July, 31))
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed: got %d, want 1", removed)
	}

	tx := e.Transactions()[0]
	if len(tx.Events) != 1 {
		t.Fatalf("events left: %d, want 1", len(tx.Events))
	}
	if got := tx.Events[0].Timestamp.Month(); got != time.August {
		t.Errorf("surviving event month: got %v, want August", got)
	}

	// audit rows in the window go with the events
	logs := e.ProcessedTransactions()
	if len(logs) != 1 || logs[0].Period != "2026-08" {
		t.Errorf("audit rows: %+v", logs)
	}

	// balances are never re-applied by a purge
	if got := balanceOf(t, e, acc.ID); !got.Equal(balanceBefore) {
		t.Errorf("balance changed: got %v, want %v", got, balanceBefore)
	}
}

func TestPurgeClearsYearlyCompletionWhenEmptied(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "A", AccountCurrent, GBP(1000))
	if _, err := e.AddTransaction(NewTransactionParams{
		Name: "Insurance", Amount: GBP(300), Kind: KindYearly, YearlyDate: "25-12-2024", AccountID: acc.ID,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ProcessScheduledTransactions(at(2026, time.December, 25)); err != nil {
		t.Fatal(err)
	}
	if !e.Transactions()[0].IsCompleted {
		t.Fatal("yearly record should be completed after firing")
	}

	if _, err := e.PurgeExecutions(at(2026, time.December, 1), at(2026, time.December, 31)); err != nil {
		t.Fatal(err)
	}
	tx := e.Transactions()[0]
	if len(tx.Events) != 0 {
		t.Fatalf("events left: %d", len(tx.Events))
	}
	if tx.IsCompleted {
		t.Error("completion flag should be cleared once all events are purged")
	}
}

func TestPurgeResetsEmptiedIncomeSchedule(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "A", AccountCurrent, GBP(0))
	is, err := e.AddIncomeSchedule(NewIncomeScheduleParams{AccountID: acc.ID, Name: "Salary", Amount: GBP(2000)})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.ExecuteIncomeSchedule(is.ID, at(2026, time.August, 25)); err != nil {
		t.Fatal(err)
	}

	if _, err := e.PurgeExecutionsAt(at(2026, time.August, 25)); err != nil {
		t.Fatal(err)
	}
	got := e.IncomeSchedules()[0]
	if got.IsCompleted || got.LastExecuted != nil || len(got.Events) != 0 {
		t.Errorf("schedule after purge: %+v", got)
	}
	// the balance effect stands
	if got := balanceOf(t, e, acc.ID); !got.Equal(GBP(2000)) {
		t.Errorf("balance: got %v, want 2000", got)
	}
}

func TestPurgeDetachesEmptiedPaymentRecord(t *testing.T) {
	e, _ := newTestEngine(t)
	main := mustAccount(t, e, "Main", AccountCurrent, GBP(1000))
	card := mustAccount(t, e, "Card", AccountCredit, GBP(0))
	ts, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: main.ID, ToAccountID: card.ID, Amount: GBP(100), CreditAccountID: &card.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.ExecuteTransferSchedule(ts.ID, at(2026, time.August, 25)); err != nil {
		t.Fatal(err)
	}

	if _, err := e.PurgeExecutionsAt(at(2026, time.August, 25)); err != nil {
		t.Fatal(err)
	}
	if e.TransferSchedules()[0].PaymentRecordID != nil {
		t.Error("payment record link should be detached after its history is purged")
	}
}
