package budget

import (
	"testing"
	"time"
)

func TestExecuteTransferMovesBetweenAccountAndPot(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "Main", AccountCurrent, GBP(1000))
	mustPot(t, e, acc.ID, "Bills")

	ts, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: acc.ID, ToAccountID: acc.ID, ToPotName: "Bills", Amount: GBP(500),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.ExecuteTransferSchedule(ts.ID, at(2026, time.August, 25)); err != nil {
		t.Fatal(err)
	}

	if got := balanceOf(t, e, acc.ID); !got.Equal(GBP(500)) {
		t.Errorf("account: got %v, want 500", got)
	}
	if got := potBalanceOf(t, e, acc.ID, "Bills"); !got.Equal(GBP(500)) {
		t.Errorf("pot: got %v, want 500", got)
	}

	// one successful execution completes a plain schedule
	schedules := e.TransferSchedules()
	if !schedules[0].IsCompleted {
		t.Error("schedule should be completed")
	}
	if err := e.ExecuteTransferSchedule(ts.ID, at(2026, time.August, 26)); !IsInvalidOperation(err) {
		t.Errorf("re-execution: expected InvalidOperation, got %v", err)
	}
}

func TestExecuteTransferInsufficientFunds(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "Main", AccountCurrent, GBP(100))
	mustPot(t, e, acc.ID, "Bills")

	ts, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: acc.ID, ToAccountID: acc.ID, ToPotName: "Bills", Amount: GBP(500),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.ExecuteTransferSchedule(ts.ID, at(2026, time.August, 25)); !IsInvalidOperation(err) {
		t.Fatalf("expected InvalidOperation, got %v", err)
	}
	// nothing moved
	if got := balanceOf(t, e, acc.ID); !got.Equal(GBP(100)) {
		t.Errorf("account: got %v, want 100", got)
	}
	if got := potBalanceOf(t, e, acc.ID, "Bills"); !got.IsZero() {
		t.Errorf("pot: got %v, want 0", got)
	}
}

func TestAddTransferScheduleRejectsDuplicateDestination(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "Main", AccountCurrent, GBP(1000))
	mustPot(t, e, acc.ID, "Bills")

	if _, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: acc.ID, ToAccountID: acc.ID, ToPotName: "Bills", Amount: GBP(500),
	}); err != nil {
		t.Fatal(err)
	}
	// same destination, different case, still pending
	_, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: acc.ID, ToAccountID: acc.ID, ToPotName: "bills", Amount: GBP(100),
	})
	if !IsInvalidOperation(err) {
		t.Errorf("expected InvalidOperation, got %v", err)
	}
}

func TestExecuteAllSkipsFailingSchedules(t *testing.T) {
	e, _ := newTestEngine(t)
	rich := mustAccount(t, e, "Rich", AccountCurrent, GBP(1000))
	poor := mustAccount(t, e, "Poor", AccountCurrent, GBP(10))
	mustPot(t, e, rich.ID, "Bills")
	mustPot(t, e, poor.ID, "Bills")

	if _, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: rich.ID, ToAccountID: rich.ID, ToPotName: "Bills", Amount: GBP(500),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: poor.ID, ToAccountID: poor.ID, ToPotName: "Bills", Amount: GBP(500),
	}); err != nil {
		t.Fatal(err)
	}

	n, err := e.ExecuteAllTransferSchedules(at(2026, time.August, 25))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("executed: got %d, want 1", n)
	}
	if got := potBalanceOf(t, e, rich.ID, "Bills"); !got.Equal(GBP(500)) {
		t.Errorf("funded pot: got %v, want 500", got)
	}
	if got := balanceOf(t, e, poor.ID); !got.Equal(GBP(10)) {
		t.Errorf("poor account untouched: got %v, want 10", got)
	}
}

func TestCreditLinkedScheduleStaysReExecutable(t *testing.T) {
	e, _ := newTestEngine(t)
	main := mustAccount(t, e, "Main", AccountCurrent, GBP(1000))
	card := mustAccount(t, e, "Card", AccountCredit, GBP(-200))

	ts, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: main.ID, ToAccountID: card.ID, Amount: GBP(100), CreditAccountID: &card.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ts.PaymentRecordID == nil {
		t.Fatal("expected a pre-created payment record")
	}

	if err := e.ExecuteTransferSchedule(ts.ID, at(2026, time.August, 25)); err != nil {
		t.Fatal(err)
	}
	if err := e.ExecuteTransferSchedule(ts.ID, at(2026, time.September, 25)); err != nil {
		t.Fatal(err)
	}

	// never completes, accumulates one event per execution
	schedules := e.TransferSchedules()
	if schedules[0].IsCompleted {
		t.Error("credit-linked schedule should not complete")
	}
	for _, tx := range e.Transactions() {
		if tx.ID == *ts.PaymentRecordID {
			if len(tx.Events) != 2 {
				t.Errorf("payment record events: got %d, want 2", len(tx.Events))
			}
			return
		}
	}
	t.Fatal("payment record not found")
}

func TestResetAllBalances(t *testing.T) {
	e, _ := newTestEngine(t)
	main := mustAccount(t, e, "Main", AccountCurrent, GBP(1000))
	keep := mustAccount(t, e, "Keep", AccountSavings, GBP(500))
	exclude := true
	if _, err := e.UpdateAccount(keep.ID, AccountUpdate{ExcludeFromReset: &exclude}); err != nil {
		t.Fatal(err)
	}
	mustPot(t, e, main.ID, "Bills")

	ts, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: main.ID, ToAccountID: main.ID, ToPotName: "Bills", Amount: GBP(100),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.ExecuteTransferSchedule(ts.ID, at(2026, time.August, 25)); err != nil {
		t.Fatal(err)
	}

	if err := e.ResetAllBalances(); err != nil {
		t.Fatal(err)
	}
	if got := balanceOf(t, e, main.ID); !got.IsZero() {
		t.Errorf("main: got %v, want 0", got)
	}
	if got := potBalanceOf(t, e, main.ID, "Bills"); !got.IsZero() {
		t.Errorf("pot: got %v, want 0", got)
	}
	if got := balanceOf(t, e, keep.ID); !got.Equal(GBP(500)) {
		t.Errorf("excluded account: got %v, want 500", got)
	}
	// schedules run again for the new month
	if e.TransferSchedules()[0].IsCompleted {
		t.Error("schedule completion should be cleared")
	}
}

func TestDeleteTransactionDetachesPaymentRecordLink(t *testing.T) {
	e, _ := newTestEngine(t)
	main := mustAccount(t, e, "Main", AccountCurrent, GBP(1000))
	card := mustAccount(t, e, "Card", AccountCredit, GBP(0))

	ts, err := e.AddTransferSchedule(NewTransferParams{
		FromAccountID: main.ID, ToAccountID: card.ID, Amount: GBP(100), CreditAccountID: &card.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.DeleteTransaction(*ts.PaymentRecordID); err != nil {
		t.Fatal(err)
	}
	if e.TransferSchedules()[0].PaymentRecordID != nil {
		t.Error("link should be detached")
	}

	// the next execution re-creates the record
	if err := e.ExecuteTransferSchedule(ts.ID, at(2026, time.August, 25)); err != nil {
		t.Fatal(err)
	}
	if e.TransferSchedules()[0].PaymentRecordID == nil {
		t.Error("link should be re-created on execution")
	}
}
