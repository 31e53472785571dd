package budget

import (
	"testing"
	"time"
)

func TestMonthlyReductionWalksBalanceTowardZero(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "A", AccountCurrent, GBP(930))

	// September has 30 days: on the 1st the full baseline remains
	if _, err := e.ApplyMonthlyReduction(at(2026, time.September, 1)); err != nil {
		t.Fatal(err)
	}
	if got := balanceOf(t, e, acc.ID); !got.Equal(GBP(930)) {
		t.Errorf("day 1: got %v, want 930", got)
	}

	// mid month: baseline * (30-16)/29
	if _, err := e.ApplyMonthlyReduction(at(2026, time.September, 16)); err != nil {
		t.Fatal(err)
	}
	if got := balanceOf(t, e, acc.ID); !got.Equal(GBP(930).Scale(14, 29)) {
		t.Errorf("day 16: got %v, want %v", got, GBP(930).Scale(14, 29))
	}

	// last day: zero
	if _, err := e.ApplyMonthlyReduction(at(2026, time.September, 30)); err != nil {
		t.Fatal(err)
	}
	if got := balanceOf(t, e, acc.ID); !got.IsZero() {
		t.Errorf("day 30: got %v, want 0", got)
	}
}

func TestMonthlyReductionIdempotentSameDay(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "A", AccountCurrent, GBP(600))

	if _, err := e.ApplyMonthlyReduction(at(2026, time.September, 10)); err != nil {
		t.Fatal(err)
	}
	first := balanceOf(t, e, acc.ID)
	if _, err := e.ApplyMonthlyReduction(at(2026, time.September, 10)); err != nil {
		t.Fatal(err)
	}
	if got := balanceOf(t, e, acc.ID); !got.Equal(first) {
		t.Errorf("second application changed the balance: %v then %v", first, got)
	}
}

func TestMonthlyReductionCapturesNewBaselineEachPeriod(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "A", AccountCurrent, GBP(600))

	if _, err := e.ApplyMonthlyReduction(at(2026, time.September, 16)); err != nil {
		t.Fatal(err)
	}
	// October: whatever the balance is becomes the new anchor
	octBaseline := balanceOf(t, e, acc.ID)
	if _, err := e.ApplyMonthlyReduction(at(2026, time.October, 1)); err != nil {
		t.Fatal(err)
	}
	got, err := e.AccountByID(acc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ReductionBaseline == nil || got.ReductionBaseline.Period != "2026-10" {
		t.Fatalf("baseline: %+v", got.ReductionBaseline)
	}
	if !got.ReductionBaseline.Amount.Equal(octBaseline) {
		t.Errorf("baseline amount: got %v, want %v", got.ReductionBaseline.Amount, octBaseline)
	}
}

func TestMonthlyReductionSkipsCreditAndExcludedAccounts(t *testing.T) {
	e, _ := newTestEngine(t)
	card := mustAccount(t, e, "Card", AccountCredit, GBP(-300))
	keep := mustAccount(t, e, "Keep", AccountSavings, GBP(500))
	exclude := true
	if _, err := e.UpdateAccount(keep.ID, AccountUpdate{ExcludeFromReset: &exclude}); err != nil {
		t.Fatal(err)
	}

	applied, err := e.ApplyMonthlyReduction(at(2026, time.September, 16))
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 0 {
		t.Errorf("applied to %d accounts, want 0", len(applied))
	}
	if got := balanceOf(t, e, card.ID); !got.Equal(GBP(-300)) {
		t.Errorf("card: got %v", got)
	}
	if got := balanceOf(t, e, keep.ID); !got.Equal(GBP(500)) {
		t.Errorf("excluded: got %v", got)
	}
}

func TestMonthlyReductionSnapsTinyResidueToZero(t *testing.T) {
	e, _ := newTestEngine(t)
	acc := mustAccount(t, e, "A", AccountCurrent, GBP(0.05))

	// late in the month the projection falls under half a cent
	if _, err := e.ApplyMonthlyReduction(at(2026, time.September, 29)); err != nil {
		t.Fatal(err)
	}
	if got := balanceOf(t, e, acc.ID); !got.IsZero() {
		t.Errorf("got %v, want 0", got)
	}
}

func TestMonthlyReductionLogsAreCapped(t *testing.T) {
	e, _ := newTestEngine(t)
	for i := 0; i < 3; i++ {
		mustAccount(t, e, "A", AccountCurrent, GBP(100))
	}

	// drive the log past its cap
	day := at(2026, time.September, 1)
	for i := 0; i < maxReductionLogs; i++ {
		if _, err := e.ApplyMonthlyReduction(day.AddDate(0, 0, i%27)); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(e.BalanceReductionLogs()); got != maxReductionLogs {
		t.Errorf("log rows: got %d, want %d", got, maxReductionLogs)
	}
}
