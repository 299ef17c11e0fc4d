package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 12, 0, 0, 0, time.UTC)
}

func sampleTransactions() []Transaction {
	return []Transaction{
		{ID: 1, PaymentTypeID: 10, CategoryID: 20, Value: dec("-15.00"), Description: "Groceries at market", Date: day(5)},
		{ID: 2, PaymentTypeID: 10, CategoryID: 21, Value: dec("2000.00"), Description: "Salary", Date: day(1)},
		{ID: 3, PaymentTypeID: 11, CategoryID: 20, Value: dec("-40.00"), Description: "Dinner", Date: day(8)},
		{ID: 4, PaymentTypeID: 11, CategoryID: 22, Value: dec("-100.00"), Description: "Transfer leg", Date: day(9)},
	}
}

func TestFilterMatchIntersection(t *testing.T) {
	ts := sampleTransactions()

	from := day(2)
	to := day(8)
	vFrom := dec("-50")
	f := TransactionFilter{
		DateFrom:       &from,
		DateTo:         &to,
		ValueFrom:      &vFrom,
		CategoryIDs:    []int64{20},
		PaymentTypeIDs: []int64{10, 11},
		Description:    "GROC",
	}

	got := f.Apply(ts)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only transaction 1, got %v", got)
	}
}

func TestFilterExactDateAndValue(t *testing.T) {
	ts := sampleTransactions()

	d := time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC)
	f := TransactionFilter{Date: &d}
	if got := f.Apply(ts); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("date filter: expected transaction 3, got %v", got)
	}

	v := dec("-40")
	f = TransactionFilter{Value: &v}
	if got := f.Apply(ts); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("value filter: expected transaction 3, got %v", got)
	}
}

func TestFilterLimit(t *testing.T) {
	ts := sampleTransactions()
	f := TransactionFilter{Limit: 2}
	if got := f.Apply(ts); len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("limit: got %v", got)
	}
}

func TestFilterEmptyMatchesAll(t *testing.T) {
	ts := sampleTransactions()
	var f TransactionFilter
	if !f.Empty() {
		t.Fatalf("zero filter should be empty")
	}
	if got := f.Apply(ts); len(got) != len(ts) {
		t.Fatalf("empty filter should match all, got %d", len(got))
	}
}

func TestSummarize(t *testing.T) {
	ts := sampleTransactions()
	types := map[int64]CategoryType{20: Expense, 21: Income, 22: Transfer}
	lookup := func(id int64) CategoryType { return types[id] }

	from := day(2)
	filtered := TransactionFilter{DateFrom: &from}.Apply(ts)

	s := Summarize(filtered, ts, lookup)
	if !s.Income.Equal(dec("0")) {
		t.Fatalf("filtered income = %s, want 0", s.Income)
	}
	if !s.Expense.Equal(dec("-55")) {
		t.Fatalf("filtered expense = %s, want -55", s.Expense)
	}
	if !s.IncomeAllTime.Equal(dec("2000")) {
		t.Fatalf("all-time income = %s, want 2000", s.IncomeAllTime)
	}
	if !s.ExpenseAllTime.Equal(dec("-55")) {
		t.Fatalf("all-time expense = %s, want -55", s.ExpenseAllTime)
	}
}
