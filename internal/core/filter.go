package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionFilter is the set of optional predicates for the transactions
// view. A matching transaction satisfies the intersection of all set
// predicates. Zero-valued fields are ignored.
type TransactionFilter struct {
	// Date matches transactions on the same calendar day (UTC).
	Date     *time.Time
	DateFrom *time.Time
	DateTo   *time.Time

	Value     *decimal.Decimal
	ValueFrom *decimal.Decimal
	ValueTo   *decimal.Decimal

	CategoryIDs    []int64
	PaymentTypeIDs []int64

	// Description matches case-insensitively on a substring.
	Description string

	// Limit caps the number of returned transactions after filtering;
	// zero means no cap.
	Limit int
}

func (f TransactionFilter) Empty() bool {
	return f.Date == nil && f.DateFrom == nil && f.DateTo == nil &&
		f.Value == nil && f.ValueFrom == nil && f.ValueTo == nil &&
		len(f.CategoryIDs) == 0 && len(f.PaymentTypeIDs) == 0 &&
		f.Description == ""
}

// Match reports whether t satisfies every set predicate.
func (f TransactionFilter) Match(t Transaction) bool {
	if f.Date != nil && !sameDay(t.Date, *f.Date) {
		return false
	}
	if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.Date.After(*f.DateTo) {
		return false
	}
	if f.Value != nil && !t.Value.Equal(*f.Value) {
		return false
	}
	if f.ValueFrom != nil && t.Value.LessThan(*f.ValueFrom) {
		return false
	}
	if f.ValueTo != nil && t.Value.GreaterThan(*f.ValueTo) {
		return false
	}
	if len(f.CategoryIDs) > 0 && !containsID(f.CategoryIDs, t.CategoryID) {
		return false
	}
	if len(f.PaymentTypeIDs) > 0 && !containsID(f.PaymentTypeIDs, t.PaymentTypeID) {
		return false
	}
	if f.Description != "" &&
		!strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Description)) {
		return false
	}
	return true
}

// Apply filters transactions, preserving order, and applies the limit.
func (f TransactionFilter) Apply(ts []Transaction) []Transaction {
	out := make([]Transaction, 0, len(ts))
	for _, t := range ts {
		if !f.Match(t) {
			continue
		}
		out = append(out, t)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Summary carries the four aggregates of the transactions view: income and
// expense sums over the filtered set, and the all-time sums over the whole
// wallet. Transfer legs count in neither.
type Summary struct {
	Income         decimal.Decimal
	Expense        decimal.Decimal
	IncomeAllTime  decimal.Decimal
	ExpenseAllTime decimal.Decimal
}

// Summarize computes the view aggregates. categoryType resolves a category
// id to its type; filtered must be a subset of all.
func Summarize(filtered, all []Transaction, categoryType func(int64) CategoryType) Summary {
	var s Summary
	for _, t := range filtered {
		switch categoryType(t.CategoryID) {
		case Income:
			s.Income = s.Income.Add(t.Value)
		case Expense:
			s.Expense = s.Expense.Add(t.Value)
		}
	}
	for _, t := range all {
		switch categoryType(t.CategoryID) {
		case Income:
			s.IncomeAllTime = s.IncomeAllTime.Add(t.Value)
		case Expense:
			s.ExpenseAllTime = s.ExpenseAllTime.Add(t.Value)
		}
	}
	return s
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
