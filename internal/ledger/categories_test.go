package ledger

import (
	"context"
	"errors"
	"testing"

	"walletd/internal/core"
)

func TestCreateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.CreateCategory(ctx, f.wallet, "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.Type != core.Expense || c.Service {
		t.Errorf("category = %+v", c)
	}

	_, err = f.svc.CreateCategory(ctx, f.wallet, "Moves", core.Transfer)
	wantValidationField(t, err, "type")

	_, err = f.svc.CreateCategory(ctx, f.wallet, "groceries", core.Income)
	wantValidationField(t, err, "name")

	_, err = f.svc.CreateCategory(ctx, f.wallet, core.TransferCategoryName, core.Income)
	wantValidationField(t, err, "name")
}

func TestListCategoriesHidesService(t *testing.T) {
	f := newFixture(t)

	cats, err := f.svc.ListCategories(context.Background(), f.wallet)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	for _, c := range cats {
		if c.Service {
			t.Errorf("service category %q listed", c.Name)
		}
	}
	if len(cats) != 2 {
		t.Errorf("listed = %d, want 2", len(cats))
	}
}

func TestRenameCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.RenameCategory(ctx, f.wallet, f.expense.ID, "Household")
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	if got.Name != "Household" {
		t.Errorf("name = %q", got.Name)
	}

	_, err = f.svc.RenameCategory(ctx, f.wallet, f.transfer.ID, "Moves")
	wantValidationField(t, err, "category")

	if _, err := f.svc.RenameCategory(ctx, f.wallet, 9999, "X"); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("unknown id error = %v, want ErrForbidden", err)
	}
}

func TestDeleteCategoryReassignsWithoutTouchingBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	groceries, err := f.svc.CreateCategory(ctx, f.wallet, "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	tr, err := f.svc.CreateTransaction(ctx, f.wallet, TransactionInput{
		PaymentTypeID: f.cash.ID, CategoryID: groceries.ID, Value: dec("40"),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	// cash 960.

	if err := f.svc.DeleteCategory(ctx, f.wallet, groceries.ID, f.expense.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	moved, err := f.store.Transaction(ctx, f.wallet.ID, tr.ID)
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if moved.CategoryID != f.expense.ID {
		t.Errorf("category = %d, want replacement %d", moved.CategoryID, f.expense.ID)
	}
	if !moved.Value.Equal(dec("-40")) {
		t.Errorf("value changed on reassignment: %s", moved.Value)
	}
	if !f.balance(t, f.cash.ID).Equal(dec("960")) {
		t.Errorf("balance = %s, want 960 untouched", f.balance(t, f.cash.ID))
	}
}

func TestDeleteCategoryReplacementRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.DeleteCategory(ctx, f.wallet, f.expense.ID, 0)
	wantValidationField(t, err, "replacement")

	err = f.svc.DeleteCategory(ctx, f.wallet, f.expense.ID, f.expense.ID)
	wantValidationField(t, err, "replacement")

	// Replacement must share the type.
	err = f.svc.DeleteCategory(ctx, f.wallet, f.expense.ID, f.income.ID)
	wantValidationField(t, err, "replacement")

	// The reserved category can serve neither side.
	err = f.svc.DeleteCategory(ctx, f.wallet, f.transfer.ID, f.expense.ID)
	wantValidationField(t, err, "category")

	groceries, err := f.svc.CreateCategory(ctx, f.wallet, "Groceries", core.Expense)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	err = f.svc.DeleteCategory(ctx, f.wallet, groceries.ID, f.transfer.ID)
	wantValidationField(t, err, "replacement")

	if err := f.svc.DeleteCategory(ctx, f.wallet, 9999, f.expense.ID); !errors.Is(err, core.ErrForbidden) {
		t.Errorf("unknown target error = %v, want ErrForbidden", err)
	}
}

func TestDeleteLastCategoryOfTypeBlocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Expense is the only expense category; every candidate replacement
	// has another type, so the delete cannot be expressed.
	err := f.svc.DeleteCategory(ctx, f.wallet, f.expense.ID, f.income.ID)
	wantValidationField(t, err, "replacement")
}
