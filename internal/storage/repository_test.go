package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"walletd/internal/auth"
	"walletd/internal/core"
	"walletd/internal/ledger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "wallet.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func TestCreateAccountSeedsWallet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	wallet, err := repo.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if wallet.ID == 0 || wallet.UserID == 0 {
		t.Fatalf("wallet not populated: %+v", wallet)
	}

	pts, err := repo.ListPaymentTypes(ctx, wallet.ID)
	if err != nil {
		t.Fatalf("ListPaymentTypes: %v", err)
	}
	if len(pts) != 1 || pts[0].Name != "Cash" {
		t.Fatalf("want seeded Cash payment type, got %+v", pts)
	}
	if !pts[0].Balance.IsZero() {
		t.Fatalf("seed balance = %s, want 0", pts[0].Balance)
	}

	cats, err := repo.ListCategories(ctx, wallet.ID, true)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 3 {
		t.Fatalf("want 3 seeded categories, got %d", len(cats))
	}
	transfer, err := repo.CategoryByName(ctx, wallet.ID, core.TransferCategoryName)
	if err != nil {
		t.Fatalf("CategoryByName: %v", err)
	}
	if !transfer.Service || transfer.Type != core.Transfer {
		t.Fatalf("transfer category not reserved: %+v", transfer)
	}

	visible, err := repo.ListCategories(ctx, wallet.ID, false)
	if err != nil {
		t.Fatalf("ListCategories without service: %v", err)
	}
	for _, c := range visible {
		if c.Service {
			t.Fatalf("service category %q leaked into visible list", c.Name)
		}
	}
}

func TestCreateAccountDuplicateLogin(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateAccount(ctx, "alice", "hash"); err != nil {
		t.Fatalf("first CreateAccount: %v", err)
	}
	_, err := repo.CreateAccount(ctx, "ALICE", "hash")
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("duplicate login error = %v, want validation error", err)
	}
	if _, ok := verr.Fields["login"]; !ok {
		t.Fatalf("validation fields = %v, want login", verr.Fields)
	}
}

func TestSessions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	wallet, err := repo.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := repo.CreateSession(ctx, auth.Session{
		Token:     "tok",
		UserID:    wallet.UserID,
		ExpiresAt: now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := repo.WalletBySession(ctx, "tok", now)
	if err != nil {
		t.Fatalf("WalletBySession: %v", err)
	}
	if got.ID != wallet.ID {
		t.Fatalf("wallet = %d, want %d", got.ID, wallet.ID)
	}

	if _, err := repo.WalletBySession(ctx, "tok", now.Add(2*time.Hour)); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expired session error = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteSession(ctx, "tok"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := repo.WalletBySession(ctx, "tok", now); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("deleted session error = %v, want ErrNotFound", err)
	}
}

func TestWalletScoping(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	alice, err := repo.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateAccount alice: %v", err)
	}
	bob, err := repo.CreateAccount(ctx, "bob", "hash")
	if err != nil {
		t.Fatalf("CreateAccount bob: %v", err)
	}

	id, err := repo.InsertPaymentType(ctx, core.PaymentType{
		WalletID: alice.ID, Name: "Bank", Balance: mustDecimal(t, "100"),
	})
	if err != nil {
		t.Fatalf("InsertPaymentType: %v", err)
	}

	if _, err := repo.PaymentType(ctx, bob.ID, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-wallet read error = %v, want ErrNotFound", err)
	}
	if err := repo.DeletePaymentType(ctx, bob.ID, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-wallet delete error = %v, want ErrNotFound", err)
	}
	if _, err := repo.PaymentType(ctx, alice.ID, id); err != nil {
		t.Fatalf("owner read: %v", err)
	}
}

func TestPaymentTypeNameUniqueness(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	wallet, err := repo.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	_, err = repo.InsertPaymentType(ctx, core.PaymentType{
		WalletID: wallet.ID, Name: "CASH", Balance: decimal.Zero,
	})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("duplicate name error = %v, want validation error", err)
	}

	// Same name in another wallet is fine.
	other, err := repo.CreateAccount(ctx, "bob", "hash")
	if err != nil {
		t.Fatalf("CreateAccount bob: %v", err)
	}
	if _, err := repo.InsertPaymentType(ctx, core.PaymentType{
		WalletID: other.ID, Name: "Bank", Balance: decimal.Zero,
	}); err != nil {
		t.Fatalf("InsertPaymentType in other wallet: %v", err)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	wallet, err := repo.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	boom := errors.New("boom")
	err = repo.InTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		if _, err := tx.InsertPaymentType(ctx, core.PaymentType{
			WalletID: wallet.ID, Name: "Bank", Balance: decimal.Zero,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx error = %v, want boom", err)
	}

	if _, err := repo.PaymentTypeByName(ctx, wallet.ID, "Bank"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("rolled-back insert still visible: %v", err)
	}
}

func TestReassignmentMovesTransactions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	wallet, err := repo.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	cash, err := repo.PaymentTypeByName(ctx, wallet.ID, "Cash")
	if err != nil {
		t.Fatalf("PaymentTypeByName: %v", err)
	}
	bankID, err := repo.InsertPaymentType(ctx, core.PaymentType{
		WalletID: wallet.ID, Name: "Bank", Balance: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("InsertPaymentType: %v", err)
	}
	expense, err := repo.CategoryByName(ctx, wallet.ID, "Expense")
	if err != nil {
		t.Fatalf("CategoryByName: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := repo.InsertTransaction(ctx, core.Transaction{
			WalletID:      wallet.ID,
			PaymentTypeID: cash.ID,
			CategoryID:    expense.ID,
			Value:         mustDecimal(t, "-10"),
			Date:          time.Now().UTC(),
		}); err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	moved, err := repo.ReassignPaymentType(ctx, wallet.ID, cash.ID, bankID)
	if err != nil {
		t.Fatalf("ReassignPaymentType: %v", err)
	}
	if moved != 3 {
		t.Fatalf("moved = %d, want 3", moved)
	}

	ts, err := repo.ListTransactions(ctx, wallet.ID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	for _, tr := range ts {
		if tr.PaymentTypeID != bankID {
			t.Fatalf("transaction %d still on payment type %d", tr.ID, tr.PaymentTypeID)
		}
	}
}

func TestListOrdering(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	wallet, err := repo.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	cash, err := repo.PaymentTypeByName(ctx, wallet.ID, "Cash")
	if err != nil {
		t.Fatalf("PaymentTypeByName: %v", err)
	}
	bankID, err := repo.InsertPaymentType(ctx, core.PaymentType{
		WalletID: wallet.ID, Name: "Bank", Balance: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("InsertPaymentType: %v", err)
	}
	expense, err := repo.CategoryByName(ctx, wallet.ID, "Expense")
	if err != nil {
		t.Fatalf("CategoryByName: %v", err)
	}

	// Two entries on Bank, one on Cash: Bank ranks first by usage.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, ptID := range []int64{bankID, bankID, cash.ID} {
		if _, err := repo.InsertTransaction(ctx, core.Transaction{
			WalletID:      wallet.ID,
			PaymentTypeID: ptID,
			CategoryID:    expense.ID,
			Value:         mustDecimal(t, "-5"),
			Date:          base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	pts, err := repo.ListPaymentTypes(ctx, wallet.ID)
	if err != nil {
		t.Fatalf("ListPaymentTypes: %v", err)
	}
	if pts[0].Name != "Bank" {
		t.Fatalf("first payment type = %q, want Bank", pts[0].Name)
	}

	ts, err := repo.ListTransactions(ctx, wallet.ID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	for i := 1; i < len(ts); i++ {
		if ts[i].Date.After(ts[i-1].Date) {
			t.Fatalf("transactions not newest-first at index %d", i)
		}
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	wallet, err := repo.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	cash, err := repo.PaymentTypeByName(ctx, wallet.ID, "Cash")
	if err != nil {
		t.Fatalf("PaymentTypeByName: %v", err)
	}
	income, err := repo.CategoryByName(ctx, wallet.ID, "Income")
	if err != nil {
		t.Fatalf("CategoryByName: %v", err)
	}

	date := time.Date(2026, 7, 4, 9, 30, 0, 0, time.UTC)
	id, err := repo.InsertTransaction(ctx, core.Transaction{
		WalletID:      wallet.ID,
		PaymentTypeID: cash.ID,
		CategoryID:    income.ID,
		Value:         mustDecimal(t, "1234.56"),
		Description:   "salary",
		Date:          date,
	})
	if err != nil {
		t.Fatalf("InsertTransaction: %v", err)
	}

	got, err := repo.Transaction(ctx, wallet.ID, id)
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if !got.Value.Equal(mustDecimal(t, "1234.56")) {
		t.Fatalf("value = %s, want 1234.56", got.Value)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("date = %s, want %s", got.Date, date)
	}
	if got.Description != "salary" {
		t.Fatalf("description = %q", got.Description)
	}
}

func TestExportPipelineState(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	wallet, err := repo.CreateAccount(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	cash, err := repo.PaymentTypeByName(ctx, wallet.ID, "Cash")
	if err != nil {
		t.Fatalf("PaymentTypeByName: %v", err)
	}
	expense, err := repo.CategoryByName(ctx, wallet.ID, "Expense")
	if err != nil {
		t.Fatalf("CategoryByName: %v", err)
	}

	id, err := repo.InsertTransaction(ctx, core.Transaction{
		WalletID:      wallet.ID,
		PaymentTypeID: cash.ID,
		CategoryID:    expense.ID,
		Value:         mustDecimal(t, "-42.50"),
		Description:   "groceries",
		Date:          time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("InsertTransaction: %v", err)
	}

	ids, err := repo.PendingExportIDs(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExportIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("pending ids = %v, want [%d]", ids, id)
	}

	row, err := repo.ExportRowByID(ctx, id)
	if err != nil {
		t.Fatalf("ExportRowByID: %v", err)
	}
	if row.PaymentType != "Cash" || row.Category != "Expense" {
		t.Fatalf("export row names = %q/%q", row.PaymentType, row.Category)
	}
	if row.CategoryType != core.Expense {
		t.Fatalf("export row type = %q", row.CategoryType)
	}

	if err := repo.MarkExported(ctx, id); err != nil {
		t.Fatalf("MarkExported: %v", err)
	}
	ids, err = repo.PendingExportIDs(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExportIDs after mark: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("pending ids after mark = %v, want none", ids)
	}

	if _, err := repo.ExportRowByID(ctx, id+999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing export row error = %v, want ErrNotFound", err)
	}
}
