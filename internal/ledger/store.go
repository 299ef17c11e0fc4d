package ledger

import (
	"context"

	"walletd/internal/core"
)

// Tx is the repository surface the ledger operations run against. All
// lookups are wallet-scoped: a record that exists in another wallet is
// reported as core.ErrNotFound.
type Tx interface {
	PaymentType(ctx context.Context, walletID, id int64) (core.PaymentType, error)
	// PaymentTypeByName matches case-insensitively.
	PaymentTypeByName(ctx context.Context, walletID int64, name string) (core.PaymentType, error)
	// ListPaymentTypes orders by usage count descending, then name.
	ListPaymentTypes(ctx context.Context, walletID int64) ([]core.PaymentType, error)
	InsertPaymentType(ctx context.Context, pt core.PaymentType) (int64, error)
	UpdatePaymentType(ctx context.Context, pt core.PaymentType) error
	DeletePaymentType(ctx context.Context, walletID, id int64) error
	// ReassignPaymentType re-points every transaction referencing fromID to
	// toID and returns the number of rows moved.
	ReassignPaymentType(ctx context.Context, walletID, fromID, toID int64) (int64, error)

	Category(ctx context.Context, walletID, id int64) (core.Category, error)
	CategoryByName(ctx context.Context, walletID int64, name string) (core.Category, error)
	ListCategories(ctx context.Context, walletID int64, includeService bool) ([]core.Category, error)
	InsertCategory(ctx context.Context, c core.Category) (int64, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, walletID, id int64) error
	ReassignCategory(ctx context.Context, walletID, fromID, toID int64) (int64, error)

	Transaction(ctx context.Context, walletID, id int64) (core.Transaction, error)
	// ListTransactions returns the wallet's transactions newest-first.
	ListTransactions(ctx context.Context, walletID int64) ([]core.Transaction, error)
	InsertTransaction(ctx context.Context, t core.Transaction) (int64, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, walletID, id int64) error
}

// Store provides the repository surface plus atomic execution. Every
// balance-affecting operation runs inside a single InTx call so no partial
// state is visible between the ledger write and the balance write.
type Store interface {
	Tx

	// InTx runs fn in one storage transaction, committing on nil and
	// rolling back everything on error.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// ExportPublisher notifies the export pipeline about committed ledger
// entries. Publish failures are logged and never fail the operation.
type ExportPublisher interface {
	PublishTransactionExport(ctx context.Context, transactionID, walletID int64) error
}
