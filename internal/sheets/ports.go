// Package sheets defines the outbound port for the spreadsheet export.
package sheets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"walletd/internal/core"
)

// Row is one exported ledger entry with its references resolved to names.
type Row struct {
	TransactionID int64
	WalletID      int64
	Date          time.Time
	Value         decimal.Decimal
	Description   string
	PaymentType   string
	Category      string
	CategoryType  core.CategoryType
}

// TransactionAppender writes one row to the export target and returns a
// reference to where it landed.
type TransactionAppender interface {
	Append(ctx context.Context, row Row) (rowRef string, err error)
}
