package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income   CategoryType = "income"
	Expense  CategoryType = "expense"
	Transfer CategoryType = "transfer"
)

// TransferCategoryName is the reserved service category every wallet owns.
// Transfer legs are recorded under it; it is hidden from category listings
// and cannot be chosen for ordinary transactions.
const TransferCategoryName = "Transfer"

const (
	maxNameLen        = 100
	maxDescriptionLen = 255
)

type (
	CategoryType string

	// Wallet is the per-user container of all financial records.
	Wallet struct {
		ID     int64
		UserID int64
	}

	// PaymentType is a named fund with a running balance ("Cash", "Card").
	// Balance is denormalized: it must always equal the sum of the signed
	// values of the transactions referencing it.
	PaymentType struct {
		ID       int64
		WalletID int64
		Name     string
		Balance  decimal.Decimal
	}

	Category struct {
		ID       int64
		WalletID int64
		Name     string
		Type     CategoryType
		// Service marks the reserved Transfer category.
		Service bool
	}

	// Transaction is a single ledger entry. Value is signed: negative for
	// expenses and transfer debits, positive for income and transfer credits.
	Transaction struct {
		ID            int64
		WalletID      int64
		PaymentTypeID int64
		CategoryID    int64
		Value         decimal.Decimal
		Description   string
		Date          time.Time
		// TransferGroup links the two legs of a transfer; empty otherwise.
		TransferGroup string
	}
)

// OwnerWalletID implementations feed the capability check: every record
// knows the wallet it belongs to.
func (p PaymentType) OwnerWalletID() int64 { return p.WalletID }
func (c Category) OwnerWalletID() int64    { return c.WalletID }
func (t Transaction) OwnerWalletID() int64 { return t.WalletID }

func (t CategoryType) Valid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

// NormalizeValue forces a transaction value's sign to match its category
// type: expenses are stored negative, income positive. Transfer legs are
// signed explicitly by the transfer operation and pass through unchanged.
func NormalizeValue(t CategoryType, v decimal.Decimal) decimal.Decimal {
	switch t {
	case Expense:
		return v.Abs().Neg()
	case Income:
		return v.Abs()
	default:
		return v
	}
}

// ValidateName checks a payment type or category name. Uniqueness is
// scoped per wallet and checked against storage separately.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLen {
		return ErrNameTooLong
	}
	return nil
}

func ValidateDescription(desc string) error {
	if len(desc) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Value.IsZero() {
		return ErrInvalidAmount
	}
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if t.PaymentTypeID == 0 || t.CategoryID == 0 {
		return ErrMissingReference
	}
	return nil
}
