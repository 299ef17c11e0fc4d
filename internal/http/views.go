package http

import (
	"time"

	"walletd/internal/core"
	"walletd/internal/ledger"
)

// API representations. Money travels as fixed two-decimal strings so no
// client ever rounds through a float.
type paymentTypeView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

type categoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type transactionView struct {
	ID            int64  `json:"id"`
	PaymentTypeID int64  `json:"payment_type_id"`
	CategoryID    int64  `json:"category_id"`
	Value         string `json:"value"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	TransferGroup string `json:"transfer_group,omitempty"`
}

type summaryView struct {
	Income         string `json:"income"`
	Expense        string `json:"expense"`
	IncomeAllTime  string `json:"income_all_time"`
	ExpenseAllTime string `json:"expense_all_time"`
}

type transactionsPage struct {
	Transactions []transactionView `json:"transactions"`
	Summary      summaryView       `json:"summary"`
}

type sessionView struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func toPaymentTypeView(pt core.PaymentType) paymentTypeView {
	return paymentTypeView{
		ID:      pt.ID,
		Name:    pt.Name,
		Balance: core.FormatAmount(pt.Balance),
	}
}

func toCategoryView(c core.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Type: string(c.Type)}
}

func toTransactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:            t.ID,
		PaymentTypeID: t.PaymentTypeID,
		CategoryID:    t.CategoryID,
		Value:         core.FormatAmount(t.Value),
		Description:   t.Description,
		Date:          t.Date.UTC().Format(time.RFC3339),
		TransferGroup: t.TransferGroup,
	}
}

func toTransactionsPage(view ledger.TransactionsView) transactionsPage {
	page := transactionsPage{
		Transactions: make([]transactionView, 0, len(view.Transactions)),
		Summary: summaryView{
			Income:         core.FormatAmount(view.Summary.Income),
			Expense:        core.FormatAmount(view.Summary.Expense),
			IncomeAllTime:  core.FormatAmount(view.Summary.IncomeAllTime),
			ExpenseAllTime: core.FormatAmount(view.Summary.ExpenseAllTime),
		},
	}
	for _, t := range view.Transactions {
		page.Transactions = append(page.Transactions, toTransactionView(t))
	}
	return page
}
