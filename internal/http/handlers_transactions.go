package http

import (
	"net/http"

	"walletd/internal/core"
	"walletd/internal/ledger"
)

type createTransactionRequest struct {
	PaymentTypeID int64  `json:"payment_type_id"`
	CategoryID    int64  `json:"category_id"`
	Value         string `json:"value"`
	Description   string `json:"description"`
	Date          string `json:"date"`
}

type updateTransactionRequest struct {
	PaymentTypeID *int64  `json:"payment_type_id"`
	CategoryID    *int64  `json:"category_id"`
	Value         *string `json:"value"`
	Description   *string `json:"description"`
	Date          *string `json:"date"`
}

type transferRequest struct {
	FromID      int64  `json:"payment_type_from"`
	ToID        int64  `json:"payment_type_to"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	view, err := s.ledger.ListTransactions(r.Context(), actingWallet(r), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionsPage(view))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	value, err := parseBodyAmount(req.Value)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	t, err := s.ledger.CreateTransaction(r.Context(), actingWallet(r), ledger.TransactionInput{
		PaymentTypeID: req.PaymentTypeID,
		CategoryID:    req.CategoryID,
		Value:         value,
		Description:   req.Description,
		Date:          date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionView(t))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	t, err := s.ledger.Transaction(r.Context(), actingWallet(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionView(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	update := ledger.TransactionUpdate{
		PaymentTypeID: req.PaymentTypeID,
		CategoryID:    req.CategoryID,
		Description:   req.Description,
	}
	if req.Value != nil {
		value, err := parseBodyAmount(*req.Value)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		update.Value = &value
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		update.Date = &date
	}

	t, err := s.ledger.UpdateTransaction(r.Context(), actingWallet(r), id, update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionView(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), actingWallet(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	// Transfers take a positive amount; the legs carry the signs.
	value, err := core.ParseAmount(req.Value)
	if err != nil {
		writeError(w, r, core.NewValidationError("value", err.Error()))
		return
	}

	legs, err := s.ledger.Transfer(r.Context(), actingWallet(r), ledger.TransferInput{
		FromID:      req.FromID,
		ToID:        req.ToID,
		Value:       value,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, []transactionView{
		toTransactionView(legs[0]),
		toTransactionView(legs[1]),
	})
}
