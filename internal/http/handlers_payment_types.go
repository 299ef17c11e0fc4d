package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

type createPaymentTypeRequest struct {
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type deleteWithReplacementRequest struct {
	ReplacementID int64 `json:"replacement_id"`
}

func (s *Server) handleListPaymentTypes(w http.ResponseWriter, r *http.Request) {
	pts, err := s.ledger.ListPaymentTypes(r.Context(), actingWallet(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]paymentTypeView, 0, len(pts))
	for _, pt := range pts {
		out = append(out, toPaymentTypeView(pt))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePaymentType(w http.ResponseWriter, r *http.Request) {
	var req createPaymentTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	// The opening balance may be zero, negative or omitted.
	balance := decimal.Zero
	if raw := strings.TrimSpace(req.Balance); raw != "" {
		var err error
		balance, err = decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil {
			writeBadRequest(w, "invalid balance")
			return
		}
		balance = balance.Round(2)
	}

	pt, err := s.ledger.CreatePaymentType(r.Context(), actingWallet(r), req.Name, balance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentTypeView(pt))
}

func (s *Server) handleRenamePaymentType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	pt, err := s.ledger.RenamePaymentType(r.Context(), actingWallet(r), id, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentTypeView(pt))
}

func (s *Server) handleDeletePaymentType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req deleteWithReplacementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := s.ledger.DeletePaymentType(r.Context(), actingWallet(r), id, req.ReplacementID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
