package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/statement-ledger/internal/ledger"
	"github.com/sheikh-saqib/statement-ledger/internal/models"
)

type CreateStatementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TypedStatementRequest is the body of POST /statements, where the kind travels in the payload.
type TypedStatementRequest struct {
	Type string `json:"type"`
	CreateStatementRequest
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func (s *APIServer) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *APIServer) createStatementHandler(opType models.OperationType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateStatementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		op, err := s.ledger.CreateStatement(r.Context(), userIDFromContext(r.Context()), opType, req.Amount, req.Description)
		if err != nil {
			s.handleLedgerError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, op)
	}
}

func (s *APIServer) createTypedStatementHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TypedStatementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		opType, err := models.ParseOperationType(req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, ledger.ErrInvalidOperationType.Error())
			return
		}

		op, err := s.ledger.CreateStatement(r.Context(), userIDFromContext(r.Context()), opType, req.Amount, req.Description)
		if err != nil {
			s.handleLedgerError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, op)
	}
}

func (s *APIServer) balanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := s.ledger.GetBalance(r.Context(), userIDFromContext(r.Context()))
		if err != nil {
			s.handleLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, balance)
	}
}

func (s *APIServer) statementOperationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statementID := mux.Vars(r)["statement_id"]

		op, err := s.ledger.GetStatementOperation(r.Context(), userIDFromContext(r.Context()), statementID)
		if err != nil {
			s.handleLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, op)
	}
}

func (s *APIServer) handleLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		writeError(w, http.StatusNotFound, ledger.ErrUserNotFound.Error())
	case errors.Is(err, ledger.ErrStatementNotFound):
		writeError(w, http.StatusNotFound, ledger.ErrStatementNotFound.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidOperationType):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("ledger operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}
