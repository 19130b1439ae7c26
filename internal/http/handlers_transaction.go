package http

import (
	"encoding/json"
	"net/http"
	"time"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64           `json:"user_id"`
		Amount json.RawMessage `json:"amount"`
		Date   string          `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		respondBadRequest(w, "missing user_id")
		return
	}
	amount, err := decodeAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			respondBadRequest(w, "invalid date, expected RFC 3339")
			return
		}
	}

	res, err := s.txs.Create(r.Context(), req.UserID, amount, date)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		Transaction  transactionResponse   `json:"transaction"`
		Notification *notificationResponse `json:"notification,omitempty"`
		Warning      string                `json:"warning,omitempty"`
	}{
		Transaction:  toTransactionResponse(res.Transaction),
		Notification: toNotificationResponse(res.Notification),
		Warning:      res.Warning,
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "invalid transaction id")
		return
	}
	t, err := s.txs.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}
	txs, err := s.txs.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "invalid transaction id")
		return
	}

	var req struct {
		Amount json.RawMessage `json:"amount"`
		Date   string          `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	amount, err := decodeAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		respondBadRequest(w, "invalid date, expected RFC 3339")
		return
	}

	t, err := s.txs.Update(r.Context(), id, amount, date)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "invalid transaction id")
		return
	}
	if err := s.txs.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
