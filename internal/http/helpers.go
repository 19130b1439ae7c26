package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"masraf/internal/core"

	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

// respondError maps domain errors to HTTP statuses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrTransactionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateSummary):
		status = http.StatusConflict
	case errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrInvalidSummaryType),
		errors.Is(err, core.ErrInvalidAmount):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "url", r.URL.Path, "error", err)
		respondJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeAmount accepts either a JSON number or a string ("12.34", "12,34").
func decodeAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Zero, core.ErrInvalidAmount
	}
	trimmed := bytes.Trim(raw, `"`)
	return core.ParseAmount(string(trimmed))
}

// --- response DTOs ---

type userResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	DailyLimit   string `json:"daily_limit"`
	WeeklyLimit  string `json:"weekly_limit"`
	MonthlyLimit string `json:"monthly_limit"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		DailyLimit:   u.DailyLimit.String(),
		WeeklyLimit:  u.WeeklyLimit.String(),
		MonthlyLimit: u.MonthlyLimit.String(),
	}
}

type transactionResponse struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:     t.ID,
		UserID: t.UserID,
		Amount: t.Amount.String(),
		Date:   t.Date.UTC().Format(time.RFC3339),
	}
}

type summaryResponse struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
	Type   string `json:"summary_type"`
}

func toSummaryResponse(s core.ExpenseSummary) summaryResponse {
	return summaryResponse{
		ID:     s.ID,
		UserID: s.UserID,
		Amount: s.Amount.String(),
		Date:   s.Date.String(),
		Type:   string(s.Type),
	}
}

type notificationResponse struct {
	Period  string `json:"period"`
	Subject string `json:"subject"`
	Total   string `json:"total"`
	Limit   string `json:"limit"`
}

func toNotificationResponse(n *core.Notification) *notificationResponse {
	if n == nil {
		return nil
	}
	return &notificationResponse{
		Period:  string(n.Period),
		Subject: n.Subject,
		Total:   n.Total.String(),
		Limit:   n.Limit.String(),
	}
}
