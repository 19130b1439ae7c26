package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"masraf/internal/core"

	"github.com/shopspring/decimal"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string          `json:"name"`
		Email        string          `json:"email"`
		DailyLimit   json.RawMessage `json:"daily_limit"`
		WeeklyLimit  json.RawMessage `json:"weekly_limit"`
		MonthlyLimit json.RawMessage `json:"monthly_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	u := core.NewUser(req.Name, req.Email)
	for _, f := range []struct {
		raw  json.RawMessage
		dest *decimal.Decimal
	}{
		{req.DailyLimit, &u.DailyLimit},
		{req.WeeklyLimit, &u.WeeklyLimit},
		{req.MonthlyLimit, &u.MonthlyLimit},
	} {
		if len(f.raw) == 0 {
			continue
		}
		d, err := decodeAmount(f.raw)
		if err != nil {
			respondError(w, r, err)
			return
		}
		*f.dest = d
	}
	if err := u.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.users.CreateUser(r.Context(), u)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(created))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}

	cacheKey := strconv.FormatInt(id, 10)
	if u, hit := s.userCache.Get(cacheKey); hit {
		respondJSON(w, http.StatusOK, toUserResponse(u))
		return
	}

	u, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.userCache.Set(cacheKey, u)
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleUpdateLimits(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}

	var req struct {
		DailyLimit   json.RawMessage `json:"daily_limit"`
		WeeklyLimit  json.RawMessage `json:"weekly_limit"`
		MonthlyLimit json.RawMessage `json:"monthly_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if len(req.DailyLimit) == 0 && len(req.WeeklyLimit) == 0 && len(req.MonthlyLimit) == 0 {
		respondBadRequest(w, "no limits provided")
		return
	}

	var daily, weekly, monthly *decimal.Decimal
	for _, f := range []struct {
		raw  json.RawMessage
		dest **decimal.Decimal
	}{
		{req.DailyLimit, &daily},
		{req.WeeklyLimit, &weekly},
		{req.MonthlyLimit, &monthly},
	} {
		if len(f.raw) == 0 {
			continue
		}
		d, err := decodeAmount(f.raw)
		if err != nil {
			respondError(w, r, err)
			return
		}
		*f.dest = &d
	}

	u, err := s.users.UpdateUserLimits(r.Context(), id, daily, weekly, monthly)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.userCache.Delete(strconv.FormatInt(id, 10))
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleTotalExpenses(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "invalid user id")
		return
	}
	if _, err := s.users.GetUser(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	total, err := s.users.TotalExpenses(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		UserID int64  `json:"user_id"`
		Total  string `json:"total"`
	}{UserID: id, Total: total.String()})
}
