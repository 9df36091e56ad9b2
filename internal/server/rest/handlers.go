package rest

import (
	"net/http"

	"github.com/dmitrijs2005/recharge/internal/server/tickets"
	"github.com/dmitrijs2005/recharge/internal/server/transactions"
	"github.com/dmitrijs2005/recharge/internal/server/users"
)

type authResponse struct {
	Message string         `json:"message,omitempty"`
	Token   string         `json:"token"`
	User    *users.Profile `json:"user"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.users.Register(r.Context(), users.RegisterInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", res.User.ID)
	writeJSON(w, http.StatusCreated, authResponse{Message: "User registered successfully", Token: res.Token, User: res.User.Profile()})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: res.User.Profile()})
}

func (s *Server) googleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GoogleID string `json:"googleId"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Avatar   string `json:"avatar"`
	}
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.users.LoginFederated(r.Context(), users.FederatedInput(req))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: res.User.Profile()})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": userFrom(r.Context()).Profile()})
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": plans})
}

func (s *Server) seedPlans(w http.ResponseWriter, r *http.Request) {
	n, err := s.plans.Seed(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Plans seeded successfully", "count": n})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactions.CreateInput
	if err := decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	tx, err := s.transactions.Create(r.Context(), userFrom(r.Context()).ID, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "transaction": tx})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var in tickets.CreateInput
	if err := decode(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	t, err := s.tickets.Create(r.Context(), userFrom(r.Context()).ID, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"ticket":  t,
		"message": "Ticket created successfully",
	})
}
