// Package rest exposes the development backend over HTTP. Routes mirror the
// recharge REST interface: auth, plans, transactions and support tickets.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/recharge/internal/logging"
	"github.com/dmitrijs2005/recharge/internal/server/plans"
	"github.com/dmitrijs2005/recharge/internal/server/tickets"
	"github.com/dmitrijs2005/recharge/internal/server/transactions"
	"github.com/dmitrijs2005/recharge/internal/server/users"
)

// maxRequestBody bounds every JSON request body.
const maxRequestBody = 1 << 20

type Server struct {
	address      string
	users        *users.Service
	plans        *plans.Service
	transactions *transactions.Service
	tickets      *tickets.Service
	logger       logging.Logger
}

func NewServer(a string, l logging.Logger, us *users.Service, ps *plans.Service, ts *transactions.Service, tk *tickets.Service) *Server {
	return &Server{
		address:      a,
		logger:       l.With("module", "rest_server"),
		users:        us,
		plans:        ps,
		transactions: ts,
		tickets:      tk,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/google/token", s.googleToken).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(s.requireToken)
	protected.HandleFunc("/auth/me", s.me).Methods(http.MethodGet)
	protected.HandleFunc("/plans", s.listPlans).Methods(http.MethodGet)
	protected.HandleFunc("/plans/seed", s.seedPlans).Methods(http.MethodPost)
	protected.HandleFunc("/transactions", s.createTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/transactions", s.listTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/support/tickets", s.createTicket).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
