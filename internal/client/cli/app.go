package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/recharge/internal/client/client"
	"github.com/dmitrijs2005/recharge/internal/client/config"
	"github.com/dmitrijs2005/recharge/internal/client/models"
	"github.com/dmitrijs2005/recharge/internal/client/services"
	"github.com/dmitrijs2005/recharge/internal/client/session"
	"github.com/dmitrijs2005/recharge/internal/filex"
	"github.com/dmitrijs2005/recharge/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	store   *session.Store
	api     *client.HTTPClient
	auth    services.AuthService
	plans   services.PlanService
	txs     services.TransactionService
	support services.SupportService
	reader  *bufio.Reader
	out     io.Writer

	mu       sync.Mutex
	userName string
	lastPlan []models.Plan

	// expired receives the reason of a forced logout. Pending signals
	// collapse into one.
	expired chan string
}

// NewApp opens local storage and builds the service graph. It performs no
// network I/O.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	var (
		db      *sql.DB
		storage session.Storage
	)
	if c.Ephemeral {
		storage = &session.MemoryStorage{}
	} else {
		path, err := filex.EnsureParentDir(c.DatabasePath)
		if err != nil {
			return nil, err
		}
		db, err = client.InitDatabase(ctx, path)
		if err != nil {
			logging.LogError(ctx, logger, "error initializing database", err)
			return nil, err
		}
		storage = session.NewSQLStorage(db)
	}

	a := &App{
		config:  c,
		logger:  logger,
		db:      db,
		store:   session.NewStore(storage, logger),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		expired: make(chan string, 1),
	}

	exempt := client.DefaultExemptSet(client.ParseMatchMode(c.ExemptMatch))
	a.api = client.New(client.Options{
		BaseURL:   c.APIBaseURL,
		Timeout:   c.RequestTimeout,
		Session:   a.store,
		Exempt:    &exempt,
		Navigator: client.NavigatorFunc(a.sessionExpired),
		Logger:    logger,
	})

	var verifier services.IDTokenVerifier
	if c.GoogleClientID != "" {
		verifier = services.NewLazyVerifier(c.GoogleIssuer, c.GoogleClientID)
	}

	a.auth = services.NewAuthService(a.api, a.store, verifier, logger)
	a.plans = services.NewPlanService(a.api)
	a.txs = services.NewTransactionService(a.api, db, a.store, logger)
	a.support = services.NewSupportService(a.api)

	return a, nil
}

// Close releases the local database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run restores the session, starts background watchers and blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.config.MetricsAddr != "" {
		stop := a.serveMetrics(a.config.MetricsAddr)
		defer stop()
	}

	updates, unsubscribe := a.store.Subscribe()
	defer unsubscribe()
	go a.WatchSession(ctx, updates)

	st := a.auth.Restore(ctx)
	a.setUser(st)

	fmt.Fprintln(a.out, "Welcome to Recharge CLI (type 'help' for commands)")
	if st.Authenticated {
		fmt.Fprintf(a.out, "Welcome back, %s\n", st.Principal.DisplayName())
	} else {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.store.Authenticated()
}

// sessionExpired is the navigation target of a forced logout.
func (a *App) sessionExpired(_ context.Context, reason string) {
	select {
	case a.expired <- reason:
	default:
	}
}

// takeExpired reports a pending forced logout, at most once per signal.
func (a *App) takeExpired() (string, bool) {
	select {
	case reason := <-a.expired:
		return reason, true
	default:
		return "", false
	}
}

// onExpired tells the user the session ended and returns to the login prompt.
func (a *App) onExpired(ctx context.Context, reason string) {
	a.logger.Info(ctx, "returning to login prompt", "reason", reason)
	fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
	_ = a.Login(ctx)
}

// WatchSession keeps the prompt in step with session changes until ctx is
// done or updates is closed.
func (a *App) WatchSession(ctx context.Context, updates <-chan session.State) {
	for {
		select {
		case st, ok := <-updates:
			if !ok {
				return
			}
			a.setUser(st)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) setUser(st session.State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st.Authenticated {
		a.userName = st.Principal.DisplayName()
	} else {
		a.userName = ""
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.userName == "" {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(context.Background(), "metrics server failed", "addr", addr, "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// report prints the user-facing text of err and logs it.
func (a *App) report(ctx context.Context, err error, fallback string) {
	logging.LogError(ctx, a.logger, fallback, err)
	fmt.Fprintln(a.out, "Error:", services.Message(err, fallback))
}
