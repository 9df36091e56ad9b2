// Package server wires the development backend: in-memory repositories,
// domain services and the REST server, plus graceful shutdown on signals.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/recharge/internal/logging"
	"github.com/dmitrijs2005/recharge/internal/server/config"
	"github.com/dmitrijs2005/recharge/internal/server/plans"
	"github.com/dmitrijs2005/recharge/internal/server/rest"
	"github.com/dmitrijs2005/recharge/internal/server/tickets"
	"github.com/dmitrijs2005/recharge/internal/server/transactions"
	"github.com/dmitrijs2005/recharge/internal/server/users"
)

type App struct {
	config             *config.Config
	logger             logging.Logger
	userService        *users.Service
	planService        *plans.Service
	transactionService *transactions.Service
	ticketService      *tickets.Service
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.Setup(c.LogFormat, c.LogLevel, os.Stdout)

	app := &App{
		config:             c,
		logger:             logger,
		userService:        users.NewService(users.NewMemoryRepository(), c),
		planService:        plans.NewService(plans.NewMemoryRepository()),
		transactionService: transactions.NewService(transactions.NewMemoryRepository()),
		ticketService:      tickets.NewService(tickets.NewMemoryRepository()),
	}

	if c.SeedOnStart {
		n, err := app.planService.Seed(context.Background())
		if err != nil {
			return nil, err
		}
		logger.Info(context.Background(), "Plan catalog seeded", "count", n)
	}

	return app, nil
}

// Server returns the REST server backed by the app's services.
func (app *App) Server() *rest.Server {
	return rest.NewServer(app.config.ListenAddr, app.logger, app.userService, app.planService, app.transactionService, app.ticketService)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.Server().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
