package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/recharge/internal/buildinfo"
	"github.com/dmitrijs2005/recharge/internal/client/cli"
	"github.com/dmitrijs2005/recharge/internal/client/config"
	"github.com/dmitrijs2005/recharge/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "configuration error:", r)
			code = 2
		}
	}()

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.Setup(cfg.LogFormat, cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logging.LogError(ctx, logger, "cli stopped", err)
		return 1
	}
	return 0
}
