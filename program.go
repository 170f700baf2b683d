package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatledger/sources/analysis"
	"chatledger/sources/chats"
	"chatledger/sources/configuration"
	"chatledger/sources/exchange"
	"chatledger/sources/localization"
	"chatledger/sources/membership"
	"chatledger/sources/metrics"
	"chatledger/sources/network"
	"chatledger/sources/persistence"
	"chatledger/sources/platform"
	"chatledger/sources/throttler"
	"chatledger/sources/tracing"

	"github.com/alecthomas/kong"
	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

func main() {
	platform.SetAppManifest(version, buildTime, time.Now())

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("chatledger"),
		kong.Description("Revenue and membership analysis over recorded live chat exports."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}

// modules is the full provider graph, with config paths overridden from the command line.
func modules(cli *CLI) fx.Option {
	return fx.Options(
		tracing.Module,
		configuration.Module,
		metrics.Module,
		network.Module,
		persistence.Module,
		throttler.Module,
		exchange.Module,
		localization.Module,
		chats.Module,
		membership.Module,
		analysis.Module,

		fx.Decorate(cli.Apply),
	)
}

// execute builds the container with targets populated, runs body between start and stop, and
// always stops the container so caches and metrics are flushed.
func execute(cli *CLI, body func(ctx context.Context, log *tracing.Logger) error, targets ...any) error {
	var log *tracing.Logger

	app := fx.New(
		fx.WithLogger(tracing.FxLogger),
		modules(cli),
		fx.Populate(&log),
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := platform.ContextTimeout(context.Background())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	log.I("Chatledger started", "version", version, "build_time", buildTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runErr := body(ctx, log)
	if runErr != nil {
		log.E("Run failed", tracing.InnerError, runErr)
	}

	stopCtx, cancelStop := platform.ContextTimeout(context.Background())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		runErr = err
	}

	log.I("Chatledger stopped", "version", version, "build_time", buildTime)
	return runErr
}
