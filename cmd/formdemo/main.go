// Command formdemo serves a signup form validated on blur, change and submit
// through datastar server-sent events.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/formkit/pkg/formstar"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("formdemo failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(formstar.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		opts = append(opts, logger.WithLevel(level))
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	set, err := loadRules(cfg.RulesFile)
	if err != nil {
		return err
	}

	tr, err := newTranslator(log)
	if err != nil {
		return err
	}

	reg, err := formstar.NewRegistry(
		newFactory(set, cfg.Form, newSignups(cfg.BcryptCost), log),
		append(cfg.Star.RegistryOptions(), formstar.WithRegistryLogger(log))...,
	)
	if err != nil {
		return err
	}

	handler := formstar.NewHandler(reg, append(cfg.Star.HandlerOptions(),
		formstar.WithLogger(log),
		formstar.WithTranslator(tr),
	)...)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := newServer(cfg.HTTP, newRouter(handler, tr), log, func(context.Context) error {
		return reg.Close()
	})
	return srv.run(ctx)
}
