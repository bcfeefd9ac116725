package main

import (
	"context"
	"embed"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mentorform/internal/app"
	"mentorform/internal/config"
	"mentorform/internal/constants"
	"mentorform/internal/credentials"
	"mentorform/internal/logging"
)

//go:embed static
var staticFS embed.FS

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg := config.NewConfigFromEnvironment(staticFS)
	if cfg.Env == constants.EnvProduction {
		fiberlog.SetLevel(fiberlog.LevelInfo)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	jars := credentials.NewRegistry(cfg.SessionExpiration)

	a, err := app.New(&cfg, logger, jars)
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Address()), zap.String("api", cfg.APIURL))
		return a.Listen(cfg.Address())
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.ShutdownWithContext(shutdownCtx)
	})

	g.Go(func() error {
		return jars.Run(ctx, time.Minute)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}
