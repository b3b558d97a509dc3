package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goversion "github.com/caarlos0/go-version"
	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/config"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/container"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/logger"
)

// Set through -ldflags at build time.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, cfg.Server.IsProduction())
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	info := buildVersion(version, commit, date)
	log.Info("starting jamdate", "version", info.GitVersion, "commit", info.GitCommit, "go", info.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize dependency injection container
	app, err := container.NewContainer(ctx, cfg, info, log)
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("error closing application", "error", err)
		}
	}()

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Server.Start()
	}()

	// Wait for interrupt signal or a server failure
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	// Graceful shutdown
	if err := app.Server.Shutdown(context.Background()); err != nil {
		log.Error("server shutdown error", "error", err)
		return
	}

	log.Info("server exited properly")
}

func buildVersion(version, commit, date string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("jamdate", "Dating app REST backend", ""),
		func(i *goversion.Info) {
			if version != "" {
				i.GitVersion = version
			}
			if commit != "" {
				i.GitCommit = commit
			}
			if date != "" {
				i.BuildDate = date
			}
		},
	)
}
