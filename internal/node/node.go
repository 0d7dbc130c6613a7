// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/covenant/api"
	"github.com/blinklabs-io/covenant/database"
	"github.com/blinklabs-io/covenant/event"
	"github.com/blinklabs-io/covenant/governance"
	"github.com/blinklabs-io/covenant/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run starts the node: it opens the governance database, restores the
// active configuration, bootstraps genesis when the history is empty and a
// genesis file is configured, and serves the read-only query API and
// metrics until interrupted.
func Run(cfg *config.Config, logger *slog.Logger) error {
	logger.Debug(fmt.Sprintf("config: %+v", cfg), "component", "node")

	shutdownTimeout := 30 * time.Second
	if cfg.ShutdownTimeout != "" {
		var err error
		shutdownTimeout, err = time.ParseDuration(cfg.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown timeout: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	promRegistry := prometheus.NewRegistry()

	db, err := database.New(&database.Config{
		DataDir:      cfg.DatabasePath,
		Logger:       logger,
		PromRegistry: promRegistry,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	eventBus := event.NewEventBus(promRegistry, logger)
	defer eventBus.Stop()

	state, err := governance.NewState(governance.StateConfig{
		Logger:       logger,
		Database:     db,
		EventBus:     eventBus,
		PromRegistry: promRegistry,
		Verifier:     governance.Ed25519Verifier{},
	})
	if err != nil {
		return fmt.Errorf("failed to restore governance state: %w", err)
	}

	if _, _, err := state.CurrentConfig(); err != nil {
		if !errors.Is(err, governance.ErrNotInitialized) {
			return err
		}
		if cfg.GenesisFile == "" {
			return errors.New(
				"no configuration history and no genesis file configured",
			)
		}
		genesis, err := config.LoadGenesis(cfg.GenesisFile)
		if err != nil {
			return err
		}
		if err := state.Initialize(genesis); err != nil {
			return fmt.Errorf("failed to initialize genesis: %w", err)
		}
	}

	apiServer := api.New(
		api.Config{
			ListenAddress: fmt.Sprintf("%s:%d", cfg.BindAddr, cfg.ApiPort),
		},
		state,
		logger,
	)
	if err := apiServer.Start(ctx); err != nil {
		return err
	}

	metricsServer := startMetricsServer(cfg, promRegistry, logger)

	<-ctx.Done()
	logger.Info(
		"shutting down",
		"component", "node",
	)
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		shutdownTimeout,
	)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error(
			"failed to stop query API server",
			"component", "node",
			"error", err,
		)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(
				"failed to stop metrics server",
				"component", "node",
				"error", err,
			)
		}
	}
	return nil
}

func startMetricsServer(
	cfg *config.Config,
	promRegistry *prometheus.Registry,
	logger *slog.Logger,
) *http.Server {
	if cfg.MetricsPort == 0 {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(
		"/metrics",
		promhttp.HandlerFor(
			promRegistry,
			promhttp.HandlerOpts{},
		),
	)
	server := &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			cfg.BindAddr,
			cfg.MetricsPort,
		),
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
	}
	go func() {
		logger.Info(
			"metrics listener started on "+server.Addr,
			"component", "node",
		)
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			logger.Error(
				"metrics server error",
				"component", "node",
				"error", err,
			)
		}
	}()
	return server
}
