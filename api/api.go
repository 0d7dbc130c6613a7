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

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/blinklabs-io/covenant/database/models"
	"github.com/blinklabs-io/covenant/governance"
)

// QueryState is the read-only governance surface exposed over HTTP. No
// endpoint has side effects.
type QueryState interface {
	CurrentConfig() (*governance.Configuration, []byte, error)
	ConfigAt(height uint64) (*governance.Configuration, []byte, error)
	PendingProposals() ([]*models.Proposal, error)
	Proposal(hash []byte) (*models.Proposal, error)
	VotesFor(proposalHash []byte) ([]*models.ConfigVote, error)
}

type Config struct {
	ListenAddress string
}

// Api is the read-only query API server
type Api struct {
	config     Config
	logger     *slog.Logger
	state      QueryState
	httpServer *http.Server
	mu         sync.Mutex
}

func New(
	cfg Config,
	state QueryState,
	logger *slog.Logger,
) *Api {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":3000"
	}
	return &Api{
		config: cfg,
		logger: logger,
		state:  state,
	}
}

// Start starts the HTTP server in a background goroutine
func (a *Api) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}

	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.logger.Info(
		"query API listener started on " + a.config.ListenAddress,
	)

	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()

		if srv != nil {
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown query API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Handler returns the route mux. Exposed separately so tests can drive it
// via httptest without binding a socket.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /api/v1/config/current", a.handleCurrentConfig)
	mux.HandleFunc("GET /api/v1/config/{height}", a.handleConfigAt)
	mux.HandleFunc("GET /api/v1/proposals", a.handleProposals)
	mux.HandleFunc("GET /api/v1/proposals/{hash}", a.handleProposal)
	mux.HandleFunc("GET /api/v1/proposals/{hash}/votes", a.handleVotes)
	return mux
}

// Stop gracefully shuts down the HTTP server
func (a *Api) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown query API server: %w",
				err,
			)
		}
	}
	return nil
}

// startServer binds the listening socket first so port conflicts are
// detected immediately, then serves in a background goroutine
func (a *Api) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for query API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"query API server error",
				"error", err,
			)
		}
	}()
	return nil
}
