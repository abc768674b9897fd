package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/machinech97-sudo/fleetrms/internal/capture"
	"github.com/machinech97-sudo/fleetrms/internal/command"
	"github.com/machinech97-sudo/fleetrms/internal/device"
	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/config"
	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/database"
	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/logging"
	"github.com/machinech97-sudo/fleetrms/internal/settings"
)

// gracefulShutdownTimeout is how long in-flight requests get to finish
// before the listener is torn down.
const gracefulShutdownTimeout = 10 * time.Second

// Deps carries everything the API server needs.
type Deps struct {
	Config     *config.Config
	Logger     *logging.Logger
	DB         *database.DB
	Registry   *device.Registry
	Dispatcher *command.Dispatcher
	Settings   *settings.Store
	Capture    *capture.Repository
	Version    string
}

// Server is the HTTP front end for FleetRMS.
type Server struct {
	cfg        *config.Config
	logger     *logging.Logger
	db         *database.DB
	registry   *device.Registry
	dispatcher *command.Dispatcher
	settings   *settings.Store
	capture    *capture.Repository
	version    string

	httpServer *http.Server
}

// New creates a server from its dependencies. Call Start to begin
// serving.
func New(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("api: config is required")
	}
	if deps.Logger == nil {
		return nil, errors.New("api: logger is required")
	}
	if deps.DB == nil {
		return nil, errors.New("api: database is required")
	}
	if deps.Registry == nil || deps.Dispatcher == nil || deps.Settings == nil || deps.Capture == nil {
		return nil, errors.New("api: all domain services are required")
	}

	s := &Server{
		cfg:        deps.Config,
		logger:     deps.Logger.With("component", "api"),
		db:         deps.DB,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		settings:   deps.Settings,
		capture:    deps.Capture,
		version:    deps.Version,
	}

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(deps.Config.API.Host, strconv.Itoa(deps.Config.API.Port)),
		Handler:      s.routes(),
		ReadTimeout:  deps.Config.GetReadTimeout(),
		WriteTimeout: deps.Config.GetWriteTimeout(),
		IdleTimeout:  deps.Config.GetIdleTimeout(),
	}

	return s, nil
}

// Start serves HTTP until ctx is cancelled, then drains in-flight
// requests and returns.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("api server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	return nil
}
