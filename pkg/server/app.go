package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"SignalDash/internal/render/tui"
	"SignalDash/internal/usecase"
	"SignalDash/pkg/config"
	xhttp "SignalDash/pkg/http"
	applogger "SignalDash/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	reconciler *usecase.Reconciler
	httpServer *xhttp.Server
	tui        *tui.Renderer
	closers    []io.Closer
}

// New creates a new App. httpServer and term may be nil when disabled in config.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	reconciler *usecase.Reconciler,
	httpServer *xhttp.Server,
	term *tui.Renderer,
) *App {
	return &App{
		cfg:        cfg,
		log:        log.Component("app"),
		reconciler: reconciler,
		httpServer: httpServer,
		tui:        term,
	}
}

// AddCloser registers infrastructure released after the reconciler has stopped.
func (a *App) AddCloser(c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, c)
	}
}

// Run starts the application and blocks until interrupted, the terminal UI is
// quit, or the reconciler stops.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			a.log.Error("http server start error", applogger.Error(err))
			return err
		}
	}

	// The program must be running before the reconciler renders into it.
	if a.tui != nil {
		go func() {
			defer cancel()
			if err := a.tui.Run(); err != nil {
				a.log.Error("terminal ui error", applogger.Error(err))
			}
		}()
	}

	done := make(chan error, 1)
	go func() { done <- a.reconciler.Run(ctx) }()
	a.log.Info("dashboard started",
		applogger.String("backend", a.cfg.Backend.BaseURL),
		applogger.String("transport", a.cfg.Push.Transport),
		applogger.Bool("tui", a.tui != nil),
	)

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
		runErr = <-done
	case runErr = <-done:
		if runErr != nil {
			a.log.Error("reconciler stopped", applogger.Error(runErr))
		}
	}

	return errors.Join(runErr, a.shutdown())
}

// shutdown stops the surfaces and releases infrastructure clients.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")
	var errs []error

	if a.tui != nil {
		a.tui.Quit()
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(context.Background()); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
