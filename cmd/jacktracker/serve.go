package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jacktracker/jacktracker/internal/api"
	"github.com/jacktracker/jacktracker/internal/app"
	"github.com/jacktracker/jacktracker/internal/engine"
	"github.com/jacktracker/jacktracker/internal/events"
	"github.com/jacktracker/jacktracker/internal/infra/config"
	"github.com/jacktracker/jacktracker/internal/infra/logger"
	"github.com/jacktracker/jacktracker/internal/platform"
	"github.com/jacktracker/jacktracker/internal/processor"
	"github.com/jacktracker/jacktracker/internal/resolver"
	"github.com/jacktracker/jacktracker/internal/store"
	"github.com/labstack/echo/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/websocket server and the download queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer log.Close()

	lock, err := platform.AcquireInstanceLock(cfg.Download.OutDir)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	statuses, err := platform.ValidateDependencies(cfg.Tools)
	for _, s := range statuses {
		if !s.Available {
			log.Warn("%s (%s): %s. Links needing it will fail.", s.Name, s.Purpose, s.Detail)
		}
	}
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("history store: %w", err)
	}
	defer st.Close()

	// Wire the application, leaves first
	runner := platform.NewCommandRunner()
	hub := events.NewHub(log)

	appCtx := app.NewContext(cfg, log)
	appCtx.Events = hub
	appCtx.History = st
	appCtx.Resolver = resolver.New(runner, cfg.Tools, log)
	appCtx.Processor = processor.New(cfg.Download.OutDir, cfg.Download.Route)
	appCtx.Fetcher = engine.NewDownloader(appCtx, runner)

	queue := engine.NewQueueManager(appCtx)
	appCtx.Queue = queue

	recorder := store.NewRecorder(st, log)
	hub.Register(recorder)

	// The engine and recorder outlive the HTTP server so in-flight jobs can
	// report their final state
	engineCtx, cancelEngine := context.WithCancel(context.Background())
	recorderCtx, cancelRecorder := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	recorderDone := make(chan struct{})
	go func() {
		recorder.Run(recorderCtx)
		close(recorderDone)
	}()
	go func() {
		queue.Start(engineCtx)
		close(engineDone)
	}()

	e := echo.New()
	api.RegisterRoutes(e, appCtx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("JackTracker listening on :%s (ws %s, files %s -> %s, %d concurrent)",
			cfg.Port, cfg.Server.WSPath, cfg.Download.Route, cfg.Download.OutDir, cfg.Download.MaxConcurrent)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Could not close connections in time: %v", err)
			return srv.Close()
		}
		return nil
	})

	serveErr := g.Wait()

	cancelEngine()
	<-engineDone
	hub.CloseAll()
	cancelRecorder()
	<-recorderDone

	log.Info("Server has been shut down.")
	return serveErr
}
