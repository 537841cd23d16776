// Package server initializes and runs the marketplace server. It prepares
// the data directory, loads the persisted state, wires the store, search
// and payment services into the TCP endpoint and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"marketd/internal/filex"
	"marketd/internal/logging"
	"marketd/internal/server/config"
	"marketd/internal/server/payments"
	"marketd/internal/server/search"
	"marketd/internal/server/store"
	"marketd/internal/server/tags"
	"marketd/internal/server/tcp"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *store.Store
	server *tcp.Server
}

func NewApp(c *config.Config) (*App, error) {

	logger, err := logging.NewZapLogger(c.Development())
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir init error: %w", err)
	}

	st := store.New(dataDir, newTagger(c, logger), logger)

	proc := payments.NewProcessor(st, logger)
	svc := search.NewService(st)
	handler := tcp.NewHandler(st, proc, svc, c.MaxSearchResults, logger)

	return &App{
		config: c,
		logger: logger,
		store:  st,
		server: tcp.NewServer(c.EndpointAddr, handler, logger),
	}, nil
}

// newTagger loads the stop-word and special-character lists. A missing or
// unreadable list file is not fatal; tagging then runs without filtering.
func newTagger(c *config.Config, logger logging.Logger) *tags.Extractor {
	e, err := tags.NewExtractor(c.StopWordsFile, c.SpecialCharsFile)
	if err != nil {
		logger.Warn(context.Background(), "tag filter lists unavailable, tagging without filtering",
			"error", err)
		return tags.NewExtractorFromLists(nil, nil)
	}
	return e
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startTCPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.store.Load(ctx); err != nil {
		app.logger.Error(ctx, "loading persisted state failed", "error", err)
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startTCPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
