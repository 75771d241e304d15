// Package app initializes and runs the StudyDesk service.
// It configures logging, storage, authentication, the HTTP and gRPC servers,
// and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/patric-chuzhbe/studydesk/internal/assignmentgen"
	"github.com/patric-chuzhbe/studydesk/internal/auth"
	"github.com/patric-chuzhbe/studydesk/internal/bookmarkflusher"
	"github.com/patric-chuzhbe/studydesk/internal/chatbot"
	"github.com/patric-chuzhbe/studydesk/internal/config"
	"github.com/patric-chuzhbe/studydesk/internal/db/jsondb"
	"github.com/patric-chuzhbe/studydesk/internal/db/memorystorage"
	"github.com/patric-chuzhbe/studydesk/internal/db/postgresdb"
	"github.com/patric-chuzhbe/studydesk/internal/grpcserver"
	"github.com/patric-chuzhbe/studydesk/internal/ipchecker"
	"github.com/patric-chuzhbe/studydesk/internal/logger"
	"github.com/patric-chuzhbe/studydesk/internal/metrics"
	"github.com/patric-chuzhbe/studydesk/internal/models"
	"github.com/patric-chuzhbe/studydesk/internal/router"
	"github.com/patric-chuzhbe/studydesk/internal/service"
	"github.com/patric-chuzhbe/studydesk/internal/uploads"
)

const (
	bookmarkErrorsCapacity = 16
	shutdownTimeout        = 10 * time.Second
)

type storage interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

type bookmarkSaver interface {
	SaveBookmarks(ctx context.Context, batch map[string]map[string]float64) error
}

// countingSaver records the outcome of every bookmark flush.
type countingSaver struct {
	bookmarkSaver
	metrics *metrics.Metrics
}

func (s countingSaver) SaveBookmarks(ctx context.Context, batch map[string]map[string]float64) error {
	err := s.bookmarkSaver.SaveBookmarks(ctx, batch)
	s.metrics.BookmarkFlushesTotal.WithLabelValues(metrics.Result(err)).Inc()
	return err
}

// App holds the configuration, storage, servers and the bookmark flusher.
type App struct {
	cfg          *config.Config
	db           storage
	flusher      *bookmarkflusher.BookmarkFlusher
	stopFlusher  context.CancelFunc
	httpHandler  http.Handler
	grpcServer   *grpc.Server
	grpcListener net.Listener
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up storage
// - starting the bookmark flusher
// - setting up the router and the gRPC server
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	sessionKey, insecure := app.cfg.SessionKey()
	if insecure {
		logger.Log.Warnln("SESSION_SECRET_KEY is not set, sessions are signed with the built-in development key")
	}
	authenticator := auth.New(app.cfg.SessionCookieName, sessionKey)

	ipChecker, err := ipchecker.New(app.cfg.TrustedSubnet)
	if err != nil {
		return nil, err
	}

	files, err := uploads.New(app.cfg.UploadsDir)
	if err != nil {
		return nil, err
	}

	svc := service.New(app.db)
	bot := chatbot.New()

	if app.cfg.OpenAIAPIKey == "" {
		logger.Log.Warnln("OPENAI_API_KEY is not set, generated assignments will carry an error placeholder")
	}
	generator := assignmentgen.New(app.cfg.OpenAIAPIKey, app.cfg.OpenAIModel, app.cfg.GenerationTimeout)

	app.flusher = bookmarkflusher.New(
		countingSaver{bookmarkSaver: svc, metrics: metrics.New()},
		bookmarkErrorsCapacity,
		app.cfg.BookmarkFlushInterval,
	)
	flusherRunCtx, stopFlusher := context.WithCancel(context.Background())
	app.stopFlusher = stopFlusher
	app.flusher.Run(flusherRunCtx)
	app.flusher.ListenErrors(func(err error) {
		logger.Log.Errorw("Error passed from the `app.flusher.ListenErrors()`", zap.Error(err))
	})

	app.httpHandler = router.New(
		app.db,
		authenticator,
		ipChecker,
		svc,
		files,
		generator,
		app.flusher,
		bot,
		app.cfg.MaxUploadSize,
	)

	if app.cfg.GRPCAddr != "" {
		app.grpcServer, app.grpcListener, err = grpcserver.NewGRPCServer(
			app.cfg.GRPCAddr,
			grpcserver.NewStudyDeskHandler(svc, bot, app.db),
			authenticator,
			ipChecker,
		)
		if err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Run starts the HTTP server, and the gRPC server when configured, with
// graceful shutdown support. Pending bookmarks are flushed before the store is closed.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 2)
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	if a.grpcServer != nil {
		logger.Log.Infoln("gRPC server running", "GRPCAddr", a.cfg.GRPCAddr)
		go func() {
			if err := a.grpcServer.Serve(a.grpcListener); err != nil {
				serverErrCh <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Flushing bookmarks and exiting...")
	case err := <-serverErrCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	return errors.Join(runErr, a.shutdown(server))
}

func (a *App) shutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}

	a.stopFlusher()
	if err := a.flusher.Flush(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("bookmark flush error: %w", err))
	}

	if err := a.db.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DataDir != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DataDir)
	}

	return memorystorage.New()
}
