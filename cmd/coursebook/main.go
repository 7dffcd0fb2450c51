package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"coursebook/internal/codec"
	"coursebook/internal/config"
	"coursebook/internal/domain"
	"coursebook/internal/handler"
	"coursebook/internal/hub"
	"coursebook/internal/repository/sqlite"
	"coursebook/internal/service"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath string
		addr       string
		dbPath     string
		logLevel   string
		logFormat  string
		seedPath   string
		initConfig bool
	)

	flagSet := pflag.NewFlagSet("coursebook", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "config file (default: search "+config.EnvConfigPath+" and standard locations)")
	flagSet.StringVar(&addr, "addr", config.DefaultAddr, "HTTP listen address")
	flagSet.StringVar(&dbPath, "db", config.DefaultDatabasePath, "SQLite database path")
	flagSet.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flagSet.StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (text, json)")
	flagSet.StringVar(&seedPath, "seed", "", "YAML roster to import when the database is empty")
	flagSet.BoolVar(&initConfig, "init-config", false, "write a default config file and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if initConfig {
		path := configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", path)
		return nil
	}

	cfg, loadedFrom, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Flags given explicitly win over the file
	if flagSet.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flagSet.Changed("db") {
		cfg.Database.Path = dbPath
	}
	if flagSet.Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(logLevel)
	}
	if flagSet.Changed("log-format") {
		cfg.Logging.Format = strings.ToLower(logFormat)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Logging.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	if loadedFrom != "" {
		logger.Info("config loaded", "path", loadedFrom)
	}
	logger.Info("starting coursebook", "config", cfg.Summary())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, seedPath, logger)
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func serve(ctx context.Context, cfg *config.Config, seedPath string, logger *slog.Logger) error {
	registry, err := service.NewSubjectRegistry()
	if err != nil {
		return err
	}
	courses := codec.NewAttribute[domain.Subject](registry, logger.With("component", "codec"))

	repo, err := sqlite.New(cfg.Database.Path, courses, logger.With("component", "repository"))
	if err != nil {
		return err
	}
	defer repo.Close()
	logger.Info("database opened", "path", cfg.Database.Path, "course_types", registry.Tags())

	eventBus := service.NewEventBus()

	// SSE hub
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	sseHub := hub.New(logger.With("component", "hub"))
	go sseHub.Run(hubCtx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-hubCtx.Done():
				return
			}
		}
	}()

	studentSvc := service.NewStudentService(repo, courses, eventBus, logger.With("component", "service"))
	if seedPath != "" {
		if err := seed(ctx, studentSvc, seedPath, logger); err != nil {
			return err
		}
	}

	studentHandler := handler.NewStudentHandler(studentSvc, logger.With("component", "handler"))

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.NewRouter(studentHandler, sseHub, logger.With("component", "http")),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	// Closing the hub ends open SSE streams so Shutdown can finish.
	hubCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// seed imports the roster at path unless students already exist
func seed(ctx context.Context, svc *service.StudentService, path string, logger *slog.Logger) error {
	existing, err := svc.ListStudents(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("database not empty, skipping seed", "path", path, "students", len(existing))
		return nil
	}

	result, err := svc.ImportFile(ctx, path)
	if err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	logger.Info("database seeded", "path", path, "created", result.Created)
	return nil
}
