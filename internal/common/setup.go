package common

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ecoscore-go/internal/api"
	"ecoscore-go/internal/catalog"
	"ecoscore-go/internal/config"
	"ecoscore-go/internal/csvstore"
	"ecoscore-go/internal/database"
	"ecoscore-go/internal/models"
	"ecoscore-go/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can also be set via shell export, docker, etc.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store   store.Store
	Catalog *catalog.Catalog
	Api     *api.Service
}

// InitializeLogger builds the global logger from LOG_LEVEL and LOG_DEV
func InitializeLogger() (*zap.Logger, func()) {
	logger, err := newLogger(config.LoadLog())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func newLogger(cfg models.LogConfig) (*zap.Logger, error) {
	level := levelFromString(cfg.Level)
	if cfg.Dev {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(level)
		return c.Build()
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(level)
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return c.Build()
}

func levelFromString(l string) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitializeServices opens the configured store and builds the api service.
// It does not run the startup rollover; see Start.
func InitializeServices(ctx context.Context, cfg *models.Config, opts ...api.Option) (*Services, error) {
	st, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		st.Close()
		return nil, err
	}

	opts = append([]api.Option{api.WithRolloverPeriod(cfg.Rollover.PeriodDays)}, opts...)
	services := &Services{
		Store:   st,
		Catalog: cat,
		Api:     api.NewService(st, cat, opts...),
	}

	if cfg.CreateDemoUsers {
		SeedDemoUsers(ctx, services.Api)
	} else {
		zap.L().Debug("Skipping demo user creation (CREATE_DEMO_USERS=false)")
	}

	return services, nil
}

// OpenStore opens the SQLite or CSV backend named by cfg.Backend
func OpenStore(ctx context.Context, cfg models.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendCSV:
		zap.L().Info("Opening CSV store", zap.String("dir", cfg.CSVDir))
		st, err := csvstore.New(cfg.CSVDir, time.Now())
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.BackendSQLite, "":
		st, err := database.NewService(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Start runs any rollover that became due while nothing was running
func (s *Services) Start(ctx context.Context) error {
	result, err := s.Api.Start(ctx)
	if err != nil {
		return fmt.Errorf("startup rollover failed: %w", err)
	}
	if result.Ran {
		zap.L().Info("Startup rollover performed",
			zap.String("snapshot_date", result.Date.String()),
			zap.Int("archived", result.Archived))
	}
	return nil
}

func (s *Services) Close() {
	if s.Store != nil {
		s.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
