// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/logging"
	"github.com/aydinaksel/clive-fixtures/internal/store"
)

// App holds the shared, long-lived services for the application. It is
// initialized once at startup and passed to the commands that need it.
type App struct {
	logger *zap.Logger
	store  *store.Store
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetStore provides access to the fixture database.
func (a *App) GetStore() *store.Store {
	return a.store
}

// NewApp creates and initializes a new App based on the application's
// configuration. It fails fast if the database cannot be opened.
func NewApp(ctx context.Context) (*App, error) {
	l := logging.L
	l.Info("Initializing application services...")

	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		return nil, fmt.Errorf("database.path is not set")
	}
	st, err := store.Open(dbPath, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	l.Info("Opened fixture database", zap.String("path", dbPath))

	return &App{logger: l, store: st}, nil
}

// Close releases the App's resources.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
