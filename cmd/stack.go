package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/panecode/internal/cachemanager"
	"github.com/zjrosen/panecode/internal/config"
	"github.com/zjrosen/panecode/internal/filedata"
	"github.com/zjrosen/panecode/internal/infrastructure/sqlite"
	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/projects"
	"github.com/zjrosen/panecode/internal/tracing"
)

// stack holds the long-lived services shared by the commands.
type stack struct {
	db        *sqlite.DB
	files     *filedata.Service
	directory *projects.Directory
	importer  *projects.Importer
	tracing   *tracing.Provider
}

// openStack opens the project database under the configured data dir and
// wires the services on top of it.
func openStack(c config.Config) (*stack, error) {
	dbPath := c.DatabasePath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sqlite.NewDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	provider, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	ttl := c.Cache.ProjectNameTTL
	if ttl <= 0 {
		ttl = config.Defaults().Cache.ProjectNameTTL
	}
	names := cachemanager.NewInMemoryCacheManager[string, string]("project-names", ttl, 2*ttl)

	log.Debug(log.CatDB, "stack opened", "db", dbPath, "tracing", provider.Enabled())
	return &stack{
		db:        db,
		files:     filedata.NewService(db.FileRepository(), filedata.WithRecoveryDir(c.RecoveryDir())),
		directory: projects.NewDirectory(db.ProjectRepository(), names, ttl),
		importer:  projects.NewImporter(db.ProjectRepository(), db.FileRepository()),
		tracing:   provider,
	}, nil
}

// Close flushes spans and closes the database.
func (s *stack) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if err := s.tracing.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down tracing: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}
	return errors.Join(errs...)
}
