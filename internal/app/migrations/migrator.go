package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/hostelpg/internal/db"
	"github.com/yigit/hostelpg/internal/pkg/logger"
)

// Migrator manages database migrations
type Migrator struct {
	db db.TxBeginner
}

// NewMigrator creates a new migrator
func NewMigrator(conn db.TxBeginner) *Migrator {
	return &Migrator{
		db: conn,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// Version extracts the version prefix of a migration file ("001_init.sql" => "001")
func Version(filename string) string {
	return strings.SplitN(filepath.Base(filename), "_", 2)[0]
}

// Apply runs one migration script and records its version in the same transaction
func (m *Migrator) Apply(ctx context.Context, version, script string) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		logger.Debug().Str("version", version).Msg("Migration already applied, skipping")
		return nil
	}

	err = db.WithTransaction(ctx, m.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, script); err != nil {
			return fmt.Errorf("error occurred during SQL migration execution: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("migration %s: %w", version, err)
	}

	logger.Info().Str("version", version).Msg("Migration applied")
	return nil
}

// MigrateFromFile executes SQL statements from a file
func (m *Migrator) MigrateFromFile(ctx context.Context, filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}
	return m.Apply(ctx, Version(filePath), string(content))
}

// MigrateFromDirectory finds and executes all SQL files in a directory in lexical order
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		if err := m.MigrateFromFile(ctx, filepath.Join(dirPath, file)); err != nil {
			return err
		}
	}

	logger.Info().Int("files", len(sqlFiles)).Str("dir", dirPath).Msg("Database migrations complete")
	return nil
}
