package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// LatestVersion asks Migrate to apply every migration.
const LatestVersion = -1

// MigrationResult describes what Migrate did.
type MigrationResult struct {
	From    uint
	To      uint
	Changed bool
}

// Migrate brings the schema to targetVersion.
//   - targetVersion < 0 migrates to the latest version.
//   - targetVersion == 0 rolls every migration back.
//   - targetVersion > 0 migrates up or down to that version.
func Migrate(ctx context.Context, backend Backend, dsn string, targetVersion int, logger *zap.Logger) (MigrationResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := openDB(backend, dsn)
	if err != nil {
		return MigrationResult{}, err
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return MigrationResult{}, fmt.Errorf("ping %s database: %w", backend, err)
	}

	var driver database.Driver
	switch backend {
	case SQLite:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case Postgres:
		driver, err = pgx.WithInstance(db, &pgx.Config{})
	case MySQL:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("create %s migrate driver: %w", backend, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return MigrationResult{}, fmt.Errorf("access migrations directory: %w", err)
	}

	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return MigrationResult{}, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(backend), driver)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = migrateLogger{logger: logger}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("get current migration version: %w", err)
	}
	if dirty {
		return MigrationResult{}, fmt.Errorf("database is in a dirty state at version %d. Fix it manually or force the version", current)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}

	result := MigrationResult{From: current, To: current}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration needed", zap.Uint("version", current))
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("migrate to version %d: %w", targetVersion, err)
	}

	to, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("get migrated version: %w", err)
	}
	result.To = to
	result.Changed = true

	logger.Info("database migrated",
		zap.String("backend", string(backend)),
		zap.Uint("from", result.From),
		zap.Uint("to", result.To),
	)
	return result, nil
}

// migrateLogger forwards golang-migrate's verbose output to zap.
type migrateLogger struct {
	logger *zap.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.Core().Enabled(zap.DebugLevel)
}
