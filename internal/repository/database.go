package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Evgen-Mutagen/tapcash/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

var (
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrDuplicateLogin    = errors.New("login already taken")
)

// Database owns the Postgres connection pool shared by the repositories.
type Database struct {
	db *sql.DB
}

type DatabaseConfig struct {
	DSN string
	// MigrationsPath overrides the migrations compiled into the binary.
	// Empty means embedded.
	MigrationsPath string
}

// NewDatabase connects, verifies the connection and brings the schema up to
// date. The pool is closed again on any failure.
func NewDatabase(ctx context.Context, cfg DatabaseConfig) (*Database, error) {
	src, err := migrationSource(cfg.MigrationsPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	database := &Database{db: db}
	if err := database.init(ctx, src); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

func (d *Database) init(ctx context.Context, src source.Driver) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.db.PingContext(pingCtx); err != nil {
		src.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := d.migrate(src); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// migrationSource reads the embedded migrations, or the directory at path
// when one is given.
func migrationSource(path string) (source.Driver, error) {
	var fsys fs.FS = migrations.FS
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
		}
		info, err := os.Stat(absPath)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("migrations directory does not exist: %s", absPath)
		}
		fsys = os.DirFS(absPath)
	}

	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	return src, nil
}

// migrate takes ownership of src.
func (d *Database) migrate(src source.Driver) error {
	driver, err := postgres.WithInstance(d.db, &postgres.Config{})
	if err != nil {
		src.Close()
		return fmt.Errorf("failed to create driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		src.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return d.db.BeginTx(ctx, nil)
}
