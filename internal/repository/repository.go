package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

// ErrCursorOutOfSync is returned when a publish acknowledgement does not
// match the next unpublished receipt.
var ErrCursorOutOfSync = errors.New("sales cursor out of sync")

// Storage keys. The whole collection under each key is rewritten on every
// mutation, mirroring the original single-key persistence records.
const (
	cartKey        = "cart"
	salesKey       = "sales"
	salesCursorKey = "sales_cursor"
)

// Repository is the durable key-value store backing the cart and the sales
// log. It is process-local and assumes a single writer.
type Repository struct {
	db *sql.DB
}

// CartRepository is the persistence surface the cart ledger needs.
type CartRepository interface {
	LoadCart(ctx context.Context) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart *domain.Cart) error
}

// SalesRepository is the persistence surface for the sales log and the
// outbox cursor.
type SalesRepository interface {
	AppendReceipt(ctx context.Context, receipt *domain.Receipt) error
	AllReceipts(ctx context.Context) ([]domain.Receipt, error)
	UnpublishedReceipts(ctx context.Context, limit int) ([]domain.Receipt, error)
	MarkReceiptPublished(ctx context.Context, transactionID string) error
}

// NewRepository opens (or creates) the sqlite database at dbPath.
/// Use ":memory:" in tests.
func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Single writer; more connections only invite SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	return &Repository{db: db}, nil
}

// RunMigrations applies the SQL migrations from the given directory.
func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) getValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

func (r *Repository) setValue(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}
