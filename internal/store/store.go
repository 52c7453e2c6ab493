package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// PostgreSQL through pgx's database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// sqlitePragmas are applied to every SQLite connection.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// Store holds the database driver and provides access to repositories.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
}

// Open connects to dsn and runs auto-migration. A postgres:// or
// postgresql:// URL selects PostgreSQL; anything else is a SQLite path or
// file: URI.
func Open(dsn string) (*Store, error) {
	driverName, dialectName := "sqlite", dialect.SQLite
	if IsPostgres(dsn) {
		driverName, dialectName = "pgx", dialect.Postgres
	} else {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	drv := entsql.OpenDB(dialectName, db)
	s := &Store{db: db, drv: drv, dialect: dialectName}

	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if dialectName == dialect.SQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY
		// between our own transactions.
		db.SetMaxOpenConns(1)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return err
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return err
	}
	return seedSequence(ctx, s.drv, s.dialect)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect name.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Repos returns repositories bound to the store's connection pool.
func (s *Store) Repos() Repos {
	return s.repos(s.drv)
}

// Courses returns a CourseRepo backed by this store.
func (s *Store) Courses() CourseRepo { return s.Repos().Courses }

// Justifications returns a JustificationRepo backed by this store.
func (s *Store) Justifications() JustificationRepo { return s.Repos().Justifications }

// Audit returns an AuditRepo backed by this store.
func (s *Store) Audit() AuditRepo { return s.Repos().Audit }

// Snapshots returns a SnapshotRepo backed by this store.
func (s *Store) Snapshots() SnapshotRepo { return s.Repos().Snapshots }

// InTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(Repos) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(s.repos(tx)); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) repos(q dialect.ExecQuerier) Repos {
	b := builder{q: q, d: entsql.Dialect(s.dialect)}
	return Repos{
		Courses:        &courseRepo{builder: b},
		Justifications: &justificationRepo{builder: b},
		Audit:          &auditRepo{builder: b},
		Snapshots:      &snapshotRepo{builder: b},
	}
}

// builder pairs a connection with the statement builder of its dialect.
type builder struct {
	q dialect.ExecQuerier
	d *entsql.DialectBuilder
}

func (b builder) exec(ctx context.Context, query string, args []any) (entsql.Result, error) {
	var res entsql.Result
	if err := b.q.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (b builder) query(ctx context.Context, query string, args []any) (*entsql.Rows, error) {
	rows := &entsql.Rows{}
	if err := b.q.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// IsPostgres reports whether dsn selects PostgreSQL rather than SQLite.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// sqliteDSN appends the connection pragmas to a SQLite DSN.
func sqliteDSN(dsn string) string {
	params := url.Values{}
	for _, p := range sqlitePragmas {
		params.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + params.Encode()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. OUTLINES_DB environment variable
// 2. $XDG_DATA_HOME/outlines/outlines.db
// 3. ~/.local/share/outlines/outlines.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("OUTLINES_DB"); p != "" {
		if IsPostgres(p) {
			return p, nil
		}
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "outlines", "outlines.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
