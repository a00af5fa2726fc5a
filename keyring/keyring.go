// Package keyring stores named deck keys in a SQLite database.
package keyring

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"spider-cipher/deck"
	"spider-cipher/keys"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrNotFound reports a name with no stored key.
	ErrNotFound = errors.New("keyring: key not found")
	// ErrExists reports a name that is already taken.
	ErrExists = errors.New("keyring: key already exists")
)

// Entry describes a stored key without its cards.
type Entry struct {
	Name        string    `json:"name"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

// Keyring is a SQLite-backed key store. It is safe for concurrent use.
type Keyring struct {
	db *sql.DB
}

// Open opens (creating if needed) the keyring at path and applies pending
// migrations. ":memory:" opens a private in-memory keyring.
func Open(path string) (*Keyring, error) {
	if path == "" {
		return nil, fmt.Errorf("keyring: path is required")
	}
	if looksLikeFilePath(path) {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("mkdir keyring dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Keyring{db: db}, nil
}

// Close releases the database.
func (k *Keyring) Close() error {
	return k.db.Close()
}

// Put stores d under name.
func (k *Keyring) Put(ctx context.Context, name string, d *deck.Deck) error {
	if name == "" {
		return fmt.Errorf("keyring: empty name")
	}
	if err := d.Check(); err != nil {
		return fmt.Errorf("keyring: put %q: %w", name, err)
	}
	cards := d.Cards()
	blob := make([]byte, deck.Cards)
	for i, c := range cards {
		blob[i] = byte(c)
	}
	_, err := k.db.ExecContext(ctx,
		`INSERT INTO keys(name, cards, fingerprint, created_at) VALUES (?, ?, ?, ?)`,
		name, blob, keys.Fingerprint(d), time.Now().UTC())
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %q", ErrExists, name)
		}
		return fmt.Errorf("keyring: put %q: %w", name, err)
	}
	return nil
}

// Get loads the key stored under name and verifies it.
func (k *Keyring) Get(ctx context.Context, name string) (deck.Deck, error) {
	var blob []byte
	var fp string
	err := k.db.QueryRowContext(ctx,
		`SELECT cards, fingerprint FROM keys WHERE name = ?`, name).Scan(&blob, &fp)
	if err == sql.ErrNoRows {
		return deck.Deck{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return deck.Deck{}, fmt.Errorf("keyring: get %q: %w", name, err)
	}
	cards := make([]deck.Card, len(blob))
	for i, b := range blob {
		cards[i] = deck.Card(b)
	}
	d, err := deck.FromCards(cards)
	if err != nil {
		return deck.Deck{}, fmt.Errorf("keyring: get %q: %w", name, err)
	}
	if got := keys.Fingerprint(&d); got != fp {
		d.Clear()
		return deck.Deck{}, fmt.Errorf("keyring: get %q: %w", name, keys.ErrFingerprint)
	}
	return d, nil
}

// List returns every stored key ordered by name.
func (k *Keyring) List(ctx context.Context) ([]Entry, error) {
	rows, err := k.db.QueryContext(ctx,
		`SELECT name, fingerprint, created_at FROM keys ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("keyring: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Fingerprint, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("keyring: scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("keyring: iterate entries: %w", err)
	}
	return out, nil
}

// Delete removes the key stored under name.
func (k *Keyring) Delete(ctx context.Context, name string) error {
	res, err := k.db.ExecContext(ctx, `DELETE FROM keys WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("keyring: delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("keyring: delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return path
	}
	return fmt.Sprintf("file:%s?_busy_timeout=5000", path)
}

func looksLikeFilePath(p string) bool {
	return p != ":memory:" && !strings.HasPrefix(p, "file:")
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	applied := map[string]bool{}
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate migration versions: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("readdir migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, m := range names {
		if applied[m] {
			continue
		}
		body, err := fs.ReadFile(migrationsFS, "migrations/"+m)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", m, err)
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		for _, stmt := range strings.Split(string(body), ";") {
			if stmt = strings.TrimSpace(stmt); stmt == "" {
				continue
			}
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("apply migration %s: %w", m, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, m); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", m, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", m, err)
		}
	}
	return nil
}
