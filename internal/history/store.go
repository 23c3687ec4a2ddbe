package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mpm/prefill/internal/store"
)

// ErrNotFound is returned when deleting a link that does not exist.
var ErrNotFound = errors.New("link not found")

// Filter narrows List, Count and Clear.
type Filter struct {
	RepoOwner string
	RepoName  string

	// Limit caps List results; zero means no limit
	Limit int
}

// Store defines the interface for link persistence.
type Store interface {
	// Record saves a generated link.
	Record(ctx context.Context, l *Link) error

	// Get retrieves a link by ID, or nil if it does not exist.
	Get(ctx context.Context, id string) (*Link, error)

	// List returns links matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]Link, error)

	// Count returns the number of links matching the filter.
	Count(ctx context.Context, filter Filter) (int, error)

	// Delete removes a link by ID.
	Delete(ctx context.Context, id string) error

	// Clear removes all links matching the filter and reports how many went.
	Clear(ctx context.Context, filter Filter) (int64, error)
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *store.DB
}

// NewSQLiteStore creates a new SQLite-backed link store.
func NewSQLiteStore(db *store.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const selectColumns = `SELECT id, repo_owner, repo_name, title, draft, url, created_at FROM links`

// Record saves a generated link.
func (s *SQLiteStore) Record(ctx context.Context, l *Link) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}

	query := `
		INSERT INTO links (id, repo_owner, repo_name, title, draft, url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		l.ID,
		l.RepoOwner,
		l.RepoName,
		l.Title,
		l.Draft,
		l.URL,
		l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record link: %w", err)
	}

	return nil
}

// Get retrieves a link by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Link, error) {
	l, err := scanLink(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return l, nil
}

// List returns links matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Link, error) {
	where, args := filter.where()

	query := selectColumns + where + " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	return links, nil
}

// Count returns the number of links matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := filter.where()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM links"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count links: %w", err)
	}
	return count, nil
}

// Delete removes a link by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// Clear removes all links matching the filter. Limit is ignored.
func (s *SQLiteStore) Clear(ctx context.Context, filter Filter) (int64, error) {
	where, args := filter.where()

	result, err := s.db.ExecContext(ctx, "DELETE FROM links"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("clear links: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return rows, nil
}

func (f Filter) where() (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.RepoOwner != "" {
		conditions = append(conditions, "repo_owner = ?")
		args = append(args, f.RepoOwner)
	}
	if f.RepoName != "" {
		conditions = append(conditions, "repo_name = ?")
		args = append(args, f.RepoName)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLink(row scanner) (*Link, error) {
	l := &Link{}
	err := row.Scan(
		&l.ID,
		&l.RepoOwner,
		&l.RepoName,
		&l.Title,
		&l.Draft,
		&l.URL,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}
