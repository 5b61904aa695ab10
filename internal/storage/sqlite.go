// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/notewell/techou/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS notebooks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS pages (
		id TEXT PRIMARY KEY,
		notebook_id TEXT NOT NULL,
		name TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (notebook_id, name),
		FOREIGN KEY (notebook_id) REFERENCES notebooks(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_pages_notebook_position ON pages(notebook_id, position);

	CREATE TABLE IF NOT EXISTS weights (
		word TEXT PRIMARY KEY,
		weight REAL NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateNotebook inserts a notebook.
func (s *SQLiteStorage) CreateNotebook(ctx context.Context, nb *models.Notebook) error {
	now := time.Now()
	nb.CreatedAt = now
	nb.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notebooks (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		nb.ID, nb.Name, nb.CreatedAt, nb.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: notebook %q", ErrDuplicateName, nb.Name)
	}
	return err
}

// GetNotebook returns a notebook by ID.
func (s *SQLiteStorage) GetNotebook(ctx context.Context, id string) (*models.Notebook, error) {
	return s.scanNotebook(s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM notebooks WHERE id = ?`, id), id)
}

// GetNotebookByName returns a notebook by its unique name.
func (s *SQLiteStorage) GetNotebookByName(ctx context.Context, name string) (*models.Notebook, error) {
	return s.scanNotebook(s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM notebooks WHERE name = ?`, name), name)
}

func (s *SQLiteStorage) scanNotebook(row *sql.Row, key string) (*models.Notebook, error) {
	var nb models.Notebook
	err := row.Scan(&nb.ID, &nb.Name, &nb.CreatedAt, &nb.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: notebook %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return &nb, nil
}

// ListNotebooks returns all notebooks in creation order.
func (s *SQLiteStorage) ListNotebooks(ctx context.Context) ([]*models.Notebook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM notebooks ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notebooks []*models.Notebook
	for rows.Next() {
		var nb models.Notebook
		if err := rows.Scan(&nb.ID, &nb.Name, &nb.CreatedAt, &nb.UpdatedAt); err != nil {
			return nil, err
		}
		notebooks = append(notebooks, &nb)
	}
	return notebooks, rows.Err()
}

// RenameNotebook changes a notebook's name.
func (s *SQLiteStorage) RenameNotebook(ctx context.Context, id, name string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notebooks SET name = ?, updated_at = ? WHERE id = ?`, name, time.Now(), id)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: notebook %q", ErrDuplicateName, name)
	}
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: notebook %s", ErrNotFound, id)
	}
	return nil
}

// DeleteNotebook removes a notebook and, via cascade, its pages.
func (s *SQLiteStorage) DeleteNotebook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notebooks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: notebook %s", ErrNotFound, id)
	}
	return nil
}

// CreatePage inserts a page at the end of its notebook's order.
func (s *SQLiteStorage) CreatePage(ctx context.Context, page *models.Page) error {
	now := time.Now()
	page.CreatedAt = now
	page.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM pages WHERE notebook_id = ?`,
		page.NotebookID,
	).Scan(&page.Position); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pages (id, notebook_id, name, text, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		page.ID, page.NotebookID, page.Name, page.Text, page.Position, page.CreatedAt, page.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: page %q", ErrDuplicateName, page.Name)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetPage returns a page by ID.
func (s *SQLiteStorage) GetPage(ctx context.Context, id string) (*models.Page, error) {
	return s.scanPage(s.db.QueryRowContext(ctx,
		`SELECT id, notebook_id, name, text, position, created_at, updated_at
		 FROM pages WHERE id = ?`, id), id)
}

// GetPageByName returns a page by its name within a notebook.
func (s *SQLiteStorage) GetPageByName(ctx context.Context, notebookID, name string) (*models.Page, error) {
	return s.scanPage(s.db.QueryRowContext(ctx,
		`SELECT id, notebook_id, name, text, position, created_at, updated_at
		 FROM pages WHERE notebook_id = ? AND name = ?`, notebookID, name), name)
}

func (s *SQLiteStorage) scanPage(row *sql.Row, key string) (*models.Page, error) {
	var page models.Page
	err := row.Scan(&page.ID, &page.NotebookID, &page.Name, &page.Text,
		&page.Position, &page.CreatedAt, &page.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: page %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPages returns a notebook's pages in insertion order.
func (s *SQLiteStorage) ListPages(ctx context.Context, notebookID string) ([]*models.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, notebook_id, name, text, position, created_at, updated_at
		 FROM pages WHERE notebook_id = ? ORDER BY position`, notebookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*models.Page
	for rows.Next() {
		var page models.Page
		if err := rows.Scan(&page.ID, &page.NotebookID, &page.Name, &page.Text,
			&page.Position, &page.CreatedAt, &page.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, &page)
	}
	return pages, rows.Err()
}

// UpdatePageText replaces a page's body.
func (s *SQLiteStorage) UpdatePageText(ctx context.Context, id, text string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE pages SET text = ?, updated_at = ? WHERE id = ?`, text, time.Now(), id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: page %s", ErrNotFound, id)
	}
	return nil
}

// RenamePage changes a page's name within its notebook.
func (s *SQLiteStorage) RenamePage(ctx context.Context, id, name string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE pages SET name = ?, updated_at = ? WHERE id = ?`, name, time.Now(), id)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: page %q", ErrDuplicateName, name)
	}
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: page %s", ErrNotFound, id)
	}
	return nil
}

// DeletePage removes a page by ID.
func (s *SQLiteStorage) DeletePage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: page %s", ErrNotFound, id)
	}
	return nil
}

// GetWeights returns all persisted word weights.
func (s *SQLiteStorage) GetWeights(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT word, weight FROM weights`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var word string
		var weight float64
		if err := rows.Scan(&word, &weight); err != nil {
			return nil, err
		}
		weights[word] = weight
	}
	return weights, rows.Err()
}

// SetWeight upserts a word's weight.
func (s *SQLiteStorage) SetWeight(ctx context.Context, word string, weight float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weights (word, weight) VALUES (?, ?)
		 ON CONFLICT(word) DO UPDATE SET weight = excluded.weight`,
		strings.ToLower(word), weight)
	return err
}

// DeleteWeight removes a word's persisted weight.
func (s *SQLiteStorage) DeleteWeight(ctx context.Context, word string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM weights WHERE word = ?`, strings.ToLower(word))
	return err
}

// CountNotebooks returns the number of notebooks.
func (s *SQLiteStorage) CountNotebooks(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notebooks`).Scan(&n)
	return n, err
}

// CountPages returns the number of pages across all notebooks.
func (s *SQLiteStorage) CountPages(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
