// Package storage defines the persistence interface for notebooks, pages,
// and word weights.
package storage

import (
	"context"
	"errors"

	"github.com/notewell/techou/internal/models"
)

var (
	// ErrNotFound is returned when a notebook or page does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a name is already taken within its scope.
	ErrDuplicateName = errors.New("duplicate name")
)

// Storage defines notebook, page, and weight persistence operations.
type Storage interface {
	// Notebook operations
	CreateNotebook(ctx context.Context, nb *models.Notebook) error
	GetNotebook(ctx context.Context, id string) (*models.Notebook, error)
	GetNotebookByName(ctx context.Context, name string) (*models.Notebook, error)
	ListNotebooks(ctx context.Context) ([]*models.Notebook, error)
	RenameNotebook(ctx context.Context, id, name string) error
	DeleteNotebook(ctx context.Context, id string) error

	// Page operations. ListPages returns pages in insertion order, which is
	// the order searches and counts scan them in.
	CreatePage(ctx context.Context, page *models.Page) error
	GetPage(ctx context.Context, id string) (*models.Page, error)
	GetPageByName(ctx context.Context, notebookID, name string) (*models.Page, error)
	ListPages(ctx context.Context, notebookID string) ([]*models.Page, error)
	UpdatePageText(ctx context.Context, id, text string) error
	RenamePage(ctx context.Context, id, name string) error
	DeletePage(ctx context.Context, id string) error

	// Weight operations: the persistent form of the user's weight table.
	GetWeights(ctx context.Context) (map[string]float64, error)
	SetWeight(ctx context.Context, word string, weight float64) error
	DeleteWeight(ctx context.Context, word string) error

	// Stats
	CountNotebooks(ctx context.Context) (int64, error)
	CountPages(ctx context.Context) (int64, error)

	Close() error
}
