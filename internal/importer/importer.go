// Package importer ingests plain-text files into a notebook, one page per
// file, and keeps the notebook in sync with watched directories.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/notewell/techou/internal/models"
	"github.com/notewell/techou/internal/storage"
)

const defaultWorkers = 4

// Importer imports text files as pages of a target notebook.
// The page name is the file name without its extension; the page body is
// the file contents. Re-importing an existing page replaces its body.
type Importer struct {
	store      storage.Storage
	notebook   string
	extensions []string
	workers    int
	logger     *zap.Logger // optional; when set, logs debug events
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets a logger for debug output (file imported, page removed, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(imp *Importer) { imp.logger = l }
}

// WithWorkers sets the bulk import concurrency.
func WithWorkers(n int) Option {
	return func(imp *Importer) {
		if n > 0 {
			imp.workers = n
		}
	}
}

// New creates an importer targeting the named notebook. extensions filters
// which files are imported (empty = all).
func New(store storage.Storage, notebook string, extensions []string, opts ...Option) *Importer {
	imp := &Importer{
		store:      store,
		notebook:   notebook,
		extensions: extensions,
		workers:    defaultWorkers,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// ImportFile imports one file as a page, creating the target notebook on
// first use. An existing page with the same name gets its body replaced.
func (imp *Importer) ImportFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	nb, err := imp.ensureNotebook(ctx)
	if err != nil {
		return err
	}

	name := pageName(path)
	existing, err := imp.store.GetPageByName(ctx, nb.ID, name)
	switch {
	case err == nil:
		if existing.Text == string(data) {
			return nil
		}
		if err := imp.store.UpdatePageText(ctx, existing.ID, string(data)); err != nil {
			return err
		}
	case errors.Is(err, storage.ErrNotFound):
		page := &models.Page{
			ID:         uuid.NewString(),
			NotebookID: nb.ID,
			Name:       name,
			Text:       string(data),
		}
		if err := imp.store.CreatePage(ctx, page); err != nil {
			return err
		}
	default:
		return err
	}

	if imp.logger != nil {
		imp.logger.Debug("imported file", zap.String("path", path), zap.String("page", name))
	}
	return nil
}

// RemoveFile deletes the page previously imported from path, if any.
func (imp *Importer) RemoveFile(ctx context.Context, path string) error {
	nb, err := imp.store.GetNotebookByName(ctx, imp.notebook)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	page, err := imp.store.GetPageByName(ctx, nb.ID, pageName(path))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if imp.logger != nil {
		imp.logger.Debug("removing page for deleted file", zap.String("path", path), zap.String("page", page.Name))
	}
	return imp.store.DeletePage(ctx, page.ID)
}

// ImportDir walks dir and imports every matching file, using a bounded
// worker pool. Non-matching files and subdirectories (when recursive is
// false) are skipped. The first failing file aborts the walk.
func (imp *Importer) ImportDir(ctx context.Context, dir string, recursive bool) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.workers)

	root := filepath.Clean(dir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !matchExtension(path, imp.extensions) {
			return nil
		}
		g.Go(func() error {
			return imp.ImportFile(ctx, path)
		})
		return nil
	})
	if err != nil {
		_ = g.Wait()
		return err
	}
	return g.Wait()
}

func pageName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

func (imp *Importer) ensureNotebook(ctx context.Context) (*models.Notebook, error) {
	nb, err := imp.store.GetNotebookByName(ctx, imp.notebook)
	if err == nil {
		return nb, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	nb = &models.Notebook{ID: uuid.NewString(), Name: imp.notebook}
	if createErr := imp.store.CreateNotebook(ctx, nb); createErr != nil {
		// Lost a race with another creator; re-read.
		if errors.Is(createErr, storage.ErrDuplicateName) {
			return imp.store.GetNotebookByName(ctx, imp.notebook)
		}
		return nil, createErr
	}
	return nb, nil
}
