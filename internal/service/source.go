package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rpattn/apiconf/internal/apiconfig"
	"github.com/rpattn/apiconf/internal/domain"
	"github.com/rpattn/apiconf/internal/repository"
)

// ErrEntityNotConfigured is returned when no source holds configuration for a class.
var ErrEntityNotConfigured = errors.New("entity is not configured")

// Source provides the raw configuration documents of entity classes.
type Source interface {
	// Document returns the raw configuration of class, or ErrEntityNotConfigured.
	Document(ctx context.Context, class string) (map[string]any, error)
	Classes(ctx context.Context) ([]string, error)
}

// FileSource serves configuration read from YAML files. Files are merged in
// path order; later files override earlier ones.
type FileSource struct {
	doc apiconfig.Document
}

var _ Source = (*FileSource)(nil)

// NewFileSource reads the given files. Directories contribute every *.yml and
// *.yaml file they directly contain.
func NewFileSource(paths ...string) (*FileSource, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config path: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		for _, pattern := range []string{"*.yml", "*.yaml"} {
			matches, err := filepath.Glob(filepath.Join(path, pattern))
			if err != nil {
				return nil, fmt.Errorf("failed to list config files: %w", err)
			}
			sort.Strings(matches)
			files = append(files, matches...)
		}
	}

	docs := make([]apiconfig.Document, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		doc, err := apiconfig.ParseDocument(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		docs = append(docs, doc)
	}

	merged, err := apiconfig.MergeDocuments(docs...)
	if err != nil {
		return nil, err
	}
	return &FileSource{doc: merged}, nil
}

// NewDocumentSource serves an already parsed document.
func NewDocumentSource(doc apiconfig.Document) *FileSource {
	if doc == nil {
		doc = apiconfig.Document{}
	}
	return &FileSource{doc: doc}
}

// Entities returns the merged document.
func (s *FileSource) Entities() apiconfig.Document {
	return s.doc
}

func (s *FileSource) Document(_ context.Context, class string) (map[string]any, error) {
	raw, ok := s.doc[class]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotConfigured, class)
	}
	return raw, nil
}

func (s *FileSource) Classes(context.Context) ([]string, error) {
	return s.doc.Classes(), nil
}

// RepositorySource serves configuration documents stored in the database.
type RepositorySource struct {
	repo repository.EntityConfigRepository
}

var _ Source = (*RepositorySource)(nil)

// NewRepositorySource creates a source backed by repo.
func NewRepositorySource(repo repository.EntityConfigRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

func (s *RepositorySource) Document(ctx context.Context, class string) (map[string]any, error) {
	stored, err := s.repo.GetByClass(ctx, class)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotConfigured, class)
	}
	if err != nil {
		return nil, err
	}
	return stored.Document, nil
}

func (s *RepositorySource) Classes(ctx context.Context) ([]string, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	classes := make([]string, 0, len(stored))
	for _, cfg := range stored {
		classes = append(classes, cfg.ClassName)
	}
	return classes, nil
}

// Import stores every class of doc in the repository, replacing existing documents.
func (s *RepositorySource) Import(ctx context.Context, doc apiconfig.Document) ([]domain.StoredEntityConfig, error) {
	saved := make([]domain.StoredEntityConfig, 0, len(doc))
	for _, class := range doc.Classes() {
		cfg, err := s.repo.Save(ctx, domain.StoredEntityConfig{ClassName: class, Document: doc[class]})
		if err != nil {
			return nil, err
		}
		saved = append(saved, cfg)
	}
	return saved, nil
}
