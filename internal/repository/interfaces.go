package repository

import (
	"context"

	"github.com/rpattn/apiconf/internal/domain"
)

// EntityConfigRepository stores the raw configuration documents of entity classes.
type EntityConfigRepository interface {
	// Save inserts or replaces the document of cfg.ClassName.
	Save(ctx context.Context, cfg domain.StoredEntityConfig) (domain.StoredEntityConfig, error)
	GetByClass(ctx context.Context, className string) (domain.StoredEntityConfig, error)
	List(ctx context.Context) ([]domain.StoredEntityConfig, error)
	Delete(ctx context.Context, className string) error
}
