package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rpattn/apiconf/internal/domain"
)

// ErrNotFound is returned when no configuration is stored for a class.
var ErrNotFound = errors.New("entity config not found")

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const entityConfigColumns = `id, class_name, document, created_at, updated_at`

const upsertEntityConfig = `
INSERT INTO api_entity_configs (id, class_name, document)
VALUES ($1, $2, $3)
ON CONFLICT (class_name) DO UPDATE
SET document = EXCLUDED.document, updated_at = NOW()
RETURNING ` + entityConfigColumns

const getEntityConfigByClass = `
SELECT ` + entityConfigColumns + `
FROM api_entity_configs
WHERE class_name = $1`

const listEntityConfigs = `
SELECT ` + entityConfigColumns + `
FROM api_entity_configs
ORDER BY class_name`

const deleteEntityConfig = `DELETE FROM api_entity_configs WHERE class_name = $1`

type entityConfigRepository struct {
	db DBTX
}

// NewEntityConfigRepository wires a repository over the api_entity_configs table.
func NewEntityConfigRepository(db DBTX) EntityConfigRepository {
	return &entityConfigRepository{db: db}
}

func (r *entityConfigRepository) Save(ctx context.Context, cfg domain.StoredEntityConfig) (domain.StoredEntityConfig, error) {
	if cfg.ClassName == "" {
		return domain.StoredEntityConfig{}, errors.New("class name is required")
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	document := cfg.Document
	if document == nil {
		document = map[string]any{}
	}

	documentJSON, err := json.Marshal(document)
	if err != nil {
		return domain.StoredEntityConfig{}, fmt.Errorf("marshal entity config document: %w", err)
	}

	saved, err := scanEntityConfig(r.db.QueryRow(ctx, upsertEntityConfig, cfg.ID, cfg.ClassName, documentJSON))
	if err != nil {
		return domain.StoredEntityConfig{}, fmt.Errorf("save entity config %q: %w", cfg.ClassName, err)
	}
	return saved, nil
}

func (r *entityConfigRepository) GetByClass(ctx context.Context, className string) (domain.StoredEntityConfig, error) {
	cfg, err := scanEntityConfig(r.db.QueryRow(ctx, getEntityConfigByClass, className))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StoredEntityConfig{}, fmt.Errorf("%w: %s", ErrNotFound, className)
	}
	if err != nil {
		return domain.StoredEntityConfig{}, fmt.Errorf("get entity config %q: %w", className, err)
	}
	return cfg, nil
}

func (r *entityConfigRepository) List(ctx context.Context) ([]domain.StoredEntityConfig, error) {
	rows, err := r.db.Query(ctx, listEntityConfigs)
	if err != nil {
		return nil, fmt.Errorf("list entity configs: %w", err)
	}
	defer rows.Close()

	configs := []domain.StoredEntityConfig{}
	for rows.Next() {
		cfg, err := scanEntityConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entity config: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entity configs: %w", err)
	}
	return configs, nil
}

func (r *entityConfigRepository) Delete(ctx context.Context, className string) error {
	tag, err := r.db.Exec(ctx, deleteEntityConfig, className)
	if err != nil {
		return fmt.Errorf("delete entity config %q: %w", className, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, className)
	}
	return nil
}

func scanEntityConfig(row pgx.Row) (domain.StoredEntityConfig, error) {
	var (
		cfg          domain.StoredEntityConfig
		documentJSON []byte
		createdAt    time.Time
		updatedAt    time.Time
	)
	if err := row.Scan(&cfg.ID, &cfg.ClassName, &documentJSON, &createdAt, &updatedAt); err != nil {
		return domain.StoredEntityConfig{}, err
	}
	if len(documentJSON) > 0 {
		if err := json.Unmarshal(documentJSON, &cfg.Document); err != nil {
			return domain.StoredEntityConfig{}, fmt.Errorf("decode entity config document: %w", err)
		}
	}
	if cfg.Document == nil {
		cfg.Document = map[string]any{}
	}
	cfg.CreatedAt = createdAt
	cfg.UpdatedAt = updatedAt
	return cfg, nil
}
