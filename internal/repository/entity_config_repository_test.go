package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/apiconf/internal/domain"
)

type storedRow struct {
	id        uuid.UUID
	className string
	document  []byte
	createdAt time.Time
	updatedAt time.Time
}

func (r storedRow) scan(dest ...any) error {
	if len(dest) != 5 {
		return fmt.Errorf("expected 5 scan targets, got %d", len(dest))
	}
	*dest[0].(*uuid.UUID) = r.id
	*dest[1].(*string) = r.className
	*dest[2].(*[]byte) = r.document
	*dest[3].(*time.Time) = r.createdAt
	*dest[4].(*time.Time) = r.updatedAt
	return nil
}

type fakeRow struct {
	row *storedRow
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.row == nil {
		return pgx.ErrNoRows
	}
	return r.row.scan(dest...)
}

type fakeRows struct {
	pgx.Rows
	rows []storedRow
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.pos-1].scan(dest...) }
func (r *fakeRows) Err() error             { return r.err }
func (r *fakeRows) Close()                 {}

type fakeDB struct {
	row      fakeRow
	rows     *fakeRows
	tag      pgconn.CommandTag
	lastSQL  string
	lastArgs []any
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.lastSQL, db.lastArgs = sql, args
	return db.tag, nil
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.lastSQL, db.lastArgs = sql, args
	return db.rows, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.lastSQL, db.lastArgs = sql, args
	return db.row
}

func TestEntityConfigRepository_SaveAssignsID(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	db := &fakeDB{}
	db.row = fakeRow{row: &storedRow{
		className: "Product",
		document:  []byte(`{"fields":{"id":null}}`),
		createdAt: now,
		updatedAt: now,
	}}
	repo := NewEntityConfigRepository(db)

	saved, err := repo.Save(context.Background(), domain.StoredEntityConfig{
		ClassName: "Product",
		Document:  map[string]any{"fields": map[string]any{"id": nil}},
	})
	require.NoError(t, err)

	require.Len(t, db.lastArgs, 3)
	id, ok := db.lastArgs[0].(uuid.UUID)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, "Product", db.lastArgs[1])
	assert.JSONEq(t, `{"fields":{"id":null}}`, string(db.lastArgs[2].([]byte)))

	assert.Equal(t, "Product", saved.ClassName)
	assert.Equal(t, map[string]any{"fields": map[string]any{"id": nil}}, saved.Document)
	assert.Equal(t, now, saved.UpdatedAt)
}

func TestEntityConfigRepository_SaveRequiresClassName(t *testing.T) {
	_, err := NewEntityConfigRepository(&fakeDB{}).Save(context.Background(), domain.StoredEntityConfig{})
	assert.Error(t, err)
}

func TestEntityConfigRepository_GetByClassNotFound(t *testing.T) {
	repo := NewEntityConfigRepository(&fakeDB{})

	_, err := repo.GetByClass(context.Background(), "Missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntityConfigRepository_GetByClassPropagatesErrors(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewEntityConfigRepository(&fakeDB{row: fakeRow{err: boom}})

	_, err := repo.GetByClass(context.Background(), "Product")
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestEntityConfigRepository_List(t *testing.T) {
	doc, err := json.Marshal(map[string]any{"exclusion_policy": "all"})
	require.NoError(t, err)
	db := &fakeDB{rows: &fakeRows{rows: []storedRow{
		{id: uuid.New(), className: "Order", document: doc},
		{id: uuid.New(), className: "Product"},
	}}}

	configs, err := NewEntityConfigRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "Order", configs[0].ClassName)
	assert.Equal(t, "all", configs[0].Document["exclusion_policy"])
	assert.Empty(t, configs[1].Document)
}

func TestEntityConfigRepository_Delete(t *testing.T) {
	db := &fakeDB{tag: pgconn.NewCommandTag("DELETE 1")}
	require.NoError(t, NewEntityConfigRepository(db).Delete(context.Background(), "Product"))
	assert.Equal(t, []any{"Product"}, db.lastArgs)

	db.tag = pgconn.NewCommandTag("DELETE 0")
	assert.ErrorIs(t, NewEntityConfigRepository(db).Delete(context.Background(), "Product"), ErrNotFound)
}
