// Package pgcatalog materialises entity metadata from the Postgres system catalog.
// Tables are classes; foreign key columns become to-one associations.
package pgcatalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ettle/strcase"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rpattn/apiconf/internal/domain"
	"github.com/rpattn/apiconf/internal/metadata"
)

const columnsQuery = `
SELECT c.table_name::text, c.column_name::text, c.udt_name::text
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = ANY($2::text[])
ORDER BY c.table_name, c.ordinal_position`

const indexesQuery = `
SELECT t.relname::text, a.attname::text, ix.indisprimary, a.attnum = ix.indkey[0]
FROM pg_index ix
JOIN pg_class t ON t.oid = ix.indrelid
JOIN pg_namespace n ON n.oid = t.relnamespace
JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
WHERE n.nspname = $1 AND t.relname = ANY($2::text[])`

const foreignKeysQuery = `
SELECT kcu.table_name::text, kcu.column_name::text, ccu.table_name::text, ccu.column_name::text
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema
WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1 AND tc.table_name = ANY($2::text[])`

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Catalog loads class metadata for tables of one schema.
type Catalog struct {
	db     Querier
	schema string
	logger *zap.Logger
}

var _ metadata.BatchSource = (*Catalog)(nil)

// New creates a catalog reader. An empty schema means "public".
func New(db Querier, schema string, logger *zap.Logger) *Catalog {
	if schema == "" {
		schema = "public"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{db: db, schema: schema, logger: logger}
}

type columnRow struct {
	Table   string
	Column  string
	UDTName string
}

type indexRow struct {
	Table   string
	Column  string
	Primary bool
	Leading bool
}

type foreignKeyRow struct {
	Table        string
	Column       string
	TargetTable  string
	TargetColumn string
}

// LoadClasses implements metadata.BatchSource. Classes without a table are absent.
func (c *Catalog) LoadClasses(ctx context.Context, classes []string) (map[string]*metadata.ClassMetadata, error) {
	columns, err := queryRows[columnRow](ctx, c.db, columnsQuery, c.schema, classes)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	indexes, err := queryRows[indexRow](ctx, c.db, indexesQuery, c.schema, classes)
	if err != nil {
		return nil, fmt.Errorf("failed to load indexes: %w", err)
	}
	foreignKeys, err := queryRows[foreignKeyRow](ctx, c.db, foreignKeysQuery, c.schema, classes)
	if err != nil {
		return nil, fmt.Errorf("failed to load foreign keys: %w", err)
	}

	result := assemble(columns, indexes, foreignKeys)
	c.logger.Debug("Loaded class metadata",
		zap.String("schema", c.schema),
		zap.Strings("requested", classes),
		zap.Int("found", len(result)))
	return result, nil
}

func queryRows[T any](ctx context.Context, db Querier, sql string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[T])
}

func assemble(columns []columnRow, indexes []indexRow, foreignKeys []foreignKeyRow) map[string]*metadata.ClassMetadata {
	type columnKey struct{ table, column string }

	indexed := make(map[columnKey]bool)
	primary := make(map[columnKey]bool)
	for _, ix := range indexes {
		key := columnKey{ix.Table, ix.Column}
		if ix.Leading {
			indexed[key] = true
		}
		if ix.Primary {
			primary[key] = true
		}
	}

	references := make(map[columnKey]foreignKeyRow)
	for _, fk := range foreignKeys {
		references[columnKey{fk.Table, fk.Column}] = fk
	}

	classes := make(map[string]*metadata.ClassMetadata)
	for _, col := range columns {
		md, ok := classes[col.Table]
		if !ok {
			md = &metadata.ClassMetadata{
				Class:        col.Table,
				Fields:       map[string]metadata.Field{},
				Associations: map[string]metadata.Association{},
			}
			classes[col.Table] = md
		}

		key := columnKey{col.Table, col.Column}
		dataType := DataTypeForPostgres(col.UDTName)

		if fk, ok := references[key]; ok {
			md.Associations[AssociationName(col.Column)] = metadata.Association{
				TargetClass:    fk.TargetTable,
				IdentifierType: dataType,
				Indexed:        indexed[key],
			}
		} else {
			md.Fields[FieldName(col.Column)] = metadata.Field{
				Type:    dataType,
				Indexed: indexed[key],
			}
		}

		if primary[key] {
			md.Identifiers = append(md.Identifiers, FieldName(col.Column))
		}
	}
	return classes
}

// FieldName converts a column name to the exposed field name.
func FieldName(column string) string {
	return strcase.ToCamel(column)
}

// AssociationName derives the association name from a foreign key column.
func AssociationName(column string) string {
	if trimmed := strings.TrimSuffix(column, "_id"); trimmed != "" {
		column = trimmed
	}
	return strcase.ToCamel(column)
}

// DataTypeForPostgres maps a Postgres type name to an API data type. Unknown
// types fall back to string.
func DataTypeForPostgres(udtName string) string {
	switch strings.ToLower(udtName) {
	case "int2":
		return domain.DataTypeSmallInt
	case "int4", "serial", "oid":
		return domain.DataTypeInteger
	case "int8", "bigserial":
		return domain.DataTypeBigInt
	case "numeric", "money":
		return domain.DataTypeDecimal
	case "float4", "float8":
		return domain.DataTypeFloat
	case "bool":
		return domain.DataTypeBoolean
	case "text":
		return domain.DataTypeText
	case "date":
		return domain.DataTypeDate
	case "time", "timetz":
		return domain.DataTypeTime
	case "timestamp", "timestamptz":
		return domain.DataTypeDateTime
	case "uuid":
		return domain.DataTypeGUID
	case "json", "jsonb":
		return domain.DataTypeObject
	default:
		return domain.DataTypeString
	}
}
