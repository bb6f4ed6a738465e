// Package introspect builds a schema document from a live Postgres database, the way
// `prisma db pull` derives models from tables.
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/lib/pq"

	"github.com/TechXTT/prisma-factory/pkg/dmmf"
	"github.com/TechXTT/prisma-factory/pkg/internal/typeconv"
)

// DefaultSchema is the Postgres schema read when none is given.
const DefaultSchema = "public"

// migrationsTable is Prisma's bookkeeping table; it is never a model.
const migrationsTable = "_prisma_migrations"

var ErrEmptyDSN = errors.New("DSN is empty")

const (
	enumsQuery = `SELECT t.typname, e.enumlabel
             FROM pg_type t
             JOIN pg_enum e ON t.oid = e.enumtypid
             JOIN pg_namespace n ON n.oid = t.typnamespace
             WHERE n.nspname = $1
             ORDER BY t.typname, e.enumsortorder`
	tablesQuery = `SELECT table_name
             FROM information_schema.tables
             WHERE table_schema = $1 AND table_type = 'BASE TABLE'
             ORDER BY table_name`
	columnsQuery = `SELECT column_name, udt_name, is_nullable, column_default
             FROM information_schema.columns
             WHERE table_schema = $1 AND table_name = $2
             ORDER BY ordinal_position`
	primaryKeyQuery = `SELECT kcu.column_name
             FROM information_schema.table_constraints tc
             JOIN information_schema.key_column_usage kcu
               ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
             WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1 AND tc.table_name = $2`
)

var invalidIdentChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Connect opens a database connection using the given DSN.
func Connect(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}
	// Ensure SSL mode is disabled by default if not specified.
	if (strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")) && !strings.Contains(dsn, "sslmode=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn = dsn + sep + "sslmode=disable"
	}
	return sql.Open("postgres", dsn)
}

// Introspect reads the tables of schemaName as models, ordered by table name.
func Introspect(ctx context.Context, db *sql.DB, schemaName string) (*dmmf.Document, error) {
	if schemaName == "" {
		schemaName = DefaultSchema
	}

	enums, err := readEnums(ctx, db, schemaName)
	if err != nil {
		return nil, err
	}
	tables, err := readTables(ctx, db, schemaName)
	if err != nil {
		return nil, err
	}

	doc := &dmmf.Document{}
	doc.Datamodel.Models = []dmmf.Model{}
	doc.Datamodel.Enums = []dmmf.Enum{}
	enumNames := map[string]bool{}
	for _, e := range enums {
		enumNames[e.Name] = true
		doc.Datamodel.Enums = append(doc.Datamodel.Enums, e)
	}

	for _, table := range tables {
		model, err := readModel(ctx, db, schemaName, table, enumNames)
		if err != nil {
			return nil, err
		}
		doc.Datamodel.Models = append(doc.Datamodel.Models, model)
	}
	return doc, nil
}

func readEnums(ctx context.Context, db *sql.DB, schemaName string) ([]dmmf.Enum, error) {
	rows, err := db.QueryContext(ctx, enumsQuery, schemaName)
	if err != nil {
		return nil, fmt.Errorf("introspect enums: %w", err)
	}
	defer rows.Close()

	var enums []dmmf.Enum
	for rows.Next() {
		var name, label string
		if err := rows.Scan(&name, &label); err != nil {
			return nil, fmt.Errorf("scan enum: %w", err)
		}
		if len(enums) == 0 || enums[len(enums)-1].Name != name {
			enums = append(enums, dmmf.Enum{Name: name})
		}
		last := &enums[len(enums)-1]
		last.Values = append(last.Values, dmmf.EnumValue{Name: label})
	}
	return enums, rows.Err()
}

func readTables(ctx context.Context, db *sql.DB, schemaName string) ([]string, error) {
	rows, err := db.QueryContext(ctx, tablesQuery, schemaName)
	if err != nil {
		return nil, fmt.Errorf("introspect tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		if table == migrationsTable {
			continue
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func readModel(ctx context.Context, db *sql.DB, schemaName, table string, enums map[string]bool) (dmmf.Model, error) {
	model := dmmf.Model{Name: ModelName(table), Fields: []dmmf.Field{}}
	if model.Name != table {
		dbName := table
		model.DBName = &dbName
	}

	pk, err := readPrimaryKey(ctx, db, schemaName, table)
	if err != nil {
		return model, err
	}

	rows, err := db.QueryContext(ctx, columnsQuery, schemaName, table)
	if err != nil {
		return model, fmt.Errorf("introspect table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			col, udtName, nullable string
			colDefault             sql.NullString
		)
		if err := rows.Scan(&col, &udtName, &nullable, &colDefault); err != nil {
			return model, fmt.Errorf("scan column for %s: %w", table, err)
		}
		f := dmmf.Field{
			Name:            col,
			IsRequired:      nullable == "NO",
			IsID:            len(pk) == 1 && pk[col],
			HasDefaultValue: colDefault.Valid,
		}
		if typ, list, ok := typeconv.PrismaScalar(udtName); ok {
			f.Kind, f.Type, f.IsList = dmmf.KindScalar, typ, list
		} else if enums[strings.TrimPrefix(udtName, "_")] {
			f.Kind, f.Type, f.IsList = dmmf.KindEnum, strings.TrimPrefix(udtName, "_"), strings.HasPrefix(udtName, "_")
		} else {
			f.Kind, f.Type = dmmf.KindUnsupported, fmt.Sprintf("Unsupported(%q)", udtName)
		}
		model.Fields = append(model.Fields, f)
	}
	return model, rows.Err()
}

func readPrimaryKey(ctx context.Context, db *sql.DB, schemaName, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, primaryKeyQuery, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("introspect primary key of %s: %w", table, err)
	}
	defer rows.Close()

	pk := map[string]bool{}
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, fmt.Errorf("scan primary key of %s: %w", table, err)
		}
		pk[col] = true
	}
	return pk, rows.Err()
}

// ModelName turns a table name into a valid model name. Names that are already identifiers
// are kept unchanged.
func ModelName(table string) string {
	name := invalidIdentChars.ReplaceAllString(table, "_")
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "M" + name
	}
	return name
}
