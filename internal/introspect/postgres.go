package introspect

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/hlop3z/migen/internal/alerr"
)

var (
	// CHECK (((status)::text = ANY ((ARRAY['active'::character varying, ...])::text[])))
	anyArrayCheckRe = regexp.MustCompile(`^CHECK\s*\(+"?(\w+)"?\)?(?:::[\w\s]+)?\s*=\s*ANY\s*\(+ARRAY\[(.*?)\]`)
	quotedItemRe    = regexp.MustCompile(`'((?:[^']|'')*)'`)
)

type postgresReader struct {
	db *sql.DB
}

func (p *postgresReader) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT tablename FROM pg_tables
		WHERE schemaname = current_schema()
		ORDER BY tablename
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, alerr.WrapSQL(err, "list tables", "")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, alerr.WrapSQL(err, "scan table name", "")
		}
		if !isInternalTable(name) {
			tables = append(tables, name)
		}
	}

	return tables, rows.Err()
}

func (p *postgresReader) DescribeTable(ctx context.Context, tableName string) ([]RawColumn, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			COALESCE(pk.is_pk, FALSE) AS is_primary_key,
			COALESCE(uq.is_unique, FALSE) AS is_unique,
			c.is_identity = 'YES' AS is_identity
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT DISTINCT kcu.column_name, TRUE AS is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.table_name = $1
				AND tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = current_schema()
		) pk ON c.column_name = pk.column_name
		LEFT JOIN (
			SELECT DISTINCT kcu.column_name, TRUE AS is_unique
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.table_name = $1
				AND tc.constraint_type = 'UNIQUE'
				AND tc.table_schema = current_schema()
				AND (
					SELECT count(*) FROM information_schema.key_column_usage k2
					WHERE k2.constraint_name = tc.constraint_name
						AND k2.table_schema = tc.table_schema
				) = 1
		) uq ON c.column_name = uq.column_name
		WHERE c.table_schema = current_schema()
			AND c.table_name = $1
		ORDER BY c.ordinal_position
	`

	rows, err := p.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect columns", tableName)
	}
	defer rows.Close()

	var columns []RawColumn
	for rows.Next() {
		var raw RawColumn
		var isNullable string

		err := rows.Scan(
			&raw.Name,
			&raw.DataType,
			&raw.UDTName,
			&isNullable,
			&raw.Default,
			&raw.MaxLength,
			&raw.IsPrimaryKey,
			&raw.IsUnique,
			&raw.AutoIncrement,
		)
		if err != nil {
			return nil, alerr.WrapSQL(err, "scan column", tableName)
		}

		raw.IsNullable = isNullable == "YES"
		columns = append(columns, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, "iterate columns", tableName)
	}
	rows.Close() // Close before the enum label queries

	checks, err := p.enumChecks(ctx, tableName)
	if err != nil {
		return nil, err
	}

	for i := range columns {
		if labels, ok := checks[columns[i].Name]; ok {
			columns[i].EnumValues = labels
			continue
		}
		if columns[i].DataType != "USER-DEFINED" {
			continue
		}
		labels, err := p.enumLabels(ctx, columns[i].UDTName)
		if err != nil {
			return nil, err
		}
		columns[i].EnumValues = labels
	}

	return columns, nil
}

// enumLabels returns the labels of a user-defined enum type in sort order.
// Other user-defined types have none.
func (p *postgresReader) enumLabels(ctx context.Context, typeName string) ([]string, error) {
	query := `
		SELECT e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON e.enumtypid = t.oid
		WHERE t.typname = $1
		ORDER BY e.enumsortorder
	`

	rows, err := p.db.QueryContext(ctx, query, typeName)
	if err != nil {
		return nil, alerr.WrapSQL(err, "read enum labels", typeName)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, alerr.WrapSQL(err, "scan enum label", typeName)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// enumChecks returns the labels of CHECK (col IN (...)) constraints by
// column. PostgreSQL stores them as col = ANY (ARRAY[...]).
func (p *postgresReader) enumChecks(ctx context.Context, tableName string) (map[string][]string, error) {
	query := `
		SELECT pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class rel ON rel.oid = con.conrelid
		JOIN pg_namespace nsp ON nsp.oid = rel.relnamespace
		WHERE con.contype = 'c'
			AND rel.relname = $1
			AND nsp.nspname = current_schema()
	`

	rows, err := p.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, alerr.WrapSQL(err, "read check constraints", tableName)
	}
	defer rows.Close()

	checks := make(map[string][]string)
	for rows.Next() {
		var def string
		if err := rows.Scan(&def); err != nil {
			return nil, alerr.WrapSQL(err, "scan check constraint", tableName)
		}
		if column, labels := parseAnyArrayCheck(def); column != "" {
			checks[column] = labels
		}
	}
	return checks, rows.Err()
}

// parseAnyArrayCheck extracts the column and labels of a constraint
// definition in pg_get_constraintdef form.
func parseAnyArrayCheck(def string) (string, []string) {
	m := anyArrayCheckRe.FindStringSubmatch(strings.TrimSpace(def))
	if m == nil {
		return "", nil
	}
	var labels []string
	for _, item := range quotedItemRe.FindAllStringSubmatch(m[2], -1) {
		labels = append(labels, strings.ReplaceAll(item[1], "''", "'"))
	}
	if len(labels) == 0 {
		return "", nil
	}
	return m[1], labels
}
