package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/dialect"
)

var autoincrementRe = regexp.MustCompile(`(?i)\bAUTOINCREMENT\b`)

type sqliteReader struct {
	db      *sql.DB
	dialect dialect.Dialect
}

func (s *sqliteReader) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
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

func (s *sqliteReader) DescribeTable(ctx context.Context, tableName string) ([]RawColumn, error) {
	createSQL, err := s.tableSQL(ctx, tableName)
	if err != nil {
		return nil, err
	}
	if createSQL == "" {
		return nil, nil // Table doesn't exist
	}

	// PRAGMA table_info returns: cid, name, type, notnull, dflt_value, pk
	query := fmt.Sprintf("PRAGMA table_info(%s)", s.dialect.QuoteIdent(tableName))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect columns", tableName)
	}

	var columns []RawColumn
	var pkCount int
	for rows.Next() {
		var cid, notNull, pk int
		var name, dataType string
		var defaultVal sql.NullString

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultVal, &pk); err != nil {
			rows.Close()
			return nil, alerr.WrapSQL(err, "scan column", tableName)
		}
		if pk > 0 {
			pkCount++
		}

		columns = append(columns, RawColumn{
			Name:         name,
			DataType:     dataType,
			IsNullable:   notNull == 0,
			Default:      defaultVal,
			IsPrimaryKey: pk > 0,
			EnumValues:   columnEnumValues(createSQL, name),
		})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, alerr.WrapSQL(err, "iterate columns", tableName)
	}
	rows.Close() // Close before opening additional queries

	// A lone INTEGER PRIMARY KEY aliases the rowid and is assigned automatically.
	for i := range columns {
		c := &columns[i]
		if c.IsPrimaryKey && pkCount == 1 && strings.EqualFold(c.DataType, "INTEGER") {
			c.AutoIncrement = true
		}
	}
	if autoincrementRe.MatchString(createSQL) {
		for i := range columns {
			if columns[i].IsPrimaryKey {
				columns[i].AutoIncrement = true
			}
		}
	}

	unique, err := s.uniqueColumns(ctx, tableName)
	if err != nil {
		return nil, err
	}
	for i := range columns {
		columns[i].IsUnique = unique[columns[i].Name]
	}

	return columns, nil
}

// tableSQL returns the CREATE TABLE statement, or "" if the table does not exist.
func (s *sqliteReader) tableSQL(ctx context.Context, tableName string) (string, error) {
	var createSQL sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT sql FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`, tableName).Scan(&createSQL)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", alerr.WrapSQL(err, "check table existence", tableName)
	}
	return createSQL.String, nil
}

// uniqueColumns returns the columns covered by a single-column unique index
// that is not the primary key. Index names are collected before their
// columns are read; in-memory databases with a shared cache do not allow
// nested queries reliably.
func (s *sqliteReader) uniqueColumns(ctx context.Context, tableName string) (map[string]bool, error) {
	// index_list returns: seq, name, unique, origin, partial
	listQuery := fmt.Sprintf("PRAGMA index_list(%s)", s.dialect.QuoteIdent(tableName))
	listRows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, alerr.WrapSQL(err, "get index list", tableName)
	}

	var indexNames []string
	for listRows.Next() {
		var seq, isUnique, partial int
		var name, origin string
		if err := listRows.Scan(&seq, &name, &isUnique, &origin, &partial); err != nil {
			listRows.Close()
			return nil, alerr.WrapSQL(err, "scan index", tableName)
		}
		if isUnique == 1 && origin != "pk" && partial == 0 {
			indexNames = append(indexNames, name)
		}
	}
	if err := listRows.Err(); err != nil {
		listRows.Close()
		return nil, alerr.WrapSQL(err, "iterate indexes", tableName)
	}
	listRows.Close()

	unique := make(map[string]bool)
	for _, indexName := range indexNames {
		columns, err := s.indexColumns(ctx, indexName)
		if err != nil {
			return nil, err
		}
		if len(columns) == 1 {
			unique[columns[0]] = true
		}
	}
	return unique, nil
}

func (s *sqliteReader) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	infoQuery := fmt.Sprintf("PRAGMA index_info(%s)", s.dialect.QuoteIdent(indexName))
	infoRows, err := s.db.QueryContext(ctx, infoQuery)
	if err != nil {
		return nil, alerr.WrapSQL(err, "get index info", indexName)
	}
	defer infoRows.Close()

	var columns []string
	for infoRows.Next() {
		var seqno, cid int
		var colName sql.NullString
		if err := infoRows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, alerr.WrapSQL(err, "scan index column", indexName)
		}
		columns = append(columns, colName.String)
	}
	return columns, infoRows.Err()
}

// columnEnumValues finds a CHECK (column IN (...)) constraint for column in
// a CREATE TABLE statement and returns its labels.
func columnEnumValues(createSQL, column string) []string {
	re, err := regexp.Compile(`(?i)CHECK\s*\(\s*["` + "`" + `\[]?` + regexp.QuoteMeta(column) +
		`["` + "`" + `\]]?\s+IN\s*\([^)]*\)\s*\)`)
	if err != nil {
		return nil
	}
	check := re.FindString(createSQL)
	if check == "" {
		return nil
	}
	return parseEnumValues(check)
}

// parseEnumValues extracts enum values from a CHECK constraint.
// SQLite represents enums as CHECK constraints like: CHECK(status IN ('draft', 'published'))
func parseEnumValues(checkSQL string) []string {
	upper := strings.ToUpper(checkSQL)
	inIdx := strings.Index(upper, " IN (")
	if inIdx == -1 {
		inIdx = strings.Index(upper, " IN(")
	}
	if inIdx == -1 {
		return nil
	}

	start := strings.Index(checkSQL[inIdx:], "(")
	if start == -1 {
		return nil
	}
	start += inIdx + 1

	end := strings.Index(checkSQL[start:], ")")
	if end == -1 {
		return nil
	}

	var values []string
	for _, p := range strings.Split(checkSQL[start:start+end], ",") {
		p = strings.Trim(strings.TrimSpace(p), "'\"")
		if p != "" {
			values = append(values, p)
		}
	}
	return values
}
