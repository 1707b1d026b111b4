package datastage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const sectionRule = "=================================================="
const rowRule = "--------------------------------------------------"

// ColumnProfile describes one column of a loaded table. It is derived
// fresh on every load and never cached.
type ColumnProfile struct {
	// Name is the column name as reported by the engine catalog
	Name string
	// DataType is the engine-inferred type
	DataType string
	// DistinctCount is the number of distinct values in the column
	DistinctCount int64
	// Values enumerates the distinct values, ascending, when the column is
	// categorical (DistinctCount below the configured threshold); nil
	// otherwise
	Values []string
}

// Categorical reports whether the column's values were enumerated.
func (p ColumnProfile) Categorical() bool {
	return p.Values != nil
}

// profileColumns builds a ColumnProfile per column of tableName, in table
// definition order. Columns whose distinct-value count is strictly below
// the categorical threshold get their values enumerated.
func (s *Store) profileColumns(ctx context.Context, db *sql.DB, tableName string) ([]ColumnProfile, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT column_name, data_type
		 FROM information_schema.columns
		 WHERE table_name = ?
		 ORDER BY ordinal_position`, tableName)
	if err != nil {
		return nil, fmt.Errorf("datastage: read schema of %s: %w", tableName, err)
	}
	defer rows.Close()

	var profiles []ColumnProfile
	for rows.Next() {
		var p ColumnProfile
		if err := rows.Scan(&p.Name, &p.DataType); err != nil {
			return nil, fmt.Errorf("datastage: read schema of %s: %w", tableName, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("datastage: read schema of %s: %w", tableName, err)
	}

	table := quoteIdentifier(tableName)
	for i := range profiles {
		col := quoteIdentifier(profiles[i].Name)

		countSQL := fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s", col, table)
		if err := db.QueryRowContext(ctx, countSQL).Scan(&profiles[i].DistinctCount); err != nil {
			return nil, fmt.Errorf("datastage: count distinct %s.%s: %w", tableName, profiles[i].Name, err)
		}

		if profiles[i].DistinctCount >= int64(s.categoricalThreshold) {
			continue
		}

		values, err := distinctValues(ctx, db, table, col)
		if err != nil {
			return nil, fmt.Errorf("datastage: enumerate %s.%s: %w", tableName, profiles[i].Name, err)
		}
		profiles[i].Values = values
	}
	return profiles, nil
}

// distinctValues returns the distinct values of a column as text, in the
// column's natural ascending order. table and col are already quoted.
func distinctValues(ctx context.Context, db *sql.DB, table, col string) ([]string, error) {
	querySQL := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s", col, table, col)
	rows, err := db.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, formatValue(v))
	}
	return values, rows.Err()
}

// sampleRowsFor reads up to the configured number of rows from the table
// in storage order and returns column headers plus stringified rows.
func (s *Store) sampleRowsFor(ctx context.Context, db *sql.DB, tableName string) (sampleData, error) {
	querySQL := fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdentifier(tableName), s.sampleRows)
	rows, err := db.QueryContext(ctx, querySQL)
	if err != nil {
		return sampleData{}, fmt.Errorf("datastage: sample %s: %w", tableName, err)
	}
	defer rows.Close()

	headers, records, err := collectRows(rows)
	if err != nil {
		return sampleData{}, fmt.Errorf("datastage: sample %s: %w", tableName, err)
	}
	return sampleData{headers: headers, records: records}, nil
}

// sampleData holds the rendered-ready sample section of a load report.
type sampleData struct {
	headers []string
	records [][]string
}

// collectRows drains rows into column headers and stringified records.
func collectRows(rows *sql.Rows) ([]string, [][]string, error) {
	headers, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var records [][]string
	for rows.Next() {
		raw := make([]any, len(headers))
		ptrs := make([]any, len(headers))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}

		record := make([]string, len(headers))
		for i, v := range raw {
			record[i] = formatValue(v)
		}
		records = append(records, record)
	}
	return headers, records, rows.Err()
}

// formatValue stringifies a scanned engine value for text reports.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// writeSchemaSection renders the schema portion of a load report.
func writeSchemaSection(b *strings.Builder, profiles []ColumnProfile) {
	b.WriteString("Schema Information:\n")
	b.WriteString(sectionRule + "\n")
	for _, p := range profiles {
		fmt.Fprintf(b, "Column: %s, Type: %s", p.Name, p.DataType)
		if p.Categorical() {
			fmt.Fprintf(b, ", Possible values: %s", strings.Join(p.Values, ", "))
		}
		b.WriteString("\n")
	}
}

// writeSampleSection renders the sample portion of a load report.
func writeSampleSection(b *strings.Builder, limit int, sample sampleData) {
	fmt.Fprintf(b, "Sample Data (%d rows):\n", limit)
	b.WriteString(sectionRule + "\n")
	b.WriteString(strings.Join(sample.headers, " | ") + "\n")
	b.WriteString(rowRule + "\n")
	for _, record := range sample.records {
		b.WriteString(strings.Join(record, " | ") + "\n")
	}
}
