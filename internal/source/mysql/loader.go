package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/alexanderjulianmartinez/table-watch/internal/dataset"
)

// Loader reads MySQL tables into in-memory datasets. The DSN must enable
// parseTime so datetime columns scan as time.Time.
type Loader struct {
	db      *sql.DB
	schema  string
	timeout time.Duration
}

func NewLoader(dsn string, schema string) (*Loader, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("mysql ping failed: %w", err)
	}

	return &Loader{
		db:      db,
		schema:  schema,
		timeout: 30 * time.Second,
	}, nil
}

func (l *Loader) Close() error {
	return l.db.Close()
}

type columnSpec struct {
	name string
	kind dataset.Kind
}

func (l *Loader) fetchColumns(ctx context.Context, table string) ([]columnSpec, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT COLUMN_NAME, DATA_TYPE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`, l.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []columnSpec
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, err
		}
		cols = append(cols, columnSpec{name: name, kind: kindForDataType(dataType)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s not found in schema %s", table, l.schema)
	}
	return cols, nil
}

func kindForDataType(dataType string) dataset.Kind {
	switch strings.ToLower(dataType) {
	case "tinyint", "smallint", "mediumint", "int", "bigint", "year":
		return dataset.KindInteger
	case "float", "double", "decimal":
		return dataset.KindFloat
	case "date", "datetime", "timestamp":
		return dataset.KindDatetime
	case "bit", "bool", "boolean":
		return dataset.KindBoolean
	default:
		return dataset.KindString
	}
}

// Load reads the full table, typed by the INFORMATION_SCHEMA column kinds.
func (l *Loader) Load(ctx context.Context, table string) (*dataset.Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	specs, err := l.fetchColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	quoted := make([]string, len(specs))
	for i, spec := range specs {
		quoted[i] = fmt.Sprintf("`%s`", spec.name)
	}
	query := fmt.Sprintf("SELECT %s FROM `%s`", strings.Join(quoted, ", "), table)

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cells := make([][]dataset.Cell, len(specs))
	for rows.Next() {
		scanners := make([]any, len(specs))
		for i, spec := range specs {
			switch spec.kind {
			case dataset.KindInteger:
				scanners[i] = new(sql.NullInt64)
			case dataset.KindFloat:
				scanners[i] = new(sql.NullFloat64)
			case dataset.KindDatetime:
				scanners[i] = new(sql.NullTime)
			case dataset.KindBoolean:
				scanners[i] = new(sql.NullBool)
			default:
				scanners[i] = new(sql.NullString)
			}
		}
		if err := rows.Scan(scanners...); err != nil {
			return nil, err
		}
		for i, s := range scanners {
			cells[i] = append(cells[i], cellFromScanner(s))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cols := make([]dataset.Column, len(specs))
	for i, spec := range specs {
		cols[i] = dataset.NewColumn(spec.name, spec.kind, cells[i]...)
	}
	return dataset.New(cols...)
}

func cellFromScanner(v any) dataset.Cell {
	switch s := v.(type) {
	case *sql.NullInt64:
		if s.Valid {
			return dataset.Int(s.Int64)
		}
	case *sql.NullFloat64:
		if s.Valid {
			return dataset.Float(s.Float64)
		}
	case *sql.NullTime:
		if s.Valid {
			return dataset.Time(s.Time)
		}
	case *sql.NullBool:
		if s.Valid {
			return dataset.Bool(s.Bool)
		}
	case *sql.NullString:
		if s.Valid {
			return dataset.String(s.String)
		}
	}
	return dataset.Null()
}
