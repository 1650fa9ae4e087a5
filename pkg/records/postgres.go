package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ReadPostgres runs a query against a Postgres database and reads the rows
// into a RecordSet. The query must return columns named after the logical
// schema (person, service, year, optionally modality and complexity); this
// keeps the column mapping in SQL where it belongs instead of duplicating
// the header-mapping machinery for database sources.
func ReadPostgres(ctx context.Context, connString, query string) (*RecordSet, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	colIdx := map[string]int{}
	var present []string
	for i, fd := range rows.FieldDescriptions() {
		name := strings.ToLower(fd.Name)
		switch name {
		case ColPerson, ColService, ColYear, ColModality, ColComplexity:
			colIdx[name] = i
			present = append(present, name)
		}
	}

	var out []Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}

		str := func(logical string) string {
			i, ok := colIdx[logical]
			if !ok || values[i] == nil {
				return ""
			}
			return strings.TrimSpace(fmt.Sprintf("%v", values[i]))
		}

		rec := Record{
			Person:     str(ColPerson),
			Service:    str(ColService),
			Modality:   str(ColModality),
			Complexity: str(ColComplexity),
		}
		if i, ok := colIdx[ColYear]; ok && values[i] != nil {
			switch v := values[i].(type) {
			case int64:
				rec.Year = int(v)
			case int32:
				rec.Year = int(v)
			case int16:
				rec.Year = int(v)
			case int:
				rec.Year = v
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read record rows: %w", err)
	}

	return NewRecordSet(out, present...), nil
}
