package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is one record of a reporting view, keyed by column name with values
// already rendered to their artifact string form.
type Row map[string]string

// Query scopes a report run. From and To are dates; To is inclusive, the
// query covers events through the end of that day.
type Query struct {
	JCode      string
	CourseCode string
	From       time.Time
	To         time.Time
}

// Source fetches rows for one reporting view. Views are read-only; the
// generator never writes to the store it reports on.
type Source interface {
	Fetch(ctx context.Context, view string, q Query) ([]Row, error)
}

// allowed view identifiers; view names reach SQL, so anything outside this
// set is rejected before query assembly.
var viewTables = map[string]string{
	"roster":        "report_roster",
	"exam_attempts": "report_exam_attempts",
	"certificates":  "report_certificates",
	"seat_time":     "report_seat_time",
}

// PostgresSource reads the report_* views through pgx.
type PostgresSource struct {
	pool    *pgxpool.Pool
	orderBy map[string]string
}

// NewPostgresSource wraps a connection pool.
func NewPostgresSource(pool *pgxpool.Pool) (*PostgresSource, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	schemas, err := Schemas()
	if err != nil {
		return nil, err
	}
	orderBy := make(map[string]string, len(schemas))
	for _, v := range schemas {
		orderBy[v.Name] = orderByClause(v)
	}
	return &PostgresSource{pool: pool, orderBy: orderBy}, nil
}

// orderByClause orders a view over its full artifact column set. Ordering by
// the leading columns alone lets tying rows reorder between runs, which
// would change the artifact bytes.
func orderByClause(v ViewSchema) string {
	cols := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(cols, ", ")
}

func (s *PostgresSource) Fetch(ctx context.Context, view string, q Query) ([]Row, error) {
	table, ok := viewTables[view]
	if !ok {
		return nil, fmt.Errorf("unknown reporting view %q", view)
	}

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(
			`SELECT * FROM %s
			 WHERE j_code = $1 AND course_code = $2
			   AND event_at >= $3 AND event_at < $4 + interval '1 day'
			 ORDER BY %s`, table, s.orderBy[view]),
		q.JCode, q.CourseCode, q.From, q.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []Row
	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read %s row: %w", table, err)
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = renderValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

// renderValue fixes the artifact string form of a database value. Times are
// UTC RFC 3339 so two runs over the same data produce byte-identical CSVs
// regardless of session timezone.
func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// MemorySource is a fixed-data Source for tests.
type MemorySource struct {
	Data map[string][]Row
}

func (s *MemorySource) Fetch(_ context.Context, view string, _ Query) ([]Row, error) {
	if _, ok := viewTables[view]; !ok {
		return nil, fmt.Errorf("unknown reporting view %q", view)
	}
	return s.Data[view], nil
}
