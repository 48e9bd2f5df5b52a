package curve

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PGSource loads the credit curve from a Postgres table:
//
//	CREATE TABLE credit_curve (
//	    rating  text             NOT NULL,
//	    tenor   text             NOT NULL,  -- "1Y", "3Y", ...
//	    rate    double precision NOT NULL,
//	    PRIMARY KEY (rating, tenor)
//	);
//
// The curve is read fresh on each Curve call; callers cache the result for
// the lifetime of a batch run.
type PGSource struct {
	db    *sql.DB
	table string
}

// OpenPG connects to Postgres with the given DSN.
func OpenPG(dsn string) (*PGSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("curve: open postgres: %w", err)
	}
	return &PGSource{db: db, table: "credit_curve"}, nil
}

// NewPGSource wraps an existing handle (e.g. a test database).
func NewPGSource(db *sql.DB) *PGSource {
	return &PGSource{db: db, table: "credit_curve"}
}

func (s *PGSource) Curve(ctx context.Context) (*CreditCurve, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT rating, tenor, rate FROM %s", s.table))
	if err != nil {
		return nil, fmt.Errorf("curve: query %s: %w", s.table, err)
	}
	defer rows.Close()

	quotes := make(map[string]map[string]float64)
	for rows.Next() {
		var rating, tenor string
		var rate float64
		if err := rows.Scan(&rating, &tenor, &rate); err != nil {
			return nil, fmt.Errorf("curve: scan: %w", err)
		}
		if quotes[rating] == nil {
			quotes[rating] = make(map[string]float64)
		}
		quotes[rating][tenor] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("curve: rows: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: table %s is empty", ErrMissingCurveRate, s.table)
	}
	return NewCreditCurve(quotes), nil
}

// Close releases the underlying connection pool.
func (s *PGSource) Close() error {
	return s.db.Close()
}
