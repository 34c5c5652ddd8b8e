package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/imgajeed76/dfview/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var (
	// ErrWriteQuery is returned for statements that would modify the database.
	ErrWriteQuery = errors.New("write operations are not allowed")
	// ErrConnect marks failures to reach the database, as opposed to
	// failures of the query itself.
	ErrConnect = errors.New("cannot connect to database")
)

// PostgresSource loads the result of a read-only query.
type PostgresSource struct {
	URL   string
	Query string
	Name  string
}

// Load implements Source.
func (s PostgresSource) Load(ctx context.Context) (*Dataset, error) {
	if db.IsWriteQuery(s.Query) {
		return nil, ErrWriteQuery
	}

	conn, err := db.Connect(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer conn.Close()

	name := s.Name
	if name == "" {
		name = "query"
	}

	var ds *Dataset
	err = conn.ReadOnly(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, s.Query)
		if err != nil {
			return err
		}
		defer rows.Close()

		fieldDescs := rows.FieldDescriptions()
		colNames := make([]string, len(fieldDescs))
		for i, fd := range fieldDescs {
			colNames[i] = fd.Name
		}
		ds = New(name, colNames)

		for rows.Next() {
			raw, err := rows.Values()
			if err != nil {
				return err
			}
			values := make([]Value, len(raw))
			for i, v := range raw {
				values[i] = fromPG(v)
			}
			ds.Append(values)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return ds, nil
}

// fromPG handles the pgx types that FromAny cannot render usefully.
func fromPG(v any) Value {
	switch val := v.(type) {
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return Null()
		}
		return Float(f.Float64)
	case [16]byte:
		return String(fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16]))
	}
	return FromAny(v)
}
