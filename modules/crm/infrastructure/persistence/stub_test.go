package persistence_test

import (
	"context"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nextdoorextsolutions/roofline/pkg/constants"
)

// sqlCall records one statement issued against the stub transaction.
type sqlCall struct {
	sql  string
	args []any
}

// stubTx satisfies repo.Tx and records every statement. Responses are
// configured per test.
type stubTx struct {
	execTag pgconn.CommandTag
	execErr error
	rows    *stubRows
	rowScan func(dest ...any) error

	execCalls  []sqlCall
	queryCalls []sqlCall
	rowCalls   []sqlCall
}

func (t *stubTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execCalls = append(t.execCalls, sqlCall{sql: sql, args: args})
	return t.execTag, t.execErr
}

func (t *stubTx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.queryCalls = append(t.queryCalls, sqlCall{sql: sql, args: args})
	if t.rows == nil {
		return &stubRows{}, nil
	}
	return t.rows, nil
}

func (t *stubTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	t.rowCalls = append(t.rowCalls, sqlCall{sql: sql, args: args})
	return stubRow{scan: t.rowScan}
}

func txContext(tx *stubTx) context.Context {
	return context.WithValue(context.Background(), constants.TxKey, tx)
}

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

// stubRows plays back fixed rows. Each inner slice holds one row's column
// values in scan order.
type stubRows struct {
	data [][]any
	pos  int
	err  error
}

func (r *stubRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	for i, src := range row {
		target := reflect.ValueOf(dest[i]).Elem()
		if src == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(src))
	}
	return nil
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error)                       { return nil, nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }
