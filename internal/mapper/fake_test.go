package mapper

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Scripted stand-ins for a pgx connection. Queries are matched by SQL
// substring; anything unscripted behaves as an empty result set.

type fakeResult struct {
	rows [][]any
	err  error
}

type fakeConn struct {
	results map[string]*fakeResult
	execErr map[string]error

	execs  []string
	closed bool
	tx     *fakeTx
}

func (c *fakeConn) lookup(sql string) *fakeResult {
	for key, res := range c.results {
		if strings.Contains(sql, key) {
			return res
		}
	}
	return &fakeResult{}
}

func (c *fakeConn) execError(sql string) error {
	for key, err := range c.execErr {
		if strings.Contains(sql, key) {
			return err
		}
	}
	return nil
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, sql)
	return pgconn.CommandTag{}, c.execError(sql)
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	res := c.lookup(sql)
	if res.err != nil {
		return nil, res.err
	}
	return &fakeRows{rows: res.rows}, nil
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &fakeRow{res: c.lookup(sql)}
}

func (c *fakeConn) Begin(ctx context.Context) (pgx.Tx, error) {
	c.tx = &fakeTx{conn: c}
	return c.tx, nil
}

func (c *fakeConn) Close(ctx context.Context) error {
	c.closed = true
	return nil
}

type fakeTx struct {
	pgx.Tx
	conn       *fakeConn
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.conn.execs = append(t.conn.execs, sql)
	return pgconn.CommandTag{}, t.conn.execError(sql)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &fakeRow{res: t.conn.lookup(sql)}
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeRow struct {
	res *fakeResult
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.res.err != nil {
		return r.res.err
	}
	if len(r.res.rows) == 0 {
		return pgx.ErrNoRows
	}
	return assign(dest, r.res.rows[0])
}

type fakeRows struct {
	pgx.Rows
	rows [][]any
	idx  int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(dest, r.rows[r.idx-1])
}

func assign(dest []any, row []any) error {
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations, %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		sv := reflect.ValueOf(row[i])
		switch {
		case sv.Type().AssignableTo(dv.Type()):
			dv.Set(sv)
		case dv.Kind() == reflect.Pointer && sv.Type().AssignableTo(dv.Type().Elem()):
			p := reflect.New(dv.Type().Elem())
			p.Elem().Set(sv)
			dv.Set(p)
		case sv.Type().ConvertibleTo(dv.Type()):
			dv.Set(sv.Convert(dv.Type()))
		default:
			return fmt.Errorf("scan: cannot assign %T to %s", row[i], dv.Type())
		}
	}
	return nil
}
