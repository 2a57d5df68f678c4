package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathways/internal/catalog"
)

// insertBatch bounds the rows per INSERT statement so the bound
// parameter count stays well under SQLite's limit.
const insertBatch = 100

// Counts reports how many rows each table holds.
type Counts struct {
	Courses     int `json:"courses"`
	Connections int `json:"connections"`
	KSB         int `json:"ksbMappings"`
}

// Replace swaps the whole dataset in one transaction. On any error the
// previous contents are left untouched.
func (s *Store) Replace(ctx context.Context, ds catalog.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	b := builder()
	for _, table := range []string{ksbTable, connectionsTable, coursesTable} {
		q, args := b.Delete(table).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	courses := make([][]any, len(ds.Courses))
	for i, c := range ds.Courses {
		courses[i] = courseValues(c)
	}
	if err := insertRows(ctx, tx, coursesTable, courseColumns, courses); err != nil {
		return err
	}

	conns := make([][]any, len(ds.Connections))
	for i, c := range ds.Connections {
		conns[i] = connectionValues(c)
	}
	if err := insertRows(ctx, tx, connectionsTable, connectionColumns, conns); err != nil {
		return err
	}

	ksb := make([][]any, 0, len(ds.KSB))
	for _, k := range ds.KSB {
		values, err := encodeKSB(k)
		if err != nil {
			return err
		}
		ksb = append(ksb, values)
	}
	if err := insertRows(ctx, tx, ksbTable, ksbColumns, ksb); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error {
	for start := 0; start < len(rows); start += insertBatch {
		end := min(start+insertBatch, len(rows))
		ins := builder().Insert(table).Columns(columns...)
		for _, values := range rows[start:end] {
			ins.Values(values...)
		}
		q, args := ins.Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

// Counts returns the row count of each table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	targets := []struct {
		table string
		dst   *int
	}{
		{coursesTable, &c.Courses},
		{connectionsTable, &c.Connections},
		{ksbTable, &c.KSB},
	}
	for _, t := range targets {
		b := builder()
		q, args := b.Select(entsql.Count("*")).From(b.Table(t.table)).Query()
		if err := s.db.QueryRowContext(ctx, q, args...).Scan(t.dst); err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", t.table, err)
		}
	}
	return c, nil
}
