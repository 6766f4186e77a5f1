package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"course_insights/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Result reports what happened to one table
type Result struct {
	Table    string
	Rows     int64
	Replaced bool
}

// Importer replaces catalog tables with the contents of CSV files
type Importer struct {
	db     repository.TxBeginner
	tables []Table
	log    *zap.Logger
}

// New creates an Importer for the given tables
func New(db repository.TxBeginner, tables []Table, log *zap.Logger) *Importer {
	return &Importer{db: db, tables: tables, log: log}
}

// ImportDir loads <dir>/<table>.csv for every table. All files are parsed
// before the database is touched, and every present table is replaced in a
// single transaction. Tables without a file are left as they are.
func (im *Importer) ImportDir(ctx context.Context, dir string) ([]Result, error) {
	type pending struct {
		index int
		table Table
		rows  [][]any
	}
	var loads []pending
	results := make([]Result, len(im.tables))

	for i, table := range im.tables {
		results[i] = Result{Table: table.Name}
		path := filepath.Join(dir, table.Name+".csv")
		rows, err := parseFile(path, table)
		if errors.Is(err, fs.ErrNotExist) {
			im.log.Warn("no CSV file for table, leaving it unchanged", zap.String("table", table.Name), zap.String("path", path))
			continue
		}
		if err != nil {
			return nil, err
		}
		loads = append(loads, pending{index: i, table: table, rows: rows})
	}

	if len(loads) == 0 {
		return results, nil
	}

	err := repository.WithTx(ctx, im.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, l := range loads {
			n, err := replaceTable(ctx, tx, l.table, l.rows)
			if err != nil {
				return err
			}
			results[l.index].Rows = n
			results[l.index].Replaced = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.Replaced {
			im.log.Info("table replaced", zap.String("table", r.Table), zap.Int64("rows", r.Rows))
		}
	}
	return results, nil
}

func parseFile(path string, table Table) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseCSV(f, table)
}

// replaceTable deletes every row of table and bulk loads rows with COPY
func replaceTable(ctx context.Context, tx pgx.Tx, table Table, rows [][]any) (int64, error) {
	if _, err := tx.Exec(ctx, "DELETE FROM "+pgx.Identifier{table.Name}.Sanitize()); err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", table.Name, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table.Name}, table.ColumnNames(), pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy rows into %s: %w", table.Name, err)
	}
	return n, nil
}
