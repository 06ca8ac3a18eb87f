package records

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Snapshots keep the raw source rows only; nothing computed is ever written.
const snapshotSchema = `
CREATE TABLE IF NOT EXISTS dataset_rows (
	dataset  TEXT NOT NULL,
	position INTEGER NOT NULL,
	fields   TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (dataset, position)
);
`

type snapshotRow struct {
	Dataset  string `db:"dataset"`
	Position int    `db:"position"`
	Fields   string `db:"fields"`
}

func openSnapshot(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

// SaveSnapshot replaces the snapshot at path with the store's datasets.
func SaveSnapshot(ctx context.Context, path string, s *Store) error {
	db, err := openSnapshot(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM dataset_rows"); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	stmt, err := tx.PreparexContext(ctx, "INSERT INTO dataset_rows (dataset, position, fields) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ds := range AllDatasets {
		for i, row := range s.Rows(ds) {
			blob, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encode %s row %d: %w", ds, i, err)
			}
			if _, err := stmt.ExecContext(ctx, string(ds), i, string(blob)); err != nil {
				return fmt.Errorf("insert %s row %d: %w", ds, i, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadSnapshot rebuilds a store from a snapshot, preserving row order.
func LoadSnapshot(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	db, err := openSnapshot(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var stored []snapshotRow
	if err := db.SelectContext(ctx, &stored, "SELECT dataset, position, fields FROM dataset_rows ORDER BY dataset, position"); err != nil {
		return nil, fmt.Errorf("select rows: %w", err)
	}

	data := map[Dataset][]Row{}
	for _, sr := range stored {
		ds := Dataset(sr.Dataset)
		if !ds.Valid() {
			continue
		}
		row := Row{}
		if err := json.Unmarshal([]byte(sr.Fields), &row); err != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", ds, sr.Position, err)
		}
		data[ds] = append(data[ds], row)
	}
	return NewStore(data), nil
}
