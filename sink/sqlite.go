package sink

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/katalvlaran/shapstream/shapley"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS baseline (
	target INTEGER PRIMARY KEY,
	value  REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS contribution (
	row_id  TEXT    NOT NULL,
	feature TEXT    NOT NULL,
	target  INTEGER NOT NULL,
	value   REAL    NOT NULL,
	PRIMARY KEY (row_id, feature, target)
);`

// Contribution is one stored contribution record.
type Contribution struct {
	RowID   string  `db:"row_id"`
	Feature string  `db:"feature"`
	Target  int     `db:"target"`
	Value   float64 `db:"value"`
}

// SQLite stores results in two tables, baseline and contribution.
// Each explanation is written in its own transaction.
type SQLite struct {
	db    *sqlx.DB
	names []string
}

// OpenSQLite opens (or creates) the database at dsn and ensures the schema.
func OpenSQLite(dsn string, featureNames []string) (*SQLite, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", dsn, err)
	}
	// one connection keeps ":memory:" databases alive across statements
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(schemaSQL); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("sink: create schema: %w", err)
	}

	return &SQLite{db: db, names: featureNames}, nil
}

// WriteBaseline replaces the stored baseline.
func (s *SQLite) WriteBaseline(values []float64) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err = tx.Exec(`DELETE FROM baseline`); err != nil {
		return err
	}
	for t, v := range values {
		if _, err = tx.Exec(`INSERT INTO baseline (target, value) VALUES (?, ?)`, t, v); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// WriteExplanation inserts every contribution of e.
func (s *SQLite) WriteExplanation(e shapley.Explanation) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	for f := 0; f < e.Features(); f++ {
		for t := 0; t < e.Targets(); t++ {
			rec := Contribution{RowID: e.RowID, Feature: featureName(s.names, f), Target: t, Value: e.Contribution(f, t)}
			if _, err = tx.NamedExec(
				`INSERT INTO contribution (row_id, feature, target, value) VALUES (:row_id, :feature, :target, :value)`,
				rec); err != nil {
				return fmt.Errorf("sink: insert %s/%s/%d: %w", rec.RowID, rec.Feature, rec.Target, err)
			}
		}
	}

	return tx.Commit()
}

// Baseline reads the stored baseline ordered by target.
func (s *SQLite) Baseline(ctx context.Context) ([]float64, error) {
	var out []float64
	err := s.db.SelectContext(ctx, &out, `SELECT value FROM baseline ORDER BY target`)

	return out, err
}

// Contributions reads the stored contributions of one row.
func (s *SQLite) Contributions(ctx context.Context, rowID string) ([]Contribution, error) {
	var out []Contribution
	err := s.db.SelectContext(ctx, &out,
		`SELECT row_id, feature, target, value FROM contribution WHERE row_id = ? ORDER BY rowid`, rowID)

	return out, err
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
