// Package history records pipeline runs, and optionally their cleaned
// datasets, in a local SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/smarteda-cli/internal/dataset"
	"github.com/KaramelBytes/smarteda-cli/internal/eda"
	"github.com/KaramelBytes/smarteda-cli/internal/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	dataset        TEXT NOT NULL,
	target         TEXT NOT NULL,
	strategy       TEXT NOT NULL,
	row_count      INTEGER NOT NULL,
	column_count   INTEGER NOT NULL,
	insights_json  TEXT NOT NULL,
	cleaned_table  TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
`

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	ErrRunNotFound = errors.New("run not found")
	ErrAmbiguousID = errors.New("run id prefix matches more than one run")
)

// Run is one recorded pipeline execution.
type Run struct {
	ID           string `db:"id"`
	Dataset      string `db:"dataset"`
	Target       string `db:"target"`
	Strategy     string `db:"strategy"`
	Rows         int    `db:"row_count"`
	Columns      int    `db:"column_count"`
	InsightsJSON string `db:"insights_json"`
	CleanedTable string `db:"cleaned_table"`
	CreatedAt    string `db:"created_at"`
}

// Time parses CreatedAt; the zero time is returned for malformed values.
func (r Run) Time() time.Time {
	t, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NewRun captures the insights of a finished run. columns is the dataset's
// column count.
func NewRun(ins *eda.Insights, strategy eda.Strategy, columns int) (Run, error) {
	b, err := json.Marshal(ins)
	if err != nil {
		return Run{}, fmt.Errorf("marshal insights: %w", err)
	}
	return Run{
		ID:           ins.RunID,
		Dataset:      ins.Dataset,
		Target:       ins.Target,
		Strategy:     string(strategy),
		Rows:         ins.Rows,
		Columns:      columns,
		InsightsJSON: string(b),
		CreatedAt:    time.Now().UTC().Format(timeLayout),
	}, nil
}

// Store wraps the history database.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating when needed) the database at path and migrates it.
// A leading "~/" is expanded.
func Open(path string) (*Store, error) {
	p, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if p != ":memory:" {
		if err := utils.EnsureDir(filepath.Dir(p)); err != nil {
			return nil, fmt.Errorf("history dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", p)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the connection for ad-hoc queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// RecordRun inserts a run. A run with an empty CreatedAt is stamped now.
func (s *Store) RecordRun(r Run) error {
	if r.ID == "" {
		return errors.New("run id is required")
	}
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(timeLayout)
	}
	_, err := s.db.NamedExec(`INSERT INTO runs
		(id, dataset, target, strategy, row_count, column_count, insights_json, cleaned_table, created_at)
		VALUES (:id, :dataset, :target, :strategy, :row_count, :column_count, :insights_json, :cleaned_table, :created_at)`, r)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	var runs []Run
	err := s.db.Select(&runs, `SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun looks a run up by full id or unique id prefix.
func (s *Store) GetRun(id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRunNotFound
	}
	var runs []Run
	err := s.db.Select(&runs, `SELECT * FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY created_at DESC LIMIT 2`,
		id, escapeLike(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	switch {
	case len(runs) == 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case len(runs) > 1 && runs[0].ID != id && runs[1].ID != id:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
	for i := range runs {
		if runs[i].ID == id {
			return &runs[i], nil
		}
	}
	return &runs[0], nil
}

// StoreDataset writes every row of ds into a new table named after the run
// and links it to the run. Numeric columns become REAL, categorical columns
// TEXT; nulls are stored as NULL.
func (s *Store) StoreDataset(runID string, ds *dataset.Dataset) (string, error) {
	table := TableName(runID)
	cols := ds.Columns()
	defs := make([]string, len(cols))
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		typ := "TEXT"
		if c.Kind() == dataset.Numeric {
			typ = "REAL"
		}
		names[i] = quoteIdent(c.Name())
		defs[i] = names[i] + " " + typ
		marks[i] = "?"
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table))); err != nil {
		return "", fmt.Errorf("drop %s: %w", table, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))); err != nil {
		return "", fmt.Errorf("create %s: %w", table, err)
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for row := 0; row < ds.Rows(); row++ {
		for j, c := range cols {
			args[j] = cellValue(c, row)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return "", fmt.Errorf("insert row %d: %w", row+1, err)
		}
	}
	res, err := tx.Exec(`UPDATE runs SET cleaned_table = ? WHERE id = ?`, table, runID)
	if err != nil {
		return "", fmt.Errorf("link table: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return table, nil
}

// TableName is the table holding a run's cleaned rows.
func TableName(runID string) string {
	id := strings.ReplaceAll(runID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "cleaned_" + id
}

func cellValue(c *dataset.Column, row int) any {
	if c.IsNull(row) {
		return sql.NullString{}
	}
	if v, ok := c.Float(row); ok {
		return v
	}
	v, _ := c.Text(row)
	return v
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

