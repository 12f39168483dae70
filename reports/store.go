// Package reports keeps saved analyses in SQLite so score changes can be
// tracked over time.
package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/seo-optimizer/content-engine/analyzer"
	"github.com/seo-optimizer/content-engine/textmetrics"
)

var (
	// ErrNotFound is returned when no report has the requested id
	ErrNotFound = errors.New("report not found")
	// ErrUnsupportedFormat is returned by Export for unknown formats
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// DefaultListLimit caps List when no limit is given
const DefaultListLimit = 50

// Summary describes a saved report without its full content
type Summary struct {
	ID          string                     `json:"id" yaml:"id"`
	CreatedAt   time.Time                  `json:"createdAt" yaml:"createdAt"`
	Title       string                     `json:"title" yaml:"title"`
	Keyword     string                     `json:"keyword" yaml:"keyword"`
	URL         string                     `json:"url,omitempty" yaml:"url,omitempty"`
	Score       int                        `json:"score" yaml:"score"`
	Breakdown   textmetrics.ScoreBreakdown `json:"breakdown" yaml:"breakdown"`
	ScoreChange *int                       `json:"scoreChange,omitempty" yaml:"scoreChange,omitempty"` // against the previous report for the keyword
}

// Record is a saved report
type Record struct {
	Summary `yaml:",inline"`
	Report  *analyzer.Report `json:"report" yaml:"report"`
}

// Store provides database operations for saved reports
type Store struct {
	db  *sql.DB
	now func() time.Time

	// serializes Save's read of the previous score with its insert
	writeMu sync.Mutex
}

// Open opens or creates the reports database at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create reports directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open reports db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open reports db: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// dsn applies the pragmas to every pooled connection. Transactions take the
// write lock at BEGIN.
func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			title TEXT NOT NULL,
			keyword TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			breakdown TEXT NOT NULL,
			score_change INTEGER,
			report TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_reports_keyword ON reports(keyword, created_at);
		CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
	`)
	return err
}

// normalizeKeyword makes keyword comparisons case and spacing insensitive
func normalizeKeyword(keyword string) string {
	return strings.ToLower(strings.Join(strings.Fields(keyword), " "))
}

// Save stores report and computes its score change against the most
// recent report for the same keyword.
func (s *Store) Save(ctx context.Context, report *analyzer.Report) (Record, error) {
	if report == nil {
		return Record{}, errors.New("report is nil")
	}

	rec := Record{
		Summary: Summary{
			ID:        uuid.NewString(),
			CreatedAt: s.now().UTC(),
			Title:     report.Title,
			Keyword:   normalizeKeyword(report.TargetKeyword),
			Score:     report.SeoScore.Score,
			Breakdown: report.SeoScore.Breakdown,
		},
		Report: report,
	}
	if report.Page != nil {
		rec.URL = report.Page.URL
	}

	breakdown, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return Record{}, fmt.Errorf("encode breakdown: %w", err)
	}
	body, err := json.Marshal(report)
	if err != nil {
		return Record{}, fmt.Errorf("encode report: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var previous int
	err = tx.QueryRowContext(ctx,
		`SELECT score FROM reports WHERE keyword = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		rec.Keyword,
	).Scan(&previous)
	switch {
	case err == nil:
		change := rec.Score - previous
		rec.ScoreChange = &change
	case errors.Is(err, sql.ErrNoRows):
	default:
		return Record{}, fmt.Errorf("query previous score: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reports (id, created_at, title, keyword, url, score, breakdown, score_change, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UnixNano(), rec.Title, rec.Keyword, rec.URL, rec.Score,
		string(breakdown), nullableInt(rec.ScoreChange), string(body),
	); err != nil {
		return Record{}, fmt.Errorf("insert report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner, extra ...any) (Summary, error) {
	var (
		sum       Summary
		createdAt int64
		breakdown string
		change    sql.NullInt64
	)
	dest := append([]any{&sum.ID, &createdAt, &sum.Title, &sum.Keyword, &sum.URL, &sum.Score, &breakdown, &change}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Summary{}, err
	}

	sum.CreatedAt = time.Unix(0, createdAt).UTC()
	if err := json.Unmarshal([]byte(breakdown), &sum.Breakdown); err != nil {
		return Summary{}, fmt.Errorf("decode breakdown: %w", err)
	}
	if change.Valid {
		v := int(change.Int64)
		sum.ScoreChange = &v
	}
	return sum, nil
}

const summaryColumns = `id, created_at, title, keyword, url, score, breakdown, score_change`

// Get returns the report with id
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	var body string
	row := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+`, report FROM reports WHERE id = ?`, id)
	sum, err := scanSummary(row, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get report: %w", err)
	}

	rec := Record{Summary: sum, Report: &analyzer.Report{}}
	if err := json.Unmarshal([]byte(body), rec.Report); err != nil {
		return Record{}, fmt.Errorf("decode report: %w", err)
	}
	return rec, nil
}

// List returns saved reports newest first, optionally only those for keyword
func (s *Store) List(ctx context.Context, keyword string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT ` + summaryColumns + ` FROM reports`
	args := []any{}
	if kw := normalizeKeyword(keyword); kw != "" {
		query += ` WHERE keyword = ?`
		args = append(args, kw)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the report with id
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Export renders a record as "json" or "yaml"
func Export(rec Record, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return json.MarshalIndent(rec, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(rec)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
