// Package session keeps a ledger of what happened during the current run:
// every applied scan result and every report submission attempt. The ledger
// is an in-memory SQLite database and disappears when the process exits.
package session

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/CosmoTheDev/scamshield/internal/config"
	"github.com/CosmoTheDev/scamshield/models"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ScanEntry is one row of the scans table.
type ScanEntry struct {
	ID           int64  `json:"id"            db:"id"`
	QueriedValue string `json:"queried_value" db:"queried_value"`
	RiskScore    int    `json:"risk_score"    db:"risk_score"`
	Level        string `json:"level"         db:"level"`
	ReportCount  int    `json:"report_count"  db:"report_count"`
	Confidence   int    `json:"confidence"    db:"confidence"`
	ScanID       string `json:"scan_id"       db:"scan_id"`
	Fallback     bool   `json:"fallback"      db:"fallback"`
	ScannedAt    string `json:"scanned_at"    db:"scanned_at"`
}

// SubmissionEntry is one row of the submissions table.
type SubmissionEntry struct {
	ID          int64  `json:"id"           db:"id"`
	Value       string `json:"value"        db:"value"`
	Category    string `json:"category"     db:"category"`
	Description string `json:"description"  db:"description"`
	Accepted    bool   `json:"accepted"     db:"accepted"`
	SubmittedAt string `json:"submitted_at" db:"submitted_at"`
}

// Counts summarises the ledger.
type Counts struct {
	Scans       int `db:"scans"`
	Fallbacks   int `db:"fallbacks"`
	Submissions int `db:"submissions"`
	Accepted    int `db:"accepted"`
}

// Store is the session ledger.
type Store struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

// Open creates the in-memory ledger named cfg.Name and applies migrations.
func Open(ctx context.Context, cfg config.SessionConfig) (*Store, error) {
	name := cfg.Name
	if name == "" {
		name = config.DefaultSession
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening session ledger: %w", err)
	}

	// The in-memory database lives as long as one connection stays open.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	s := &Store{db: db, name: name, now: time.Now}
	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging session ledger: %w", err)
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Name returns the ledger name.
func (s *Store) Name() string { return s.name }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies all *.sql files from migrations/ in sorted order.
func (s *Store) migrate(ctx context.Context) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		slog.Debug("session: applied migration", "file", name)
	}
	return nil
}

// RecordScan appends an applied scan result to the ledger.
func (s *Store) RecordScan(ctx context.Context, r models.ScanResult) error {
	_, err := s.insert(ctx, "scans", ScanEntry{
		QueriedValue: r.QueriedValue,
		RiskScore:    r.RiskScore,
		Level:        string(r.Level),
		ReportCount:  r.ReportCount,
		Confidence:   r.ConfidenceScore,
		ScanID:       r.ScanID,
		Fallback:     r.Fallback,
		ScannedAt:    s.now().UTC().Format(time.RFC3339),
	})
	return err
}

// RecordSubmission appends a report submission attempt to the ledger.
func (s *Store) RecordSubmission(ctx context.Context, d models.ReportDraft, accepted bool) error {
	_, err := s.insert(ctx, "submissions", SubmissionEntry{
		Value:       d.Value,
		Category:    string(d.Type),
		Description: d.Description,
		Accepted:    accepted,
		SubmittedAt: s.now().UTC().Format(time.RFC3339),
	})
	return err
}

// RecentScans returns up to limit scans, newest first.
func (s *Store) RecentScans(ctx context.Context, limit int) ([]ScanEntry, error) {
	var out []ScanEntry
	err := s.selectRows(ctx, &out,
		`SELECT id, queried_value, risk_score, level, report_count, confidence, scan_id, fallback, scanned_at
		 FROM scans ORDER BY id DESC LIMIT ?`, limit)
	return out, err
}

// RecentSubmissions returns up to limit submissions, newest first.
func (s *Store) RecentSubmissions(ctx context.Context, limit int) ([]SubmissionEntry, error) {
	var out []SubmissionEntry
	err := s.selectRows(ctx, &out,
		`SELECT id, value, category, description, accepted, submitted_at
		 FROM submissions ORDER BY id DESC LIMIT ?`, limit)
	return out, err
}

// Counts returns totals for the ledger header.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	row := s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM scans),
		(SELECT COUNT(*) FROM scans WHERE fallback = 1),
		(SELECT COUNT(*) FROM submissions),
		(SELECT COUNT(*) FROM submissions WHERE accepted = 1)`)
	if err := row.Scan(&c.Scans, &c.Fallbacks, &c.Submissions, &c.Accepted); err != nil {
		return Counts{}, fmt.Errorf("counting session ledger: %w", err)
	}
	return c, nil
}

// --- reflection helpers ---

// insert writes a struct into table using its `db:` tags and returns the new
// row ID. A zero-value id column is left for SQLite to assign.
func (s *Store) insert(ctx context.Context, table string, record interface{}) (int64, error) {
	cols, placeholders, vals := structToInsert(record)
	// Table and column names come from this package, values stay parameterized.
	// nosemgrep: go.lang.security.audit.database.string-formatted-query.string-formatted-query
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	res, err := s.db.ExecContext(ctx, query, vals...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	return res.LastInsertId()
}

// selectRows executes query and scans all rows into dest (pointer to a slice of structs).
func (s *Store) selectRows(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	return scanRows(rows, dest)
}

func structToInsert(record interface{}) (cols, placeholders []string, vals []interface{}) {
	v := reflect.ValueOf(record)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		if tag == "id" && v.Field(i).IsZero() {
			continue
		}
		cols = append(cols, tag)
		placeholders = append(placeholders, "?")
		vals = append(vals, v.Field(i).Interface())
	}
	return
}

func scanRows(rows *sql.Rows, dest interface{}) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("select: dest must be a pointer to a slice")
	}
	sliceVal := dv.Elem()
	elemType := sliceVal.Type().Elem()

	for rows.Next() {
		elem := reflect.New(elemType).Elem()
		if err := rows.Scan(fieldPointers(elem, cols)...); err != nil {
			return err
		}
		sliceVal.Set(reflect.Append(sliceVal, elem))
	}
	return rows.Err()
}

// fieldPointers maps column names to struct field pointers via `db:` tags.
func fieldPointers(elem reflect.Value, cols []string) []interface{} {
	tagMap := map[string]interface{}{}
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("db"); tag != "" && tag != "-" {
			tagMap[tag] = elem.Field(i).Addr().Interface()
		}
	}
	ptrs := make([]interface{}, len(cols))
	for i, c := range cols {
		if p, ok := tagMap[c]; ok {
			ptrs[i] = p
		} else {
			var discard interface{}
			ptrs[i] = &discard
		}
	}
	return ptrs
}
