// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report persists detection runs in a local SQLite database so
// earlier checks can be listed and re-inspected without re-querying the
// provider APIs.
package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/plagiasure/detection-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "detections.db"
)

// Store manages the detection report SQLite database.
type Store struct {
	db         *sql.DB
	reportsDir string
	maxResults int
}

// Report is one persisted detection run.
type Report struct {
	ID         int64             `json:"id" yaml:"id"`
	CreatedAt  time.Time         `json:"created_at" yaml:"created_at"`
	Excerpt    string            `json:"excerpt" yaml:"excerpt"`
	Length     int               `json:"length" yaml:"length"`
	Score      float64           `json:"score" yaml:"score"`
	Method     string            `json:"method" yaml:"method"`
	Sources    []string          `json:"sources" yaml:"sources"`
	Highlights []types.Highlight `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// NewStore opens or creates the report database at
// reportsDir/index/detections.db and creates the schema if needed.
func NewStore(cfg types.ReportStoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.ReportsDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		reportsDir: cfg.ReportsDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			excerpt TEXT NOT NULL,
			length INTEGER NOT NULL,
			score REAL NOT NULL,
			method TEXT NOT NULL,
			sources TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS highlights (
			report_id INTEGER NOT NULL REFERENCES reports(id),
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			source TEXT NOT NULL,
			title TEXT NOT NULL,
			score REAL NOT NULL,
			metadata TEXT,
			PRIMARY KEY (report_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_highlights_report_id ON highlights(report_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save persists one detection run and returns its report ID. Only an
// excerpt of the checked text is stored, not the full document.
func (s *Store) Save(ctx context.Context, excerpt string, length int, result types.DetectionResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	sourcesJSON, _ := json.Marshal(result.Sources)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reports (created_at, excerpt, length, score, method, sources)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		excerpt, length, result.Score, result.Method, string(sourcesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting report: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading report ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO highlights (report_id, position, text, source, title, score, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range result.Highlights {
		metaJSON, _ := json.Marshal(highlightMeta{
			Reason:   h.Reason,
			Academic: h.Academic,
			Web:      h.Web,
		})
		if _, err := stmt.ExecContext(ctx, id, i, h.Text, h.Source, h.Title, h.Score, string(metaJSON)); err != nil {
			return 0, fmt.Errorf("inserting highlight %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing report: %w", err)
	}
	return id, nil
}

// List returns the most recent reports, newest first, without highlights.
// A limit of 0 uses the store default; a negative limit returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Report, error) {
	if limit == 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, excerpt, length, score, method, sources
		 FROM reports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Get returns one report with its highlights.
func (s *Store) Get(ctx context.Context, id int64) (*Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, excerpt, length, score, method, sources
		 FROM reports WHERE id = ?`, id)

	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT text, source, title, score, metadata
		 FROM highlights WHERE report_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying highlights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h types.Highlight
		var metaJSON string
		if err := rows.Scan(&h.Text, &h.Source, &h.Title, &h.Score, &metaJSON); err != nil {
			return nil, fmt.Errorf("scanning highlight: %w", err)
		}
		var meta highlightMeta
		if json.Unmarshal([]byte(metaJSON), &meta) == nil {
			h.Reason = meta.Reason
			h.Academic = meta.Academic
			h.Web = meta.Web
		}
		r.Highlights = append(r.Highlights, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &r, nil
}

// ExportYAML writes all reports (with highlights) to
// reportsDir/index/export.yaml, newest first.
func (s *Store) ExportYAML(ctx context.Context) error {
	summaries, err := s.List(ctx, -1)
	if err != nil {
		return err
	}

	var full []Report
	for _, r := range summaries {
		withHighlights, err := s.Get(ctx, r.ID)
		if err != nil {
			return err
		}
		full = append(full, *withHighlights)
	}

	data, err := yaml.Marshal(full)
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}

	path := filepath.Join(s.reportsDir, indexDir, "export.yaml")
	return os.WriteFile(path, data, 0o644)
}

// highlightMeta is the JSON blob stored alongside each highlight row.
type highlightMeta struct {
	Reason   string                  `json:"reason,omitempty"`
	Academic *types.AcademicMetadata `json:"academic,omitempty"`
	Web      *types.WebMetadata      `json:"web,omitempty"`
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var r Report
	var createdAt, sourcesJSON string
	if err := row.Scan(&r.ID, &createdAt, &r.Excerpt, &r.Length, &r.Score, &r.Method, &sourcesJSON); err != nil {
		if err == sql.ErrNoRows {
			return r, err
		}
		return r, fmt.Errorf("scanning report: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		r.CreatedAt = t
	}
	json.Unmarshal([]byte(sourcesJSON), &r.Sources)
	return r, nil
}
