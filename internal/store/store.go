// Package store persists benchmark reports to MySQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/jamesainslie/ocrbench/internal/bench"
)

// RunsTable holds one row per benchmark run.
const RunsTable = "runs"

var (
	// ErrNoDatabase is returned for a DSN without a database name.
	ErrNoDatabase = errors.New("store: dsn has no database name")

	// ErrBadTable is returned for a results table name that is not a plain
	// identifier.
	ErrBadTable = errors.New("store: invalid table name")
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// Store writes reports to a MySQL database.
// It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// Run is a stored run summary.
type Run struct {
	ID        string
	Dataset   string
	StartedAt time.Time
	Documents int
	Failures  int
	Pages     int
	CER       float64
	WER       float64
	Financial float64
	F1        float64
}

// ValidateDSN parses dsn and returns it normalized with parseTime enabled.
func ValidateDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.DBName == "" {
		return "", ErrNoDatabase
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Open connects to dsn and creates the runs table and the results table
// named table if they do not exist.
func Open(ctx context.Context, dsn, table string, logger *slog.Logger) (*Store, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrBadTable, table)
	}
	if logger == nil {
		logger = slog.Default()
	}

	normalized, err := ValidateDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, table: table, logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + RunsTable + ` (
			run_id CHAR(36) PRIMARY KEY,
			dataset VARCHAR(1024) NOT NULL,
			started_at DATETIME(6) NOT NULL,
			documents INT NOT NULL,
			failures INT NOT NULL,
			total_pages INT NOT NULL,
			average_cer DOUBLE NOT NULL,
			average_wer DOUBLE NOT NULL,
			average_character_accuracy DOUBLE NOT NULL,
			average_financial_score DOUBLE NOT NULL,
			average_f1_score DOUBLE NOT NULL,
			average_extraction_accuracy DOUBLE NOT NULL,
			average_time_per_page_sec DOUBLE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id CHAR(36) NOT NULL,
			pdf VARCHAR(512) NOT NULL,
			pages INT NOT NULL,
			time_sec DOUBLE NOT NULL,
			cer DOUBLE NOT NULL,
			wer DOUBLE NOT NULL,
			char_accuracy DOUBLE NOT NULL,
			financial_score DOUBLE NOT NULL,
			financial_mode VARCHAR(32) NOT NULL,
			f1 DOUBLE NOT NULL,
			extraction_accuracy DOUBLE NOT NULL,
			passed BOOLEAN NOT NULL,
			compliance JSON,
			INDEX idx_run (run_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// SaveReport stores r in a single transaction.
func (s *Store) SaveReport(ctx context.Context, r *bench.Report) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	sum := r.Summary
	_, err = tx.ExecContext(ctx, `INSERT INTO `+RunsTable+` (
		run_id, dataset, started_at, documents, failures, total_pages,
		average_cer, average_wer, average_character_accuracy,
		average_financial_score, average_f1_score, average_extraction_accuracy,
		average_time_per_page_sec
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Dataset, r.StartedAt, sum.DocumentsProcessed, len(r.Failures), sum.TotalPages,
		sum.AverageCER, sum.AverageWER, sum.AverageCharAccuracy,
		sum.AverageFinancialScore, sum.AverageF1Score, sum.AverageExtractionAccuracy,
		sum.AverageTimePerPageSec,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+s.table+` (
		run_id, pdf, pages, time_sec, cer, wer, char_accuracy,
		financial_score, financial_mode, f1, extraction_accuracy, passed, compliance
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range r.Documents {
		compliance, err := json.Marshal(d.Compliance)
		if err != nil {
			return fmt.Errorf("encode compliance: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			r.RunID, d.PDF, d.Pages, d.TimeSec, d.CER, d.WER, d.CharAccuracy,
			d.FinancialScore, d.FinancialMode, d.F1, d.ExtractionAccuracy, d.Passed, string(compliance),
		); err != nil {
			return fmt.Errorf("insert %s: %w", d.PDF, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info("report stored", "run_id", r.RunID, "documents", len(r.Documents))
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT
		run_id, dataset, started_at, documents, failures, total_pages,
		average_cer, average_wer, average_financial_score, average_f1_score
	FROM `+RunsTable+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Dataset, &r.StartedAt, &r.Documents, &r.Failures, &r.Pages,
			&r.CER, &r.WER, &r.Financial, &r.F1); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return runs, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
