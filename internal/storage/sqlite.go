package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"availcal/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

// Run is one persisted availability computation.
type Run struct {
	ID          int64
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			period_start DATETIME NOT NULL,
			period_end DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			start_at DATETIME NOT NULL,
			end_at DATETIME NOT NULL,
			busy_seconds INTEGER NOT NULL DEFAULT 0,
			free_seconds INTEGER NOT NULL DEFAULT 0,
			assigned REAL NOT NULL DEFAULT 0,
			classes TEXT DEFAULT '',
			locations TEXT DEFAULT '',
			categories TEXT DEFAULT '',
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_run_id ON blocks(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_start ON blocks(start_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// SaveRun persists a computed block grid as one run and returns its ID.
func (s *Storage) SaveRun(periodStart, periodEnd time.Time, blocks []*domain.Block) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (period_start, period_end) VALUES (?, ?)`,
		periodStart.UTC(), periodEnd.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO blocks
		(run_id, start_at, end_at, busy_seconds, free_seconds, assigned, classes, locations, categories)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare block insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range blocks {
		_, err := stmt.Exec(
			runID,
			b.Start.UTC(),
			b.End.UTC(),
			int64(b.Busy.Seconds()),
			int64(b.Free.Seconds()),
			b.Assigned,
			strings.Join(b.Classes, ","),
			strings.Join(b.Locations, ","),
			strings.Join(b.Categories, ","),
		)
		if err != nil {
			return 0, fmt.Errorf("insert block: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recent run and its blocks, or nil if no run
// has been saved yet.
func (s *Storage) LatestRun() (*Run, []*domain.Block, error) {
	run := &Run{}
	err := s.db.QueryRow(
		`SELECT id, period_start, period_end, created_at FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&run.ID, &run.PeriodStart, &run.PeriodEnd, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("select run: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT start_at, end_at, busy_seconds, free_seconds, assigned, classes, locations, categories
		 FROM blocks WHERE run_id = ? ORDER BY start_at`, run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("select blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*domain.Block
	for rows.Next() {
		var (
			start, end                     time.Time
			busySec, freeSec               int64
			assigned                       float64
			classes, locations, categories string
		)
		if err := rows.Scan(&start, &end, &busySec, &freeSec, &assigned, &classes, &locations, &categories); err != nil {
			return nil, nil, fmt.Errorf("scan block: %w", err)
		}
		b := domain.NewBlock(start, end)
		b.Busy = time.Duration(busySec) * time.Second
		b.Free = time.Duration(freeSec) * time.Second
		b.Assigned = assigned
		b.Classes = splitList(classes)
		b.Locations = splitList(locations)
		b.Categories = splitList(categories)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate blocks: %w", err)
	}

	return run, blocks, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
