package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TaifexDaily/internal/model"
)

// SQLiteStore persists daily records to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (the dashboard reads
	// while the pipeline writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	// Column order is the contract with the dashboard consumer; changing it
	// requires a coordinated migration. Date intentionally carries no UNIQUE
	// constraint: idempotence lives in the writer's existence check, and the
	// non-overlapping-invocation precondition is documented, not enforced.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_records (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			date          TEXT NOT NULL,
			open          REAL NOT NULL,
			high          REAL NOT NULL,
			low           REAL NOT NULL,
			close         REAL NOT NULL,
			upper_pass    INTEGER NOT NULL,
			mid_pass      INTEGER NOT NULL,
			lower_pass    INTEGER NOT NULL,
			divider       INTEGER NOT NULL,
			long_cost     INTEGER NOT NULL,
			short_cost    INTEGER NOT NULL,
			sell_pressure REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_records_date ON daily_records(date)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// HasDate reports whether a record for the date already exists.
func (s *SQLiteStore) HasDate(date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM daily_records WHERE date = ?`,
		DateKey(date)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query date: %w", err)
	}
	return count > 0, nil
}

// Append inserts the record as a new row. It never updates existing rows.
func (s *SQLiteStore) Append(rec *model.DailyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO daily_records
		(date, open, high, low, close,
		 upper_pass, mid_pass, lower_pass, divider,
		 long_cost, short_cost, sell_pressure)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		DateKey(rec.Date), rec.Open, rec.High, rec.Low, rec.Close,
		rec.UpperPass, rec.MidPass, rec.LowerPass, rec.Divider,
		rec.LongCost, rec.ShortCost, rec.SellPressure,
	)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// Dates returns all stored record dates in chronological order.
func (s *SQLiteStore) Dates() ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT date FROM daily_records ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		d, err := time.Parse("2006-01-02", key)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", key, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
