package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// Entry is one stored itemized record. Source is the billed account,
// Destination the called or messaged number.
type Entry struct {
	ID          int64
	RunID       string
	Document    string
	Source      string
	Destination string
	Service     string
	Time        time.Time
	Length      int
	Price       decimal.Decimal
	Comment     string
}

// DB persists parsed calls and messages in SQLite.
type DB struct {
	db *sql.DB
}

// Migrations returns the schema statements, one statement per string.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			document    TEXT NOT NULL,
			source      TEXT NOT NULL,
			destination TEXT NOT NULL,
			service     TEXT NOT NULL,
			time        TEXT,
			length      INTEGER NOT NULL DEFAULT 0,
			price       TEXT NOT NULL,
			comment     TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_run ON entries(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source, service)`,
	}
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate %s: %w", path, err)
		}
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveBook stores every call (service "voice", length in seconds) and every
// message (service "sms", length is the message count) of book in one
// transaction. It returns the number of rows written.
func (d *DB) SaveBook(runID, document string, book *models.Book) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO entries
		(run_id, document, source, destination, service, time, length, price, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, num := range book.Numbers {
		for _, c := range num.Calls {
			if _, err := stmt.Exec(runID, document, num.ID, c.Receiver, string(models.ServiceVoice),
				formatTime(c.Time), c.Duration.TotalSeconds(), c.Price.String(), c.Comment); err != nil {
				return 0, fmt.Errorf("insert call for %s: %w", num.ID, err)
			}
			n++
		}
		for _, m := range num.SMS {
			length := 1
			if m.Amount != nil {
				length = *m.Amount
			}
			if _, err := stmt.Exec(runID, document, num.ID, m.Receiver, string(models.ServiceSMS),
				formatTime(m.Time), length, m.Price.String(), m.Comment); err != nil {
				return 0, fmt.Errorf("insert sms for %s: %w", num.ID, err)
			}
			n++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Entries returns the rows stored under runID in insertion order.
func (d *DB) Entries(runID string) ([]Entry, error) {
	rows, err := d.db.Query(`SELECT id, run_id, document, source, destination, service,
		COALESCE(time, ''), length, price, comment
		FROM entries WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e             Entry
			ts, priceText string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Document, &e.Source, &e.Destination,
			&e.Service, &ts, &e.Length, &priceText, &e.Comment); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if ts != "" {
			if e.Time, err = time.Parse(time.RFC3339, ts); err != nil {
				return nil, fmt.Errorf("entry %d time: %w", e.ID, err)
			}
		}
		if e.Price, err = decimal.NewFromString(priceText); err != nil {
			return nil, fmt.Errorf("entry %d price: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
