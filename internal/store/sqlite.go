package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure SQLiteArchive implements model.DigestArchive.
var _ model.DigestArchive = (*SQLiteArchive)(nil)

// ErrNotFound is returned when a digest ID does not exist.
var ErrNotFound = errors.New("digest not found")

// SQLiteArchive keeps a log of delivered digests in a SQLite database. It is
// never read back by the pipeline itself.
type SQLiteArchive struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteArchive opens (or creates) a SQLite database at dbPath and ensures
// the digests table exists.
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS digests (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		sent_at   INTEGER NOT NULL,
		subject   TEXT    NOT NULL,
		recipient TEXT    NOT NULL,
		job_count INTEGER NOT NULL,
		html      TEXT    NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating digests table: %w", err)
	}

	return &SQLiteArchive{db: db, now: time.Now}, nil
}

// Record stores one delivered digest.
func (s *SQLiteArchive) Record(d model.Digest, recipient string) error {
	_, err := s.db.Exec(
		"INSERT INTO digests (sent_at, subject, recipient, job_count, html) VALUES (?, ?, ?, ?, ?)",
		s.now().Unix(), d.Subject, recipient, len(d.Jobs), d.HTML,
	)
	if err != nil {
		return fmt.Errorf("recording digest %q: %w", d.Subject, err)
	}
	return nil
}

// Recent returns up to limit digests, newest first.
func (s *SQLiteArchive) Recent(limit int) ([]model.ArchivedDigest, error) {
	rows, err := s.db.Query(
		"SELECT id, sent_at, subject, recipient, job_count FROM digests ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing digests: %w", err)
	}
	defer rows.Close()

	var out []model.ArchivedDigest
	for rows.Next() {
		var a model.ArchivedDigest
		var sentAt int64
		if err := rows.Scan(&a.ID, &sentAt, &a.Subject, &a.Recipient, &a.JobCount); err != nil {
			return nil, fmt.Errorf("scanning digest row: %w", err)
		}
		a.SentAt = time.Unix(sentAt, 0)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing digests: %w", err)
	}
	return out, nil
}

// HTML returns the stored body of digest id.
func (s *SQLiteArchive) HTML(id int64) (string, error) {
	var body string
	err := s.db.QueryRow("SELECT html FROM digests WHERE id = ?", id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("digest %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("loading digest %d: %w", id, err)
	}
	return body, nil
}

// Cleanup deletes digests older than the given duration.
func (s *SQLiteArchive) Cleanup(olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).Unix()
	res, err := s.db.Exec("DELETE FROM digests WHERE sent_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up digests older than %v: %w", olderThan, err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database connection.
func (s *SQLiteArchive) Close() error {
	return s.db.Close()
}
