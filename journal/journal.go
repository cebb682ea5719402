/*
Package journal records transfers and the frames they carried in a SQLite
database, so a transfer can be audited or compared against its counterpart
on the other side of the channel.
*/
package journal

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Direction of a transfer.
type Direction string

// Directions.
const (
	Send    Direction = "send"
	Receive Direction = "receive"
)

// Transfer statuses.
const (
	StatusActive   = "active"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// DB is the journal database.
type DB struct {
	db *sql.DB
}

// Open opens, creating if necessary, the journal in file.
func Open(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS transfer (id INTEGER PRIMARY KEY NOT NULL, direction TEXT NOT NULL, name TEXT NOT NULL, grid TEXT NOT NULL, status TEXT NOT NULL, error TEXT, started INTEGER NOT NULL, finished INTEGER)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS frame (transfer_id INTEGER NOT NULL, seq INTEGER NOT NULL, length INTEGER NOT NULL, sha256 TEXT NOT NULL, attempts INTEGER NOT NULL, recorded INTEGER NOT NULL, PRIMARY KEY(transfer_id, seq), FOREIGN KEY(transfer_id) REFERENCES transfer(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// Begin records the start of a transfer of the named payload over grid.
func (db *DB) Begin(direction Direction, name, grid string) (*Transfer, error) {
	now := time.Now()
	result, err := db.db.Exec("INSERT INTO transfer (direction, name, grid, status, started) VALUES (?, ?, ?, ?, ?)", direction, name, grid, StatusActive, now.UnixNano())
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Transfer{
		db: db,
		ID: id,
	}, nil
}

// Transfer is one transfer in progress.
type Transfer struct {
	db *DB
	ID int64
}

// Frame records a frame carrying data that took attempts captures to
// validate. Recording the same sequence number twice replaces it.
func (t *Transfer) Frame(seq int, data []byte, attempts int) error {
	if _, err := t.db.db.Exec("INSERT OR REPLACE INTO frame (transfer_id, seq, length, sha256, attempts, recorded) VALUES (?, ?, ?, ?, ?, ?)", t.ID, seq, len(data), fmt.Sprintf("%x", sha256.Sum256(data)), attempts, time.Now().UnixNano()); err != nil {
		return err
	}
	return nil
}

// Finish marks the transfer complete, or failed if err is not nil.
func (t *Transfer) Finish(err error) error {
	status, msg := StatusComplete, sql.NullString{}
	if err != nil {
		status, msg = StatusFailed, sql.NullString{String: err.Error(), Valid: true}
	}
	if _, err := t.db.db.Exec("UPDATE transfer SET status = ?, error = ?, finished = ? WHERE id = ?", status, msg, time.Now().UnixNano(), t.ID); err != nil {
		return err
	}
	return nil
}

// Summary describes a recorded transfer.
type Summary struct {
	ID        int64
	Direction Direction
	Name      string
	Grid      string
	Status    string
	Error     string
	Started   time.Time
	Finished  time.Time // zero while active
	Frames    int
	Bytes     int64
	Attempts  int64
}

// Transfers returns every recorded transfer, most recent first.
func (db *DB) Transfers() ([]Summary, error) {
	rows, err := db.db.Query("SELECT t.id, t.direction, t.name, t.grid, t.status, t.error, t.started, t.finished, COUNT(f.seq), COALESCE(SUM(f.length), 0), COALESCE(SUM(f.attempts), 0) FROM transfer AS t LEFT JOIN frame AS f ON f.transfer_id = t.id GROUP BY t.id ORDER BY t.started DESC, t.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			s        Summary
			msg      sql.NullString
			started  int64
			finished sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Direction, &s.Name, &s.Grid, &s.Status, &msg, &started, &finished, &s.Frames, &s.Bytes, &s.Attempts); err != nil {
			return nil, err
		}
		s.Error = msg.String
		s.Started = time.Unix(0, started)
		if finished.Valid {
			s.Finished = time.Unix(0, finished.Int64)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// FrameRecord describes a recorded frame.
type FrameRecord struct {
	Seq      int
	Length   int
	SHA256   string
	Attempts int
}

// ErrNotFound is returned for an unknown transfer.
var ErrNotFound = errors.New("journal: transfer not found")

// Frames returns the frames recorded for a transfer in sequence order.
func (db *DB) Frames(id int64) ([]FrameRecord, error) {
	var n int
	switch err := db.db.QueryRow("SELECT COUNT(*) FROM transfer WHERE id = ?", id).Scan(&n); {
	case err != nil:
		return nil, err
	case n == 0:
		return nil, ErrNotFound
	}

	rows, err := db.db.Query("SELECT seq, length, sha256, attempts FROM frame WHERE transfer_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []FrameRecord
	for rows.Next() {
		var f FrameRecord
		if err := rows.Scan(&f.Seq, &f.Length, &f.SHA256, &f.Attempts); err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}

	return frames, rows.Err()
}
