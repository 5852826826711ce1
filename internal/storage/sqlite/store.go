// Package sqlite provides a SQLite-backed implementation of the
// storage contract.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"meetcal/internal/models"
	"meetcal/internal/storage"
	"meetcal/internal/storage/sqlite/migrations"
)

// Store persists persons and meetings in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Participant names cannot contain commas (the name charset is letters,
// spaces and hyphens), so a plain ", " join is a lossless list encoding.
// The interchange codec reuses the same representation.
func joinParticipants(participants []string) string {
	return strings.Join(participants, ", ")
}

func splitParticipants(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ", ")
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListPersonNames returns the display names of all stored persons.
func (s *Store) ListPersonNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM persons ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list person names: %w", err)
	}
	defer rows.Close()

	var personNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list person names: %w", err)
		}
		personNames = append(personNames, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list person names: %w", err)
	}
	return personNames, nil
}

// InsertPerson stores one person record verbatim.
func (s *Store) InsertPerson(ctx context.Context, person models.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(person.Name) == "" {
		return fmt.Errorf("person name is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO persons (id, name) VALUES (?, ?)`,
		person.ID,
		person.Name,
	)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// FindMeetingByInterval returns the meeting whose start and end both
// match exactly, or storage.ErrNotFound.
func (s *Store) FindMeetingByInterval(ctx context.Context, start, end time.Time) (models.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return models.Meeting{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, start_ms, end_ms, participants FROM meetings WHERE start_ms = ? AND end_ms = ?`,
		toMillis(start),
		toMillis(end),
	)
	meeting, err := scanMeeting(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Meeting{}, storage.ErrNotFound
		}
		return models.Meeting{}, fmt.Errorf("find meeting by interval: %w", err)
	}
	return meeting, nil
}

// InsertMeeting stores one meeting record. A meeting with the same
// exact interval maps to storage.ErrAlreadyExists via the unique
// constraint on (start_ms, end_ms).
func (s *Store) InsertMeeting(ctx context.Context, meeting models.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO meetings (id, start_ms, end_ms, participants) VALUES (?, ?, ?, ?)`,
		meeting.ID,
		toMillis(meeting.Start),
		toMillis(meeting.End),
		joinParticipants(meeting.Participants),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

// ListMeetingsInRange returns meetings fully inside the range.
func (s *Store) ListMeetingsInRange(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.Meeting, error) {
	return s.queryMeetings(
		ctx,
		`SELECT id, start_ms, end_ms, participants FROM meetings
		  WHERE start_ms >= ? AND end_ms <= ?
		  ORDER BY start_ms ASC, end_ms ASC`,
		toMillis(rangeStart),
		toMillis(rangeEnd),
	)
}

// ListMeetings returns every stored meeting.
func (s *Store) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	return s.queryMeetings(
		ctx,
		`SELECT id, start_ms, end_ms, participants FROM meetings ORDER BY start_ms ASC, end_ms ASC`,
	)
}

func (s *Store) queryMeetings(ctx context.Context, query string, args ...any) ([]models.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("query meetings: %w", err)
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	return meetings, nil
}

func scanMeeting(scan func(dest ...any) error) (models.Meeting, error) {
	var meeting models.Meeting
	var startMs, endMs int64
	var participants string
	if err := scan(&meeting.ID, &startMs, &endMs, &participants); err != nil {
		return models.Meeting{}, err
	}
	meeting.Start = fromMillis(startMs)
	meeting.End = fromMillis(endMs)
	meeting.Participants = splitParticipants(participants)
	return meeting, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
