package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Mutation states as stored in the journal.
const (
	StatePending   = "pending"
	StateConfirmed = "confirmed"
	StateFailed    = "failed"
)

// Entry is one submitted intervention edit.
type Entry struct {
	ID             int64
	RequestID      string
	ChapterID      int64
	InterventionID int64
	Field          string
	Value          string
	State          string
	Error          string
	CreatedAt      string
	SettledAt      string
}

// Record journals a mutation as pending.
func (s *Store) Record(e Entry) (int64, error) {
	if e.RequestID == "" {
		return 0, errors.New("journal entry needs a request id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Format(time.RFC3339)
	res, err := s.db.Exec(`
		INSERT INTO mutations (request_id, chapter_id, intervention_id, field, value, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.RequestID, e.ChapterID, e.InterventionID, e.Field, e.Value, StatePending, now)
	if err != nil {
		return 0, fmt.Errorf("record mutation: %w", err)
	}
	return res.LastInsertId()
}

// Settle marks a journaled mutation confirmed, or failed when errText is
// non-empty.
func (s *Store) Settle(requestID, errText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := StateConfirmed
	if errText != "" {
		state = StateFailed
	}
	res, err := s.db.Exec(
		"UPDATE mutations SET state = ?, error = ?, settled_at = ? WHERE request_id = ?",
		state, errText, time.Now().Format(time.RFC3339), requestID,
	)
	if err != nil {
		return fmt.Errorf("settle mutation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("settle mutation: unknown request %s", requestID)
	}
	return nil
}

// Recent returns the newest entries first. chapterID 0 means every chapter.
func (s *Store) Recent(chapterID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT " + entryColumns + " FROM mutations"
	var args []any
	if chapterID > 0 {
		query += " WHERE chapter_id = ?"
		args = append(args, chapterID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)
	return s.queryEntries(query, args...)
}

// Failed returns failed edits oldest first; chapter 0 means all chapters.
func (s *Store) Failed(chapterID int64) ([]Entry, error) {
	query := "SELECT " + entryColumns + " FROM mutations WHERE state = ?"
	args := []any{StateFailed}
	if chapterID > 0 {
		query += " AND chapter_id = ?"
		args = append(args, chapterID)
	}
	return s.queryEntries(query+" ORDER BY id", args...)
}

const entryColumns = `id, request_id, chapter_id, intervention_id, field, value, state, error, created_at, settled_at`

func (s *Store) queryEntries(query string, args ...any) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.ChapterID, &e.InterventionID, &e.Field,
			&e.Value, &e.State, &e.Error, &e.CreatedAt, &e.SettledAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SavePosition remembers the take index last viewed in a chapter.
func (s *Store) SavePosition(chapterID int64, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO positions (chapter_id, take_index, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(chapter_id) DO UPDATE SET take_index = excluded.take_index, updated_at = excluded.updated_at
	`, chapterID, index, time.Now().Format(time.RFC3339))
	return err
}

// Position returns the saved take index of a chapter. ok is false when none
// was saved.
func (s *Store) Position(chapterID int64) (index int, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.db.QueryRow("SELECT take_index FROM positions WHERE chapter_id = ?", chapterID).Scan(&index)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return index, true, nil
}
