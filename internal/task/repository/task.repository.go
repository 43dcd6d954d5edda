package repository

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"routinemelt/internal/task/model"
	"routinemelt/pkg/logger"
)

// ErrEntryNotFound signals that no task entry with the given id exists under
// the (user, date) record, as opposed to a database failure.
var ErrEntryNotFound = errors.New("task entry not found")

type TaskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// UpsertTask appends a freshly built entry to the user's record for the given
// date, creating the record if it does not exist yet. Insert and append are a
// single statement so concurrent calls for the same (user, date) serialize at
// the database and no append is lost.
func (r *TaskRepository) UpsertTask(userID, date, title string) (model.TaskEntry, error) {
	entry := model.TaskEntry{
		ID:        generateEntryID(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if entry.ID == "" {
		return model.TaskEntry{}, errors.New("failed to generate task entry ID")
	}

	// lib/pq requires a string for JSONB parameters, not []byte.
	raw, err := json.Marshal(entry)
	if err != nil {
		return model.TaskEntry{}, err
	}

	_, err = r.DB.Exec(`INSERT INTO day_records (user_id, date, tasks)
		VALUES ($1, $2, jsonb_build_array($3::jsonb))
		ON CONFLICT (user_id, date) DO UPDATE SET tasks = day_records.tasks || excluded.tasks`,
		userID, date, string(raw))
	if err != nil {
		logger.Sugar.Errorf("Failed to upsert task for user %s on %s: %v", userID, date, err)
		return model.TaskEntry{}, err
	}
	return entry, nil
}

// QueryRange returns the user's records with from <= date <= to, ordered by
// date ascending. An empty range yields an empty slice, not an error.
func (r *TaskRepository) QueryRange(userID, from, to string) ([]model.DayRecord, error) {
	rows, err := r.DB.Query(`SELECT id, user_id, date, tasks FROM day_records
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`, userID, from, to)
	if err != nil {
		logger.Sugar.Errorf("Failed to query tasks for user %s in [%s, %s]: %v", userID, from, to, err)
		return nil, err
	}
	defer rows.Close()

	records := []model.DayRecord{}
	for rows.Next() {
		var rec model.DayRecord
		var tasks []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Date, &tasks); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tasks, &rec.Tasks); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteTaskEntry removes the entry with the given id from the user's record
// for that date. The containment guard makes a miss report zero rows, which is
// surfaced as ErrEntryNotFound; the record itself stays, empty lists included.
func (r *TaskRepository) DeleteTaskEntry(userID, date, entryID string) error {
	result, err := r.DB.Exec(`UPDATE day_records
		SET tasks = (SELECT COALESCE(jsonb_agg(elem), '[]'::jsonb)
			FROM jsonb_array_elements(day_records.tasks) elem
			WHERE elem->>'id' <> $3)
		WHERE user_id = $1 AND date = $2
		AND tasks @> jsonb_build_array(jsonb_build_object('id', $3::text))`,
		userID, date, entryID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete task %s for user %s on %s: %v", entryID, userID, date, err)
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// CountRange returns the per-day task counts for the heatmap.
func (r *TaskRepository) CountRange(userID, from, to string) ([]model.DayCount, error) {
	rows, err := r.DB.Query(`SELECT date, jsonb_array_length(tasks) FROM day_records
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`, userID, from, to)
	if err != nil {
		logger.Sugar.Errorf("Failed to count tasks for user %s in [%s, %s]: %v", userID, from, to, err)
		return nil, err
	}
	defer rows.Close()

	counts := []model.DayCount{}
	for rows.Next() {
		var c model.DayCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func generateEntryID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
