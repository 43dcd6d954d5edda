package service

import (
	"encoding/json"
	"errors"
	"strings"

	"routinemelt/internal/task/model"
	"routinemelt/internal/task/repository"
	"routinemelt/pkg/apperr"
	"routinemelt/socket"
)

// TaskStore is the persistence contract the service dispatches to. The
// Postgres repository implements it in production; tests use an in-memory
// fake.
type TaskStore interface {
	UpsertTask(userID, date, title string) (model.TaskEntry, error)
	QueryRange(userID, from, to string) ([]model.DayRecord, error)
	DeleteTaskEntry(userID, date, entryID string) error
	CountRange(userID, from, to string) ([]model.DayCount, error)
}

type TaskService struct {
	Store TaskStore
	Hub   *socket.Hub
}

func NewTaskService(store TaskStore, hub *socket.Hub) *TaskService {
	return &TaskService{Store: store, Hub: hub}
}

// CreateTask validates the request and appends a new entry to the user's day.
// The created entry (with its generated id) is returned so clients can update
// their views without refetching.
func (s *TaskService) CreateTask(req model.CreateTaskRequest) (model.TaskEntry, error) {
	if isBlank(req.UserID) || isBlank(req.Title) || isBlank(req.Date) {
		return model.TaskEntry{}, apperr.Validation("Missing fields")
	}

	entry, err := s.Store.UpsertTask(req.UserID, req.Date, req.Title)
	if err != nil {
		return model.TaskEntry{}, apperr.Infra(err)
	}

	s.emit(socket.TaskCreatedType, req.UserID, req.Date, entry)
	return entry, nil
}

// ListRange returns the user's day records in [from, to], ordered by date.
func (s *TaskService) ListRange(userID, from, to string) ([]model.DayRecord, error) {
	if isBlank(userID) || isBlank(from) || isBlank(to) {
		return nil, apperr.Validation("Missing some query params")
	}

	records, err := s.Store.QueryRange(userID, from, to)
	if err != nil {
		return nil, apperr.Infra(err)
	}
	return records, nil
}

// ListDay returns the user's record for a single date (zero or one element).
func (s *TaskService) ListDay(userID, date string) ([]model.DayRecord, error) {
	if isBlank(userID) {
		return nil, apperr.Validation("UserId is Missing")
	}
	if isBlank(date) {
		return nil, apperr.Validation("Date is Missing")
	}

	records, err := s.Store.QueryRange(userID, date, date)
	if err != nil {
		return nil, apperr.Infra(err)
	}
	return records, nil
}

// DeleteTask removes one entry from the user's day. A missing entry is a
// client error, not a server one.
func (s *TaskService) DeleteTask(req model.DeleteTaskRequest) error {
	if isBlank(req.ID) || isBlank(req.UserID) || isBlank(req.Date) {
		return apperr.Validation("Missing fields")
	}

	if err := s.Store.DeleteTaskEntry(req.UserID, req.Date, req.ID); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return apperr.NotFound("No task with that id on %s", req.Date)
		}
		return apperr.Infra(err)
	}

	s.emit(socket.TaskDeletedType, req.UserID, req.Date, map[string]string{"id": req.ID})
	return nil
}

// Summary returns per-day task counts for the heatmap.
func (s *TaskService) Summary(userID, from, to string) ([]model.DayCount, error) {
	if isBlank(userID) || isBlank(from) || isBlank(to) {
		return nil, apperr.Validation("Missing some query params")
	}

	counts, err := s.Store.CountRange(userID, from, to)
	if err != nil {
		return nil, apperr.Infra(err)
	}
	return counts, nil
}

func (s *TaskService) emit(eventType, userID, date string, payload interface{}) {
	if s.Hub == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.Hub.Broadcast <- socket.Event{
		Type:    eventType,
		UserID:  userID,
		Date:    date,
		Payload: json.RawMessage(raw),
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
