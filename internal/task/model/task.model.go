package model

import "time"

// TaskEntry is a single logged task embedded in its day's record. Its id is
// unique within the parent list only.
type TaskEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// DayRecord aggregates one user's tasks for one calendar date. Date is kept
// as a YYYY-MM-DD string; zero-padded ISO dates sort the same lexically and
// chronologically, so the store never parses it.
type DayRecord struct {
	ID     int64       `json:"id"`
	UserID string      `json:"userId"`
	Date   string      `json:"date"`
	Tasks  []TaskEntry `json:"tasks"`
}

// DayCount feeds the heatmap: task count per date.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CreateTaskRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Date   string `json:"date"`
}

type CreateTaskResponse struct {
	Success bool      `json:"success"`
	Task    TaskEntry `json:"task"`
}

type DeleteTaskRequest struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Date   string `json:"date"`
}

type DeleteTaskResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
