package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"routinemelt/internal/task/model"
	"routinemelt/internal/task/service"
	"routinemelt/pkg/apperr"
	"routinemelt/pkg/logger"
)

type TaskHandler struct {
	Service  *service.TaskService
	Exporter *Exporter
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{Service: svc, Exporter: NewExporter(svc.Store)}
}

// Tasks dispatches the /api/tasks collection endpoint by method.
func (h *TaskHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.CreateTask(w, r)
	case http.MethodGet:
		h.ListTasks(w, r)
	case http.MethodDelete:
		h.DeleteTask(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.Service.CreateTask(req)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CreateTaskResponse{Success: true, Task: task})
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	records, err := h.Service.ListRange(q.Get("userId"), q.Get("from"), q.Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *TaskHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()

	records, err := h.Service.ListDay(q.Get("userId"), q.Get("date"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.DeleteTask(req); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.DeleteTaskResponse{Success: true})
}

func (h *TaskHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()

	counts, err := h.Service.Summary(q.Get("userId"), q.Get("from"), q.Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}

func (h *TaskHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()

	userID, from, to := q.Get("userId"), q.Get("from"), q.Get("to")
	if userID == "" || from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "Missing some query params")
		return
	}
	format := q.Get("format")
	if format == "" {
		format = "json"
	}

	data, contentType, err := h.Exporter.Export(userID, from, to, format)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="activity-report.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// respondError maps the error taxonomy to HTTP statuses. Validation and
// not-found problems carry their message; anything else is a server fault and
// only an opaque body goes out.
func respondError(w http.ResponseWriter, err error) {
	var validation *apperr.ValidationError
	var notFound *apperr.NotFoundError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Msg)
	case errors.As(err, &notFound):
		writeError(w, http.StatusBadRequest, notFound.Msg)
	default:
		logger.Sugar.Errorf("Handler: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
