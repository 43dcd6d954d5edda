package handler

import (
	"net/http"
	"strings"
	"testing"

	"routinemelt/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *memStore {
	t.Helper()
	store := newMemStore()
	for _, title := range []string{"Read", "Run"} {
		_, err := store.UpsertTask("u1", "2025-03-01", title)
		require.NoError(t, err)
	}
	_, err := store.UpsertTask("u1", "2025-03-02", "Write")
	require.NoError(t, err)
	return store
}

func TestExportJSON(t *testing.T) {
	exp := NewExporter(seededStore(t))

	data, contentType, err := exp.Export("u1", "2025-03-01", "2025-03-31", "json")
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Contains(t, string(data), `"2025-03-01"`)
	assert.Contains(t, string(data), `"Read"`)
}

func TestExportCSV(t *testing.T) {
	exp := NewExporter(seededStore(t))

	data, contentType, err := exp.Export("u1", "2025-03-01", "2025-03-31", "csv")
	require.NoError(t, err)

	assert.Equal(t, "text/csv", contentType)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,count,titles", lines[0])
	assert.Equal(t, "2025-03-01,2,Read; Run", lines[1])
	assert.Equal(t, "2025-03-02,1,Write", lines[2])
}

func TestExportPDF(t *testing.T) {
	exp := NewExporter(seededStore(t))

	data, contentType, err := exp.Export("u1", "2025-03-01", "2025-03-31", "pdf")
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output should be a PDF document")
}

func TestExportUnknownFormat(t *testing.T) {
	exp := NewExporter(newMemStore())

	_, _, err := exp.Export("u1", "2025-03-01", "2025-03-31", "xml")

	var validation *apperr.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestExportEndpoint(t *testing.T) {
	h := newTestHandler(seededStore(t))

	w := doJSON(t, h.Export, http.MethodGet, "/api/tasks/export?userId=u1&from=2025-03-01&to=2025-03-31&format=csv", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "activity-report.csv")

	w = doJSON(t, h.Export, http.MethodGet, "/api/tasks/export?userId=u1&from=2025-03-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
