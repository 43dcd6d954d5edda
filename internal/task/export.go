package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"routinemelt/internal/task/model"
	"routinemelt/internal/task/service"
	"routinemelt/pkg/apperr"

	"github.com/jung-kurt/gofpdf"
)

// Exporter renders a user's activity over a date range as a downloadable
// report.
type Exporter struct {
	store service.TaskStore
}

func NewExporter(store service.TaskStore) *Exporter {
	return &Exporter{store: store}
}

// Export returns the report bytes and their content type.
func (e *Exporter) Export(userID, from, to, format string) ([]byte, string, error) {
	records, err := e.store.QueryRange(userID, from, to)
	if err != nil {
		return nil, "", apperr.Infra(err)
	}

	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, "", apperr.Infra(err)
		}
		return data, "application/json", nil
	case "csv":
		var b strings.Builder
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"date", "count", "titles"})
		for _, rec := range records {
			titles := make([]string, 0, len(rec.Tasks))
			for _, t := range rec.Tasks {
				titles = append(titles, t.Title)
			}
			_ = w.Write([]string{rec.Date, fmt.Sprint(len(rec.Tasks)), strings.Join(titles, "; ")})
		}
		w.Flush()
		return []byte(b.String()), "text/csv", nil
	case "pdf":
		data, err := renderPDF(userID, from, to, records)
		if err != nil {
			return nil, "", apperr.Infra(err)
		}
		return data, "application/pdf", nil
	default:
		return nil, "", apperr.Validation("unknown format %s", format)
	}
}

func renderPDF(userID, from, to string, records []model.DayRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Activity Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 8, fmt.Sprintf("User %s, %s to %s", userID, from, to))
	pdf.Ln(10)

	for _, rec := range records {
		titles := make([]string, 0, len(rec.Tasks))
		for _, t := range rec.Tasks {
			titles = append(titles, t.Title)
		}
		line := fmt.Sprintf("%s  %d task(s): %s", rec.Date, len(rec.Tasks), strings.Join(titles, "; "))
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
