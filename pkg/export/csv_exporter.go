package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ScheduleRow is one weekly meeting in a rendered schedule.
type ScheduleRow struct {
	Day       string
	Start     string
	End       string
	Subject   string
	Group     string
	Classroom string
}

// ScheduleDocument holds a professor's weekly schedule ready for rendering.
type ScheduleDocument struct {
	Title string
	Rows  []ScheduleRow
}

var scheduleHeaders = []string{"Day", "Start", "End", "Subject", "Group", "Classroom"}

// CSVExporter renders schedule documents into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the schedule.
func (e *CSVExporter) Render(doc ScheduleDocument) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(scheduleHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range doc.Rows {
		record := []string{row.Day, row.Start, row.End, row.Subject, row.Group, row.Classroom}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
