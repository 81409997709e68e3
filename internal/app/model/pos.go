package model

import (
	"strings"
	"time"
)

// ColumnType is the inferred type of an uploaded column.
type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnNumber   ColumnType = "number"
	ColumnDatetime ColumnType = "datetime"
)

// Column describes one column of an uploaded POS export after type inference.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Row is a single POS record. Values are string, float64 or time.Time
// depending on the inferred column type; missing cells are absent keys.
type Row map[string]interface{}

// Dataset is a normalized POS upload. Replaced wholesale on each upload;
// column presence is not guaranteed across uploads.
type Dataset struct {
	Filename string   `json:"filename"`
	Columns  []Column `json:"columns"`
	Rows     []Row    `json:"rows"`
}

// ResolveColumn returns the actual column name matching name
// case-insensitively, or "" when the dataset has no such column.
func (d *Dataset) ResolveColumn(name string) string {
	for _, col := range d.Columns {
		if strings.EqualFold(col.Name, name) {
			return col.Name
		}
	}
	return ""
}

// String returns the cell as a string, or "" when absent or non-string.
func (r Row) String(col string) string {
	if v, ok := r[col].(string); ok {
		return v
	}
	return ""
}

// Number returns the cell as a float64 and whether it was present.
func (r Row) Number(col string) (float64, bool) {
	v, ok := r[col].(float64)
	return v, ok
}

// Time returns the cell as a time.Time and whether it was present.
func (r Row) Time(col string) (time.Time, bool) {
	v, ok := r[col].(time.Time)
	return v, ok
}

// DateRange is the observed min/max of a datetime column.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IngestResult summarizes a successful POS upload.
type IngestResult struct {
	Filename         string     `json:"filename"`
	Rows             int        `json:"rows"`
	Cols             []string   `json:"cols"`
	InferredNumeric  []string   `json:"inferred_numeric"`
	InferredDatetime []string   `json:"inferred_datetime"`
	DateRange        *DateRange `json:"date_range,omitempty"`
	Preview          []Row      `json:"preview"`
}
