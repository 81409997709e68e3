package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"

	"github.com/brewbot/brewbot-backend/internal/app/model"
	"github.com/brewbot/brewbot-backend/internal/app/store"
)

var ErrUnsupportedFormat = errors.New("unsupported file format: no parser accepted the content")

const (
	inferenceSampleSize = 50
	inferenceThreshold  = 0.7
	previewRows         = 5
)

// currencyReplacer strips the punctuation POS exports put around money
// figures before the numeric parse.
var currencyReplacer = strings.NewReplacer(
	",", "",
	" ", "",
	"\t", "",
	"$", "",
	"€", "",
	"£", "",
	"₩", "",
)

// IngestService parses uploaded POS exports into a typed dataset and stores
// the result in the POS store.
type IngestService struct {
	posStore *store.POSStore
}

func NewIngestService(posStore *store.POSStore) *IngestService {
	return &IngestService{posStore: posStore}
}

// IngestPOS parses the upload, runs column type inference, replaces the
// stored dataset and returns an upload summary.
func (s *IngestService) IngestPOS(filename string, data []byte) (*model.IngestResult, error) {
	table, err := parseTable(filename, data)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 || len(table[0]) == 0 {
		return nil, ErrUnsupportedFormat
	}

	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		headers[i] = strings.TrimSpace(h)
	}

	raw := table[1:]
	columns, rows := inferColumns(headers, raw)

	dataset := &model.Dataset{
		Filename: filename,
		Columns:  columns,
		Rows:     rows,
	}
	s.posStore.Set(dataset)

	return buildIngestResult(dataset), nil
}

// parseTable turns the upload into a rectangular string table. Format is
// chosen by extension, with a content sniff as fallback.
func parseTable(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls", ".xlsm":
		return parseSpreadsheet(data)
	case ".csv", ".tsv", ".txt":
		return parseDelimited(data)
	}

	// Unknown extension: xlsx files are zip archives, so sniff the magic
	// bytes before falling back to a delimited parse.
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return parseSpreadsheet(data)
	}
	return parseDelimited(data)
}

func parseSpreadsheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrUnsupportedFormat
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return rows, nil
}

func parseDelimited(data []byte) ([][]string, error) {
	if !isMostlyText(data) {
		return nil, ErrUnsupportedFormat
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if len(records) == 0 {
		return nil, ErrUnsupportedFormat
	}
	return records, nil
}

// detectDelimiter picks the candidate that appears most often in the first
// line of the file.
func detectDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}

	best := ','
	bestCount := 0
	for _, candidate := range []rune{',', ';', '\t', '|'} {
		count := bytes.Count(line, []byte(string(candidate)))
		if count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

// isMostlyText rejects binary content that the csv reader would otherwise
// happily mangle.
func isMostlyText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	binary := 0
	for _, b := range sample {
		if b == 0 || (b < 0x09 && b != 0) {
			binary++
		}
	}
	return binary == 0
}

// inferColumns runs type inference per column over a 50-row sample and
// converts every cell to its inferred type. Cells that fail the conversion
// are dropped from their row rather than failing the upload.
func inferColumns(headers []string, raw [][]string) ([]model.Column, []model.Row) {
	columns := make([]model.Column, len(headers))
	for i, name := range headers {
		columns[i] = model.Column{Name: name, Type: inferColumnType(name, columnSample(raw, i))}
	}

	rows := make([]model.Row, 0, len(raw))
	for _, record := range raw {
		if isEmptyRecord(record) {
			continue
		}
		row := make(model.Row, len(headers))
		for i, col := range columns {
			if i >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				continue
			}
			switch col.Type {
			case model.ColumnNumber:
				if v, err := parseNumeric(cell); err == nil {
					row[col.Name] = v
				}
			case model.ColumnDatetime:
				if t, err := dateparse.ParseAny(cell); err == nil {
					row[col.Name] = t
				}
			default:
				row[col.Name] = cell
			}
		}
		rows = append(rows, row)
	}

	return columns, rows
}

// inferColumnType applies the 70% heuristics: datetime wins for columns whose
// name mentions date or time, then numeric, then datetime for the rest.
func inferColumnType(name string, sample []string) model.ColumnType {
	if len(sample) == 0 {
		return model.ColumnText
	}

	nameLower := strings.ToLower(name)
	nameSuggestsTime := strings.Contains(nameLower, "date") || strings.Contains(nameLower, "time")

	if nameSuggestsTime && ratioParsing(sample, isDatetime) >= inferenceThreshold {
		return model.ColumnDatetime
	}
	if ratioParsing(sample, isNumeric) >= inferenceThreshold {
		return model.ColumnNumber
	}
	if ratioParsing(sample, isDatetime) >= inferenceThreshold {
		return model.ColumnDatetime
	}
	return model.ColumnText
}

func columnSample(raw [][]string, col int) []string {
	var sample []string
	for _, record := range raw {
		if len(sample) == inferenceSampleSize {
			break
		}
		if col >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[col])
		if cell != "" {
			sample = append(sample, cell)
		}
	}
	return sample
}

func ratioParsing(sample []string, parses func(string) bool) float64 {
	ok := 0
	for _, cell := range sample {
		if parses(cell) {
			ok++
		}
	}
	return float64(ok) / float64(len(sample))
}

func parseNumeric(cell string) (float64, error) {
	return strconv.ParseFloat(currencyReplacer.Replace(cell), 64)
}

func isNumeric(cell string) bool {
	_, err := parseNumeric(cell)
	return err == nil
}

func isDatetime(cell string) bool {
	_, err := dateparse.ParseAny(cell)
	return err == nil
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// buildIngestResult summarizes the dataset: coerced columns, a five-row
// preview, and the min/max of the first datetime column when one exists.
func buildIngestResult(dataset *model.Dataset) *model.IngestResult {
	result := &model.IngestResult{
		Filename: dataset.Filename,
		Rows:     len(dataset.Rows),
	}

	var dateCol string
	for _, col := range dataset.Columns {
		result.Cols = append(result.Cols, col.Name)
		switch col.Type {
		case model.ColumnNumber:
			result.InferredNumeric = append(result.InferredNumeric, col.Name)
		case model.ColumnDatetime:
			result.InferredDatetime = append(result.InferredDatetime, col.Name)
			if dateCol == "" {
				dateCol = col.Name
			}
		}
	}

	if dateCol != "" {
		var min, max time.Time
		for _, row := range dataset.Rows {
			t, ok := row.Time(dateCol)
			if !ok {
				continue
			}
			if min.IsZero() || t.Before(min) {
				min = t
			}
			if max.IsZero() || t.After(max) {
				max = t
			}
		}
		if !min.IsZero() {
			result.DateRange = &model.DateRange{
				Start: min.Format(time.RFC3339),
				End:   max.Format(time.RFC3339),
			}
		}
	}

	limit := previewRows
	if len(dataset.Rows) < limit {
		limit = len(dataset.Rows)
	}
	result.Preview = dataset.Rows[:limit]

	return result
}
