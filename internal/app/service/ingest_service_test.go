package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/brewbot/brewbot-backend/internal/app/model"
	"github.com/brewbot/brewbot-backend/internal/app/store"
)

func newIngestService() (*IngestService, *store.POSStore) {
	posStore := store.NewPOSStore()
	return NewIngestService(posStore), posStore
}

func TestIngestPOS_CSV(t *testing.T) {
	svc, posStore := newIngestService()

	var b strings.Builder
	b.WriteString(" Date , Type ,Item Name, Net Sales \n")
	for i := 1; i <= 7; i++ {
		fmt.Fprintf(&b, "2024-03-%02d,Sale,Latte,\"$%d,200.50\"\n", i, i)
	}

	result, err := svc.IngestPOS("sales.csv", []byte(b.String()))
	require.NoError(t, err)

	// Header whitespace is trimmed.
	assert.Equal(t, []string{"Date", "Type", "Item Name", "Net Sales"}, result.Cols)
	assert.Equal(t, 7, result.Rows)
	assert.Contains(t, result.InferredNumeric, "Net Sales")
	assert.Contains(t, result.InferredDatetime, "Date")
	assert.NotContains(t, result.InferredNumeric, "Item Name")

	require.NotNil(t, result.DateRange)
	assert.Contains(t, result.DateRange.Start, "2024-03-01")
	assert.Contains(t, result.DateRange.End, "2024-03-07")

	assert.Len(t, result.Preview, 5)

	ds := posStore.Get()
	require.NotNil(t, ds)
	net, ok := ds.Rows[0].Number("Net Sales")
	require.True(t, ok)
	assert.InDelta(t, 1200.50, net, 1e-9)
}

func TestIngestPOS_NumericThreshold(t *testing.T) {
	svc, _ := newIngestService()

	// 6 of 10 values are numeric: below the 70% bar, the column stays text.
	var b strings.Builder
	b.WriteString("Code\n")
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	for i := 0; i < 4; i++ {
		b.WriteString("N/A\n")
	}

	result, err := svc.IngestPOS("codes.csv", []byte(b.String()))
	require.NoError(t, err)
	assert.NotContains(t, result.InferredNumeric, "Code")
}

func TestIngestPOS_NumericAboveThreshold(t *testing.T) {
	svc, posStore := newIngestService()

	// 8 of 10 parse: the column coerces and the failures drop out.
	var b strings.Builder
	b.WriteString("Amount\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "$%d.50\n", i)
	}
	b.WriteString("N/A\nN/A\n")

	result, err := svc.IngestPOS("amounts.csv", []byte(b.String()))
	require.NoError(t, err)
	assert.Contains(t, result.InferredNumeric, "Amount")

	ds := posStore.Get()
	_, ok := ds.Rows[8].Number("Amount")
	assert.False(t, ok)
}

func TestIngestPOS_TabDelimitedTxt(t *testing.T) {
	svc, _ := newIngestService()

	content := "Item Name\tQty\nLatte\t3\nMocha\t2\n"
	result, err := svc.IngestPOS("export.txt", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"Item Name", "Qty"}, result.Cols)
	assert.Equal(t, 2, result.Rows)
}

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Date", "Type", "Item Name", "Net Sales"},
		{"2024-01-02", "Sale", "Cold Brew", "4.50"},
		{"2024-01-03", "Sale", "Latte", "5.25"},
		{"2024-01-04", "Refund", "Latte", "-5.25"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestIngestPOS_XLSX(t *testing.T) {
	svc, posStore := newIngestService()

	result, err := svc.IngestPOS("export.xlsx", buildWorkbook(t))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Rows)
	assert.Contains(t, result.InferredNumeric, "Net Sales")
	assert.Contains(t, result.InferredDatetime, "Date")

	ds := posStore.Get()
	require.NotNil(t, ds)
	assert.Equal(t, "Cold Brew", ds.Rows[0].String("Item Name"))
}

func TestIngestPOS_SniffsSpreadsheetWithoutExtension(t *testing.T) {
	svc, _ := newIngestService()

	// xlsx content behind an unknown extension is caught by the zip magic.
	result, err := svc.IngestPOS("upload.bin", buildWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
}

func TestIngestPOS_RejectsBinaryJunk(t *testing.T) {
	svc, posStore := newIngestService()

	_, err := svc.IngestPOS("mystery.bin", []byte{0x00, 0x01, 0x02, 0xff, 0xfe})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Nil(t, posStore.Get())
}

func TestIngestPOS_ReplacesPreviousDataset(t *testing.T) {
	svc, posStore := newIngestService()

	_, err := svc.IngestPOS("jan.csv", []byte("Item Name\nLatte\n"))
	require.NoError(t, err)
	_, err = svc.IngestPOS("feb.csv", []byte("Item Name\nMocha\nChai\n"))
	require.NoError(t, err)

	ds := posStore.Get()
	assert.Equal(t, "feb.csv", ds.Filename)
	assert.Len(t, ds.Rows, 2)
}

func TestInferColumnType_DatetimeByName(t *testing.T) {
	sample := []string{"2024-01-01 09:15", "2024-01-02 10:30", "2024-01-03 11:45"}
	assert.Equal(t, model.ColumnDatetime, inferColumnType("Order Time", sample))
	assert.Equal(t, model.ColumnDatetime, inferColumnType("date", sample))
}

func TestInferColumnType_Text(t *testing.T) {
	assert.Equal(t, model.ColumnText, inferColumnType("Notes", []string{"hello", "world", "again"}))
	assert.Equal(t, model.ColumnText, inferColumnType("Empty", nil))
}
