package ingest_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/actisum-cli/internal/ingest"
	"github.com/KaramelBytes/actisum-cli/internal/sheet"
)

// withCell returns a copy of row with cell i replaced.
func withCell(row sheet.Row, i int, c sheet.Cell) sheet.Row {
	out := append(sheet.Row(nil), row...)
	out[i] = c
	return out
}

func TestClassify(t *testing.T) {
	good := dataRow(day(0), 8*time.Hour+30*time.Second, 150)
	tests := []struct {
		name string
		row  sheet.Row
		want ingest.RowKind
	}{
		{"no cells", sheet.Row{}, ingest.RowBlank},
		{"empty cells", blank(), ingest.RowBlank},
		{"header", header(), ingest.RowHeader},
		{"header without flag columns", header()[:3], ingest.RowHeader},
		{"header with trailing space", withCell(header(), 0, sheet.String("Date ")), ingest.RowUnparseable},
		{"lowercase header", withCell(header(), 0, sheet.String("date")), ingest.RowUnparseable},
		{"header with numeric magnitude label", withCell(header(), 2, sheet.Number(1)), ingest.RowUnparseable},
		{"data", good, ingest.RowData},
		{"number typed date", withCell(good, 0, sheet.Number(44927)), ingest.RowData},
		{"negative magnitude", withCell(good, 2, sheet.Number(-1)), ingest.RowData},
		{"partial row", good[:8], ingest.RowUnparseable},
		{"string date", withCell(good, 0, sheet.String("2023-01-01")), ingest.RowUnparseable},
		{"string time", withCell(good, 1, sheet.String("08:00:30")), ingest.RowUnparseable},
		{"negative serial date", withCell(good, 0, sheet.Number(-3)), ingest.RowUnparseable},
		{"datetime magnitude", withCell(good, 2, sheet.DateTime(150)), ingest.RowUnparseable},
		{"string magnitude", withCell(good, 2, sheet.String("150")), ingest.RowUnparseable},
		{"magnitude above int32", withCell(good, 2, sheet.Number(math.MaxInt32+1.0)), ingest.RowUnparseable},
		{"magnitude below int32", withCell(good, 2, sheet.Number(-math.MaxInt32-2.0)), ingest.RowUnparseable},
		{"NaN magnitude", withCell(good, 2, sheet.Number(math.NaN())), ingest.RowUnparseable},
		{"lowercase flag", withCell(good, 4, sheet.String("y")), ingest.RowUnparseable},
		{"bool flag", withCell(good, 8, sheet.Bool(true)), ingest.RowUnparseable},
		{"empty flag", withCell(good, 5, sheet.Empty()), ingest.RowUnparseable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ingest.Classify(tc.row)
			assert.Equal(t, tc.want, got.Kind, "got %s", got.Kind)
		})
	}
}

func TestIsHeaderIgnoresExtraCells(t *testing.T) {
	row := append(header(), sheet.String("anything"))
	assert.True(t, ingest.IsHeader(row))
	assert.False(t, ingest.IsHeader(sheet.Row{sheet.String("Date"), sheet.String("Time")}))
}

func TestParseSampleDecodesEveryField(t *testing.T) {
	row := dataRow(day(3), 13*time.Hour+5*time.Minute+7*time.Second, 2500, "Y", "N", "N", "Y", "N", "Y")
	row = withCell(row, 2, sheet.Number(2500.9))

	s, ok := ingest.ParseSample(row)
	require.True(t, ok)
	assert.Equal(t, day(3), s.Date)
	assert.Equal(t, 13*time.Hour+5*time.Minute+7*time.Second, s.TimeOfDay)
	assert.Equal(t, 2500, s.Magnitude)
	assert.True(t, s.Vigorous)
	assert.False(t, s.Moderate)
	assert.False(t, s.Low)
	assert.True(t, s.Sedentary)
	assert.False(t, s.ConcurrentVigorous)
	assert.True(t, s.ConcurrentModerate)
}

func TestClassifyDataCarriesSample(t *testing.T) {
	c := ingest.Classify(dataRow(day(1), time.Hour, 42))
	require.Equal(t, ingest.RowData, c.Kind)
	assert.Equal(t, day(1), c.Sample.Date)
	assert.Equal(t, 42, c.Sample.Magnitude)

	c = ingest.Classify(header())
	assert.Equal(t, 0, c.Sample.Magnitude)
	assert.True(t, c.Sample.Date.IsZero())
}
