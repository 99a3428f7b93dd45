package repositories

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"sipor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type byteSource struct {
	data []byte
	key  string
}

func (s *byteSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *byteSource) Key() string {
	return s.key
}

func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	data := buildWorkbook(t, "Base_Operacion", [][]any{
		{"  Fecha ", "ZONA", "Subzona", "Insumo", "Tipo_Registro", "Estado", "Cantidad"},
		{"2026-03-15", "Patio 1", "A", "Estiba Plana", "Estado", "Disponible", "120"},
		{"2026-03-15", "Bodega", "B", "Carpa Verde", "estado", "Para Reparar", "7.5"},
	})

	repo := NewWorkbookRepo(&byteSource{data: data, key: "test.xlsx"}, "Base_Operacion")
	wb, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"fecha", "zona", "subzona", "insumo", "tipo_registro", "estado", "cantidad"}, wb.Columns)
	require.Len(t, wb.Records, 2)

	first := wb.Records[0]
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "Patio 1", first.Zone)
	assert.Equal(t, "A", first.Subzone)
	assert.Equal(t, "Estiba Plana", first.Item)
	assert.Equal(t, models.RecordKindInventory, first.Kind)
	assert.Equal(t, "Disponible", first.Status)
	assert.Equal(t, 120.0, first.Quantity)

	assert.Equal(t, models.RecordKindInventory, wb.Records[1].Kind)
	assert.Equal(t, 7.5, wb.Records[1].Quantity)

	assert.Equal(t, 2, wb.Diagnostics.RowsRead)
	assert.Equal(t, 0, wb.Diagnostics.CoercedQuantities)
	assert.Equal(t, 0, wb.Diagnostics.UndatedRows)
}

func TestLoadCoercesBadQuantities(t *testing.T) {
	data := buildWorkbook(t, "Base_Operacion", [][]any{
		{"Fecha", "Insumo", "Cantidad"},
		{"2026-03-15", "Estiba Plana", "abc"},
		{"2026-03-15", "Estiba Plana", "-5"},
		{"2026-03-15", "Estiba Plana", ""},
		{"2026-03-15", "Estiba Plana", "7,5"},
	})

	repo := NewWorkbookRepo(&byteSource{data: data, key: "test.xlsx"}, "Base_Operacion")
	wb, err := repo.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, wb.Records, 4)
	assert.Equal(t, 0.0, wb.Records[0].Quantity)
	assert.Equal(t, 0.0, wb.Records[1].Quantity)
	assert.Equal(t, 0.0, wb.Records[2].Quantity)
	assert.Equal(t, 0.0, wb.Records[3].Quantity)
	assert.Equal(t, 4, wb.Diagnostics.CoercedQuantities)
}

func TestLoadCountsUndatedRows(t *testing.T) {
	data := buildWorkbook(t, "Base_Operacion", [][]any{
		{"Fecha", "Insumo", "Cantidad"},
		{"", "Estiba Plana", "10"},
		{"no es fecha", "Estiba Plana", "20"},
		{"2026-03-15", "Estiba Plana", "30"},
	})

	repo := NewWorkbookRepo(&byteSource{data: data, key: "test.xlsx"}, "Base_Operacion")
	wb, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, wb.Diagnostics.UndatedRows)
	assert.False(t, wb.Records[0].HasDate())
	assert.False(t, wb.Records[1].HasDate())
	assert.True(t, wb.Records[2].HasDate())
	// Undated rows still carry their quantity.
	assert.Equal(t, 10.0, wb.Records[0].Quantity)
}

func TestLoadSkipsEmptyRows(t *testing.T) {
	data := buildWorkbook(t, "Base_Operacion", [][]any{
		{"Fecha", "Insumo", "Cantidad"},
		{"2026-03-15", "Estiba Plana", "10"},
		{"", "", ""},
		{"2026-03-16", "Carpa Verde", "4"},
	})

	repo := NewWorkbookRepo(&byteSource{data: data, key: "test.xlsx"}, "Base_Operacion")
	wb, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, wb.Records, 2)
	assert.Equal(t, 2, wb.Diagnostics.RowsRead)
}

func TestLoadCarriesUnknownColumns(t *testing.T) {
	data := buildWorkbook(t, "Base_Operacion", [][]any{
		{"Fecha", "Insumo", "Cantidad", "Observaciones"},
		{"2026-03-15", "Estiba Plana", "10", "revisar"},
	})

	repo := NewWorkbookRepo(&byteSource{data: data, key: "test.xlsx"}, "Base_Operacion")
	wb, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, wb.HasColumn("observaciones"))
	assert.Len(t, wb.Records, 1)
}

func TestLoadMissingSheet(t *testing.T) {
	data := buildWorkbook(t, "Otra_Hoja", [][]any{
		{"Fecha", "Insumo", "Cantidad"},
	})

	repo := NewWorkbookRepo(&byteSource{data: data, key: "test.xlsx"}, "Base_Operacion")
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadGarbageBytes(t *testing.T) {
	repo := NewWorkbookRepo(&byteSource{data: []byte("not a workbook"), key: "test.xlsx"}, "Base_Operacion")
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadMissingFile(t *testing.T) {
	repo := NewWorkbookRepo(NewFileSource("/nonexistent/balance.xlsx"), "Base_Operacion")
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestSourceKey(t *testing.T) {
	repo := NewWorkbookRepo(&byteSource{key: "bucket/balance.xlsx"}, "Base_Operacion")
	assert.Equal(t, "bucket/balance.xlsx", repo.SourceKey())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected time.Time
		ok       bool
	}{
		{"iso", "2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"iso with time", "2026-03-15 14:30:00", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"day first dash", "15-03-2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"day first slash", "15/03/2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"excel serial", "46096", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "mañana", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected float64
		coerced  bool
	}{
		{"integer", "120", 120, false},
		{"decimal", "7.5", 7.5, false},
		{"decimal comma", "7,5", 0, true},
		{"thousands separator", "1,200", 0, true},
		{"zero", "0", 0, false},
		{"empty", "", 0, true},
		{"negative", "-5", 0, true},
		{"text", "muchas", 0, true},
		{"nan", "NaN", 0, true},
		{"infinity", "+Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, coerced := parseQuantity(tt.in)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.coerced, coerced)
		})
	}
}
