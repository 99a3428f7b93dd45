package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"sipor/internal/models"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrSourceUnavailable means the workbook resource does not exist.
	ErrSourceUnavailable = errors.New("workbook source unavailable")
	// ErrParse means the resource exists but is not a readable workbook.
	ErrParse = errors.New("workbook cannot be parsed")
)

// WorkbookSource provides the raw workbook bytes. Implementations exist for
// local files and object storage.
type WorkbookSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Key() string
}

// WorkbookRepository loads and normalizes the operational sheet.
type WorkbookRepository interface {
	Load(ctx context.Context) (*models.Workbook, error)
	SourceKey() string
}

type workbookRepo struct {
	source WorkbookSource
	sheet  string
}

func NewWorkbookRepo(source WorkbookSource, sheet string) WorkbookRepository {
	return &workbookRepo{source: source, sheet: sheet}
}

func (r *workbookRepo) SourceKey() string {
	return r.source.Key()
}

func (r *workbookRepo) Load(ctx context.Context) (*models.Workbook, error) {
	reader, err := r.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrParse, r.sheet, err)
	}
	if len(rows) == 0 {
		return &models.Workbook{}, nil
	}

	// Header row: trim and lowercase before any lookup. Unknown columns are
	// carried through the index but otherwise ignored.
	columns := make([]string, len(rows[0]))
	colIndex := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		normalized := strings.ToLower(strings.TrimSpace(name))
		columns[i] = normalized
		if _, exists := colIndex[normalized]; !exists && normalized != "" {
			colIndex[normalized] = i
		}
	}

	wb := &models.Workbook{Columns: columns}
	cell := func(row []string, col string) string {
		idx, ok := colIndex[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		wb.Diagnostics.RowsRead++

		rec := models.Record{
			Zone:        cell(row, models.ColZone),
			Subzone:     cell(row, models.ColSubzone),
			Item:        cell(row, models.ColItem),
			ItemSubtype: cell(row, models.ColItemSubtype),
			Kind:        models.RecordKind(strings.ToLower(cell(row, models.ColRecordKind))),
			Status:      cell(row, models.ColStatus),
			EventType:   cell(row, models.ColEventType),
			Shift:       cell(row, models.ColShift),
		}

		if date, ok := parseDate(cell(row, models.ColDate)); ok {
			rec.Date = date
		} else {
			wb.Diagnostics.UndatedRows++
		}

		qty, coerced := parseQuantity(cell(row, models.ColQuantity))
		rec.Quantity = qty
		if coerced {
			wb.Diagnostics.CoercedQuantities++
		}

		wb.Records = append(wb.Records, rec)
	}

	return wb, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
	"01-02-06",
	"1/2/06 15:04",
	time.RFC3339,
}

// parseDate coerces a cell to a day-granularity date. Excelize may return
// dates either formatted or as raw serial numbers depending on cell style.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDay(t), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return truncateToDay(t), true
		}
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseQuantity coerces a cell to a finite quantity >= 0. Invalid values
// become 0 rather than dropping the row, so totals are never silently
// undercounted; the caller counts coercions instead. Comma-bearing cells
// are ambiguous ("7,5" may mean 7.5) and coerce to 0 rather than guess.
func parseQuantity(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, true
	}
	return v, false
}
