package models

import (
	"time"
)

// RecordKind discriminates the two row types in the Base_Operacion sheet.
type RecordKind string

const (
	RecordKindInventory RecordKind = "estado"
	RecordKindEvent     RecordKind = "evento"
)

// Normalized column names as they appear in the workbook after
// trimming and lowercasing.
const (
	ColDate        = "fecha"
	ColZone        = "zona"
	ColSubzone     = "subzona"
	ColItem        = "insumo"
	ColItemSubtype = "subtipo_insumo"
	ColRecordKind  = "tipo_registro"
	ColStatus      = "estado"
	ColEventType   = "tipo_evento"
	ColShift       = "turno"
	ColQuantity    = "cantidad"
)

// RequiredInventoryColumns must all be present for the inventory subset to be usable.
var RequiredInventoryColumns = []string{ColDate, ColZone, ColSubzone, ColItem, ColQuantity, ColStatus}

// RequiredEventColumns must all be present for the event subset to be usable.
var RequiredEventColumns = []string{ColDate, ColZone, ColItem, ColQuantity, ColEventType, ColShift}

// Record is one normalized row of the operational workbook. Inventory-only
// fields are empty on event records and vice versa.
type Record struct {
	Date        time.Time  `json:"date"`
	Zone        string     `json:"zone"`
	Subzone     string     `json:"subzone"`
	Item        string     `json:"item"`
	ItemSubtype string     `json:"item_subtype,omitempty"`
	Kind        RecordKind `json:"kind"`
	Status      string     `json:"status,omitempty"`
	EventType   string     `json:"event_type,omitempty"`
	Shift       string     `json:"shift,omitempty"`
	Quantity    float64    `json:"quantity"`
}

// HasDate reports whether the row carried a parseable date. Rows without one
// stay in quantity aggregates but are excluded from date-range operations.
func (r *Record) HasDate() bool {
	return !r.Date.IsZero()
}

// MissingColumns describes a structural mismatch in one subset of the
// workbook. It degrades that subset to empty instead of failing the load.
type MissingColumns struct {
	Subset  string   `json:"subset"`
	Columns []string `json:"columns"`
}

// LoadDiagnostics counts the defensive coercions applied while reading the
// workbook so data-quality regressions stay visible.
type LoadDiagnostics struct {
	RowsRead          int              `json:"rows_read"`
	CoercedQuantities int              `json:"coerced_quantities"`
	UndatedRows       int              `json:"undated_rows"`
	MissingColumns    []MissingColumns `json:"missing_columns,omitempty"`
}

// Workbook is the raw parse result before the estado/evento split.
type Workbook struct {
	Records     []Record
	Columns     []string
	Diagnostics LoadDiagnostics
}

// HasColumn reports whether a normalized column name was present in the sheet.
func (w *Workbook) HasColumn(name string) bool {
	for _, c := range w.Columns {
		if c == name {
			return true
		}
	}
	return false
}
