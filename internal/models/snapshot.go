package models

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one loaded copy of the workbook, already split by record kind.
// It is immutable for its cache lifetime; views only read filtered copies.
type Snapshot struct {
	ID          uuid.UUID       `json:"id"`
	SourceKey   string          `json:"source_key"`
	LoadedAt    time.Time       `json:"loaded_at"`
	Inventory   []Record        `json:"inventory"`
	Events      []Record        `json:"events"`
	Diagnostics LoadDiagnostics `json:"diagnostics"`
}

// RefreshAudit records one fresh workbook load for the data-quality trail.
type RefreshAudit struct {
	ID                uuid.UUID `json:"id" db:"id"`
	SnapshotID        uuid.UUID `json:"snapshot_id" db:"snapshot_id"`
	SourceKey         string    `json:"source_key" db:"source_key"`
	RowsRead          int       `json:"rows_read" db:"rows_read"`
	InventoryRows     int       `json:"inventory_rows" db:"inventory_rows"`
	EventRows         int       `json:"event_rows" db:"event_rows"`
	CoercedQuantities int       `json:"coerced_quantities" db:"coerced_quantities"`
	UndatedRows       int       `json:"undated_rows" db:"undated_rows"`
	Warnings          []string  `json:"warnings" db:"warnings"`
	LoadedAt          time.Time `json:"loaded_at" db:"loaded_at"`
}
