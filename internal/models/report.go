package models

import (
	"time"
)

// Window is an inclusive date range at day granularity.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the window length in whole days.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// Contains reports whether d falls inside the window, endpoints included.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// GroupKey names a record field usable as an aggregation key.
type GroupKey string

const (
	GroupByItem      GroupKey = "item"
	GroupByZone      GroupKey = "zone"
	GroupBySubzone   GroupKey = "subzone"
	GroupByShift     GroupKey = "shift"
	GroupByEventType GroupKey = "event_type"
	GroupByDate      GroupKey = "date"
	GroupByStatus    GroupKey = "status"
	GroupBySubtype   GroupKey = "item_subtype"
)

// GroupTotal is one aggregated row: a key tuple and its summed quantity.
type GroupTotal struct {
	Keys     map[GroupKey]string `json:"keys"`
	Quantity float64             `json:"quantity"`
}

// SubzoneRow is one row of the subzone distribution view, sorted by zone
// then subzone.
type SubzoneRow struct {
	Zone         string       `json:"zone"`
	Subzone      string       `json:"subzone"`
	LocationType LocationType `json:"location_type"`
	Quantity     float64      `json:"quantity"`
}

// TrendPoint is one point of the event trend line, per date and event type.
type TrendPoint struct {
	Date      time.Time `json:"date"`
	EventType string    `json:"event_type"`
	Quantity  float64   `json:"quantity"`
}

// PeriodComparison compares the current window against the immediately
// preceding window of equal length. ChangePct is nil when no baseline
// exists, which is a distinct state from a 0% change.
type PeriodComparison struct {
	Current        float64  `json:"current"`
	Previous       float64  `json:"previous"`
	PreviousWindow Window   `json:"previous_window"`
	ChangePct      *float64 `json:"change_pct"`
}

// EventSummary is the management-view event payload for one window.
type EventSummary struct {
	Window          Window       `json:"window"`
	Repairs         float64      `json:"repairs"`
	WriteOffs       float64      `json:"write_offs"`
	MostActiveShift string       `json:"most_active_shift,omitempty"`
	MostActiveZone  string       `json:"most_active_zone,omitempty"`
	TrendByDate     []TrendPoint `json:"trend_by_date"`
	ByShift         []GroupTotal `json:"by_shift"`
	ByZone          []GroupTotal `json:"by_zone"`
}

// ItemDelta is the per-item change between the earliest and latest snapshot
// dates inside a window. DeltaPct is 0 when the earliest total is 0.
type ItemDelta struct {
	Item     string  `json:"item"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Delta    float64 `json:"delta"`
	DeltaPct float64 `json:"delta_pct"`
}

// DeltaReport ranks the top stock movers in a window. InsufficientRange is
// set when fewer than two distinct snapshot dates exist in the range, in
// which case no movers are computed.
type DeltaReport struct {
	Window            Window      `json:"window"`
	EarliestDate      time.Time   `json:"earliest_date"`
	LatestDate        time.Time   `json:"latest_date"`
	InsufficientRange bool        `json:"insufficient_range"`
	Increases         []ItemDelta `json:"increases"`
	Decreases         []ItemDelta `json:"decreases"`
}

// CategoryBalance is the client-view KPI block for one supply category.
type CategoryBalance struct {
	Category Category           `json:"category"`
	Total    float64            `json:"total"`
	Buckets  map[string]float64 `json:"buckets"`
	Subzones []SubzoneRow       `json:"subzones"`
}

// SizeTotal is one size/variant total of the spaces breakdown.
type SizeTotal struct {
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
}

// SpacesBalance breaks storage-space availability down by size variant.
type SpacesBalance struct {
	Total    float64      `json:"total"`
	Sizes    []SizeTotal  `json:"sizes"`
	Subzones []SubzoneRow `json:"subzones"`
}

// BalanceReport is the client-view payload: a single-date snapshot balance.
type BalanceReport struct {
	SnapshotDate time.Time         `json:"snapshot_date"`
	Categories   []CategoryBalance `json:"categories"`
	Spaces       SpacesBalance     `json:"spaces"`
	GrandTotal   float64           `json:"grand_total"`
}

// EventFilter narrows the event set before aggregation. Empty slices mean
// no filtering on that dimension.
type EventFilter struct {
	Shifts []string `json:"shifts"`
	Zones  []string `json:"zones"`
}

// FilterOptions lists the distinct values available for the management-view
// multi-select filters.
type FilterOptions struct {
	Window Window   `json:"window"`
	Shifts []string `json:"shifts"`
	Zones  []string `json:"zones"`
}

// OperationsSummary is the management-view payload. NoValidDates is set when
// the event set has no usable dates; all other fields are then empty and the
// presentation layer must render the state explicitly.
type OperationsSummary struct {
	NoValidDates bool              `json:"no_valid_dates"`
	Window       Window            `json:"window"`
	Events       *EventSummary     `json:"events,omitempty"`
	RepairsTrend *PeriodComparison `json:"repairs_trend,omitempty"`
}
