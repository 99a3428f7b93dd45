package analytics

import (
	"errors"
	"sort"
	"strings"
	"time"

	"sipor/internal/classify"
	"sipor/internal/models"
)

// ErrNoValidDates means a record set has no rows with a usable date, so no
// analysis window can be derived. Callers must not proceed with aggregation.
var ErrNoValidDates = errors.New("no valid dates in record set")

// Service is the aggregation and delta engine. Every operation is a pure
// function of its input records: no record is mutated, only filtered and
// grouped copies are produced, and empty input flows through as empty
// results rather than errors.
type Service struct {
	classifier *classify.Classifier
	topMovers  int
}

func NewService(classifier *classify.Classifier, topMovers int) *Service {
	if topMovers <= 0 {
		topMovers = 5
	}
	return &Service{classifier: classifier, topMovers: topMovers}
}

// GroupTotals sums quantity over unique key tuples, output ordered by
// first-seen key. Views needing sorted output sort the result themselves.
func (s *Service) GroupTotals(records []models.Record, keys ...models.GroupKey) []models.GroupTotal {
	var totals []models.GroupTotal
	index := make(map[string]int)

	for _, r := range records {
		parts := make([]string, len(keys))
		kv := make(map[models.GroupKey]string, len(keys))
		for i, k := range keys {
			v := groupValue(&r, k)
			parts[i] = v
			kv[k] = v
		}
		composite := strings.Join(parts, "\x1f")
		if i, ok := index[composite]; ok {
			totals[i].Quantity += r.Quantity
		} else {
			index[composite] = len(totals)
			totals = append(totals, models.GroupTotal{Keys: kv, Quantity: r.Quantity})
		}
	}
	return totals
}

func groupValue(r *models.Record, key models.GroupKey) string {
	switch key {
	case models.GroupByItem:
		return r.Item
	case models.GroupByZone:
		return r.Zone
	case models.GroupBySubzone:
		return r.Subzone
	case models.GroupByShift:
		return r.Shift
	case models.GroupByEventType:
		return r.EventType
	case models.GroupByStatus:
		return r.Status
	case models.GroupBySubtype:
		return r.ItemSubtype
	case models.GroupByDate:
		if !r.HasDate() {
			return ""
		}
		return r.Date.Format("2006-01-02")
	}
	return ""
}

// SumWhereStatusContains sums quantity over records whose status or event
// type contains term, case-insensitively. Returns 0 for no match or empty
// input.
func (s *Service) SumWhereStatusContains(records []models.Record, term string) float64 {
	term = strings.ToLower(term)
	var total float64
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Status), term) || strings.Contains(strings.ToLower(r.EventType), term) {
			total += r.Quantity
		}
	}
	return total
}

// SumQuantity sums quantity over all records.
func (s *Service) SumQuantity(records []models.Record) float64 {
	var total float64
	for _, r := range records {
		total += r.Quantity
	}
	return total
}

// FilterByWindow keeps dated records inside the window, endpoints included.
// Undated records are excluded from all date-range operations.
func (s *Service) FilterByWindow(records []models.Record, w models.Window) []models.Record {
	var out []models.Record
	for _, r := range records {
		if r.HasDate() && w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// FilterEvents applies the management-view multi-select filters on shift
// and zone. Empty filter slices leave that dimension unrestricted.
func (s *Service) FilterEvents(records []models.Record, filter *models.EventFilter) []models.Record {
	if filter == nil || (len(filter.Shifts) == 0 && len(filter.Zones) == 0) {
		return records
	}
	shifts := toSet(filter.Shifts)
	zones := toSet(filter.Zones)

	var out []models.Record
	for _, r := range records {
		if len(shifts) > 0 && !shifts[r.Shift] {
			continue
		}
		if len(zones) > 0 && !zones[r.Zone] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// DateRange returns the min and max dates present in the record set.
func (s *Service) DateRange(records []models.Record) (earliest, latest time.Time, ok bool) {
	for _, r := range records {
		if !r.HasDate() {
			continue
		}
		if !ok || r.Date.Before(earliest) {
			earliest = r.Date
		}
		if !ok || r.Date.After(latest) {
			latest = r.Date
		}
		ok = true
	}
	return earliest, latest, ok
}

// RollingWindow derives the default analysis window from the dates actually
// present: [max(earliest, latest-days), latest].
func (s *Service) RollingWindow(records []models.Record, days int) (models.Window, error) {
	earliest, latest, ok := s.DateRange(records)
	if !ok {
		return models.Window{}, ErrNoValidDates
	}
	start := latest.AddDate(0, 0, -days)
	if start.Before(earliest) {
		start = earliest
	}
	return models.Window{Start: start, End: latest}, nil
}

// InventorySnapshot filters inventory records down to a single snapshot
// date, the latest available by default.
func (s *Service) InventorySnapshot(records []models.Record, date *time.Time) ([]models.Record, time.Time) {
	var target time.Time
	if date != nil {
		target = *date
	} else {
		_, latest, ok := s.DateRange(records)
		if !ok {
			return nil, time.Time{}
		}
		target = latest
	}

	var out []models.Record
	for _, r := range records {
		if r.HasDate() && r.Date.Equal(target) {
			out = append(out, r)
		}
	}
	return out, target
}

// SnapshotDelta compares the earliest and latest snapshots present inside
// the window and ranks the top movers per item. Fewer than two distinct
// dates in range yields InsufficientRange, never a zero delta.
func (s *Service) SnapshotDelta(inventory []models.Record, w models.Window) *models.DeltaReport {
	report := &models.DeltaReport{
		Window:    w,
		Increases: []models.ItemDelta{},
		Decreases: []models.ItemDelta{},
	}

	filtered := s.FilterByWindow(inventory, w)
	earliest, latest, ok := s.DateRange(filtered)
	if !ok || earliest.Equal(latest) {
		report.InsufficientRange = true
		report.EarliestDate = earliest
		report.LatestDate = latest
		return report
	}
	report.EarliestDate = earliest
	report.LatestDate = latest

	startTotals := make(map[string]float64)
	endTotals := make(map[string]float64)
	var itemOrder []string
	seen := make(map[string]bool)

	for _, r := range filtered {
		switch {
		case r.Date.Equal(earliest):
			startTotals[r.Item] += r.Quantity
		case r.Date.Equal(latest):
			endTotals[r.Item] += r.Quantity
		default:
			continue
		}
		if !seen[r.Item] {
			seen[r.Item] = true
			itemOrder = append(itemOrder, r.Item)
		}
	}

	var deltas []models.ItemDelta
	for _, item := range itemOrder {
		start := startTotals[item]
		end := endTotals[item]
		delta := end - start
		pct := 0.0
		if start > 0 {
			pct = delta / start * 100
		}
		deltas = append(deltas, models.ItemDelta{Item: item, Start: start, End: end, Delta: delta, DeltaPct: pct})
	}

	for _, d := range deltas {
		if d.Delta > 0 {
			report.Increases = append(report.Increases, d)
		} else if d.Delta < 0 {
			report.Decreases = append(report.Decreases, d)
		}
	}
	sort.SliceStable(report.Increases, func(i, j int) bool {
		return report.Increases[i].Delta > report.Increases[j].Delta
	})
	sort.SliceStable(report.Decreases, func(i, j int) bool {
		return report.Decreases[i].Delta < report.Decreases[j].Delta
	})
	if len(report.Increases) > s.topMovers {
		report.Increases = report.Increases[:s.topMovers]
	}
	if len(report.Decreases) > s.topMovers {
		report.Decreases = report.Decreases[:s.topMovers]
	}

	return report
}

// PeriodComparison sums term-matching quantity in the window and in the
// immediately preceding window of equal length. ChangePct stays nil when the
// previous period has no baseline; that is not a 0% change.
func (s *Service) PeriodComparison(records []models.Record, w models.Window, term string) models.PeriodComparison {
	days := w.Days()
	prev := models.Window{
		Start: w.Start.AddDate(0, 0, -days),
		End:   w.Start.AddDate(0, 0, -1),
	}

	comparison := models.PeriodComparison{
		Current:        s.SumWhereStatusContains(s.FilterByWindow(records, w), term),
		Previous:       s.SumWhereStatusContains(s.FilterByWindow(records, prev), term),
		PreviousWindow: prev,
	}
	if comparison.Previous > 0 {
		pct := (comparison.Current - comparison.Previous) / comparison.Previous * 100
		comparison.ChangePct = &pct
	}
	return comparison
}

// EventSummary aggregates the event set over a window: repair and write-off
// totals, the per-date trend, and shift/zone productivity.
func (s *Service) EventSummary(events []models.Record, w models.Window) *models.EventSummary {
	filtered := s.FilterByWindow(events, w)

	summary := &models.EventSummary{
		Window:      w,
		Repairs:     s.SumWhereStatusContains(filtered, models.EventTypeRepaired),
		WriteOffs:   s.SumWhereStatusContains(filtered, models.EventTypeWriteOff),
		TrendByDate: []models.TrendPoint{},
		ByShift:     s.GroupTotals(filtered, models.GroupByShift, models.GroupByEventType),
		ByZone:      s.GroupTotals(filtered, models.GroupByZone, models.GroupByEventType),
	}

	trend := s.GroupTotals(filtered, models.GroupByDate, models.GroupByEventType)
	for _, g := range trend {
		date, err := time.Parse("2006-01-02", g.Keys[models.GroupByDate])
		if err != nil {
			continue
		}
		summary.TrendByDate = append(summary.TrendByDate, models.TrendPoint{
			Date:      date,
			EventType: g.Keys[models.GroupByEventType],
			Quantity:  g.Quantity,
		})
	}
	sort.SliceStable(summary.TrendByDate, func(i, j int) bool {
		if !summary.TrendByDate[i].Date.Equal(summary.TrendByDate[j].Date) {
			return summary.TrendByDate[i].Date.Before(summary.TrendByDate[j].Date)
		}
		return summary.TrendByDate[i].EventType < summary.TrendByDate[j].EventType
	})

	summary.MostActiveShift = mostActive(s.GroupTotals(filtered, models.GroupByShift), models.GroupByShift)
	summary.MostActiveZone = mostActive(s.GroupTotals(filtered, models.GroupByZone), models.GroupByZone)

	if summary.ByShift == nil {
		summary.ByShift = []models.GroupTotal{}
	}
	if summary.ByZone == nil {
		summary.ByZone = []models.GroupTotal{}
	}
	return summary
}

func mostActive(totals []models.GroupTotal, key models.GroupKey) string {
	best := ""
	bestQty := 0.0
	for _, g := range totals {
		if g.Quantity > bestQty {
			bestQty = g.Quantity
			best = g.Keys[key]
		}
	}
	return best
}

// CategoryBreakdown maps the fuzzy status vocabulary onto the fixed KPI
// buckets for one category's records.
func (s *Service) CategoryBreakdown(records []models.Record) map[string]float64 {
	return map[string]float64{
		models.BucketAvailable:  s.SumWhereStatusContains(records, models.StatusTermAvailable),
		models.BucketToRepair:   s.SumWhereStatusContains(records, models.StatusTermRepair),
		models.BucketToClassify: s.SumWhereStatusContains(records, models.StatusTermClassify),
	}
}

// SubzoneDistribution sums quantity per (zone, subzone), annotates the
// location type, and sorts ascending by zone then subzone.
func (s *Service) SubzoneDistribution(records []models.Record) []models.SubzoneRow {
	totals := s.GroupTotals(records, models.GroupByZone, models.GroupBySubzone)

	rows := make([]models.SubzoneRow, 0, len(totals))
	for _, g := range totals {
		zone := g.Keys[models.GroupByZone]
		rows = append(rows, models.SubzoneRow{
			Zone:         zone,
			Subzone:      g.Keys[models.GroupBySubzone],
			LocationType: s.classifier.Zone(zone),
			Quantity:     g.Quantity,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Zone != rows[j].Zone {
			return rows[i].Zone < rows[j].Zone
		}
		return rows[i].Subzone < rows[j].Subzone
	})
	return rows
}

// DistinctValues returns the sorted distinct values of one field, for the
// filter controls. Blank values are excluded: a record missing its shift or
// zone is not selectable through the multi-selects, it only surfaces in the
// unfiltered aggregates and the data-quality checks.
func (s *Service) DistinctValues(records []models.Record, key models.GroupKey) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range records {
		v := groupValue(&r, key)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
