package services

import (
	"context"
	"sort"

	"sipor/internal/analytics"
	"sipor/internal/classify"
	"sipor/internal/models"
)

type BalanceService interface {
	// Balance builds the client-view payload from the latest snapshot date.
	Balance(ctx context.Context) (*models.BalanceReport, error)
}

type balanceService struct {
	snapshots  SnapshotService
	engine     *analytics.Service
	classifier *classify.Classifier
}

func NewBalanceService(snapshots SnapshotService, engine *analytics.Service, classifier *classify.Classifier) BalanceService {
	return &balanceService{
		snapshots:  snapshots,
		engine:     engine,
		classifier: classifier,
	}
}

func (s *balanceService) Balance(ctx context.Context) (*models.BalanceReport, error) {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	current, snapshotDate := s.engine.InventorySnapshot(snapshot.Inventory, nil)

	report := &models.BalanceReport{
		SnapshotDate: snapshotDate,
		Categories:   []models.CategoryBalance{},
		GrandTotal:   s.engine.SumQuantity(current),
	}

	for _, category := range models.ReportCategories {
		records := s.classifier.FilterByCategory(current, category)
		if category == models.CategorySpaces {
			report.Spaces = s.spacesBalance(records)
			continue
		}
		report.Categories = append(report.Categories, models.CategoryBalance{
			Category: category,
			Total:    s.engine.SumQuantity(records),
			Buckets:  s.engine.CategoryBreakdown(records),
			Subzones: s.engine.SubzoneDistribution(records),
		})
	}

	return report, nil
}

// spacesBalance breaks storage spaces down by size variant, falling back to
// the item name when no subtype was captured. Zero-quantity sizes are
// dropped, matching how the report renders them.
func (s *balanceService) spacesBalance(records []models.Record) models.SpacesBalance {
	balance := models.SpacesBalance{
		Total:    s.engine.SumQuantity(records),
		Sizes:    []models.SizeTotal{},
		Subzones: s.engine.SubzoneDistribution(records),
	}

	key := models.GroupBySubtype
	if !hasSubtype(records) {
		key = models.GroupByItem
	}
	for _, g := range s.engine.GroupTotals(records, key) {
		if g.Quantity > 0 {
			balance.Sizes = append(balance.Sizes, models.SizeTotal{Label: g.Keys[key], Quantity: g.Quantity})
		}
	}
	sort.SliceStable(balance.Sizes, func(i, j int) bool {
		return balance.Sizes[i].Quantity > balance.Sizes[j].Quantity
	})

	return balance
}

func hasSubtype(records []models.Record) bool {
	for _, r := range records {
		if r.ItemSubtype != "" {
			return true
		}
	}
	return false
}
