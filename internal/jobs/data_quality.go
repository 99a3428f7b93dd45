package jobs

import (
	"context"
	"fmt"
	"log"

	"sipor/internal/classify"
	"sipor/internal/services"
)

type DataQualityService struct {
	snapshotService services.SnapshotService
	classifier      *classify.Classifier
}

type DataQualityAlert struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func NewDataQualityService(snapshotService services.SnapshotService, classifier *classify.Classifier) *DataQualityService {
	return &DataQualityService{
		snapshotService: snapshotService,
		classifier:      classifier,
	}
}

// CheckDataQuality inspects the current snapshot for conditions that would
// otherwise be absorbed silently: coerced quantities, undated rows, missing
// columns, and item names no classification rule covers.
func (s *DataQualityService) CheckDataQuality(ctx context.Context, coercionThreshold int) ([]DataQualityAlert, error) {
	if coercionThreshold <= 0 {
		coercionThreshold = 1
	}

	snapshot, err := s.snapshotService.Load(ctx)
	if err != nil {
		log.Printf("Failed to load snapshot for data quality check: %v", err)
		return nil, err
	}

	var alerts []DataQualityAlert

	if snapshot.Diagnostics.CoercedQuantities >= coercionThreshold {
		alerts = append(alerts, DataQualityAlert{
			Kind:    "coerced_quantities",
			Message: fmt.Sprintf("%d rows had invalid quantities coerced to 0", snapshot.Diagnostics.CoercedQuantities),
		})
	}
	if snapshot.Diagnostics.UndatedRows > 0 {
		alerts = append(alerts, DataQualityAlert{
			Kind:    "undated_rows",
			Message: fmt.Sprintf("%d rows have no parseable date and are excluded from trend analysis", snapshot.Diagnostics.UndatedRows),
		})
	}
	for _, mc := range snapshot.Diagnostics.MissingColumns {
		alerts = append(alerts, DataQualityAlert{
			Kind:    "missing_columns",
			Message: fmt.Sprintf("%s subset is empty, missing columns: %v", mc.Subset, mc.Columns),
		})
	}

	unclassified := s.classifier.UnclassifiedItems(snapshot.Inventory)
	if len(unclassified) > 0 {
		alerts = append(alerts, DataQualityAlert{
			Kind:    "unclassified_items",
			Message: fmt.Sprintf("%d item names match no category keyword: %v", len(unclassified), unclassified),
		})
	}

	return alerts, nil
}

// ScheduledDataQualityCheck is the gocron entry point.
func (s *DataQualityService) ScheduledDataQualityCheck(ctx context.Context) error {
	alerts, err := s.CheckDataQuality(ctx, 1)
	if err != nil {
		return err
	}

	for _, alert := range alerts {
		log.Printf("Data quality alert [%s]: %s", alert.Kind, alert.Message)
	}
	if len(alerts) == 0 {
		log.Println("Data quality check passed with no alerts")
	}
	return nil
}
