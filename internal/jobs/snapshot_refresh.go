package jobs

import (
	"context"
	"log"
	"time"

	"sipor/internal/models"
	"sipor/internal/services"
)

type SnapshotRefreshService struct {
	snapshotService services.SnapshotService
}

type SnapshotRefreshResult struct {
	SnapshotID    string
	InventoryRows int
	EventRows     int
	LastRefreshAt time.Time
}

func NewSnapshotRefreshService(snapshotService services.SnapshotService) *SnapshotRefreshService {
	return &SnapshotRefreshService{
		snapshotService: snapshotService,
	}
}

// RefreshSnapshot forces a fresh workbook read so the cache never serves a
// stale snapshot past its TTL.
func (s *SnapshotRefreshService) RefreshSnapshot(ctx context.Context) (*SnapshotRefreshResult, error) {
	snapshot, err := s.snapshotService.Refresh(ctx)
	if err != nil {
		log.Printf("Failed to refresh snapshot: %v", err)
		return nil, err
	}

	logDiagnostics(snapshot)

	return &SnapshotRefreshResult{
		SnapshotID:    snapshot.ID.String(),
		InventoryRows: len(snapshot.Inventory),
		EventRows:     len(snapshot.Events),
		LastRefreshAt: snapshot.LoadedAt,
	}, nil
}

// ScheduledSnapshotRefresh is the gocron entry point.
func (s *SnapshotRefreshService) ScheduledSnapshotRefresh(ctx context.Context) error {
	log.Println("Running scheduled snapshot refresh")

	startTime := time.Now()
	defer func() {
		log.Printf("Scheduled snapshot refresh completed in %v", time.Since(startTime))
	}()

	result, err := s.RefreshSnapshot(ctx)
	if err != nil {
		log.Printf("Scheduled snapshot refresh failed: %v", err)
		return err
	}

	log.Printf("Snapshot %s refreshed: %d inventory rows, %d event rows",
		result.SnapshotID, result.InventoryRows, result.EventRows)
	return nil
}

func logDiagnostics(snapshot *models.Snapshot) {
	d := snapshot.Diagnostics
	if d.CoercedQuantities > 0 {
		log.Printf("Snapshot %s: %d rows had quantities coerced to 0", snapshot.ID.String(), d.CoercedQuantities)
	}
	if d.UndatedRows > 0 {
		log.Printf("Snapshot %s: %d rows have no parseable date", snapshot.ID.String(), d.UndatedRows)
	}
	for _, mc := range d.MissingColumns {
		log.Printf("Snapshot %s: %s subset is empty, missing columns: %v", snapshot.ID.String(), mc.Subset, mc.Columns)
	}
}
