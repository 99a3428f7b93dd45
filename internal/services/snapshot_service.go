package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"sipor/internal/caching"
	"sipor/internal/models"
	"sipor/internal/repositories"

	"github.com/google/uuid"
)

type SnapshotService interface {
	// Load returns the cached snapshot when one is fresh, otherwise reads
	// the source. Two calls within the TTL return equal data.
	Load(ctx context.Context) (*models.Snapshot, error)

	// Refresh bypasses the cache and reads the source unconditionally.
	Refresh(ctx context.Context) (*models.Snapshot, error)

	// Invalidate drops the cached snapshot so the next Load re-reads.
	Invalidate(ctx context.Context) error
}

type snapshotService struct {
	workbookRepo repositories.WorkbookRepository
	cacheService caching.CacheService
	auditRepo    repositories.RefreshAuditRepository // nil disables the audit trail
	ttl          time.Duration
}

func NewSnapshotService(workbookRepo repositories.WorkbookRepository, cacheService caching.CacheService, auditRepo repositories.RefreshAuditRepository, ttl time.Duration) SnapshotService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &snapshotService{
		workbookRepo: workbookRepo,
		cacheService: cacheService,
		auditRepo:    auditRepo,
		ttl:          ttl,
	}
}

func (s *snapshotService) Load(ctx context.Context) (*models.Snapshot, error) {
	cached, err := s.cacheService.GetSnapshot(ctx, s.workbookRepo.SourceKey())
	if err != nil {
		log.Printf("Snapshot cache lookup failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}
	return s.Refresh(ctx)
}

func (s *snapshotService) Refresh(ctx context.Context) (*models.Snapshot, error) {
	wb, err := s.workbookRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &models.Snapshot{
		ID:          uuid.New(),
		SourceKey:   s.workbookRepo.SourceKey(),
		LoadedAt:    time.Now(),
		Diagnostics: wb.Diagnostics,
	}

	snapshot.Inventory = splitSubset(wb, "inventory", models.RecordKindInventory, models.RequiredInventoryColumns, &snapshot.Diagnostics)
	snapshot.Events = splitSubset(wb, "events", models.RecordKindEvent, models.RequiredEventColumns, &snapshot.Diagnostics)

	for i := range snapshot.Events {
		snapshot.Events[i].EventType = titleCase(snapshot.Events[i].EventType)
	}

	if cacheErr := s.cacheService.SetSnapshot(ctx, snapshot, s.ttl); cacheErr != nil {
		log.Printf("Failed to cache snapshot %s: %v", snapshot.ID.String(), cacheErr)
	}

	s.recordAudit(ctx, snapshot)

	return snapshot, nil
}

func (s *snapshotService) Invalidate(ctx context.Context) error {
	return s.cacheService.DeleteSnapshot(ctx, s.workbookRepo.SourceKey())
}

// splitSubset selects the rows of one record kind. A missing required
// column empties the subset and records the condition instead of failing
// the whole load.
func splitSubset(wb *models.Workbook, subset string, kind models.RecordKind, required []string, diags *models.LoadDiagnostics) []models.Record {
	var missing []string
	for _, col := range required {
		if !wb.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		diags.MissingColumns = append(diags.MissingColumns, models.MissingColumns{Subset: subset, Columns: missing})
		return nil
	}

	var out []models.Record
	for _, r := range wb.Records {
		if models.RecordKind(strings.TrimSpace(string(r.Kind))) == kind {
			out = append(out, r)
		}
	}
	return out
}

func (s *snapshotService) recordAudit(ctx context.Context, snapshot *models.Snapshot) {
	if s.auditRepo == nil {
		return
	}

	audit := &models.RefreshAudit{
		SnapshotID:        snapshot.ID,
		SourceKey:         snapshot.SourceKey,
		RowsRead:          snapshot.Diagnostics.RowsRead,
		InventoryRows:     len(snapshot.Inventory),
		EventRows:         len(snapshot.Events),
		CoercedQuantities: snapshot.Diagnostics.CoercedQuantities,
		UndatedRows:       snapshot.Diagnostics.UndatedRows,
		LoadedAt:          snapshot.LoadedAt,
	}
	for _, mc := range snapshot.Diagnostics.MissingColumns {
		audit.Warnings = append(audit.Warnings, fmt.Sprintf("missing columns for %s: %s", mc.Subset, strings.Join(mc.Columns, ", ")))
	}

	if err := s.auditRepo.Create(ctx, audit); err != nil {
		log.Printf("Failed to record refresh audit for snapshot %s: %v", snapshot.ID.String(), err)
	}
}

// titleCase normalizes tipo_evento labels ("reparada" -> "Reparada") so
// downstream matching sees one spelling per event type.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
