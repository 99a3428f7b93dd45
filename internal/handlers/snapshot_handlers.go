package handlers

import (
	"net/http"

	"sipor/internal/repositories"
	"sipor/internal/services"

	"github.com/labstack/echo/v4"
)

// SnapshotHandlers exposes snapshot lifecycle operations: forcing a reload
// ahead of the cache TTL and inspecting the refresh audit trail.
type SnapshotHandlers struct {
	snapshotService services.SnapshotService
	auditRepo       repositories.RefreshAuditRepository
}

func NewSnapshotHandlers(snapshotService services.SnapshotService, auditRepo repositories.RefreshAuditRepository) *SnapshotHandlers {
	return &SnapshotHandlers{
		snapshotService: snapshotService,
		auditRepo:       auditRepo,
	}
}

// RefreshSnapshot handles POST /v1/snapshot/refresh
func (h *SnapshotHandlers) RefreshSnapshot(c echo.Context) error {
	ctx := c.Request().Context()

	snapshot, err := h.snapshotService.Refresh(ctx)
	if err != nil {
		return mapLoaderError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"snapshot_id":    snapshot.ID,
		"loaded_at":      snapshot.LoadedAt,
		"inventory_rows": len(snapshot.Inventory),
		"event_rows":     len(snapshot.Events),
		"diagnostics":    snapshot.Diagnostics,
	})
}

// ListRefreshAuditsRequest represents query parameters for listing audits
type ListRefreshAuditsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListRefreshAudits handles GET /v1/snapshot/audits
func (h *SnapshotHandlers) ListRefreshAudits(c echo.Context) error {
	if h.auditRepo == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "Refresh audit trail is not configured")
	}

	ctx := c.Request().Context()

	var req ListRefreshAuditsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	audits, err := h.auditRepo.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list refresh audits")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"audits": audits,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}
