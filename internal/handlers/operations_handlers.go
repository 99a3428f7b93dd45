package handlers

import (
	"net/http"

	"sipor/internal/models"
	"sipor/internal/services"

	"github.com/labstack/echo/v4"
)

// OperationsHandlers serves the management view: event productivity and
// stock variation analysis over the rolling window.
type OperationsHandlers struct {
	operationsService services.OperationsService
}

func NewOperationsHandlers(operationsService services.OperationsService) *OperationsHandlers {
	return &OperationsHandlers{operationsService: operationsService}
}

// GetSummary handles GET /v1/operations/summary?shift=...&zone=...
// Repeated shift/zone params act as multi-select filters.
func (h *OperationsHandlers) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.EventFilter{
		Shifts: c.QueryParams()["shift"],
		Zones:  c.QueryParams()["zone"],
	}

	summary, err := h.operationsService.Summary(ctx, filter)
	if err != nil {
		return mapLoaderError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetDeltas handles GET /v1/operations/deltas
func (h *OperationsHandlers) GetDeltas(c echo.Context) error {
	ctx := c.Request().Context()

	report, err := h.operationsService.Deltas(ctx)
	if err != nil {
		return mapLoaderError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}

// GetFilterOptions handles GET /v1/operations/filters
func (h *OperationsHandlers) GetFilterOptions(c echo.Context) error {
	ctx := c.Request().Context()

	options, err := h.operationsService.FilterOptions(ctx)
	if err != nil {
		return mapLoaderError(c, err)
	}

	return c.JSON(http.StatusOK, options)
}
