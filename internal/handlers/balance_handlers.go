package handlers

import (
	"errors"
	"net/http"

	"sipor/internal/common"
	"sipor/internal/repositories"
	"sipor/internal/services"

	"github.com/labstack/echo/v4"
)

// BalanceHandlers serves the client view: the current snapshot balance.
type BalanceHandlers struct {
	balanceService services.BalanceService
}

func NewBalanceHandlers(balanceService services.BalanceService) *BalanceHandlers {
	return &BalanceHandlers{balanceService: balanceService}
}

// GetBalance handles GET /v1/balance
func (h *BalanceHandlers) GetBalance(c echo.Context) error {
	ctx := c.Request().Context()

	report, err := h.balanceService.Balance(ctx)
	if err != nil {
		return mapLoaderError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}

// mapLoaderError translates loader failures into distinct HTTP responses.
// Aggregation-level "no data" states are payload fields, never errors.
func mapLoaderError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repositories.ErrSourceUnavailable):
		return common.SendSourceUnavailableError(c)
	case errors.Is(err, repositories.ErrParse):
		return common.SendParseError(c)
	default:
		return common.SendServerError(c, "Failed to build report")
	}
}
