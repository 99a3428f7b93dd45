package common

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	return &resp
}

// SendSourceUnavailableError reports a missing workbook source; the view can
// retry on the next cache cycle.
func SendSourceUnavailableError(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, CreateErrorResponse("SOURCE_UNAVAILABLE", "Workbook source not found"))
}

// SendParseError reports an unreadable workbook.
func SendParseError(c echo.Context) error {
	return c.JSON(http.StatusBadGateway, CreateErrorResponse("PARSE_ERROR", "Workbook could not be parsed"))
}

// SendServerError sends a generic server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource)))
}
