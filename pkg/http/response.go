package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// OKResponse writes a success envelope with data and optional meta.
func OKResponse(c echo.Context, data interface{}, meta interface{}) error {
	return c.JSON(http.StatusOK, Envelope{
		OK:   true,
		TS:   time.Now().UnixMilli(),
		Data: data,
		Meta: meta,
	})
}

// ErrorResponse writes a failure envelope using the AppError status and code.
// Non-AppError errors are masked as INTERNAL so internals never leak.
func ErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError("unexpected error")
	}
	return c.JSON(appErr.Status, Envelope{
		OK:    false,
		TS:    time.Now().UnixMilli(),
		Error: appErr,
	})
}

// BadRequestResponse writes a 400 envelope carrying validation details.
func BadRequestResponse(c echo.Context, details interface{}) error {
	return c.JSON(http.StatusBadRequest, Envelope{
		OK:    false,
		TS:    time.Now().UnixMilli(),
		Error: BadRequestError("invalid request"),
		Meta:  details,
	})
}
