package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/labstack/echo/v4"
)

// Recover returns recovery middleware.
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					log.Printf("PANIC: %v\n%s", err, debug.Stack())
					// mirrors the Envelope shape without importing the parent package
					_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"ok": false,
						"ts": time.Now().UnixMilli(),
						"error": map[string]string{
							"code":    "INTERNAL",
							"message": "internal server error",
						},
					})
				}
			}()
			return next(c)
		}
	}
}
