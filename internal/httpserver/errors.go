package httpserver

import (
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// NewHTTPErrorHandler converts every error into the uniform response
// envelope. Stack traces are only exposed in development mode.
func NewHTTPErrorHandler(development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Something went wrong!"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			}
		}

		body := echo.Map{
			"success": false,
			"message": message,
		}
		if development && code >= http.StatusInternalServerError {
			body["error"] = err.Error()
			body["stack"] = string(debug.Stack())
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}
