package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
)

var (
	errNoHandle = errors.New("no such file handle")
	errNoHDU    = errors.New("no such HDU")
)

// writeJSON encodes through goccy/go-json rather than echo's default
// encoder so the CLI and server share one JSON path.
func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeAPIError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeAPIError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeAPIError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, map[string]any{
		"error": ErrorResponse{Message: msg, Type: errType},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	body, err := io.ReadAll(r)
	if err != nil {
		return v, err
	}
	if len(body) == 0 {
		return v, fmt.Errorf("empty request body")
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}
