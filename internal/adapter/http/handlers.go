package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	storage string
}

// NewHandler serves liveness; storage names the active backend.
func NewHandler(storage string) *Handler { return &Handler{storage: storage} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"storage": h.storage,
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
