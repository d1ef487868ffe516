package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"coinlend-backend/internal/usecase/applications"
	"coinlend-backend/internal/usecase/overdue"
)

type AdminHandler struct {
	apps    *applications.Usecase
	sweeper *overdue.Sweeper
}

func NewAdminHandler(apps *applications.Usecase, sweeper *overdue.Sweeper) *AdminHandler {
	return &AdminHandler{apps: apps, sweeper: sweeper}
}

// Applications: GET /admin/applications?kind=&status=&limit=
func (h *AdminHandler) Applications(c echo.Context) error {
	f := applications.Filter{
		Kind:   applications.Kind(strings.TrimSpace(c.QueryParam("kind"))),
		Status: strings.TrimSpace(c.QueryParam("status")),
	}
	if !applications.ValidKind(f.Kind) {
		return badRequest(c, "unknown kind")
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return badRequest(c, "limit must be a positive integer")
		}
		f.Limit = n
	}
	list, err := h.apps.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"applications": list})
}

func (h *AdminHandler) Sweep(c echo.Context) error {
	res, err := h.sweeper.RunOnce(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
