package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Probe is one dependency the health endpoint pings.
type Probe struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct {
	service string
	probes  []Probe
}

func NewHandler(service string, probes ...Probe) *Handler {
	return &Handler{service: service, probes: probes}
}

// Health answers 503 when any probe fails.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	checks := make(map[string]string, len(h.probes))
	for _, p := range h.probes {
		if err := p.Ping(ctx); err != nil {
			log.WithError(err).WithField("probe", p.Name).Warn("health: probe failed")
			checks[p.Name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		checks[p.Name] = "ok"
	}

	return c.JSON(code, map[string]any{
		"status":  status,
		"service": h.service,
		"checks":  checks,
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
