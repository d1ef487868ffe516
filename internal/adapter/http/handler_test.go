package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type healthBody struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
	Time    string            `json:"time"`
}

func callHealth(t *testing.T, h *Handler) (int, healthBody) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	return rec.Code, body
}

func TestHealth_AllProbesUp(t *testing.T) {
	up := func(context.Context) error { return nil }
	start := time.Now().UTC()

	code, body := callHealth(t, NewHandler("coinlend", Probe{"db", up}, Probe{"redis", up}))
	if code != http.StatusOK || body.Status != "ok" || body.Service != "coinlend" {
		t.Fatalf("got %d %+v", code, body)
	}
	if body.Checks["db"] != "ok" || body.Checks["redis"] != "ok" {
		t.Fatalf("checks = %v", body.Checks)
	}

	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time not RFC3339Nano: %v (value=%q)", err, body.Time)
	}
	if parsed.Location() != time.UTC || parsed.Before(start.Add(-2*time.Second)) {
		t.Fatalf("unexpected time %v", parsed)
	}
}

func TestHealth_ProbeDownIs503(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	code, body := callHealth(t, NewHandler("coinlend", Probe{"db", up}, Probe{"redis", down}))
	if code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("got %d %+v", code, body)
	}
	if body.Checks["db"] != "ok" || body.Checks["redis"] != "down" {
		t.Fatalf("checks = %v", body.Checks)
	}
}

func TestHealth_NoProbes(t *testing.T) {
	code, body := callHealth(t, NewHandler("coinlend"))
	if code != http.StatusOK || len(body.Checks) != 0 {
		t.Fatalf("got %d %+v", code, body)
	}
}
