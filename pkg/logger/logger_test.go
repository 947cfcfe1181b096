package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/931ubada/e-commerce-website/pkg/config"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		env, level string
		debug      bool
	}{
		{"production", "info", false},
		{"development", "debug", true},
		{"development", "bogus", false},
	}
	for _, tt := range tests {
		cfg := &config.Config{Server: config.ServerConfig{Env: tt.env}, Log: config.LogConfig{Level: tt.level}}
		l, err := New(cfg)
		if err != nil {
			t.Fatalf("New(%s, %s) error = %v", tt.env, tt.level, err)
		}
		if got := l.Core().Enabled(zap.DebugLevel); got != tt.debug {
			t.Errorf("New(%s, %s) debug enabled = %v, want %v", tt.env, tt.level, got, tt.debug)
		}
	}
}

func TestMiddlewareLogsRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	e := echo.New()
	e.Use(Middleware(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error {
		FromContext(c).Info("inside handler")
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	e.ServeHTTP(httptest.NewRecorder(), req)

	inside := logs.FilterMessage("inside handler").All()
	if len(inside) != 1 || inside[0].ContextMap()["request_id"] != "req-1" {
		t.Fatalf("handler log entries = %+v, want one tagged with req-1", inside)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	failed := logs.FilterMessage("HTTP request failed").All()
	if len(failed) != 2 {
		t.Fatalf("failed request entries = %d, want 2", len(failed))
	}
	if status := failed[0].ContextMap()["status"]; status != int64(http.StatusTeapot) {
		t.Errorf("logged status = %v, want %d", status, http.StatusTeapot)
	}
}

func TestFromContextFallback(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if FromContext(c) == nil {
		t.Fatal("FromContext() returned nil without middleware")
	}
}
