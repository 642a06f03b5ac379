package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fangguan233/next-class/config"
	"github.com/fangguan233/next-class/internal/api/handler"
	"github.com/fangguan233/next-class/internal/repository"
	"github.com/fangguan233/next-class/internal/service"
)

type denyAll struct{}

func (denyAll) CheckRateLimit(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	return false, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.BodyLimit = 1 << 20
	cfg.Timetable.Timezone = "UTC"
	cfg.Timetable.DefaultTotalWeeks = 20
	cfg.Timetable.RateLimit.Limit = 10
	cfg.Timetable.RateLimit.Window = time.Minute
	return cfg
}

func testHandler(cfg *config.Config) *handler.Handler {
	svc := service.NewService(cfg, &repository.Repository{}, nil, zap.NewNop())
	return handler.NewHandler(svc)
}

func TestSetup_Health(t *testing.T) {
	cfg := testConfig()
	r := Setup(cfg, testHandler(cfg), nil, nil, zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应应带有 X-Request-ID")
	}
}

func TestSetup_ParseWeeksEndToEnd(t *testing.T) {
	cfg := testConfig()
	r := Setup(cfg, testHandler(cfg), nil, nil, zap.NewNop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/timetable/weeks/parse", strings.NewReader(`{"weeks":"2-10(单)"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"weeks":[3,5,7,9]`) {
		t.Errorf("期望周次 [3,5,7,9]，实际=%s", w.Body.String())
	}
}

func TestSetup_RateLimitOnlyOnTimetable(t *testing.T) {
	cfg := testConfig()
	r := Setup(cfg, testHandler(cfg), denyAll{}, nil, zap.NewNop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/timetable/weeks/parse", strings.NewReader(`{"weeks":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("健康检查不应限流, got %d", w.Code)
	}
}
