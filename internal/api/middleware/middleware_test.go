package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (m *mockLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	m.keys = append(m.keys, key)
	return m.allowed, m.err
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.POST("/ping", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func post(r *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/ping", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := post(r, `{}`, map[string]string{"X-Request-ID": "abc-123"})
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("应沿用请求头中的 ID，实际=%s", got)
	}

	w = post(r, `{}`, map[string]string{"X-Request-ID": strings.Repeat("x", 100)})
	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("超长 ID 应重新生成 UUID，实际=%s", got)
	}
}

func TestLogger_RecordsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newEngine(RequestID(), Logger(zap.New(core)))

	post(r, `{}`, map[string]string{"X-Request-ID": "trace-1"})

	entries := logs.FilterMessage("请求完成").All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条请求日志，实际=%d", len(entries))
	}
	if rid := entries[0].ContextMap()["request_id"]; rid != "trace-1" {
		t.Errorf("期望 request_id=trace-1，实际=%v", rid)
	}
}

func TestBodyLimit(t *testing.T) {
	r := newEngine(BodyLimit(16))

	if w := post(r, `{"a":1}`, nil); w.Code != http.StatusOK {
		t.Errorf("小请求体 expected 200, got %d", w.Code)
	}
	if w := post(r, `{"a":"`+strings.Repeat("x", 64)+`"}`, nil); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("超限请求体 expected 413, got %d", w.Code)
	}

	// 未声明长度时读取截断，绑定失败
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/ping", bytes.NewBufferString(`{"a":"`+strings.Repeat("x", 64)+`"}`))
	req.ContentLength = -1
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("分块请求体 expected 400, got %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limiter *mockLimiter
		want    int
	}{
		{"放行", &mockLimiter{allowed: true}, http.StatusOK},
		{"超限", &mockLimiter{allowed: false}, http.StatusTooManyRequests},
		{"Redis 出错降级放行", &mockLimiter{err: errors.New("redis down")}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(RateLimit(tt.limiter, 10, time.Minute, zap.NewNop()))
			w := post(r, `{}`, nil)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
			if len(tt.limiter.keys) != 1 || !strings.HasSuffix(tt.limiter.keys[0], ":/ping") {
				t.Errorf("限流键应包含路由，实际=%v", tt.limiter.keys)
			}
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newEngine(RateLimit(nil, 10, time.Minute, zap.NewNop()))
	if w := post(r, `{}`, nil); w.Code != http.StatusOK {
		t.Errorf("未配置限流器时应放行，got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS([]string{"http://localhost:5173/"}))

	w := post(r, `{}`, map[string]string{"Origin": "http://localhost:5173"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("允许的来源应回显，实际=%q", got)
	}

	w = post(r, `{}`, map[string]string{"Origin": "http://evil.example"})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("未允许的来源不应设置 CORS 头，实际=%q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/ping", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("预检请求 expected 204, got %d", w.Code)
	}
}
