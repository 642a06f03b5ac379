package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorWithDetails_CarriesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(requestIDKey, "rid-1")

	UnprocessableEntity(c, 16005, "未设置开学日期", "请提供 start_date")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if resp.Code != 16005 || resp.Details != "请提供 start_date" || resp.RequestID != "rid-1" {
		t.Errorf("响应字段不符: %+v", resp)
	}
}

func TestOK_OmitsEmptyRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"week": 3})

	var raw map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	if _, ok := raw["request_id"]; ok {
		t.Error("未设置追踪 ID 时不应输出 request_id")
	}
	if raw["code"].(float64) != 0 {
		t.Errorf("expected code 0, got %v", raw["code"])
	}
}
