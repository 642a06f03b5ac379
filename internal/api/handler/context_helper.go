package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OperatorHeader 调用方标识请求头，写入审计字段
const OperatorHeader = "X-Operator-ID"

// defaultOperator 未携带请求头时的操作人
const defaultOperator = "system"

// GetOperatorID 从请求头提取操作人标识，缺省为 "system"，超长截断到 64 字符
func GetOperatorID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(OperatorHeader))
	if id == "" {
		return defaultOperator
	}
	if len(id) > 64 {
		id = id[:64]
	}
	return id
}
