package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fangguan233/next-class/internal/dto"
	"github.com/fangguan233/next-class/internal/service"
	"github.com/fangguan233/next-class/pkg/response"
)

// TimetableHandler 课表计算 HTTP 处理器。
// 课程数据由客户端随请求提交，服务端只做计算，不保存课表。
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// ParseWeeks 解析周次字符串
// POST /api/v1/timetable/weeks/parse
func (h *TimetableHandler) ParseWeeks(c *gin.Context) {
	var req dto.ParseWeeksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.ParseWeeks(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.OK(c, resp)
}

// FormatWeeks 将周次列表压缩为周次字符串
// POST /api/v1/timetable/weeks/format
func (h *TimetableHandler) FormatWeeks(c *gin.Context) {
	var req dto.FormatWeeksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.FormatWeeks(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.OK(c, resp)
}

// CheckConflicts 检测课程时间冲突
// POST /api/v1/timetable/conflicts
func (h *TimetableHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.CheckConflicts(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.OK(c, resp)
}

// NextClass 查询下一节课
// POST /api/v1/timetable/next-class
func (h *TimetableHandler) NextClass(c *gin.Context) {
	var req dto.NextClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.NextClass(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.OK(c, resp)
}

// WeeklySchedule 生成周课表
// POST /api/v1/timetable/weekly
func (h *TimetableHandler) WeeklySchedule(c *gin.Context) {
	var req dto.WeeklyScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.svc.WeeklySchedule(c.Request.Context(), &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	response.OK(c, resp)
}

// handleTimetableError 统一处理课表计算模块业务错误
func handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCoursesInvalid):
		response.BadRequest(c, 16001, "课程数据格式不正确")
	case errors.Is(err, service.ErrAnchorInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16002, "开学日期无效", err.Error())
	case errors.Is(err, service.ErrNowInvalid):
		response.BadRequest(c, 16003, "当前时间格式不正确，应为 RFC 3339")
	case errors.Is(err, service.ErrWeekOutOfRange):
		response.BadRequest(c, 16004, "周次超出允许范围")
	case errors.Is(err, service.ErrAnchorUnavailable):
		response.UnprocessableEntity(c, 16005, "未设置开学日期", "请在请求中提供 start_date 或激活一个学期")
	case errors.Is(err, service.ErrTimeSlotConfigNotFound):
		response.NotFound(c, 15001, "作息时间表不存在")
	default:
		response.InternalError(c)
	}
}
