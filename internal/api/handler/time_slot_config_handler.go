package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fangguan233/next-class/internal/dto"
	"github.com/fangguan233/next-class/internal/service"
	pkgerrors "github.com/fangguan233/next-class/pkg/errors"
	"github.com/fangguan233/next-class/pkg/response"
)

// TimeSlotConfigHandler 作息时间表 HTTP 处理器
type TimeSlotConfigHandler struct {
	svc service.TimeSlotConfigService
}

// NewTimeSlotConfigHandler 创建 TimeSlotConfigHandler
func NewTimeSlotConfigHandler(svc service.TimeSlotConfigService) *TimeSlotConfigHandler {
	return &TimeSlotConfigHandler{svc: svc}
}

// ListTimeSlotConfigs 获取作息时间表列表
// GET /api/v1/time-slot-configs
func (h *TimeSlotConfigHandler) ListTimeSlotConfigs(c *gin.Context) {
	cfgs, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": cfgs})
}

// GetDefaultTimeSlotConfig 获取默认作息时间表，未配置时返回内置表
// GET /api/v1/time-slot-configs/default
func (h *TimeSlotConfigHandler) GetDefaultTimeSlotConfig(c *gin.Context) {
	cfg, err := h.svc.GetDefault(c.Request.Context())
	if err != nil {
		h.handleTimeSlotConfigError(c, err)
		return
	}

	response.OK(c, cfg)
}

// GetTimeSlotConfig 获取作息时间表详情
// GET /api/v1/time-slot-configs/:id
func (h *TimeSlotConfigHandler) GetTimeSlotConfig(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作息表ID不能为空")
		return
	}

	cfg, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTimeSlotConfigError(c, err)
		return
	}

	response.OK(c, cfg)
}

// CreateTimeSlotConfig 创建作息时间表
// POST /api/v1/time-slot-configs
func (h *TimeSlotConfigHandler) CreateTimeSlotConfig(c *gin.Context) {
	var req dto.CreateTimeSlotConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.svc.Create(c.Request.Context(), &req, GetOperatorID(c))
	if err != nil {
		h.handleTimeSlotConfigError(c, err)
		return
	}

	response.Created(c, cfg)
}

// UpdateTimeSlotConfig 更新作息时间表
// PUT /api/v1/time-slot-configs/:id
func (h *TimeSlotConfigHandler) UpdateTimeSlotConfig(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作息表ID不能为空")
		return
	}

	var req dto.UpdateTimeSlotConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.svc.Update(c.Request.Context(), id, &req, GetOperatorID(c))
	if err != nil {
		h.handleTimeSlotConfigError(c, err)
		return
	}

	response.OK(c, cfg)
}

// DeleteTimeSlotConfig 删除作息时间表
// DELETE /api/v1/time-slot-configs/:id
func (h *TimeSlotConfigHandler) DeleteTimeSlotConfig(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "作息表ID不能为空")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, GetOperatorID(c)); err != nil {
		h.handleTimeSlotConfigError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTimeSlotConfigError 统一处理作息时间表模块业务错误
func (h *TimeSlotConfigHandler) handleTimeSlotConfigError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeSlotConfigNotFound):
		response.NotFound(c, 15001, "作息时间表不存在")
	case errors.Is(err, service.ErrTimeSlotConfigInvalid):
		response.UnprocessableEntity(c, 15002, "作息时间表无效", err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15003, "作息时间表已被修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
