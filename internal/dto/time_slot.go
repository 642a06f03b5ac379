package dto

import "github.com/fangguan233/next-class/internal/timetable"

// ── 作息时间表模块 DTO ──

// CreateTimeSlotConfigRequest 创建作息时间表请求
type CreateTimeSlotConfigRequest struct {
	Name      string               `json:"name"       binding:"required,min=2,max=50"`
	Slots     []timetable.TimeSlot `json:"slots"      binding:"required,min=1"`
	IsDefault bool                 `json:"is_default"`
}

// UpdateTimeSlotConfigRequest 更新作息时间表请求，字段为空表示不修改
type UpdateTimeSlotConfigRequest struct {
	Name      *string              `json:"name"       binding:"omitempty,min=2,max=50"`
	Slots     []timetable.TimeSlot `json:"slots"`
	IsDefault *bool                `json:"is_default"`
}

// TimeSlotConfigResponse 作息时间表响应
type TimeSlotConfigResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Slots     []timetable.TimeSlot `json:"slots"`
	IsDefault bool                 `json:"is_default"`
	Builtin   bool                 `json:"builtin,omitempty"` // 未配置时返回的内置作息表
	Version   int                  `json:"version"`
	CreatedAt string               `json:"created_at,omitempty"`
	UpdatedAt string               `json:"updated_at,omitempty"`
}
