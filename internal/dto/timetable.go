package dto

import (
	"encoding/json"

	"github.com/fangguan233/next-class/internal/timetable"
)

// ── 周次 ──

// ParseWeeksRequest 解析周次字符串请求
type ParseWeeksRequest struct {
	Weeks string `json:"weeks" binding:"required"` // "1-8,10,12-16(双)"
}

// ParseWeeksResponse 周次解析结果
type ParseWeeksResponse struct {
	Weeks     []int  `json:"weeks"`
	Formatted string `json:"formatted"` // 规范化后的周次字符串
}

// FormatWeeksRequest 周次列表压缩请求
type FormatWeeksRequest struct {
	Weeks []int `json:"weeks" binding:"required"`
}

// FormatWeeksResponse 周次压缩结果
type FormatWeeksResponse struct {
	Formatted string `json:"formatted"`
}

// ── 课表计算 ──

// ScheduleContext 计算课表所需的上下文，缺省项由服务端补齐
type ScheduleContext struct {
	StartDate        string          `json:"start_date"`          // 开学日期，缺省取当前学期
	Now              string          `json:"now"`                 // RFC 3339，缺省取服务器时间
	TimeSlotConfigID string          `json:"time_slot_config_id"` // 作息表 ID
	TimeSlots        json.RawMessage `json:"time_slots"`          // 直接提供的作息表，优先级最高；格式不可用时忽略
}

// ConflictCheckRequest 冲突检测请求；courses 接受课程数组或 {"courses": [...]}
type ConflictCheckRequest struct {
	Courses json.RawMessage `json:"courses" binding:"required"`
}

// ConflictCheckResponse 冲突检测结果
type ConflictCheckResponse struct {
	HasConflict       bool                     `json:"has_conflict"`
	Conflicts         []timetable.ConflictPair `json:"conflicts"`
	ConflictedCourses []string                 `json:"conflicted_courses"`
	Message           string                   `json:"message,omitempty"`
	TotalWeeks        int                      `json:"total_weeks"`
}

// NextClassRequest 下一节课请求
type NextClassRequest struct {
	Courses json.RawMessage `json:"courses" binding:"required"`
	ScheduleContext
}

// NextClassResponse 下一节课结果；Next 为 nil 表示本周与下周都没有课
type NextClassResponse struct {
	CurrentWeek int                        `json:"current_week"`
	Today       timetable.DayIndex         `json:"today"`
	Next        *timetable.ClassOccurrence `json:"next"`
}

// WeeklyScheduleRequest 周课表请求；week 为 0 时取当前周
type WeeklyScheduleRequest struct {
	Courses json.RawMessage `json:"courses" binding:"required"`
	Week    int             `json:"week"    binding:"omitempty,min=1,max=60"`
	ScheduleContext
}

// DayScheduleResponse 某一天的课程
type DayScheduleResponse struct {
	Day     timetable.DayIndex          `json:"day"`
	Name    string                      `json:"name"`
	Date    string                      `json:"date,omitempty"`
	Classes []timetable.ClassOccurrence `json:"classes"`
}

// WeeklyScheduleResponse 周课表
type WeeklyScheduleResponse struct {
	Week        int                   `json:"week"`
	CurrentWeek int                   `json:"current_week,omitempty"`
	TotalWeeks  int                   `json:"total_weeks"`
	Days        []DayScheduleResponse `json:"days"`
}
