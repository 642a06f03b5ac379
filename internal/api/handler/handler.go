package handler

import "github.com/fangguan233/next-class/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Timetable      *TimetableHandler
	Semester       *SemesterHandler
	TimeSlotConfig *TimeSlotConfigHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Timetable:      NewTimetableHandler(svc.Timetable),
		Semester:       NewSemesterHandler(svc.Semester),
		TimeSlotConfig: NewTimeSlotConfigHandler(svc.TimeSlotConfig),
	}
}
