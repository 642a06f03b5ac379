package timetable

import (
	"go.uber.org/zap"
)

// ── 课表计算引擎 ──────────────────────────────────────────
//
// Engine 只持有日志器，不缓存任何跨调用状态；每次调用都从输入重新计算，
// 可并发、可重复调用。公开方法在边界处 recover，异常时按
// "排除该记录 / 返回空结果" 处理，绝不把 panic 抛给调用方。
// ─────────────────────────────────────────────────────────────

// Engine 课表计算引擎
type Engine struct {
	logger *zap.Logger
	parser *Parser
}

// NewEngine 创建 Engine；logger 为 nil 时静默
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, parser: NewParser(logger)}
}

// ParseWeeks 解析周次字符串，非法片段记录日志
func (e *Engine) ParseWeeks(spec string) WeekSet {
	return e.parser.Parse(spec)
}

// guard 在公开方法边界 recover，并执行 reset 将结果置为安全值
func (e *Engine) guard(op string, reset func()) {
	if r := recover(); r != nil {
		e.logger.Error("课表计算异常，已降级为空结果",
			zap.String("op", op),
			zap.Any("panic", r),
		)
		reset()
	}
}

// SemesterSpan 课程数据涉及的最大周次，至少 16 周
func (e *Engine) SemesterSpan(courses []Course) int {
	span := 16
	for i := range courses {
		for j := range courses[i].Schedules {
			if m := e.parser.Parse(string(courses[i].Schedules[j].Weeks)).Max(); m > span {
				span = m
			}
		}
	}
	return span
}

var defaultEngine = NewEngine(nil)

// DetectConflicts 使用静默引擎检测冲突
func DetectConflicts(courses []Course) []ConflictPair {
	return defaultEngine.DetectConflicts(courses)
}

// SemesterSpan 使用静默引擎计算学期跨度
func SemesterSpan(courses []Course) int {
	return defaultEngine.SemesterSpan(courses)
}
