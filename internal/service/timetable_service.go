package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fangguan233/next-class/config"
	"github.com/fangguan233/next-class/internal/dto"
	"github.com/fangguan233/next-class/internal/repository"
	"github.com/fangguan233/next-class/internal/timetable"
)

// ── 课表计算模块业务错误 ──

var (
	ErrCoursesInvalid    = errors.New("课程数据格式不正确")
	ErrAnchorUnavailable = errors.New("未设置开学日期，请提供 start_date 或激活一个学期")
	ErrAnchorInvalid     = errors.New("开学日期无效")
	ErrNowInvalid        = errors.New("当前时间格式不正确")
	ErrWeekOutOfRange    = errors.New("周次超出允许范围")
)

// TimetableService 课表计算业务接口
type TimetableService interface {
	ParseWeeks(ctx context.Context, req *dto.ParseWeeksRequest) (*dto.ParseWeeksResponse, error)
	FormatWeeks(ctx context.Context, req *dto.FormatWeeksRequest) (*dto.FormatWeeksResponse, error)
	CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error)
	NextClass(ctx context.Context, req *dto.NextClassRequest) (*dto.NextClassResponse, error)
	WeeklySchedule(ctx context.Context, req *dto.WeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error)
}

type timetableService struct {
	cfg      *config.TimetableConfig
	cacheTTL time.Duration
	repo     *repository.Repository
	cache    ResultCache
	engine   *timetable.Engine
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例；cache 为 nil 时不缓存冲突检测结果
func NewTimetableService(
	cfg *config.TimetableConfig,
	cacheTTL time.Duration,
	repo *repository.Repository,
	cache ResultCache,
	engine *timetable.Engine,
	logger *zap.Logger,
) TimetableService {
	if engine == nil {
		engine = timetable.NewEngine(logger)
	}
	return &timetableService{
		cfg:      cfg,
		cacheTTL: cacheTTL,
		repo:     repo,
		cache:    cache,
		engine:   engine,
		loc:      cfg.Location(),
		now:      time.Now,
		logger:   logger,
	}
}

// ────────────────────── 周次 ──────────────────────

func (s *timetableService) ParseWeeks(_ context.Context, req *dto.ParseWeeksRequest) (*dto.ParseWeeksResponse, error) {
	set := s.engine.ParseWeeks(req.Weeks)
	return &dto.ParseWeeksResponse{
		Weeks:     set.Sorted(),
		Formatted: timetable.FormatWeeks(set),
	}, nil
}

func (s *timetableService) FormatWeeks(_ context.Context, req *dto.FormatWeeksRequest) (*dto.FormatWeeksResponse, error) {
	for _, w := range req.Weeks {
		if w < 1 || w > timetable.MaxWeek {
			return nil, fmt.Errorf("%w: %d", ErrWeekOutOfRange, w)
		}
	}
	return &dto.FormatWeeksResponse{
		Formatted: timetable.FormatWeeks(timetable.NewWeekSet(req.Weeks...)),
	}, nil
}

// ────────────────────── CheckConflicts ──────────────────────

// CheckConflicts 检测课程冲突；结果按请求内容缓存
func (s *timetableService) CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	key := fmt.Sprintf("conflicts:%d:%s", s.cfg.DefaultTotalWeeks, digest(req.Courses))
	if s.cache != nil {
		var cached dto.ConflictCheckResponse
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("读取冲突检测缓存失败", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	courses, err := s.decodeCourses(req.Courses)
	if err != nil {
		return nil, err
	}

	pairs := s.engine.DetectConflicts(courses)
	if pairs == nil {
		pairs = []timetable.ConflictPair{}
	}
	report := timetable.ConflictReport{Pairs: pairs}

	conflicted := make([]string, 0)
	for id := range timetable.ConflictedCourses(pairs) {
		conflicted = append(conflicted, id)
	}
	sort.Strings(conflicted)

	resp := &dto.ConflictCheckResponse{
		HasConflict:       report.HasConflict(),
		Conflicts:         pairs,
		ConflictedCourses: conflicted,
		Message:           report.Summary(),
		TotalWeeks:        s.totalWeeks(courses),
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("写入冲突检测缓存失败", zap.Error(err))
		}
	}

	if resp.HasConflict {
		s.logger.Info("检测到课程冲突", zap.Int("pairs", len(pairs)), zap.Int("courses", len(courses)))
	}
	return resp, nil
}

// ────────────────────── NextClass ──────────────────────

func (s *timetableService) NextClass(ctx context.Context, req *dto.NextClassRequest) (*dto.NextClassResponse, error) {
	courses, err := s.decodeCourses(req.Courses)
	if err != nil {
		return nil, err
	}
	now, err := s.resolveNow(req.Now)
	if err != nil {
		return nil, err
	}
	anchor, err := s.resolveAnchor(ctx, req.StartDate)
	if err != nil {
		return nil, err
	}
	table := s.resolveTable(ctx, &req.ScheduleContext)

	week, err := timetable.CurrentWeek(now, anchor)
	if err != nil {
		return nil, ErrAnchorUnavailable
	}

	next, err := s.engine.SelectNext(courses, now, anchor, table)
	if err != nil {
		if errors.Is(err, timetable.ErrAnchorUnset) {
			return nil, ErrAnchorUnavailable
		}
		return nil, err
	}

	return &dto.NextClassResponse{
		CurrentWeek: week,
		Today:       timetable.CurrentDayIndex(now),
		Next:        next,
	}, nil
}

// ────────────────────── WeeklySchedule ──────────────────────

// WeeklySchedule 生成周课表；指定周次时开学日期可缺省（不返回日期）
func (s *timetableService) WeeklySchedule(ctx context.Context, req *dto.WeeklyScheduleRequest) (*dto.WeeklyScheduleResponse, error) {
	courses, err := s.decodeCourses(req.Courses)
	if err != nil {
		return nil, err
	}
	now, err := s.resolveNow(req.Now)
	if err != nil {
		return nil, err
	}

	anchor, anchorErr := s.resolveAnchor(ctx, req.StartDate)
	if anchorErr != nil && !errors.Is(anchorErr, ErrAnchorUnavailable) {
		return nil, anchorErr
	}

	currentWeek := 0
	if anchorErr == nil {
		currentWeek, _ = timetable.CurrentWeek(now, anchor)
	}

	week := req.Week
	if week == 0 {
		if anchorErr != nil {
			return nil, anchorErr
		}
		week = currentWeek
	}
	if week < 1 || week > timetable.MaxWeek {
		return nil, fmt.Errorf("%w: %d", ErrWeekOutOfRange, week)
	}

	table := s.resolveTable(ctx, &req.ScheduleContext)
	view := s.engine.WeeklyView(courses, week, table)

	days := make([]dto.DayScheduleResponse, 0, len(view))
	for _, d := range view {
		day := dto.DayScheduleResponse{
			Day:     d.Day,
			Name:    d.Day.String(),
			Classes: d.Classes,
		}
		if anchorErr == nil {
			day.Date = timetable.WeekDate(anchor, week, d.Day, s.loc).Format(dateLayout)
		}
		days = append(days, day)
	}

	return &dto.WeeklyScheduleResponse{
		Week:        week,
		CurrentWeek: currentWeek,
		TotalWeeks:  s.totalWeeks(courses),
		Days:        days,
	}, nil
}

// ── 内部辅助方法 ──

func (s *timetableService) decodeCourses(raw []byte) ([]timetable.Course, error) {
	courses, err := timetable.DecodeCourses(raw)
	if err != nil {
		return nil, ErrCoursesInvalid
	}
	return courses, nil
}

// resolveNow 解析请求中的当前时间并换算到课表时区
func (s *timetableService) resolveNow(raw string) (time.Time, error) {
	if raw == "" {
		return s.now().In(s.loc), nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, ErrNowInvalid
	}
	return t.In(s.loc), nil
}

// resolveAnchor 开学日期：请求中的 start_date 优先，其次为当前学期
func (s *timetableService) resolveAnchor(ctx context.Context, startDate string) (timetable.Anchor, error) {
	if startDate != "" {
		anchor, err := timetable.ParseAnchor(startDate, s.loc)
		if err != nil {
			return timetable.Anchor{}, fmt.Errorf("%w: %v", ErrAnchorInvalid, err)
		}
		return anchor, nil
	}

	semester, err := s.repo.Semester.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return timetable.Anchor{}, ErrAnchorUnavailable
		}
		s.logger.Error("查询当前学期失败", zap.Error(err))
		return timetable.Anchor{}, err
	}
	anchor, err := timetable.NewAnchor(semester.StartDate)
	if err != nil {
		return timetable.Anchor{}, fmt.Errorf("%w: %v", ErrAnchorInvalid, err)
	}
	return anchor, nil
}

// resolveTable 作息表：请求直接提供 → 指定 ID → 默认配置 → 内置表。
// 查询失败时退回内置表，不影响课表计算。
func (s *timetableService) resolveTable(ctx context.Context, sc *dto.ScheduleContext) timetable.TimeSlotTable {
	if len(sc.TimeSlots) > 0 {
		if table := timetable.DecodeTimeSlots(sc.TimeSlots); len(table) > 0 {
			return table
		}
		s.logger.Warn("请求中的作息表不可用，忽略", zap.Int("bytes", len(sc.TimeSlots)))
	}

	if sc.TimeSlotConfigID != "" {
		cfg, err := s.repo.TimeSlotConfig.GetByID(ctx, sc.TimeSlotConfigID)
		if err == nil {
			return cfg.Table()
		}
		s.logger.Warn("指定的作息时间表不可用，使用默认作息表",
			zap.String("id", sc.TimeSlotConfigID), zap.Error(err))
	}

	cfg, err := s.repo.TimeSlotConfig.GetDefault(ctx)
	if err == nil {
		return cfg.Table()
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("查询默认作息时间表失败，使用内置作息表", zap.Error(err))
	}
	return timetable.DefaultTimeSlots()
}

// totalWeeks 课程数据涉及的周数，不少于配置的默认学期周数
func (s *timetableService) totalWeeks(courses []timetable.Course) int {
	span := s.engine.SemesterSpan(courses)
	if s.cfg.DefaultTotalWeeks > span {
		span = s.cfg.DefaultTotalWeeks
	}
	return span
}

// digest 请求内容摘要，作为缓存键
func digest(raw []byte) string {
	sum := sha256.Sum256(bytes.TrimSpace(raw))
	return hex.EncodeToString(sum[:])
}
