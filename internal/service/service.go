package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fangguan233/next-class/config"
	"github.com/fangguan233/next-class/internal/repository"
	"github.com/fangguan233/next-class/internal/timetable"
)

// ResultCache 计算结果缓存，由 pkg/redis.Client 实现；为 nil 时不缓存
type ResultCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Timetable      TimetableService
	Semester       SemesterService
	TimeSlotConfig TimeSlotConfigService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache ResultCache,
	logger *zap.Logger,
) *Service {
	engine := timetable.NewEngine(logger.Named("timetable"))
	loc := cfg.Timetable.Location()

	return &Service{
		Timetable:      NewTimetableService(&cfg.Timetable, cfg.Redis.CacheTTL, repo, cache, engine, logger),
		Semester:       NewSemesterService(repo, loc, logger),
		TimeSlotConfig: NewTimeSlotConfigService(repo, logger),
	}
}

// dateLayout 日期字段统一格式
const dateLayout = "2006-01-02"
