package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fangguan233/next-class/internal/dto"
	"github.com/fangguan233/next-class/internal/model"
	"github.com/fangguan233/next-class/internal/repository"
	"github.com/fangguan233/next-class/internal/timetable"
)

// ── 作息时间表模块业务错误 ──

var (
	ErrTimeSlotConfigNotFound = errors.New("作息时间表不存在")
	ErrTimeSlotConfigInvalid  = errors.New("作息时间表无效")
)

// TimeSlotConfigService 作息时间表业务接口
type TimeSlotConfigService interface {
	Create(ctx context.Context, req *dto.CreateTimeSlotConfigRequest, callerID string) (*dto.TimeSlotConfigResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimeSlotConfigResponse, error)
	GetDefault(ctx context.Context) (*dto.TimeSlotConfigResponse, error)
	List(ctx context.Context) ([]dto.TimeSlotConfigResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimeSlotConfigRequest, callerID string) (*dto.TimeSlotConfigResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type timeSlotConfigService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeSlotConfigService 创建 TimeSlotConfigService 实例
func NewTimeSlotConfigService(repo *repository.Repository, logger *zap.Logger) TimeSlotConfigService {
	return &timeSlotConfigService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timeSlotConfigService) Create(ctx context.Context, req *dto.CreateTimeSlotConfigRequest, callerID string) (*dto.TimeSlotConfigResponse, error) {
	slots, err := normalizeSlots(req.Slots)
	if err != nil {
		return nil, err
	}

	cfg := &model.TimeSlotConfig{
		Name:      req.Name,
		Slots:     datatypes.NewJSONSlice(slots),
		IsDefault: req.IsDefault,
	}
	cfg.CreatedBy = &callerID
	cfg.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if cfg.IsDefault {
			if err := txRepo.TimeSlotConfig.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return txRepo.TimeSlotConfig.Create(ctx, cfg)
	})
	if err != nil {
		s.logger.Error("创建作息时间表失败", zap.Error(err))
		return nil, err
	}

	return toTimeSlotConfigResponse(cfg), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timeSlotConfigService) GetByID(ctx context.Context, id string) (*dto.TimeSlotConfigResponse, error) {
	cfg, err := s.getConfig(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTimeSlotConfigResponse(cfg), nil
}

// ────────────────────── GetDefault ──────────────────────

// GetDefault 返回默认作息表；未配置时返回内置 12 节作息表
func (s *timeSlotConfigService) GetDefault(ctx context.Context) (*dto.TimeSlotConfigResponse, error) {
	cfg, err := s.repo.TimeSlotConfig.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return builtinTimeSlotConfigResponse(), nil
		}
		s.logger.Error("查询默认作息时间表失败", zap.Error(err))
		return nil, err
	}
	return toTimeSlotConfigResponse(cfg), nil
}

// ────────────────────── List ──────────────────────

func (s *timeSlotConfigService) List(ctx context.Context) ([]dto.TimeSlotConfigResponse, error) {
	cfgs, err := s.repo.TimeSlotConfig.List(ctx)
	if err != nil {
		s.logger.Error("列出作息时间表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimeSlotConfigResponse, 0, len(cfgs))
	for i := range cfgs {
		result = append(result, *toTimeSlotConfigResponse(&cfgs[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *timeSlotConfigService) Update(ctx context.Context, id string, req *dto.UpdateTimeSlotConfigRequest, callerID string) (*dto.TimeSlotConfigResponse, error) {
	cfg, err := s.getConfig(ctx, id)
	if err != nil {
		return nil, err
	}

	var slots []timetable.TimeSlot
	if req.Slots != nil {
		if slots, err = normalizeSlots(req.Slots); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		cfg.Name = *req.Name
	}
	if slots != nil {
		cfg.Slots = datatypes.NewJSONSlice(slots)
	}
	becomesDefault := req.IsDefault != nil && *req.IsDefault && !cfg.IsDefault
	if req.IsDefault != nil {
		cfg.IsDefault = *req.IsDefault
	}
	cfg.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if becomesDefault {
			if err := txRepo.TimeSlotConfig.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return txRepo.TimeSlotConfig.Update(ctx, cfg)
	})
	if err != nil {
		s.logger.Error("更新作息时间表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTimeSlotConfigResponse(cfg), nil
}

// ────────────────────── Delete ──────────────────────

func (s *timeSlotConfigService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getConfig(ctx, id); err != nil {
		return err
	}

	if err := s.repo.TimeSlotConfig.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除作息时间表失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *timeSlotConfigService) getConfig(ctx context.Context, id string) (*model.TimeSlotConfig, error) {
	cfg, err := s.repo.TimeSlotConfig.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotConfigNotFound
		}
		s.logger.Error("查询作息时间表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

// normalizeSlots 校验并按节次排序
func normalizeSlots(slots []timetable.TimeSlot) ([]timetable.TimeSlot, error) {
	table := timetable.TimeSlotTable(slots)
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeSlotConfigInvalid, err)
	}
	out := make([]timetable.TimeSlot, len(slots))
	copy(out, slots)
	sort.Slice(out, func(i, j int) bool { return out[i].Section < out[j].Section })
	return out, nil
}

func toTimeSlotConfigResponse(cfg *model.TimeSlotConfig) *dto.TimeSlotConfigResponse {
	return &dto.TimeSlotConfigResponse{
		ID:        cfg.ConfigID,
		Name:      cfg.Name,
		Slots:     []timetable.TimeSlot(cfg.Slots),
		IsDefault: cfg.IsDefault,
		Version:   cfg.Version,
		CreatedAt: cfg.CreatedAt.Format(time.RFC3339),
		UpdatedAt: cfg.UpdatedAt.Format(time.RFC3339),
	}
}

func builtinTimeSlotConfigResponse() *dto.TimeSlotConfigResponse {
	return &dto.TimeSlotConfigResponse{
		Name:      "内置作息表",
		Slots:     timetable.DefaultTimeSlots(),
		IsDefault: true,
		Builtin:   true,
	}
}
