package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fangguan233/next-class/internal/model"
	pkgerrors "github.com/fangguan233/next-class/pkg/errors"
)

// TimeSlotConfigRepository 作息时间表数据访问接口
type TimeSlotConfigRepository interface {
	Create(ctx context.Context, cfg *model.TimeSlotConfig) error
	GetByID(ctx context.Context, id string) (*model.TimeSlotConfig, error)
	GetDefault(ctx context.Context) (*model.TimeSlotConfig, error)
	List(ctx context.Context) ([]model.TimeSlotConfig, error)
	Update(ctx context.Context, cfg *model.TimeSlotConfig) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ClearDefault(ctx context.Context) error
}

type timeSlotConfigRepo struct {
	db *gorm.DB
}

// NewTimeSlotConfigRepo 创建 TimeSlotConfigRepository 实例
func NewTimeSlotConfigRepo(db *gorm.DB) TimeSlotConfigRepository {
	return &timeSlotConfigRepo{db: db}
}

func (r *timeSlotConfigRepo) Create(ctx context.Context, cfg *model.TimeSlotConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *timeSlotConfigRepo) GetByID(ctx context.Context, id string) (*model.TimeSlotConfig, error) {
	var cfg model.TimeSlotConfig
	err := r.db.WithContext(ctx).
		Where("config_id = ?", id).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *timeSlotConfigRepo) GetDefault(ctx context.Context) (*model.TimeSlotConfig, error) {
	var cfg model.TimeSlotConfig
	err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *timeSlotConfigRepo) List(ctx context.Context) ([]model.TimeSlotConfig, error) {
	var cfgs []model.TimeSlotConfig
	err := r.db.WithContext(ctx).
		Order("is_default DESC, name ASC").
		Find(&cfgs).Error
	return cfgs, err
}

// Update 按版本号更新，版本不一致返回 ErrOptimisticLock
func (r *timeSlotConfigRepo) Update(ctx context.Context, cfg *model.TimeSlotConfig) error {
	oldVersion := cfg.Version
	result := r.db.WithContext(ctx).
		Model(&model.TimeSlotConfig{}).
		Where("config_id = ? AND version = ?", cfg.ConfigID, oldVersion).
		Updates(map[string]interface{}{
			"name":       cfg.Name,
			"slots":      cfg.Slots,
			"is_default": cfg.IsDefault,
			"updated_by": cfg.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	cfg.Version = oldVersion + 1
	return nil
}

func (r *timeSlotConfigRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.TimeSlotConfig{}).
		Where("config_id = ?", id).
		Updates(map[string]interface{}{
			"is_default": false,
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// ClearDefault 取消所有作息表的默认标记
func (r *timeSlotConfigRepo) ClearDefault(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.TimeSlotConfig{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}
