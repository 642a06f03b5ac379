package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fangguan233/next-class/internal/model"
	pkgerrors "github.com/fangguan233/next-class/pkg/errors"
)

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
	updateErr error
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if semester.SemesterID == "" {
		semester.SemesterID = "sem-" + semester.Name
	}
	semester.Version = 1
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetCurrent(_ context.Context) (*model.Semester, error) {
	for _, s := range m.semesters {
		if s.IsActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.semesters[semester.SemesterID]
	if !ok || stored.Version != semester.Version {
		return pkgerrors.ErrOptimisticLock
	}
	semester.Version++
	cp := *semester
	m.semesters[semester.SemesterID] = &cp
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.semesters, id)
	return nil
}

func (m *mockSemesterRepo) ClearActive(_ context.Context) error {
	for _, s := range m.semesters {
		s.IsActive = false
	}
	return nil
}

// ── Mock TimeSlotConfigRepository ──

type mockTimeSlotConfigRepo struct {
	configs map[string]*model.TimeSlotConfig
	getErr  error
}

func newMockTimeSlotConfigRepo() *mockTimeSlotConfigRepo {
	return &mockTimeSlotConfigRepo{configs: make(map[string]*model.TimeSlotConfig)}
}

func (m *mockTimeSlotConfigRepo) Create(_ context.Context, cfg *model.TimeSlotConfig) error {
	if cfg.ConfigID == "" {
		cfg.ConfigID = "tsc-" + cfg.Name
	}
	cfg.Version = 1
	m.configs[cfg.ConfigID] = cfg
	return nil
}

func (m *mockTimeSlotConfigRepo) GetByID(_ context.Context, id string) (*model.TimeSlotConfig, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if c, ok := m.configs[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotConfigRepo) GetDefault(_ context.Context) (*model.TimeSlotConfig, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, c := range m.configs {
		if c.IsDefault {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotConfigRepo) List(_ context.Context) ([]model.TimeSlotConfig, error) {
	var result []model.TimeSlotConfig
	for _, c := range m.configs {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockTimeSlotConfigRepo) Update(_ context.Context, cfg *model.TimeSlotConfig) error {
	stored, ok := m.configs[cfg.ConfigID]
	if !ok || stored.Version != cfg.Version {
		return pkgerrors.ErrOptimisticLock
	}
	cfg.Version++
	cp := *cfg
	m.configs[cfg.ConfigID] = &cp
	return nil
}

func (m *mockTimeSlotConfigRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.configs, id)
	return nil
}

func (m *mockTimeSlotConfigRepo) ClearDefault(_ context.Context) error {
	for _, c := range m.configs {
		c.IsDefault = false
	}
	return nil
}

// ── Mock ResultCache ──

type mockCache struct {
	entries map[string][]byte
	gets    int
	sets    int
	failGet bool
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	m.gets++
	if m.failGet {
		return false, errors.New("redis: connection refused")
	}
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *mockCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	m.sets++
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}
