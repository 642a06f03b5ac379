package model

import (
	"gorm.io/datatypes"

	"github.com/fangguan233/next-class/internal/timetable"
)

// TimeSlotConfig 作息时间表，对应 time_slot_configs
type TimeSlotConfig struct {
	ConfigID  string                                  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"config_id"`
	Name      string                                  `gorm:"type:varchar(50);not null"                      json:"name"`
	Slots     datatypes.JSONSlice[timetable.TimeSlot] `gorm:"type:jsonb;not null"                            json:"slots"`
	IsDefault bool                                    `gorm:"not null;default:false"                         json:"is_default"`
	VersionedModel
}

// TableName 指定表名
func (TimeSlotConfig) TableName() string { return "time_slot_configs" }

// Table 转为课表计算使用的作息表
func (c *TimeSlotConfig) Table() timetable.TimeSlotTable {
	return timetable.TimeSlotTable(c.Slots)
}
