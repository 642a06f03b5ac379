package timetable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrTimeSlotSyntax       = errors.New("节次格式不正确")
	ErrTimeSlotTableInvalid = errors.New("作息时间表无效")
)

// fallbackClock 配置表与内置表均无法解析时的上课时间
var fallbackClock = ClockTime{Hour: 8, Minute: 0}

const (
	// MaxSection 单日节次上限
	MaxSection = 24
	// defaultSectionMinutes 内置表之外的节次按此时长推算下课时间
	defaultSectionMinutes = 45
)

var validate = validator.New()

// ClockTime 一天内的钟点
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes 自零点起的分钟数
func (c ClockTime) Minutes() int { return c.Hour*60 + c.Minute }

// String 格式化为 HH:MM
func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

func clockFromMinutes(m int) ClockTime {
	m = ((m % (24 * 60)) + 24*60) % (24 * 60)
	return ClockTime{Hour: m / 60, Minute: m % 60}
}

// ParseClock 解析 "HH:MM"（容忍 "8:20" 这类缺省前导零的写法）
func ParseClock(s string) (ClockTime, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ClockTime{}, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return ClockTime{}, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return ClockTime{}, false
	}
	return ClockTime{Hour: h, Minute: m}, true
}

// TimeSlot 作息表中的一节课
type TimeSlot struct {
	Section int    `json:"section" validate:"min=1"`
	Start   string `json:"start"   validate:"required,datetime=15:04"`
	End     string `json:"end"     validate:"required,datetime=15:04"`
}

// TimeSlotTable 作息时间表（节次 → 钟点）
type TimeSlotTable []TimeSlot

// DefaultTimeSlots 内置 12 节作息表
func DefaultTimeSlots() TimeSlotTable {
	return TimeSlotTable{
		{Section: 1, Start: "08:20", End: "09:05"},
		{Section: 2, Start: "09:10", End: "09:55"},
		{Section: 3, Start: "10:10", End: "10:55"},
		{Section: 4, Start: "11:00", End: "11:45"},
		{Section: 5, Start: "13:45", End: "14:30"},
		{Section: 6, Start: "14:35", End: "15:20"},
		{Section: 7, Start: "15:35", End: "16:20"},
		{Section: 8, Start: "16:25", End: "17:10"},
		{Section: 9, Start: "18:30", End: "19:15"},
		{Section: 10, Start: "19:25", End: "20:10"},
		{Section: 11, Start: "20:20", End: "21:05"},
		{Section: 12, Start: "21:15", End: "22:00"},
	}
}

var builtinTimeSlots = DefaultTimeSlots()

// Lookup 按节次查找
func (t TimeSlotTable) Lookup(section int) (TimeSlot, bool) {
	for _, s := range t {
		if s.Section == section {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// ResolveStart 返回节次的上课时间。
// 依次尝试本表、内置表，最后退回 08:00。
func (t TimeSlotTable) ResolveStart(section int) ClockTime {
	if c, ok := t.clock(section, true); ok {
		return c
	}
	if c, ok := builtinTimeSlots.clock(section, true); ok {
		return c
	}
	return fallbackClock
}

// ResolveEnd 返回节次的下课时间，回退规则同 ResolveStart
func (t TimeSlotTable) ResolveEnd(section int) ClockTime {
	if c, ok := t.clock(section, false); ok {
		return c
	}
	if c, ok := builtinTimeSlots.clock(section, false); ok {
		return c
	}
	return clockFromMinutes(t.ResolveStart(section).Minutes() + defaultSectionMinutes)
}

func (t TimeSlotTable) clock(section int, start bool) (ClockTime, bool) {
	s, ok := t.Lookup(section)
	if !ok {
		return ClockTime{}, false
	}
	if start {
		return ParseClock(s.Start)
	}
	return ParseClock(s.End)
}

// Validate 写入前校验：节次唯一且为正，钟点为 HH:MM，上课早于下课
func (t TimeSlotTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: 至少需要一节课", ErrTimeSlotTableInvalid)
	}
	seen := make(map[int]bool, len(t))
	for i, s := range t {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("%w: 第 %d 行: %v", ErrTimeSlotTableInvalid, i+1, err)
		}
		if seen[s.Section] {
			return fmt.Errorf("%w: 节次 %d 重复", ErrTimeSlotTableInvalid, s.Section)
		}
		seen[s.Section] = true

		start, _ := ParseClock(s.Start)
		end, _ := ParseClock(s.End)
		if start.Minutes() >= end.Minutes() {
			return fmt.Errorf("%w: 第 %d 节上课时间须早于下课时间", ErrTimeSlotTableInvalid, s.Section)
		}
	}
	return nil
}

// flexTimeSlot 请求中的作息行，节次可以是数字或字符串
type flexTimeSlot struct {
	Section FlexString `json:"section"`
	Start   FlexString `json:"start"`
	End     FlexString `json:"end"`
}

// DecodeTimeSlots 宽松解码请求携带的作息表：接受数组或 {"time_slots": [...]}。
// 节次越界、钟点无法解析、上课不早于下课的行丢弃，重复节次保留第一行。
// 没有可用的行时返回 nil，由调用方退回其他作息表。
func DecodeTimeSlots(data []byte) TimeSlotTable {
	data = bytes.TrimSpace(data)

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		var wrapped struct {
			TimeSlots []json.RawMessage `json:"time_slots"`
		}
		if !isJSONObject(data) || json.Unmarshal(data, &wrapped) != nil {
			return nil
		}
		raws = wrapped.TimeSlots
	}

	var table TimeSlotTable
	seen := make(map[int]bool, len(raws))
	for _, raw := range raws {
		if !isJSONObject(raw) {
			continue
		}
		var row flexTimeSlot
		if json.Unmarshal(raw, &row) != nil {
			continue
		}
		section, err := strconv.Atoi(strings.TrimSpace(row.Section.String()))
		if err != nil || section < 1 || section > MaxSection || seen[section] {
			continue
		}
		start, ok := ParseClock(row.Start.String())
		if !ok {
			continue
		}
		end, ok := ParseClock(row.End.String())
		if !ok || start.Minutes() >= end.Minutes() {
			continue
		}
		seen[section] = true
		table = append(table, TimeSlot{Section: section, Start: start.String(), End: end.String()})
	}
	sort.Slice(table, func(i, j int) bool { return table[i].Section < table[j].Section })
	return table
}

// ── 节次区间 ──

// SectionRange 闭区间节次，如 "3-4" → {3,4}
type SectionRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len 覆盖的节数
func (r SectionRange) Len() int { return r.End - r.Start + 1 }

// String 格式化为 "A-B"
func (r SectionRange) String() string {
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

// ParseTimeSlot 解析 "A-B" 节次字符串，要求 1 ≤ A ≤ B ≤ MaxSection
func ParseTimeSlot(s string) (SectionRange, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(s), "节")
	a, b, ok := strings.Cut(raw, "-")
	if !ok {
		return SectionRange{}, fmt.Errorf("%w: %q", ErrTimeSlotSyntax, s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return SectionRange{}, fmt.Errorf("%w: %q", ErrTimeSlotSyntax, s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return SectionRange{}, fmt.Errorf("%w: %q", ErrTimeSlotSyntax, s)
	}
	if start < 1 || start > end || end > MaxSection {
		return SectionRange{}, fmt.Errorf("%w: %q", ErrTimeSlotSyntax, s)
	}
	return SectionRange{Start: start, End: end}, nil
}
