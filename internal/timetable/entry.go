package timetable

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrCoursesMalformed 课程数据既不是数组也不是 {"courses": [...]} 对象
var ErrCoursesMalformed = errors.New("课程数据格式不正确")

// ── 宽松类型 ──────────────────────────────────────────────
//
// 课程数据来自 AI 解析、手工编辑和分享码导入，字段类型不可信：
// 字符串、数字、null 都要接受，其余形状一律视为空值，
// 单个字段异常不能让整份数据解码失败。
// ─────────────────────────────────────────────────────────────

// FlexString 接受字符串、数字与 null 的字符串字段
type FlexString string

// UnmarshalJSON 实现 json.Unmarshaler，从不返回错误
func (f *FlexString) UnmarshalJSON(b []byte) error {
	*f = ""
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case string:
		*f = FlexString(x)
	case float64:
		*f = FlexString(strconv.FormatFloat(x, 'f', -1, 64))
	}
	return nil
}

// String 返回原始字符串
func (f FlexString) String() string { return string(f) }

// Blank 去除空白后是否为空
func (f FlexString) Blank() bool { return strings.TrimSpace(string(f)) == "" }

// FlexStrings 接受字符串数组或单个字符串
type FlexStrings []string

// UnmarshalJSON 实现 json.Unmarshaler，从不返回错误
func (f *FlexStrings) UnmarshalJSON(b []byte) error {
	*f = nil
	var items []FlexString
	if err := json.Unmarshal(b, &items); err == nil {
		for _, it := range items {
			if !it.Blank() {
				*f = append(*f, strings.TrimSpace(string(it)))
			}
		}
		return nil
	}
	var single FlexString
	_ = json.Unmarshal(b, &single)
	if !single.Blank() {
		*f = FlexStrings{strings.TrimSpace(string(single))}
	}
	return nil
}

// ScheduleEntries 逐条解码上课安排，非对象元素丢弃
type ScheduleEntries []ScheduleEntry

// UnmarshalJSON 实现 json.Unmarshaler，从不返回错误
func (s *ScheduleEntries) UnmarshalJSON(b []byte) error {
	*s = nil
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil
	}
	for _, raw := range raws {
		if !isJSONObject(raw) {
			continue
		}
		var e ScheduleEntry
		if err := json.Unmarshal(raw, &e); err == nil {
			*s = append(*s, e)
		}
	}
	return nil
}

func isJSONObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// ── 课程与上课安排 ──

// ScheduleEntry 一条上课安排
type ScheduleEntry struct {
	Weeks     FlexString `json:"weeks"`
	Day       FlexString `json:"day"`
	TimeSlot  FlexString `json:"time_slot"`
	Campus    FlexString `json:"campus"`
	Building  FlexString `json:"building"`
	Classroom FlexString `json:"classroom"`
}

// Course 一门课程。ID 为创建时生成的稳定标识，Name 仅用于展示。
type Course struct {
	ID        FlexString      `json:"id,omitempty"`
	Code      FlexString      `json:"code"`
	Name      FlexString      `json:"name"`
	Teachers  FlexStrings     `json:"teachers"`
	Schedules ScheduleEntries `json:"schedules"`
}

// identity 课程匹配键：优先 ID，缺失时退回课程名
func (c *Course) identity() string {
	if !c.ID.Blank() {
		return "id:" + strings.TrimSpace(string(c.ID))
	}
	return "name:" + strings.TrimSpace(string(c.Name))
}

// IsValidScheduleEntry 周次、星期、节次非空，且校区、教学楼、教室齐全
func IsValidScheduleEntry(e ScheduleEntry) bool {
	return !e.Weeks.Blank() &&
		!e.Day.Blank() &&
		!e.TimeSlot.Blank() &&
		!e.Campus.Blank() &&
		!e.Building.Blank() &&
		!e.Classroom.Blank()
}

// courseNamespace 课程 ID 的 UUIDv5 命名空间
var courseNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("next-class/course"))

// EnsureIDs 为缺少 ID 的课程生成 ID（原地修改）。
// ID 由课程在列表中的位置与课程名派生：同一份数据重复解码得到相同 ID，
// 同名课程也会得到不同 ID。
func EnsureIDs(courses []Course) {
	for i := range courses {
		if courses[i].ID.Blank() {
			seed := strconv.Itoa(i) + ":" + strings.TrimSpace(string(courses[i].Name))
			courses[i].ID = FlexString(uuid.NewSHA1(courseNamespace, []byte(seed)).String())
		}
	}
}

// DecodeCourses 解码课程数据：接受课程数组或 {"courses": [...]}，
// 非对象元素丢弃，缺少 ID 的课程补齐 ID。
func DecodeCourses(data []byte) ([]Course, error) {
	data = bytes.TrimSpace(data)

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		var wrapped struct {
			Courses []json.RawMessage `json:"courses"`
		}
		if !isJSONObject(data) || json.Unmarshal(data, &wrapped) != nil || wrapped.Courses == nil {
			return nil, ErrCoursesMalformed
		}
		raws = wrapped.Courses
	}

	courses := make([]Course, 0, len(raws))
	for _, raw := range raws {
		if !isJSONObject(raw) {
			continue
		}
		var c Course
		if err := json.Unmarshal(raw, &c); err != nil {
			continue
		}
		courses = append(courses, c)
	}
	EnsureIDs(courses)
	return courses, nil
}

// ── 解析后的安排 ──

// resolvedEntry 周次、星期、节次均已解析的上课安排
type resolvedEntry struct {
	course *Course
	entry  *ScheduleEntry
	weeks  WeekSet
	day    DayIndex
	slots  SectionRange
}

// resolveEntry 解析星期、节次与周次；任一无法解析返回 false
func resolveEntry(c *Course, e *ScheduleEntry, parse func(string) WeekSet) (resolvedEntry, bool) {
	day, ok := ParseDay(string(e.Day))
	if !ok {
		return resolvedEntry{}, false
	}
	slots, err := ParseTimeSlot(string(e.TimeSlot))
	if err != nil {
		return resolvedEntry{}, false
	}
	weeks := parse(string(e.Weeks))
	if weeks.Len() == 0 {
		return resolvedEntry{}, false
	}
	return resolvedEntry{course: c, entry: e, weeks: weeks, day: day, slots: slots}, true
}
