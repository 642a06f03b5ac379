package timetable

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrAnchorUnset     = errors.New("未设置开学日期")
	ErrAnchorNotMonday = errors.New("开学日期必须是周一")
	ErrAnchorMalformed = errors.New("开学日期格式不正确")
)

// ── 星期 ──

// DayIndex 星期，周一=1 … 周日=7
type DayIndex int

const (
	Monday DayIndex = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// Valid 是否为 1..7
func (d DayIndex) Valid() bool { return d >= Monday && d <= Sunday }

func (d DayIndex) String() string {
	if !d.Valid() {
		return "星期" + strconv.Itoa(int(d))
	}
	return dayNames[d]
}

// DayFromWeekday 将 Go 的 time.Weekday（0=周日）转为 DayIndex。
// 所有平台星期约定的转换只经过这里。
func DayFromWeekday(wd time.Weekday) DayIndex {
	if wd == time.Sunday {
		return Sunday
	}
	return DayIndex(wd)
}

// dayAliases 课表数据中常见的星期写法
var dayAliases = map[string]DayIndex{
	"一": Monday, "二": Tuesday, "三": Wednesday, "四": Thursday,
	"五": Friday, "六": Saturday, "日": Sunday, "天": Sunday, "七": Sunday,
}

// ParseDay 解析 "1".."7"，以及 "周三"、"星期日" 这类中文写法
func ParseDay(s string) (DayIndex, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		d := DayIndex(n)
		return d, d.Valid()
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "星期"), "周")
	d, ok := dayAliases[s]
	return d, ok
}

// ── 开学日期 ──

// Anchor 开学日期（第 1 周周一），仅保留日历日期
type Anchor struct {
	date time.Time
}

// NewAnchor 以 t 所在时区的日历日期构造锚点，要求为周一
func NewAnchor(t time.Time) (Anchor, error) {
	if t.IsZero() {
		return Anchor{}, ErrAnchorUnset
	}
	if t.Weekday() != time.Monday {
		return Anchor{}, ErrAnchorNotMonday
	}
	y, m, d := t.Date()
	return Anchor{date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

// ParseAnchor 解析 "2006-01-02" 或 RFC 3339 时间戳。
// 时间戳先换算到 loc 再取日期（前端常以 UTC 保存本地零点）。
func ParseAnchor(s string, loc *time.Location) (Anchor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Anchor{}, ErrAnchorUnset
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return NewAnchor(t)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewAnchor(t.In(loc))
	}
	return Anchor{}, ErrAnchorMalformed
}

// IsZero 是否未设置
func (a Anchor) IsZero() bool { return a.date.IsZero() }

// String 格式化为 2006-01-02
func (a Anchor) String() string {
	if a.IsZero() {
		return ""
	}
	return a.date.Format("2006-01-02")
}

// civilDay 日历日期距 1970-01-01 的天数，不受夏令时影响
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// CurrentWeek 计算 now 所在教学周（1-based），早于开学日期时返回 1
func CurrentWeek(now time.Time, anchor Anchor) (int, error) {
	if anchor.IsZero() {
		return 0, ErrAnchorUnset
	}
	days := civilDay(now) - civilDay(anchor.date)
	if days < 0 {
		return 1, nil
	}
	return days/7 + 1, nil
}

// CurrentDayIndex 返回 now 的星期
func CurrentDayIndex(now time.Time) DayIndex {
	return DayFromWeekday(now.Weekday())
}

// WeekDate 返回第 week 周星期 day 在 loc 中的零点
func WeekDate(anchor Anchor, week int, day DayIndex, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := anchor.date.Date()
	return time.Date(y, m, d+(week-1)*7+int(day)-1, 0, 0, 0, 0, loc)
}

// TotalWeeks 计算开学日期到 end（含）覆盖的教学周数，至少 1 周
func TotalWeeks(anchor Anchor, end time.Time) int {
	if anchor.IsZero() {
		return 1
	}
	days := civilDay(end) - civilDay(anchor.date)
	if days < 0 {
		return 1
	}
	return days/7 + 1
}
