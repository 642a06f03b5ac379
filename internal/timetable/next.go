package timetable

import (
	"sort"
	"time"
)

// ClassOccurrence 某一周某一天的一次上课
type ClassOccurrence struct {
	CourseID   string       `json:"course_id"`
	CourseName string       `json:"course_name"`
	CourseCode string       `json:"course_code,omitempty"`
	Teachers   []string     `json:"teachers"`
	Week       int          `json:"week"`
	Day        DayIndex     `json:"day"`
	Sections   SectionRange `json:"sections"`
	TimeSlot   string       `json:"time_slot"`
	StartTime  string       `json:"start_time"`
	EndTime    string       `json:"end_time"`
	Campus     string       `json:"campus"`
	Building   string       `json:"building"`
	Classroom  string       `json:"classroom"`
	StartsAt   time.Time    `json:"starts_at,omitempty"`
	IsNextWeek bool         `json:"is_next_week"`
}

// candidate 待排序的上课安排
type candidate struct {
	resolvedEntry
	start ClockTime
}

// candidatesInWeek 第 week 周有课的有效安排，保持输入顺序
func (e *Engine) candidatesInWeek(courses []Course, week int, table TimeSlotTable) []candidate {
	var out []candidate
	for i := range courses {
		c := &courses[i]
		for j := range c.Schedules {
			entry := &c.Schedules[j]
			if !IsValidScheduleEntry(*entry) {
				continue
			}
			r, ok := resolveEntry(c, entry, e.parser.Parse)
			if !ok || !r.weeks.Contains(week) {
				continue
			}
			out = append(out, candidate{resolvedEntry: r, start: table.ResolveStart(r.slots.Start)})
		}
	}
	return out
}

// SelectNext 选出下一节课：先找本周尚未开始的课（当天优先），
// 没有则取下周最早的一节并标记 IsNextWeek。都没有时返回 nil。
// 开学之前按第 1 周计算，第 1 周的课都算本周。
// 仅开学日期缺失时返回错误。
func (e *Engine) SelectNext(courses []Course, now time.Time, anchor Anchor, table TimeSlotTable) (next *ClassOccurrence, err error) {
	week, err := CurrentWeek(now, anchor)
	if err != nil {
		return nil, err
	}
	defer e.guard("select_next", func() { next, err = nil, nil })

	today := CurrentDayIndex(now)
	nowMinutes := now.Hour()*60 + now.Minute()
	// 开学前第 1 周整周都尚未开始
	beforeStart := civilDay(now) < civilDay(anchor.date)

	var upcoming []candidate
	for _, c := range e.candidatesInWeek(courses, week, table) {
		if beforeStart || c.day > today || (c.day == today && c.start.Minutes() > nowMinutes) {
			upcoming = append(upcoming, c)
		}
	}
	sortByDayAndSection(upcoming)
	if len(upcoming) > 0 {
		occ := newOccurrence(upcoming[0].resolvedEntry, week, table)
		occ.StartsAt = startsAt(anchor, week, upcoming[0].day, upcoming[0].start, now.Location())
		return &occ, nil
	}

	nextWeek := e.candidatesInWeek(courses, week+1, table)
	sortByDayAndSection(nextWeek)
	if len(nextWeek) > 0 {
		occ := newOccurrence(nextWeek[0].resolvedEntry, week+1, table)
		occ.StartsAt = startsAt(anchor, week+1, nextWeek[0].day, nextWeek[0].start, now.Location())
		occ.IsNextWeek = true
		return &occ, nil
	}
	return nil, nil
}

func sortByDayAndSection(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].day != cs[j].day {
			return cs[i].day < cs[j].day
		}
		return cs[i].slots.Start < cs[j].slots.Start
	})
}

func startsAt(anchor Anchor, week int, day DayIndex, start ClockTime, loc *time.Location) time.Time {
	d := WeekDate(anchor, week, day, loc)
	return time.Date(d.Year(), d.Month(), d.Day(), start.Hour, start.Minute, 0, 0, loc)
}

func newOccurrence(r resolvedEntry, week int, table TimeSlotTable) ClassOccurrence {
	teachers := make([]string, len(r.course.Teachers))
	copy(teachers, r.course.Teachers)
	return ClassOccurrence{
		CourseID:   string(r.course.ID),
		CourseName: string(r.course.Name),
		CourseCode: string(r.course.Code),
		Teachers:   teachers,
		Week:       week,
		Day:        r.day,
		Sections:   r.slots,
		TimeSlot:   r.slots.String(),
		StartTime:  table.ResolveStart(r.slots.Start).String(),
		EndTime:    table.ResolveEnd(r.slots.End).String(),
		Campus:     string(r.entry.Campus),
		Building:   string(r.entry.Building),
		Classroom:  string(r.entry.Classroom),
	}
}

// SelectNext 使用静默引擎选出下一节课
func SelectNext(courses []Course, now time.Time, anchor Anchor, table TimeSlotTable) (*ClassOccurrence, error) {
	return defaultEngine.SelectNext(courses, now, anchor, table)
}
