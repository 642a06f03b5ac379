package timetable

import (
	"sort"
)

// DaySchedule 某一天的课程，按上课节次排序
type DaySchedule struct {
	Day     DayIndex          `json:"day"`
	Classes []ClassOccurrence `json:"classes"`
}

// WeeklyView 第 week 周的课表（周一到周日），只含有效安排
func (e *Engine) WeeklyView(courses []Course, week int, table TimeSlotTable) (days [7]DaySchedule) {
	for i := range days {
		days[i] = DaySchedule{Day: DayIndex(i + 1), Classes: []ClassOccurrence{}}
	}
	defer e.guard("weekly_view", func() {
		for i := range days {
			days[i].Classes = []ClassOccurrence{}
		}
	})

	cs := e.candidatesInWeek(courses, week, table)
	sortByDayAndSection(cs)
	for _, c := range cs {
		days[c.day-1].Classes = append(days[c.day-1].Classes, newOccurrence(c.resolvedEntry, week, table))
	}
	for i := range days {
		sort.SliceStable(days[i].Classes, func(a, b int) bool {
			return days[i].Classes[a].Sections.Start < days[i].Classes[b].Sections.Start
		})
	}
	return days
}

// WeeklyView 使用静默引擎生成周课表
func WeeklyView(courses []Course, week int, table TimeSlotTable) [7]DaySchedule {
	return defaultEngine.WeeklyView(courses, week, table)
}
