package timetable

import "time"

// ── 测试辅助 ──

var testAnchorDate = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) // 周一

func mustAnchor(t time.Time) Anchor {
	a, err := NewAnchor(t)
	if err != nil {
		panic(err)
	}
	return a
}

func at(days int, hour, minute int) time.Time {
	return testAnchorDate.AddDate(0, 0, days).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// slot 地点齐全的上课安排
func slot(weeks, day, timeSlot string) ScheduleEntry {
	return ScheduleEntry{
		Weeks:     FlexString(weeks),
		Day:       FlexString(day),
		TimeSlot:  FlexString(timeSlot),
		Campus:    "主校区",
		Building:  "教一",
		Classroom: "101",
	}
}

func newCourse(id, name string, entries ...ScheduleEntry) Course {
	return Course{
		ID:        FlexString(id),
		Name:      FlexString(name),
		Teachers:  FlexStrings{"张老师"},
		Schedules: entries,
	}
}
