package timetable

import (
	"errors"
	"testing"
)

func TestDecodeCourses_Array(t *testing.T) {
	data := []byte(`[
		{"id": "c-1", "name": "高等数学", "code": 1001, "teachers": ["李老师", ""],
		 "schedules": [{"weeks": "1-16", "day": 3, "time_slot": "3-4", "campus": "主校区", "building": "教一", "classroom": 101}, "坏数据", null]},
		"不是对象",
		{"name": "大学物理", "teachers": "王老师", "schedules": {"weeks": "1"}}
	]`)

	courses, err := DecodeCourses(data)
	if err != nil {
		t.Fatalf("DecodeCourses 应成功: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("期望 2 门课程，实际 %d", len(courses))
	}

	math := courses[0]
	if math.ID != "c-1" {
		t.Errorf("已有 ID 应保留，实际 %s", math.ID)
	}
	if math.Code != "1001" {
		t.Errorf("数字课程号应转为字符串，实际 %q", math.Code)
	}
	if len(math.Teachers) != 1 || math.Teachers[0] != "李老师" {
		t.Errorf("空教师名应丢弃，实际 %v", math.Teachers)
	}
	if len(math.Schedules) != 1 {
		t.Fatalf("非对象安排应丢弃，实际 %d 条", len(math.Schedules))
	}
	if math.Schedules[0].Day != "3" || math.Schedules[0].Classroom != "101" {
		t.Errorf("数字字段应转为字符串，实际 day=%q classroom=%q", math.Schedules[0].Day, math.Schedules[0].Classroom)
	}

	phys := courses[1]
	if phys.ID.Blank() {
		t.Error("缺少 ID 的课程应补齐 ID")
	}
	if len(phys.Teachers) != 1 || phys.Teachers[0] != "王老师" {
		t.Errorf("单个教师字符串应转为数组，实际 %v", phys.Teachers)
	}
	if len(phys.Schedules) != 0 {
		t.Errorf("schedules 非数组时应为空，实际 %d 条", len(phys.Schedules))
	}
}

func TestDecodeCourses_Wrapped(t *testing.T) {
	courses, err := DecodeCourses([]byte(`{"courses": [{"name": "线性代数", "schedules": []}]}`))
	if err != nil {
		t.Fatalf("DecodeCourses 应成功: %v", err)
	}
	if len(courses) != 1 || courses[0].Name != "线性代数" {
		t.Errorf("期望解出 线性代数，实际 %+v", courses)
	}
}

func TestDecodeCourses_Malformed(t *testing.T) {
	for _, in := range []string{`123`, `"courses"`, `{"foo": []}`, `{"courses": null}`, `{坏`} {
		if _, err := DecodeCourses([]byte(in)); !errors.Is(err, ErrCoursesMalformed) {
			t.Errorf("DecodeCourses(%s) 期望 ErrCoursesMalformed，实际 %v", in, err)
		}
	}
}

func TestEnsureIDs_Deterministic(t *testing.T) {
	data := []byte(`[{"name": "体育"}, {"name": "体育"}]`)
	first, _ := DecodeCourses(data)
	second, _ := DecodeCourses(data)

	if first[0].ID != second[0].ID || first[1].ID != second[1].ID {
		t.Error("同一份数据重复解码应得到相同 ID")
	}
	if first[0].ID == first[1].ID {
		t.Error("同名课程应得到不同 ID")
	}
}

func TestIsValidScheduleEntry(t *testing.T) {
	valid := slot("1-16", "1", "1-2")
	if !IsValidScheduleEntry(valid) {
		t.Error("字段齐全的安排应有效")
	}

	missing := []func(e *ScheduleEntry){
		func(e *ScheduleEntry) { e.Weeks = "" },
		func(e *ScheduleEntry) { e.Day = " " },
		func(e *ScheduleEntry) { e.TimeSlot = "" },
		func(e *ScheduleEntry) { e.Campus = "" },
		func(e *ScheduleEntry) { e.Building = "" },
		func(e *ScheduleEntry) { e.Classroom = "\t" },
	}
	for i, mutate := range missing {
		e := valid
		mutate(&e)
		if IsValidScheduleEntry(e) {
			t.Errorf("第 %d 种缺失字段的安排不应有效", i+1)
		}
	}
}

func TestCourseIdentity(t *testing.T) {
	a := newCourse("x-1", "数学")
	b := newCourse("", "数学")
	if a.identity() == b.identity() {
		t.Error("有 ID 与无 ID 的课程标识不应相同")
	}
	if b.identity() != "name:数学" {
		t.Errorf("无 ID 时应退回课程名，实际 %s", b.identity())
	}
}
