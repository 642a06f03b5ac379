package timetable

import (
	"strconv"
	"strings"
	"testing"
)

func TestDetectConflicts_OnePairPerCourses(t *testing.T) {
	courses := []Course{
		newCourse("m", "Math", slot("1-16", "3", "3-4")),
		newCourse("p", "Physics", slot("2,4,6", "3", "4-5")),
	}

	pairs := DetectConflicts(courses)
	if len(pairs) != 1 {
		t.Fatalf("期望 1 个冲突，实际 %d: %+v", len(pairs), pairs)
	}
	p := pairs[0]
	if p.CourseA != "Math" || p.CourseB != "Physics" {
		t.Errorf("期望 (Math, Physics)，实际 (%s, %s)", p.CourseA, p.CourseB)
	}
	if p.Week != 2 || p.Day != Wednesday || p.Section != 4 {
		t.Errorf("首次冲突位置应为 第2周 周三 第4节，实际 第%d周 %s 第%d节", p.Week, p.Day, p.Section)
	}
}

func TestDetectConflicts_PairNamesSorted(t *testing.T) {
	courses := []Course{
		newCourse("z", "Zoology", slot("1", "1", "1-2")),
		newCourse("a", "Art", slot("1", "1", "2-3")),
	}
	pairs := DetectConflicts(courses)
	if len(pairs) != 1 || pairs[0].CourseA != "Art" || pairs[0].CourseAID != "a" {
		t.Errorf("课程对应按名称排序，实际 %+v", pairs)
	}
}

func TestDetectConflicts_ParityDisjoint(t *testing.T) {
	courses := []Course{
		newCourse("a", "单周课", slot("1-16(单)", "2", "1-2")),
		newCourse("b", "双周课", slot("2-16(双)", "2", "1-2")),
	}
	if pairs := DetectConflicts(courses); len(pairs) != 0 {
		t.Errorf("单双周错开不应冲突，实际 %+v", pairs)
	}
}

func TestDetectConflicts_SameCourseOverlap(t *testing.T) {
	courses := []Course{
		newCourse("m", "Math", slot("1-8", "1", "1-2"), slot("4-10", "1", "2-3")),
	}
	if pairs := DetectConflicts(courses); len(pairs) != 0 {
		t.Errorf("同一课程自身重叠不应报告，实际 %+v", pairs)
	}
}

func TestDetectConflicts_SameNameDistinctIDs(t *testing.T) {
	courses := []Course{
		newCourse("id-1", "体育", slot("1", "5", "7-8")),
		newCourse("id-2", "体育", slot("1", "5", "8-9")),
	}
	pairs := DetectConflicts(courses)
	if len(pairs) != 1 {
		t.Fatalf("同名不同 ID 的课程应视为两门课，期望 1 个冲突，实际 %d", len(pairs))
	}
	if pairs[0].CourseAID != "id-1" || pairs[0].CourseBID != "id-2" {
		t.Errorf("同名时按标识排序，实际 %s / %s", pairs[0].CourseAID, pairs[0].CourseBID)
	}

	// 无 ID 时退回课程名，同名视为同一课程
	courses[0].ID, courses[1].ID = "", ""
	if pairs := DetectConflicts(courses); len(pairs) != 0 {
		t.Errorf("无 ID 同名课程应视为同一课程，实际 %+v", pairs)
	}
}

func TestDetectConflicts_IgnoresLocation(t *testing.T) {
	noRoom := slot("3", "4", "1-2")
	noRoom.Classroom = ""
	courses := []Course{
		newCourse("a", "实验课", noRoom),
		newCourse("b", "讲座", slot("3", "4", "2-2")),
	}
	if pairs := DetectConflicts(courses); len(pairs) != 1 {
		t.Errorf("地点缺失的安排仍参与冲突检测，期望 1 个冲突，实际 %d", len(pairs))
	}
}

func TestDetectConflicts_SkipsUnparseable(t *testing.T) {
	courses := []Course{
		newCourse("a", "A", slot("1-4", "周八", "1-2"), slot("坏", "1", "1-2"), slot("1-4", "1", "x")),
		newCourse("b", "B", slot("1-4", "1", "1-2")),
	}
	if pairs := DetectConflicts(courses); len(pairs) != 0 {
		t.Errorf("无法解析的安排应跳过，实际 %+v", pairs)
	}
}

func TestDetectConflicts_ThreeWay(t *testing.T) {
	courses := []Course{
		newCourse("a", "A", slot("1", "1", "1-1")),
		newCourse("b", "B", slot("1", "1", "1-1")),
		newCourse("c", "C", slot("1", "1", "1-1")),
	}
	pairs := DetectConflicts(courses)
	want := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "C"}}
	if len(pairs) != len(want) {
		t.Fatalf("期望 %d 个冲突，实际 %d: %+v", len(want), len(pairs), pairs)
	}
	for i, w := range want {
		if pairs[i].CourseA != w[0] || pairs[i].CourseB != w[1] {
			t.Errorf("第 %d 个冲突期望 %v，实际 (%s,%s)", i, w, pairs[i].CourseA, pairs[i].CourseB)
		}
	}

	// 重复计算结果一致
	again := DetectConflicts(courses)
	for i := range pairs {
		if pairs[i] != again[i] {
			t.Errorf("重复调用结果应一致，第 %d 个不同", i)
		}
	}
}

func TestDetectConflicts_Empty(t *testing.T) {
	if pairs := DetectConflicts(nil); len(pairs) != 0 {
		t.Errorf("空课程列表不应有冲突，实际 %+v", pairs)
	}
}

func TestConflictReport_Summary(t *testing.T) {
	if (ConflictReport{}).Summary() != "" {
		t.Error("无冲突时摘要应为空")
	}

	var pairs []ConflictPair
	for i := 0; i < 7; i++ {
		pairs = append(pairs, ConflictPair{CourseA: "A" + strconv.Itoa(i), CourseB: "B", Week: 1, Day: Monday, Section: 1})
	}
	report := ConflictReport{Pairs: pairs}
	if !report.HasConflict() {
		t.Fatal("应存在冲突")
	}
	s := report.Summary()
	if !strings.HasPrefix(s, "检测到以下课程存在时间冲突") {
		t.Errorf("摘要开头不正确: %s", s)
	}
	if strings.Count(s, "首次冲突于") != 5 {
		t.Errorf("摘要最多列出 5 条，实际 %d", strings.Count(s, "首次冲突于"))
	}
	if !strings.Contains(s, "... 还有 2 个冲突") {
		t.Errorf("摘要应提示剩余冲突数: %s", s)
	}
	if !strings.Contains(s, "第1周, 周一, 第1节") {
		t.Errorf("摘要应包含冲突位置: %s", s)
	}
}

func TestConflictedCourses(t *testing.T) {
	got := ConflictedCourses([]ConflictPair{
		{CourseA: "A", CourseAID: "a", CourseB: "B"},
	})
	if !got["a"] || !got["B"] || len(got) != 2 {
		t.Errorf("期望 {a, B}，实际 %v", got)
	}
}
