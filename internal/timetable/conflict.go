package timetable

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// summaryLimit 冲突摘要最多列出的条数
const summaryLimit = 5

// ConflictPair 两门课程的首次冲突位置，CourseA/CourseB 按课程名排序
type ConflictPair struct {
	CourseA   string   `json:"course_a"`
	CourseAID string   `json:"course_a_id,omitempty"`
	CourseB   string   `json:"course_b"`
	CourseBID string   `json:"course_b_id,omitempty"`
	Week      int      `json:"week"`
	Day       DayIndex `json:"day"`
	Section   int      `json:"section"`
}

// occupancyKey 占用格 (周次, 星期, 节次)
type occupancyKey struct {
	week    int
	day     DayIndex
	section int
}

// DetectConflicts 扫描所有课程的 (周次, 星期, 节次) 占用，
// 每对课程只报告首次冲突。同一课程（同一标识）的多条安排重叠不算冲突。
// 校区、教学楼、教室缺失的安排仍参与扫描，只要周次、星期、节次可解析。
func (e *Engine) DetectConflicts(courses []Course) (pairs []ConflictPair) {
	defer e.guard("detect_conflicts", func() { pairs = nil })

	ids := make([]string, len(courses))
	for i := range courses {
		ids[i] = courses[i].identity()
	}

	occupied := make(map[occupancyKey][]int)
	reported := make(map[[2]string]bool)

	for i := range courses {
		c := &courses[i]
		for j := range c.Schedules {
			r, ok := resolveEntry(c, &c.Schedules[j], e.parser.Parse)
			if !ok {
				e.logger.Debug("冲突检测跳过无法解析的安排",
					zap.String("course", string(c.Name)),
					zap.Int("index", j),
				)
				continue
			}

			for _, w := range r.weeks.Sorted() {
				for s := r.slots.Start; s <= r.slots.End; s++ {
					k := occupancyKey{week: w, day: r.day, section: s}
					for _, owner := range occupied[k] {
						if ids[owner] == ids[i] {
							continue
						}
						pk := pairKey(ids[owner], ids[i])
						if reported[pk] {
							continue
						}
						reported[pk] = true
						pairs = append(pairs, newConflictPair(&courses[owner], c, k))
					}
					if !containsInt(occupied[k], i) {
						occupied[k] = append(occupied[k], i)
					}
				}
			}
		}
	}
	return pairs
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

func newConflictPair(x, y *Course, k occupancyKey) ConflictPair {
	if string(x.Name) > string(y.Name) || (x.Name == y.Name && x.identity() > y.identity()) {
		x, y = y, x
	}
	return ConflictPair{
		CourseA:   string(x.Name),
		CourseAID: string(x.ID),
		CourseB:   string(y.Name),
		CourseBID: string(y.ID),
		Week:      k.week,
		Day:       k.day,
		Section:   k.section,
	}
}

// ConflictedCourses 返回涉及冲突的课程 ID（无 ID 时为课程名）
func ConflictedCourses(pairs []ConflictPair) map[string]bool {
	out := make(map[string]bool, len(pairs)*2)
	for _, p := range pairs {
		out[firstNonEmpty(p.CourseAID, p.CourseA)] = true
		out[firstNonEmpty(p.CourseBID, p.CourseB)] = true
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ConflictReport 保存前冲突检查结果
type ConflictReport struct {
	Pairs []ConflictPair
}

// HasConflict 是否存在冲突
func (r ConflictReport) HasConflict() bool { return len(r.Pairs) > 0 }

// Summary 生成提示文案，最多列出 5 条
func (r ConflictReport) Summary() string {
	if !r.HasConflict() {
		return ""
	}
	var b strings.Builder
	b.WriteString("检测到以下课程存在时间冲突：\n\n")
	for i, p := range r.Pairs {
		if i == summaryLimit {
			break
		}
		fmt.Fprintf(&b, "- '%s' 与 '%s'\n  (首次冲突于 第%d周, %s, 第%d节)\n",
			p.CourseA, p.CourseB, p.Week, p.Day, p.Section)
	}
	if n := len(r.Pairs) - summaryLimit; n > 0 {
		fmt.Fprintf(&b, "\n... 还有 %d 个冲突", n)
	}
	return b.String()
}
