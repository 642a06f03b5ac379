package timetable

import (
	"strconv"
	"strings"
)

// minParityRun 奇偶区间至少覆盖的周数，更短时直接列出
const minParityRun = 3

// FormatWeeks 将周次集合压缩为周次字符串，如 "1-9(单),10-16"。
// ParseWeeks(FormatWeeks(s)) 与 s 元素一致。
func FormatWeeks(s WeekSet) string {
	remaining := make(WeekSet, len(s))
	for w := range s {
		remaining[w] = struct{}{}
	}

	var parts []string
	for _, w := range s.Sorted() {
		if !remaining.Contains(w) {
			continue
		}

		run := contiguousRun(remaining, w)
		parityRun := cleanParityRun(remaining, w)

		switch {
		case parityRun >= minParityRun && parityRun > run:
			end := w + 2*(parityRun-1)
			for x := w; x <= end; x += 2 {
				delete(remaining, x)
			}
			parity := ParityEven
			if w%2 == 1 {
				parity = ParityOdd
			}
			parts = append(parts, strconv.Itoa(w)+"-"+strconv.Itoa(end)+parity.Tag())
		case run >= 2:
			end := w + run - 1
			for x := w; x <= end; x++ {
				delete(remaining, x)
			}
			parts = append(parts, strconv.Itoa(w)+"-"+strconv.Itoa(end))
		default:
			delete(remaining, w)
			parts = append(parts, strconv.Itoa(w))
		}
	}
	return strings.Join(parts, ",")
}

// contiguousRun 从 w 起连续存在的周数
func contiguousRun(s WeekSet, w int) int {
	n := 0
	for s.Contains(w + n) {
		n++
	}
	return n
}

// cleanParityRun 从 w 起按步长 2 存在、且中间周次缺席的周数
func cleanParityRun(s WeekSet, w int) int {
	n := 1
	for s.Contains(w+2*n) && !s.Contains(w+2*n-1) {
		n++
	}
	return n
}
