package timetable

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ── 周次解析 ──────────────────────────────────────────────
//
// 周次字符串语法（逗号分隔，每段为以下之一）：
//   - N            单个周次
//   - A-B          闭区间 [A,B]
//   - A-B(单)      区间内奇数周
//   - A-B(双)      区间内偶数周
//
// 奇偶限定区间的起点与限定不一致时，起点先后移一位再按步长 2 递增，
// 即 "2-10(单)" = {3,5,7,9}。
// 非法片段跳过并记录日志，解析本身从不失败。
// ─────────────────────────────────────────────────────────────

// MaxWeek 周次上限，超出视为非法片段（同时限制循环规模）
const MaxWeek = 60

var (
	ErrWeekTokenEmpty    = errors.New("周次片段为空")
	ErrWeekTokenSyntax   = errors.New("周次片段格式不正确")
	ErrWeekRangeReversed = errors.New("周次区间起点大于终点")
	ErrWeekOutOfRange    = errors.New("周次超出允许范围")
)

// Parity 周次奇偶限定
type Parity int

const (
	ParityAll Parity = iota
	ParityOdd
	ParityEven
)

// Tag 返回周次字符串中的限定后缀
func (p Parity) Tag() string {
	switch p {
	case ParityOdd:
		return "(单)"
	case ParityEven:
		return "(双)"
	default:
		return ""
	}
}

// matches 判断周次 w 是否满足奇偶限定
func (p Parity) matches(w int) bool {
	switch p {
	case ParityOdd:
		return w%2 == 1
	case ParityEven:
		return w%2 == 0
	default:
		return true
	}
}

// WeekSet 周次集合
type WeekSet map[int]struct{}

// NewWeekSet 由周次列表构造集合，忽略非正数
func NewWeekSet(weeks ...int) WeekSet {
	s := make(WeekSet, len(weeks))
	for _, w := range weeks {
		if w > 0 {
			s[w] = struct{}{}
		}
	}
	return s
}

// Contains 判断集合是否包含周次 w
func (s WeekSet) Contains(w int) bool {
	_, ok := s[w]
	return ok
}

// Len 集合大小
func (s WeekSet) Len() int { return len(s) }

// Sorted 返回升序周次列表
func (s WeekSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

// Max 返回最大周次，空集合返回 0
func (s WeekSet) Max() int {
	m := 0
	for w := range s {
		if w > m {
			m = w
		}
	}
	return m
}

// Equal 判断两个集合元素是否完全一致
func (s WeekSet) Equal(o WeekSet) bool {
	if len(s) != len(o) {
		return false
	}
	for w := range s {
		if !o.Contains(w) {
			return false
		}
	}
	return true
}

func (s WeekSet) addRange(start, end int, p Parity) {
	if !p.matches(start) {
		start++
	}
	step := 1
	if p != ParityAll {
		step = 2
	}
	for w := start; w <= end; w += step {
		s[w] = struct{}{}
	}
}

// ── 解析器 ──

// weekTokenPattern 匹配 "N" / "A-B" / "A-B(单)" / "A-B(双)"（已归一化括号与空白）
var weekTokenPattern = regexp.MustCompile(`^(\d+)(?:-(\d+))?(?:\((单|双)\))?$`)

// weekSpecReplacer 全角标点归一化
var weekSpecReplacer = strings.NewReplacer("，", ",", "（", "(", "）", ")", "－", "-", "~", "-", "周", "")

// Parser 带日志的周次解析器
type Parser struct {
	logger *zap.Logger
}

// NewParser 创建 Parser；logger 为 nil 时静默
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// Parse 解析周次字符串，非法片段记录日志后跳过
func (p *Parser) Parse(spec string) WeekSet {
	return parseWeeks(spec, func(token string, err error) {
		p.logger.Warn("跳过无效周次片段",
			zap.String("weeks", spec),
			zap.String("token", token),
			zap.Error(err),
		)
	})
}

// ParseWeeks 解析周次字符串（不记录日志）
func ParseWeeks(spec string) WeekSet {
	return parseWeeks(spec, nil)
}

func parseWeeks(spec string, onSkip func(token string, err error)) WeekSet {
	set := make(WeekSet)
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return set
	}

	for _, raw := range strings.Split(weekSpecReplacer.Replace(spec), ",") {
		token := strings.Join(strings.Fields(raw), "")
		start, end, parity, err := parseWeekToken(token)
		if err != nil {
			if onSkip != nil {
				onSkip(raw, err)
			}
			continue
		}
		set.addRange(start, end, parity)
	}
	return set
}

// parseWeekToken 解析单个片段，返回闭区间与奇偶限定
func parseWeekToken(token string) (start, end int, parity Parity, err error) {
	if token == "" {
		return 0, 0, ParityAll, ErrWeekTokenEmpty
	}
	m := weekTokenPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, 0, ParityAll, fmt.Errorf("%w: %q", ErrWeekTokenSyntax, token)
	}

	start, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, ParityAll, fmt.Errorf("%w: %q", ErrWeekTokenSyntax, token)
	}
	end = start
	if m[2] != "" {
		if end, err = strconv.Atoi(m[2]); err != nil {
			return 0, 0, ParityAll, fmt.Errorf("%w: %q", ErrWeekTokenSyntax, token)
		}
	}

	switch m[3] {
	case "单":
		parity = ParityOdd
	case "双":
		parity = ParityEven
	}

	if start < 1 || end > MaxWeek {
		return 0, 0, ParityAll, fmt.Errorf("%w: %q", ErrWeekOutOfRange, token)
	}
	if start > end {
		return 0, 0, ParityAll, fmt.Errorf("%w: %q", ErrWeekRangeReversed, token)
	}
	return start, end, parity, nil
}
