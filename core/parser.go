package core

import (
	"regexp"
	"strconv"
	"strings"
)

// QuickAddSpec 速记文本解析结果
type QuickAddSpec struct {
	Title       string
	GoalMinutes float64
	Group       string
}

var (
	// 时长记号：45m / 45min / 1.5h，大小写不敏感
	durationPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(min|m|h)\b`)
	// 分组记号：#Study 或 [Study]
	groupPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)|\[([\p{L}\p{N}_]+)\]`)
)

// ParseQuickAdd 从一行自由文本提取目标时长和分组，剩余部分作为标题
// "Read book 45m #Study" → {Title: "Read book", GoalMinutes: 45, Group: "Study"}
// 缺省时长 30 分钟，缺省分组 General
func ParseQuickAdd(input string) QuickAddSpec {
	raw := strings.TrimSpace(input)
	spec := QuickAddSpec{
		GoalMinutes: DefaultGoalMinutes,
		Group:       DefaultGroup,
	}

	title := raw
	if m := durationPattern.FindStringSubmatchIndex(title); m != nil {
		value, err := strconv.ParseFloat(title[m[2]:m[3]], 64)
		if err == nil && value > 0 {
			unit := strings.ToLower(title[m[4]:m[5]])
			if unit == "h" {
				value *= 60
			}
			spec.GoalMinutes = value
		}
		title = title[:m[0]] + " " + title[m[1]:]
	}

	if m := groupPattern.FindStringSubmatchIndex(title); m != nil {
		if m[2] >= 0 {
			spec.Group = title[m[2]:m[3]]
		} else {
			spec.Group = title[m[4]:m[5]]
		}
		title = title[:m[0]] + " " + title[m[1]:]
	}

	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		// 记号剥掉后标题为空，退回原始输入，保证标题非空
		title = raw
	}
	spec.Title = title
	return spec
}
