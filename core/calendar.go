package core

import (
	"sort"
	"time"

	"github.com/ivywsw555/JustStart/models"
)

const dateLayout = "2006-01-02"

// DateKey 历史记录的日期桶键（本地时区）
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// TitleSummary 某一天按标题聚合后的专注统计
type TitleSummary struct {
	Title   string
	Minutes float64
	Count   int
	Color   string
}

// DayTotal 一天的总专注分钟数
func DayTotal(entries []models.HistoryEntry) float64 {
	var total float64
	for _, entry := range entries {
		total += entry.Minutes
	}
	return total
}

// DayTotals 日期范围内（含两端）每天的总专注分钟数
// 只读推导，不触碰历史记录本身
func DayTotals(history models.History, from, to time.Time) map[string]float64 {
	fromKey, toKey := DateKey(from), DateKey(to)
	totals := make(map[string]float64)
	for key, entries := range history {
		// 日期键 YYYY-MM-DD 的字典序即时间序
		if key < fromKey || key > toKey {
			continue
		}
		totals[key] = DayTotal(entries)
	}
	return totals
}

// AggregateDay 把一天的记录按标题聚合：分钟求和、次数累计、颜色取最近一次的快照
// 结果按分钟数降序排列（同分按标题升序，保证输出稳定）
func AggregateDay(entries []models.HistoryEntry) []TitleSummary {
	byTitle := make(map[string]*TitleSummary)
	for _, entry := range entries {
		s, ok := byTitle[entry.Title]
		if !ok {
			s = &TitleSummary{Title: entry.Title}
			byTitle[entry.Title] = s
		}
		s.Minutes += entry.Minutes
		s.Count++
		s.Color = entry.Color
	}

	out := make([]TitleSummary, 0, len(byTitle))
	for _, s := range byTitle {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Title < out[j].Title
	})
	return out
}
