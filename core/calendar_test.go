package core

import (
	"testing"
	"time"

	"github.com/ivywsw555/JustStart/models"
)

func entry(taskID, title string, minutes float64, at time.Time, color string) models.HistoryEntry {
	return models.HistoryEntry{TaskID: taskID, Title: title, Minutes: minutes, Timestamp: at, Color: color}
}

func TestDayTotal(t *testing.T) {
	entries := []models.HistoryEntry{
		entry("1", "阅读", 25, testBase, "bg-blue-500"),
		entry("2", "跑步", 12.5, testBase, "bg-rose-500"),
	}
	if got := DayTotal(entries); got != 37.5 {
		t.Errorf("DayTotal = %v, 期望 37.5", got)
	}
	if got := DayTotal(nil); got != 0 {
		t.Errorf("空桶 DayTotal = %v, 期望 0", got)
	}
}

func TestDayTotals(t *testing.T) {
	history := models.History{
		"2025-03-08": {entry("1", "阅读", 30, testBase, "")},
		"2025-03-09": {entry("1", "阅读", 10, testBase, ""), entry("2", "跑步", 5, testBase, "")},
		"2025-03-10": {entry("1", "阅读", 20, testBase, "")},
		"2025-03-11": {entry("1", "阅读", 40, testBase, "")},
	}

	from := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	totals := DayTotals(history, from, to)

	if len(totals) != 2 {
		t.Fatalf("范围内应有 2 天, 得到 %v", totals)
	}
	if totals["2025-03-09"] != 15 || totals["2025-03-10"] != 20 {
		t.Errorf("DayTotals = %v", totals)
	}
}

// 同标题合并分钟与次数，颜色取最近一次的快照
func TestAggregateDay(t *testing.T) {
	entries := []models.HistoryEntry{
		entry("1", "阅读", 10, testBase, "bg-blue-500"),
		entry("2", "跑步", 30, testBase.Add(time.Hour), "bg-rose-500"),
		entry("1", "阅读", 15, testBase.Add(2*time.Hour), "bg-indigo-500"),
	}

	got := AggregateDay(entries)
	if len(got) != 2 {
		t.Fatalf("聚合结果应有 2 项, 得到 %d", len(got))
	}
	// 按分钟数降序
	if got[0].Title != "跑步" || got[0].Minutes != 30 || got[0].Count != 1 {
		t.Errorf("第一项不符: %+v", got[0])
	}
	if got[1].Title != "阅读" || got[1].Minutes != 25 || got[1].Count != 2 {
		t.Errorf("第二项不符: %+v", got[1])
	}
	if got[1].Color != "bg-indigo-500" {
		t.Errorf("颜色应取最近一次快照, 得到 %q", got[1].Color)
	}
}

func TestAggregateDayStableOrder(t *testing.T) {
	entries := []models.HistoryEntry{
		entry("1", "b", 10, testBase, ""),
		entry("2", "a", 10, testBase, ""),
	}
	got := AggregateDay(entries)
	if got[0].Title != "a" || got[1].Title != "b" {
		t.Errorf("同分应按标题升序: %+v", got)
	}
}
