package models

import (
	"time"
)

// HistoryEntry 专注历史记录
// Title 和 Color 是记录时刻的快照，任务改名后不会更新；
// 任务删除后 TaskID 成为悬空引用，记录本身保留
type HistoryEntry struct {
	TaskID    string    `json:"taskId"`
	Title     string    `json:"title"`
	Minutes   float64   `json:"minutes"`
	Timestamp time.Time `json:"timestamp"`
	Color     string    `json:"color"`
}

// History 按日期（YYYY-MM-DD，本地时区）分桶的历史记录
// 每个桶内记录只追加，不修改
type History map[string][]HistoryEntry
