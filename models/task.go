package models

import (
	"time"
)

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskActive   TaskStatus = "active"   // 进行中
	TaskArchived TaskStatus = "archived" // 已归档
)

// Task 任务模型
// JSON 字段与备份文件格式保持一致
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	DailyGoal        string     `json:"dailyGoal,omitempty"` // 今日小目标（自由文本）
	GoalMinutes      float64    `json:"goalMinutes"`
	CompletedMinutes float64    `json:"completedMinutes"` // 累计专注分钟数，只增不减
	Color            string     `json:"color"`
	Status           TaskStatus `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	Deadline         time.Time  `json:"deadline"`
	Group            string     `json:"group,omitempty"`
	Project          string     `json:"project,omitempty"`
}

// IsActive 任务是否处于进行中状态
func (t *Task) IsActive() bool {
	return t.Status == TaskActive
}
