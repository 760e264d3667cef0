package core

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ivywsw555/JustStart/models"
)

const (
	// DefaultGoalMinutes 未指定目标时长时的默认值
	DefaultGoalMinutes = 30
	// DefaultGroup 未指定分组时的默认分组
	DefaultGroup = "General"

	defaultColor        = "bg-slate-500"
	defaultDeadlineDays = 90
)

// TaskSpec 创建任务的参数
type TaskSpec struct {
	Title       string
	GoalMinutes float64
	DailyGoal   string
	Color       string
	Group       string
	Project     string
	Deadline    *time.Time
}

// TaskUpdate 部分更新任务的参数，nil 字段保持原值
type TaskUpdate struct {
	Title       *string
	GoalMinutes *float64
	DailyGoal   *string
	Color       *string
	Group       *string
	Project     *string
	Deadline    *time.Time
}

// CreateTask 创建任务
func (e *Engine) CreateTask(spec TaskSpec) (models.Task, error) {
	title := strings.TrimSpace(spec.Title)
	if title == "" {
		return models.Task{}, ErrEmptyTitle
	}
	if spec.GoalMinutes <= 0 {
		return models.Task{}, ErrInvalidGoal
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	task := models.Task{
		ID:          uuid.New().String(),
		Title:       title,
		DailyGoal:   spec.DailyGoal,
		GoalMinutes: spec.GoalMinutes,
		Color:       spec.Color,
		Status:      models.TaskActive,
		CreatedAt:   now,
		Deadline:    now.AddDate(0, 0, defaultDeadlineDays),
		Group:       spec.Group,
		Project:     spec.Project,
	}
	if task.Color == "" {
		task.Color = defaultColor
	}
	if spec.Deadline != nil {
		task.Deadline = *spec.Deadline
	}

	e.doc.Tasks = append(e.doc.Tasks, task)
	e.persistLocked()
	return task, nil
}

// QuickAdd 从一行速记文本创建任务，见 ParseQuickAdd
func (e *Engine) QuickAdd(input string) (models.Task, error) {
	spec := ParseQuickAdd(input)
	return e.CreateTask(TaskSpec{
		Title:       spec.Title,
		GoalMinutes: spec.GoalMinutes,
		Group:       spec.Group,
	})
}

// UpdateTask 部分更新任务字段
func (e *Engine) UpdateTask(id string, upd TaskUpdate) (models.Task, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return models.Task{}, ErrEmptyTitle
	}
	if upd.GoalMinutes != nil && *upd.GoalMinutes <= 0 {
		return models.Task{}, ErrInvalidGoal
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.taskIndexLocked(id)
	if idx < 0 {
		return models.Task{}, ErrTaskNotFound
	}

	task := &e.doc.Tasks[idx]
	if upd.Title != nil {
		task.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.GoalMinutes != nil {
		task.GoalMinutes = *upd.GoalMinutes
	}
	if upd.DailyGoal != nil {
		task.DailyGoal = *upd.DailyGoal
	}
	if upd.Color != nil {
		task.Color = *upd.Color
	}
	if upd.Group != nil {
		task.Group = *upd.Group
	}
	if upd.Project != nil {
		task.Project = *upd.Project
	}
	if upd.Deadline != nil {
		task.Deadline = *upd.Deadline
	}

	e.persistLocked()
	return *task, nil
}

// ArchiveTask 归档任务，历史记录保留
func (e *Engine) ArchiveTask(id string) error {
	return e.setStatus(id, models.TaskArchived)
}

// ReactivateTask 重新激活已归档的任务，并给一个新的默认期限
func (e *Engine) ReactivateTask(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.taskIndexLocked(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	e.doc.Tasks[idx].Status = models.TaskActive
	e.doc.Tasks[idx].Deadline = e.clock.Now().AddDate(0, 0, defaultDeadlineDays)
	e.persistLocked()
	return nil
}

func (e *Engine) setStatus(id string, status models.TaskStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.taskIndexLocked(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	e.doc.Tasks[idx].Status = status
	e.persistLocked()
	return nil
}

// DeleteTask 永久删除任务
// 历史记录中指向它的 taskId 成为悬空引用并保留，聚合展示依赖记录里的标题快照
func (e *Engine) DeleteTask(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.taskIndexLocked(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	e.doc.Tasks = append(e.doc.Tasks[:idx], e.doc.Tasks[idx+1:]...)
	e.persistLocked()
	return nil
}

// Task 按 ID 查询任务
func (e *Engine) Task(id string) (models.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.taskIndexLocked(id)
	if idx < 0 {
		return models.Task{}, ErrTaskNotFound
	}
	return e.doc.Tasks[idx], nil
}

// Tasks 返回全部任务的拷贝
func (e *Engine) Tasks() []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Task, len(e.doc.Tasks))
	copy(out, e.doc.Tasks)
	return out
}

// ActiveTasks 返回进行中任务的拷贝
func (e *Engine) ActiveTasks() []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []models.Task
	for _, t := range e.doc.Tasks {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out
}

// TodayMinutes 任务今日已专注的分钟数，始终从历史记录推导，不冗余存储在任务上
func (e *Engine) TodayMinutes(taskID string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	var total float64
	for _, entry := range e.doc.History[DateKey(e.clock.Now())] {
		if entry.TaskID == taskID {
			total += entry.Minutes
		}
	}
	return total
}

// DaysLeft 距离期限的剩余天数（向上取整），负数表示已过期
// 仅用于展示，过期不阻止任何操作
func (e *Engine) DaysLeft(id string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.taskIndexLocked(id)
	if idx < 0 {
		return 0, ErrTaskNotFound
	}
	hours := e.doc.Tasks[idx].Deadline.Sub(e.clock.Now()).Hours()
	return int(math.Ceil(hours / 24)), nil
}
