package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ivywsw555/JustStart/models"
)

// MinSession 计入进度的最短专注时长，低于它的会话视为误触直接丢弃
const MinSession = 5 * time.Second

// runningSession 进行中的专注会话
// Engine.running 为 nil 即空闲，非 nil 即专注中，不存在两个会话并存的表示
type runningSession struct {
	taskID    string
	startedAt time.Time
}

// Start 开始专注指定任务
// 若已有会话进行中，先按正常流程结清旧会话，再进入新会话
func (e *Engine) Start(taskID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.taskIndexLocked(taskID) < 0 {
		return ErrTaskNotFound
	}

	now := e.clock.Now()
	if e.running != nil {
		e.closeSessionLocked(now)
	}
	e.running = &runningSession{taskID: taskID, startedAt: now}
	return nil
}

// Stop 结束当前专注会话，返回本次计入的分钟数
// 时长不足 MinSession 时返回 0，任务与历史均不变
func (e *Engine) Stop() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running == nil {
		return 0, ErrNoSession
	}
	return e.closeSessionLocked(e.clock.Now()), nil
}

// Elapsed 当前会话已进行的时长，每次由时钟重新计算而非累加，
// 漏掉若干次 tick 也不会丢时间
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running == nil {
		return 0
	}
	return e.clock.Now().Sub(e.running.startedAt)
}

// ActiveTaskID 当前专注中的任务 ID
func (e *Engine) ActiveTaskID() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running == nil {
		return "", false
	}
	return e.running.taskID, true
}

// closeSessionLocked 结清会话：把流逝时间记入任务进度和当日历史，然后持久化
// 一次会话关闭是记账的原子单位
func (e *Engine) closeSessionLocked(now time.Time) float64 {
	sess := e.running
	e.running = nil

	elapsed := now.Sub(sess.startedAt)
	if elapsed < MinSession {
		return 0
	}
	minutes := elapsed.Seconds() / 60

	idx := e.taskIndexLocked(sess.taskID)
	if idx < 0 {
		// 会话期间任务被删除，进度无处可记
		return 0
	}
	e.doc.Tasks[idx].CompletedMinutes += minutes
	task := e.doc.Tasks[idx]

	key := DateKey(now)
	e.doc.History[key] = append(e.doc.History[key], models.HistoryEntry{
		TaskID:    task.ID,
		Title:     task.Title,
		Minutes:   minutes,
		Timestamp: now,
		Color:     task.Color,
	})

	e.persistLocked()
	return minutes
}

// LogActivity 补录过去的专注时间，绕过计时器
// 标题与某个进行中任务完全一致时记入该任务，
// 否则合成一条"创建即完成"的任务记录（goalMinutes = completedMinutes = minutes）
func (e *Engine) LogActivity(title string, minutes float64, project string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, ErrEmptyTitle
	}
	if minutes <= 0 {
		return models.Task{}, ErrInvalidMinutes
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	var task models.Task

	idx := -1
	for i := range e.doc.Tasks {
		if e.doc.Tasks[i].IsActive() && e.doc.Tasks[i].Title == title {
			idx = i
			break
		}
	}

	if idx >= 0 {
		e.doc.Tasks[idx].CompletedMinutes += minutes
		task = e.doc.Tasks[idx]
	} else {
		task = models.Task{
			ID:               uuid.New().String(),
			Title:            title,
			GoalMinutes:      minutes,
			CompletedMinutes: minutes,
			Color:            defaultColor,
			Status:           models.TaskActive,
			CreatedAt:        now,
			Deadline:         now.AddDate(0, 0, defaultDeadlineDays),
			Project:          project,
		}
		e.doc.Tasks = append(e.doc.Tasks, task)
	}

	key := DateKey(now)
	e.doc.History[key] = append(e.doc.History[key], models.HistoryEntry{
		TaskID:    task.ID,
		Title:     task.Title,
		Minutes:   minutes,
		Timestamp: now,
		Color:     task.Color,
	})

	e.persistLocked()
	return task, nil
}
