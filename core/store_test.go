package core

import (
	"errors"
	"testing"
	"time"

	"github.com/ivywsw555/JustStart/models"
)

func TestCreateTaskDefaults(t *testing.T) {
	clock := newFakeClock(testBase)
	engine, _ := newTestEngine(t, clock, newMemStore(), nil)

	task := mustCreateTask(t, engine, "  系统设计学习  ", 120)
	if task.Title != "系统设计学习" {
		t.Errorf("标题应去除首尾空白, 得到 %q", task.Title)
	}
	if task.Status != models.TaskActive {
		t.Errorf("Status = %v, 期望 active", task.Status)
	}
	if task.CompletedMinutes != 0 {
		t.Errorf("CompletedMinutes = %v, 期望 0", task.CompletedMinutes)
	}
	if !task.Deadline.Equal(testBase.AddDate(0, 0, 90)) {
		t.Errorf("默认期限应为 90 天后, 得到 %v", task.Deadline)
	}
	if task.Color == "" {
		t.Errorf("应有默认颜色")
	}
	if task.ID == "" {
		t.Errorf("应生成任务 ID")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	engine, _ := newTestEngine(t, newFakeClock(testBase), newMemStore(), nil)

	if _, err := engine.CreateTask(TaskSpec{Title: "   ", GoalMinutes: 30}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("空标题应返回 ErrEmptyTitle, 得到 %v", err)
	}
	if _, err := engine.CreateTask(TaskSpec{Title: "任务", GoalMinutes: 0}); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("零目标应返回 ErrInvalidGoal, 得到 %v", err)
	}
	if _, err := engine.CreateTask(TaskSpec{Title: "任务", GoalMinutes: -10}); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("负目标应返回 ErrInvalidGoal, 得到 %v", err)
	}
}

func TestTaskIDsUnique(t *testing.T) {
	engine, _ := newTestEngine(t, newFakeClock(testBase), newMemStore(), nil)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		task := mustCreateTask(t, engine, "任务", 30)
		if seen[task.ID] {
			t.Fatalf("任务 ID 重复: %s", task.ID)
		}
		seen[task.ID] = true
	}
}

// 归档再激活可逆，且不动进度、标题和历史记录
func TestArchiveReactivate(t *testing.T) {
	clock := newFakeClock(testBase)
	engine, _ := newTestEngine(t, clock, newMemStore(), nil)
	task := mustCreateTask(t, engine, "写周报", 30)

	if _, err := engine.LogActivity("写周报", 20, ""); err != nil {
		t.Fatalf("LogActivity: %v", err)
	}

	if err := engine.ArchiveTask(task.ID); err != nil {
		t.Fatalf("ArchiveTask: %v", err)
	}
	got, _ := engine.Task(task.ID)
	if got.Status != models.TaskArchived {
		t.Errorf("归档后 Status = %v", got.Status)
	}
	if len(engine.HistoryByDate()[DateKey(clock.Now())]) != 1 {
		t.Errorf("归档不应动历史记录")
	}

	clock.Advance(48 * time.Hour)
	if err := engine.ReactivateTask(task.ID); err != nil {
		t.Fatalf("ReactivateTask: %v", err)
	}
	got, _ = engine.Task(task.ID)
	if got.Status != models.TaskActive {
		t.Errorf("激活后 Status = %v", got.Status)
	}
	if got.CompletedMinutes != 20 || got.Title != "写周报" {
		t.Errorf("激活不应改动进度或标题: %+v", got)
	}
	if !got.Deadline.Equal(clock.Now().AddDate(0, 0, 90)) {
		t.Errorf("激活应刷新期限为 90 天后, 得到 %v", got.Deadline)
	}
}

// 删除任务后历史记录保留，taskId 成为悬空引用，聚合仍按标题快照展示
func TestDeleteLeavesDanglingHistory(t *testing.T) {
	clock := newFakeClock(testBase)
	engine, _ := newTestEngine(t, clock, newMemStore(), nil)
	task := mustCreateTask(t, engine, "老任务", 30)

	if err := engine.Start(task.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock.Advance(10 * time.Minute)
	if _, err := engine.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if err := engine.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := engine.Task(task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("删除后任务应不存在")
	}

	entries := engine.HistoryByDate()[DateKey(clock.Now())]
	if len(entries) != 1 {
		t.Fatalf("删除任务不应清理历史记录, 得到 %d 条", len(entries))
	}
	if entries[0].TaskID != task.ID || entries[0].Title != "老任务" {
		t.Errorf("历史记录应保留原 taskId 与标题快照: %+v", entries[0])
	}

	summaries := AggregateDay(entries)
	if len(summaries) != 1 || summaries[0].Title != "老任务" || summaries[0].Minutes != 10 {
		t.Errorf("聚合应依据标题快照展示已删除任务: %+v", summaries)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	engine, _ := newTestEngine(t, newFakeClock(testBase), newMemStore(), nil)
	task := mustCreateTask(t, engine, "旧标题", 30)

	newTitle := "新标题"
	got, err := engine.UpdateTask(task.ID, TaskUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Title != "新标题" || got.GoalMinutes != 30 {
		t.Errorf("只改标题不应动目标时长: %+v", got)
	}

	empty := "  "
	if _, err := engine.UpdateTask(task.ID, TaskUpdate{Title: &empty}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("空标题更新应被拒绝, 得到 %v", err)
	}
	bad := -1.0
	if _, err := engine.UpdateTask(task.ID, TaskUpdate{GoalMinutes: &bad}); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("负目标更新应被拒绝, 得到 %v", err)
	}
	if _, err := engine.UpdateTask("no-such-id", TaskUpdate{}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("更新不存在的任务应返回 ErrTaskNotFound, 得到 %v", err)
	}
}

func TestDaysLeft(t *testing.T) {
	clock := newFakeClock(testBase)
	engine, _ := newTestEngine(t, clock, newMemStore(), nil)
	task := mustCreateTask(t, engine, "任务", 30)

	days, err := engine.DaysLeft(task.ID)
	if err != nil {
		t.Fatalf("DaysLeft: %v", err)
	}
	if days != 90 {
		t.Errorf("DaysLeft = %d, 期望 90", days)
	}

	// 过期任务返回负数，但不阻止开始专注
	past := clock.Now().Add(-48 * time.Hour)
	if _, err := engine.UpdateTask(task.ID, TaskUpdate{Deadline: &past}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	days, _ = engine.DaysLeft(task.ID)
	if days != -2 {
		t.Errorf("DaysLeft = %d, 期望 -2", days)
	}
	if err := engine.Start(task.ID); err != nil {
		t.Errorf("过期任务也应能开始专注: %v", err)
	}
}

// 今日进度始终从历史推导，跨天自动归零
func TestTodayMinutesDerivedFromHistory(t *testing.T) {
	clock := newFakeClock(testBase)
	engine, _ := newTestEngine(t, clock, newMemStore(), nil)
	task := mustCreateTask(t, engine, "阅读", 60)
	other := mustCreateTask(t, engine, "跑步", 30)

	if _, err := engine.LogActivity("阅读", 15, ""); err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	if _, err := engine.LogActivity("阅读", 10, ""); err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	if _, err := engine.LogActivity("跑步", 5, ""); err != nil {
		t.Fatalf("LogActivity: %v", err)
	}

	if got := engine.TodayMinutes(task.ID); got != 25 {
		t.Errorf("TodayMinutes = %v, 期望 25", got)
	}
	if got := engine.TodayMinutes(other.ID); got != 5 {
		t.Errorf("TodayMinutes = %v, 期望 5", got)
	}

	clock.Advance(25 * time.Hour)
	if got := engine.TodayMinutes(task.ID); got != 0 {
		t.Errorf("跨天后 TodayMinutes = %v, 期望 0", got)
	}
	got, _ := engine.Task(task.ID)
	if got.CompletedMinutes != 25 {
		t.Errorf("累计进度不随日期归零, 得到 %v", got.CompletedMinutes)
	}
}

func TestQuickAddCreatesTask(t *testing.T) {
	engine, _ := newTestEngine(t, newFakeClock(testBase), newMemStore(), nil)

	task, err := engine.QuickAdd("Read book 45m #Study")
	if err != nil {
		t.Fatalf("QuickAdd: %v", err)
	}
	if task.Title != "Read book" || task.GoalMinutes != 45 || task.Group != "Study" {
		t.Errorf("速记解析结果不符: %+v", task)
	}
}
