package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ivywsw555/JustStart/models"
	"go.uber.org/zap"
)

// fakeClock 可手动拨动的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memStore 内存版本地存储
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memStore) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// fakeRemote 内存版远端文档存储，可注入写入失败并手动推送变更
type fakeRemote struct {
	mu        sync.Mutex
	docs      map[string]models.Document
	putErr    error
	putCount  int
	listeners map[string]func(models.Document)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:      make(map[string]models.Document),
		listeners: make(map[string]func(models.Document)),
	}
}

func (r *fakeRemote) Get(ctx context.Context, path string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[path]
	if !ok {
		return nil, nil
	}
	clone := doc.Clone()
	return &clone, nil
}

func (r *fakeRemote) Put(ctx context.Context, path string, doc models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	r.docs[path] = doc.Clone()
	r.putCount++
	return nil
}

func (r *fakeRemote) Subscribe(ctx context.Context, path string, onChange func(models.Document)) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[path] = onChange
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, path)
	}, nil
}

// push 模拟另一台设备写入后到达的变更通知
func (r *fakeRemote) push(path string, doc models.Document) {
	r.mu.Lock()
	onChange := r.listeners[path]
	r.mu.Unlock()
	if onChange != nil {
		onChange(doc)
	}
}

func (r *fakeRemote) setPutErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putErr = err
}

func (r *fakeRemote) puts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.putCount
}

func newTestEngine(t *testing.T, clock Clock, local LocalStore, remote RemoteStore) (*Engine, *SyncEngine) {
	t.Helper()
	log := zap.NewNop().Sugar()
	syncEngine := NewSyncEngine(local, remote, log)
	engine, err := NewEngine(clock, syncEngine, log)
	if err != nil {
		t.Fatalf("创建引擎失败: %v", err)
	}
	return engine, syncEngine
}

func mustCreateTask(t *testing.T, e *Engine, title string, goalMinutes float64) models.Task {
	t.Helper()
	task, err := e.CreateTask(TaskSpec{Title: title, GoalMinutes: goalMinutes})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}
	return task
}
