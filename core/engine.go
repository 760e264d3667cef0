package core

import (
	"context"
	"errors"
	"sync"

	"github.com/ivywsw555/JustStart/models"
	"go.uber.org/zap"
)

var (
	ErrTaskNotFound   = errors.New("任务不存在")
	ErrEmptyTitle     = errors.New("任务标题不能为空")
	ErrInvalidGoal    = errors.New("目标时长必须大于零")
	ErrInvalidMinutes = errors.New("补录时长必须大于零")
	ErrNoSession      = errors.New("当前没有进行中的专注")
	ErrNotSignedIn    = errors.New("未登录，无法开启云同步")
	ErrNoRemote       = errors.New("未配置远端存储")
)

// Engine 应用核心：持有 {tasks, history} 状态文档，
// 统一处理任务操作、专注记账和持久化
type Engine struct {
	mu      sync.Mutex
	clock   Clock
	log     *zap.SugaredLogger
	sync    *SyncEngine
	doc     models.Document
	running *runningSession
}

// NewEngine 从本地存储恢复状态并创建引擎
func NewEngine(clock Clock, syncEngine *SyncEngine, log *zap.SugaredLogger) (*Engine, error) {
	doc, err := syncEngine.Load()
	if err != nil {
		return nil, err
	}
	return &Engine{
		clock: clock,
		log:   log,
		sync:  syncEngine,
		doc:   doc,
	}, nil
}

// Document 返回当前状态文档的深拷贝
func (e *Engine) Document() models.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// HistoryByDate 返回按日期分桶的历史记录拷贝
func (e *Engine) HistoryByDate() models.History {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone().History
}

// SyncStatus 当前同步状态
func (e *Engine) SyncStatus() SyncStatus {
	return e.sync.Status()
}

// EnableSync 以给定身份开启云同步
// 订阅失败只意味着继续本地模式，所有任务操作不受影响
func (e *Engine) EnableSync(ctx context.Context, sess Session) error {
	e.sync.SetSession(sess)
	if err := e.sync.Subscribe(ctx, func(doc models.Document) {
		e.adoptRemote(doc)
	}); err != nil {
		e.log.Warnw("云同步未启用，继续本地模式", "error", err, "uid", sess.UserID)
		return err
	}
	e.log.Infow("云同步已开启", "uid", sess.UserID, "anonymous", sess.IsAnonymous)
	return nil
}

// DisableSync 结束云同步会话，回到纯本地模式
func (e *Engine) DisableSync() {
	e.sync.ClearSession()
}

// adoptRemote 远端快照到达时整体替换内存状态（remote-wins），
// 未同步的本地修改会被丢弃，这是单用户单设备前提下的既定策略
func (e *Engine) adoptRemote(doc models.Document) {
	doc.Normalize()
	e.mu.Lock()
	e.doc = doc
	e.mu.Unlock()
	if err := e.sync.PersistLocal(doc); err != nil {
		e.log.Errorw("远端快照落盘失败", "error", err)
	}
}

// ExportBackup 导出备份 JSON
func (e *Engine) ExportBackup() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Export()
}

// ImportBackup 从备份 JSON 整体恢复状态
func (e *Engine) ImportBackup(data []byte) error {
	doc, err := models.ImportDocument(data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc = doc
	e.persistLocked()
	return nil
}

// persistLocked 把当前文档交给同步引擎
// 本地写失败只记录日志，不向上传播（内存状态仍然有效）
func (e *Engine) persistLocked() {
	if err := e.sync.Persist(e.doc.Clone()); err != nil {
		e.log.Errorw("本地持久化失败", "error", err)
	}
}

// taskIndexLocked 按 ID 查找任务下标，找不到返回 -1
func (e *Engine) taskIndexLocked(id string) int {
	for i := range e.doc.Tasks {
		if e.doc.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}
