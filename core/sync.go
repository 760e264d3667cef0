package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ivywsw555/JustStart/models"
	"go.uber.org/zap"
)

// SyncStatus 同步状态指示
type SyncStatus string

const (
	SyncOffline SyncStatus = "offline"
	SyncSyncing SyncStatus = "syncing"
	SyncSynced  SyncStatus = "synced"
)

// Session 当前登录身份（含匿名游客）
type Session struct {
	UserID      string
	IsAnonymous bool
}

// RemoteStore 远端文档存储接口
// Get 在文档不存在时返回 (nil, nil)；Put 是整文档替换，后到者胜；
// Subscribe 返回取消订阅函数
type RemoteStore interface {
	Get(ctx context.Context, path string) (*models.Document, error)
	Put(ctx context.Context, path string, doc models.Document) error
	Subscribe(ctx context.Context, path string, onChange func(models.Document)) (func(), error)
}

// 本地存储的固定键，沿用最初版本的两键布局
const (
	localKeyTasks   = "juststart_tasks"
	localKeyHistory = "juststart_history"
)

const remoteWriteTimeout = 10 * time.Second

// SyncEngine 同步引擎
// 策略：本地写必须成功，远端写尽力而为，远端读一律权威（remote-wins）
type SyncEngine struct {
	local  LocalStore
	remote RemoteStore
	log    *zap.SugaredLogger

	mu          sync.Mutex
	session     *Session
	status      SyncStatus
	unsubscribe func()

	wg sync.WaitGroup
}

// NewSyncEngine 创建同步引擎，初始为离线状态
// remote 可以为 nil，此时引擎退化为纯本地持久化
func NewSyncEngine(local LocalStore, remote RemoteStore, log *zap.SugaredLogger) *SyncEngine {
	return &SyncEngine{
		local:  local,
		remote: remote,
		log:    log,
		status: SyncOffline,
	}
}

// Load 从本地存储恢复状态文档，两个键都不存在时返回空文档
func (s *SyncEngine) Load() (models.Document, error) {
	doc := models.NewDocument()

	if data, ok, err := s.local.Get(localKeyTasks); err != nil {
		return doc, err
	} else if ok {
		if err := json.Unmarshal(data, &doc.Tasks); err != nil {
			return doc, fmt.Errorf("本地任务数据损坏: %w", err)
		}
	}

	if data, ok, err := s.local.Get(localKeyHistory); err != nil {
		return doc, err
	} else if ok {
		if err := json.Unmarshal(data, &doc.History); err != nil {
			return doc, fmt.Errorf("本地历史数据损坏: %w", err)
		}
	}

	doc.Normalize()
	return doc, nil
}

// Persist 持久化状态文档：同步写本地，已登录时异步上传远端
// 远端失败只降级为离线，不影响本地写入的结果
func (s *SyncEngine) Persist(doc models.Document) error {
	if err := s.PersistLocal(doc); err != nil {
		return err
	}

	s.mu.Lock()
	sess := s.session
	if sess == nil || s.remote == nil {
		s.mu.Unlock()
		return nil
	}
	s.status = SyncSyncing
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		defer cancel()
		if err := s.remote.Put(ctx, sess.UserID, doc); err != nil {
			s.log.Errorw("远端同步失败，转为离线模式", "error", err, "uid", sess.UserID)
			s.setStatus(SyncOffline)
			return
		}
		s.setStatus(SyncSynced)
	}()
	return nil
}

// PersistLocal 只写本地存储，远端快照落地时也走这里避免回声
func (s *SyncEngine) PersistLocal(doc models.Document) error {
	tasksJSON, err := json.MarshalIndent(doc.Tasks, "", "  ")
	if err != nil {
		return err
	}
	historyJSON, err := json.MarshalIndent(doc.History, "", "  ")
	if err != nil {
		return err
	}
	if err := s.local.Put(localKeyTasks, tasksJSON); err != nil {
		return err
	}
	return s.local.Put(localKeyHistory, historyJSON)
}

// SetSession 设置登录身份，之后的 Persist 才会尝试远端写入
func (s *SyncEngine) SetSession(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &sess
}

// ClearSession 结束会话：取消订阅并回到离线状态
func (s *SyncEngine) ClearSession() {
	s.mu.Lock()
	s.session = nil
	s.status = SyncOffline
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Status 当前同步状态
func (s *SyncEngine) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SyncEngine) setStatus(status SyncStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Subscribe 建立远端订阅
// 远端已有文档时先整体采纳一次；尚无文档时用本地状态播种；
// 之后每个变更通知都通过 onChange 整体替换调用方状态
func (s *SyncEngine) Subscribe(ctx context.Context, onChange func(models.Document)) error {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	if sess == nil {
		return ErrNotSignedIn
	}
	if s.remote == nil {
		return ErrNoRemote
	}

	remoteDoc, err := s.remote.Get(ctx, sess.UserID)
	if err != nil {
		s.setStatus(SyncOffline)
		return err
	}

	if remoteDoc == nil {
		local, err := s.Load()
		if err != nil {
			return err
		}
		s.setStatus(SyncSyncing)
		if err := s.remote.Put(ctx, sess.UserID, local); err != nil {
			s.setStatus(SyncOffline)
			return err
		}
	} else {
		onChange(*remoteDoc)
	}
	s.setStatus(SyncSynced)

	unsub, err := s.remote.Subscribe(ctx, sess.UserID, onChange)
	if err != nil {
		s.setStatus(SyncOffline)
		return err
	}

	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()
	return nil
}

// Wait 等待所有在途的远端写入结束，用于优雅关闭
func (s *SyncEngine) Wait() {
	s.wg.Wait()
}
