package core

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// LocalStore 本地持久化接口：固定键下的字节串
// 核心对它的要求只有"同步写入、读回一致"
type LocalStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

type localBlob struct {
	Key       string `gorm:"type:varchar(100);primaryKey"`
	Value     []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}

// 表名
func (localBlob) TableName() string {
	return "local_blobs"
}

// SQLiteStore 基于 SQLite 的本地持久化实现
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLiteStore 打开（必要时创建）本地数据库
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("打开本地数据库失败: %w", err)
	}
	if err := db.AutoMigrate(&localBlob{}); err != nil {
		return nil, fmt.Errorf("本地数据库迁移失败: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get 读取键值，键不存在时第二个返回值为 false
func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var blob localBlob
	err := s.db.First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob.Value, true, nil
}

// Put 写入键值，已存在则覆盖
func (s *SQLiteStore) Put(key string, value []byte) error {
	blob := localBlob{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&blob).Error
}
