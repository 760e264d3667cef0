package models

import (
	"time"
)

// UserDocument 用户状态文档的服务端存储
// tasks 和 history 两个键整体覆盖写入，服务端不做字段级合并
type UserDocument struct {
	UserID       string    `gorm:"type:varchar(50);primaryKey"`
	Tasks        string    `gorm:"type:longtext"` // Task 数组的 JSON
	History      string    `gorm:"type:longtext"` // 按日期分桶的历史 JSON
	LastModified time.Time `gorm:"index"`
}

// 表名
func (UserDocument) TableName() string {
	return "user_documents"
}
