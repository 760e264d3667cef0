package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID          string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Username    string     `gorm:"type:varchar(100)" json:"username"`
	IsAnonymous bool       `gorm:"default:true" json:"isAnonymous"` // 游客账号
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}
