package models

import (
	"encoding/json"
	"time"
)

// DocumentResponse 文档下载响应结构体
type DocumentResponse struct {
	Tasks        json.RawMessage `json:"tasks"`
	History      json.RawMessage `json:"history"`
	LastModified time.Time       `json:"lastModified"`
}

// AdviceResponse AI 建议响应结构体
type AdviceResponse struct {
	Advice string `json:"advice"`
}

// PlanTask 目标拆解出的子任务
type PlanTask struct {
	Title   string  `json:"title"`
	Minutes float64 `json:"minutes"`
	Color   string  `json:"color,omitempty"`
}

// PlanResponse 目标拆解响应结构体
type PlanResponse struct {
	Tasks []PlanTask `json:"tasks"`
}

// LoginResponse 登录响应结构体
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
