package models

import (
	"encoding/json"
)

// PutDocumentRequest 文档上传请求结构体
// 字段为 nil 表示本次请求不覆盖该键（顶层合并语义）
type PutDocumentRequest struct {
	Tasks   json.RawMessage `json:"tasks,omitempty"`
	History json.RawMessage `json:"history,omitempty"`
}

// AdviceRequest AI 建议请求结构体
type AdviceRequest struct {
	Tasks []Task `json:"tasks" binding:"required"`
}

// PlanRequest 目标拆解请求结构体
type PlanRequest struct {
	Goal string `json:"goal" binding:"required"`
}
