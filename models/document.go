package models

import (
	"encoding/json"
	"fmt"
)

// Document 应用的完整状态文档 {tasks, history}
// 这是本地存储、远端文档和用户备份共用的序列化契约
type Document struct {
	Tasks   []Task  `json:"tasks"`
	History History `json:"history"`
}

// NewDocument 创建空文档
func NewDocument() Document {
	return Document{
		Tasks:   []Task{},
		History: History{},
	}
}

// Normalize 补全零值字段，保证反序列化后可以直接使用
func (d *Document) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.History == nil {
		d.History = History{}
	}
}

// Clone 深拷贝文档，避免调用方持有内部切片
func (d *Document) Clone() Document {
	out := Document{
		Tasks:   make([]Task, len(d.Tasks)),
		History: make(History, len(d.History)),
	}
	copy(out.Tasks, d.Tasks)
	for date, entries := range d.History {
		day := make([]HistoryEntry, len(entries))
		copy(day, entries)
		out.History[date] = day
	}
	return out
}

// Export 导出为备份 JSON（带缩进）
func (d *Document) Export() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ImportDocument 解析备份 JSON
func ImportDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("备份文件解析失败: %w", err)
	}
	doc.Normalize()
	return doc, nil
}
