package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ivywsw555/JustStart/config"
	"github.com/ivywsw555/JustStart/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentController 用户状态文档控制器
type DocumentController struct{}

// docChannel 文档变更通知的 Redis 频道
func docChannel(uid string) string {
	return fmt.Sprintf("doc:%s", uid)
}

// GetDocument 下载用户文档
func (dc *DocumentController) GetDocument(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var doc models.UserDocument
	if err := config.DB.Where("user_id = ?", uid).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "文档尚不存在"})
			return
		}
		config.Logger.Errorw("获取文档失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取文档失败"})
		return
	}

	c.JSON(http.StatusOK, documentResponse(doc))
}

// PutDocument 上传用户文档
// tasks 和 history 按键整体覆盖（顶层合并），请求里缺省的键保持原值；
// 每次写入都是"后到者胜"，与客户端 remote-wins 读取策略对应
func (dc *DocumentController) PutDocument(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.PutDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Tasks != nil && !json.Valid(req.Tasks) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tasks 不是合法的JSON"})
		return
	}
	if req.History != nil && !json.Valid(req.History) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "history 不是合法的JSON"})
		return
	}

	// 开启事务
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var doc models.UserDocument
	err := tx.Where("user_id = ?", uid).First(&doc).Error
	if err == gorm.ErrRecordNotFound {
		doc = models.UserDocument{UserID: uid.(string), Tasks: "[]", History: "{}"}
	} else if err != nil {
		tx.Rollback()
		config.Logger.Errorw("读取文档失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文档失败"})
		return
	}

	if req.Tasks != nil {
		doc.Tasks = string(req.Tasks)
	}
	if req.History != nil {
		doc.History = string(req.History)
	}
	doc.LastModified = time.Now()

	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&doc).Error; err != nil {
		tx.Rollback()
		config.Logger.Errorw("保存文档失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文档失败"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		config.Logger.Errorw("提交文档事务失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文档失败"})
		return
	}

	// 广播变更，推送完整文档给其它在线设备
	payload, err := json.Marshal(documentResponse(doc))
	if err == nil {
		if err := config.RedisClient.Publish(c, docChannel(uid.(string)), payload).Err(); err != nil {
			config.Logger.Errorw("发布文档变更通知失败", "error", err, "uid", uid)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "已保存",
		"lastModified": doc.LastModified,
	})
}

// Subscribe 以 SSE 流推送文档变更通知
func (dc *DocumentController) Subscribe(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	pubsub := config.RedisClient.Subscribe(c, docChannel(uid.(string)))
	defer pubsub.Close()

	// 设置流式响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("X-Accel-Buffering", "no") // 禁用 Nginx 缓冲
	c.Writer.Flush()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", msg.Payload); err != nil {
				return
			}
			c.Writer.Flush() // 确保每条通知都被立即发送
		case <-c.Request.Context().Done():
			return
		}
	}
}

func documentResponse(doc models.UserDocument) models.DocumentResponse {
	return models.DocumentResponse{
		Tasks:        json.RawMessage(doc.Tasks),
		History:      json.RawMessage(doc.History),
		LastModified: doc.LastModified,
	}
}
