package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ivywsw555/JustStart/config"
	"github.com/ivywsw555/JustStart/models"
	"github.com/ivywsw555/JustStart/utils"
)

// AuthController 认证控制器
type AuthController struct{}

// AnonymousLogin 匿名游客登录
// 不存在第三方授权流程：创建游客账号并直接签发令牌，
// 客户端拿到令牌后即可开启云同步
func (ac *AuthController) AnonymousLogin(c *gin.Context) {
	now := time.Now()
	id := utils.GenerateID()
	user := models.User{
		ID:          id,
		Username:    fmt.Sprintf("guest_%s", id[:8]),
		IsAnonymous: true,
		CreatedAt:   now,
		LastLogin:   &now,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		config.Logger.Errorw("创建游客账号失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
		return
	}

	token, err := utils.GenerateToken(user.ID, true)
	if err != nil {
		config.Logger.Errorw("生成令牌失败", "error", err, "uid", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token: token,
		User:  user,
	})
}
