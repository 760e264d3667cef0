package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ivywsw555/JustStart/config"
	"github.com/ivywsw555/JustStart/models"
	"github.com/ivywsw555/JustStart/services"
)

// AdviceController AI 建议控制器
type AdviceController struct {
	aiService *services.AIService
}

func NewAdviceController(aiService *services.AIService) *AdviceController {
	return &AdviceController{
		aiService: aiService,
	}
}

// GetAdvice 根据当前任务进度生成一条建议
func (ac *AdviceController) GetAdvice(c *gin.Context) {
	var req models.AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	advice, err := ac.aiService.Advise(c, req.Tasks)
	if err != nil {
		config.Logger.Errorw("生成建议失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "网络开小差了，建议你先做个简单的任务。"})
		return
	}

	c.JSON(http.StatusOK, models.AdviceResponse{Advice: advice})
}

// GeneratePlan 把一个模糊目标拆解为可执行子任务
func (ac *AdviceController) GeneratePlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	plan, err := ac.aiService.DecomposeGoal(c, req.Goal)
	if err != nil {
		config.Logger.Errorw("生成计划失败", "error", err, "goal", req.Goal)
		if errors.Is(err, services.ErrMalformedPlan) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "生成计划失败，请手动添加试试。"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成计划失败，请手动添加试试。"})
		return
	}

	c.JSON(http.StatusOK, models.PlanResponse{Tasks: plan})
}
