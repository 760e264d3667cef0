package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ivywsw555/JustStart/controllers"
	"github.com/ivywsw555/JustStart/middleware"
	"github.com/ivywsw555/JustStart/services"
)

func RegisterRoutes(r *gin.Engine, client *services.DeepseekClient) {
	authController := controllers.AuthController{}
	documentController := controllers.DocumentController{}
	userController := controllers.UserController{}
	adviceController := controllers.NewAdviceController(services.NewAIService(client))

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/anonymous", authController.AnonymousLogin)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		// 状态文档同步
		private.GET("/doc", documentController.GetDocument)
		private.PUT("/doc", documentController.PutDocument)
		private.GET("/doc/subscribe", documentController.Subscribe)

		// AI 建议与目标拆解
		private.POST("/advice", adviceController.GetAdvice)
		private.POST("/plan", adviceController.GeneratePlan)

		private.GET("/user", userController.GetUser)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
