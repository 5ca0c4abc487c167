package router

import (
	"github.com/brewcart/internal/config"
	publichandlers "github.com/brewcart/internal/http/handlers/public"
	"github.com/brewcart/internal/http/response"
	"github.com/brewcart/internal/logger"
	"github.com/brewcart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	api := r.Group("/api")
	{
		// 分享购物车（响应形态是对外契约，前端与移动端都已依赖）
		sharedCart := api.Group("/shared-cart")
		{
			sharedCart.POST("/", publicHandler.SaveSharedCart)
			sharedCart.GET("/:code", publicHandler.GetSharedCart)
		}

		api.GET("/health", func(c *gin.Context) {
			response.Success(c, gin.H{"status": "ok"})
		})
	}

	return r
}
