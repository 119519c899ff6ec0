package router

import (
	"vidstream/internal/api/handler"
	"vidstream/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	videoHandler *handler.VideoHandler,
	playHandler *handler.PlayHandler,
) {
	v1 := r.Group("/api/v1")

	// --- 认证模块 ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		authRequired := auth.Group("", middleware.AuthRequired())
		{
			authRequired.POST("/logout", authHandler.Logout)
			authRequired.GET("/me", authHandler.Me)
		}
	}

	// --- 视频模块 ---
	videos := v1.Group("/videos")
	{
		videos.GET("", videoHandler.List)
		// 详情带可选认证：作者/管理员可查自己的私有和已删除记录
		videos.GET("/:id", middleware.OptionalAuth(), videoHandler.GetByID)

		authRequired := videos.Group("", middleware.AuthRequired())
		{
			authRequired.GET("/mine", videoHandler.Mine)
			authRequired.POST("", videoHandler.Upload)
			authRequired.PUT("/:id", videoHandler.Update)
			authRequired.DELETE("/:id", videoHandler.Delete)
		}
	}

	// --- 播放模块 ---
	play := v1.Group("/play")
	{
		optional := play.Group("", middleware.OptionalAuth())
		{
			optional.GET("/:id/stream", playHandler.Stream)
			optional.GET("/:id/thumbnail", playHandler.Thumbnail)
			optional.GET("/:id/metadata", playHandler.Metadata)
		}

		progress := play.Group("", middleware.AuthRequired())
		{
			progress.GET("/:id/progress", playHandler.GetProgress)
			progress.POST("/:id/progress", playHandler.Progress)
		}
	}
}
