package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"musclecrm/backend/config"
	"musclecrm/backend/internal/api/handler"
	"musclecrm/backend/internal/api/middleware"
	"musclecrm/backend/pkg/jwt"
	"musclecrm/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 设备认证（无需 Token）
		devices := v1.Group("/devices")
		{
			devices.POST("/auth", middleware.RateLimit(rdb, 10, time.Minute), h.Device.Authenticate)
		}

		// 需要设备 Token 的路由
		authorized := v1.Group("")
		authorized.Use(middleware.DeviceAuth(jwtMgr, rdb))
		{
			authorized.POST("/devices/revoke", h.Device.Revoke)

			// 考勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/check-in", middleware.RateLimit(rdb, 60, time.Minute), h.Attendance.CheckIn)
				attendance.POST("/check-out", middleware.RateLimit(rdb, 60, time.Minute), h.Attendance.CheckOut)
				attendance.GET("/today", h.Attendance.TodayView)
				attendance.GET("/history", h.Attendance.History)
				attendance.GET("/export", h.Export.ExportAttendance)
			}
		}
	}

	return r
}
