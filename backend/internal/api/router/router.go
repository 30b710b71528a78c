package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"peopledesk/backend/config"
	"peopledesk/backend/internal/api/handler"
	"peopledesk/backend/internal/api/middleware"
	"peopledesk/backend/internal/model"
	"peopledesk/backend/pkg/jwt"
	"peopledesk/backend/pkg/redis"
)

// Setup 构建 Gin 引擎
// rdb 可为 nil，此时跳过 Token 黑名单，登录限流计数保存在内存中
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}

	// ── 运维接口 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	store, err := middleware.NewLimiterStore(rdb)
	if err != nil {
		return nil, err
	}
	loginLimit, err := middleware.RateLimit(store, cfg.RateLimit.Login, logger)
	if err != nil {
		return nil, err
	}

	var checker middleware.TokenChecker
	if rdb != nil {
		checker = rdb
	}
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	api := r.Group(cfg.Server.BasePath)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/refresh", loginLimit, h.Auth.RefreshToken)
		}

		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 部门调动
			history := authorized.Group("/department-history")
			{
				history.GET("", h.DepartmentHistory.List)
				history.GET("/paged", h.DepartmentHistory.ListPaged)
				history.GET("/export", adminOnly, h.Export.DepartmentHistory)
				history.POST("", adminOnly, h.DepartmentHistory.Create)

				key := "/:employeeId/:departmentId/:shiftId/:startDate"
				history.GET(key, h.DepartmentHistory.Get)
				history.PATCH(key, adminOnly, h.DepartmentHistory.Patch)
				history.DELETE(key, adminOnly, h.DepartmentHistory.Delete)
			}

			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.List)
				employees.GET("/:id", h.Employee.Get)
				employees.DELETE("/:id", adminOnly, h.Employee.Delete)
				employees.GET("/:id/department-history", h.DepartmentHistory.ListByEmployee)
				employees.GET("/:id/department-history.ics", h.Export.EmployeeCalendar)
				employees.GET("/:id/pay-history", h.PayHistory.List)
				employees.POST("/:id/pay-history", adminOnly, h.PayHistory.Create)
			}

			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.List)
				departments.GET("/:id", h.Department.Get)
				departments.POST("", adminOnly, h.Department.Create)
			}

			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.PATCH("/:id/read", h.Notification.MarkRead)
			}

			candidates := authorized.Group("/job-candidates", adminOnly)
			{
				candidates.GET("", h.JobCandidate.List)
				candidates.GET("/:id", h.JobCandidate.Get)
				candidates.POST("", h.JobCandidate.Create)
				candidates.PUT("/:id", h.JobCandidate.Update)
				candidates.DELETE("/:id", h.JobCandidate.Delete)
			}

			authorized.GET("/logs", adminOnly, h.AuditLog.List)
		}
	}

	return r, nil
}
