package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fangguan233/next-class/config"
	"github.com/fangguan233/next-class/internal/api/handler"
	"github.com/fangguan233/next-class/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎。
// limiter 为 nil 时课表计算接口不限流；db 为 nil 时健康检查只报告进程存活。
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.RateLimiter, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 课表计算（无状态，按 IP 限流）
		rl := cfg.Timetable.RateLimit
		tt := v1.Group("/timetable")
		tt.Use(middleware.RateLimit(limiter, rl.Limit, rl.Window, logger))
		{
			tt.POST("/weeks/parse", h.Timetable.ParseWeeks)
			tt.POST("/weeks/format", h.Timetable.FormatWeeks)
			tt.POST("/conflicts", h.Timetable.CheckConflicts)
			tt.POST("/next-class", h.Timetable.NextClass)
			tt.POST("/weekly", h.Timetable.WeeklySchedule)
		}

		// 学期模块
		semesters := v1.Group("/semesters")
		{
			semesters.GET("", h.Semester.ListSemesters)
			semesters.GET("/current", h.Semester.GetCurrentSemester)
			semesters.GET("/:id", h.Semester.GetSemester)
			semesters.POST("", h.Semester.CreateSemester)
			semesters.PUT("/:id", h.Semester.UpdateSemester)
			semesters.PUT("/:id/activate", h.Semester.ActivateSemester)
			semesters.DELETE("/:id", h.Semester.DeleteSemester)
		}

		// 作息时间表模块
		timeSlotConfigs := v1.Group("/time-slot-configs")
		{
			timeSlotConfigs.GET("", h.TimeSlotConfig.ListTimeSlotConfigs)
			timeSlotConfigs.GET("/default", h.TimeSlotConfig.GetDefaultTimeSlotConfig)
			timeSlotConfigs.GET("/:id", h.TimeSlotConfig.GetTimeSlotConfig)
			timeSlotConfigs.POST("", h.TimeSlotConfig.CreateTimeSlotConfig)
			timeSlotConfigs.PUT("/:id", h.TimeSlotConfig.UpdateTimeSlotConfig)
			timeSlotConfigs.DELETE("/:id", h.TimeSlotConfig.DeleteTimeSlotConfig)
		}
	}

	return r
}

// healthCheck 进程存活且数据库可达时返回 200
func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
