package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jadwal-kuliah/config"
	"jadwal-kuliah/internal/api/handler"
	"jadwal-kuliah/internal/api/middleware"
	"jadwal-kuliah/pkg/jwt"
	"jadwal-kuliah/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 写接口：管理员 + 限流
	adminWrite := []gin.HandlerFunc{
		middleware.RoleAuth("admin"),
		middleware.RateLimit(rdb, cfg.Server.WriteLimit, cfg.Server.WriteWindowDuration()),
	}
	write := func(hf gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, adminWrite...), hf)
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 可用性过滤
		authorized.GET("/days", h.TimeSlot.ListDays)

		// 时间段目录
		timeSlots := authorized.Group("/time-slots")
		{
			timeSlots.GET("", h.TimeSlot.ListTimeSlots)
			timeSlots.GET("/:id", h.TimeSlot.GetTimeSlot)
			timeSlots.POST("", write(h.TimeSlot.CreateTimeSlot)...)
			timeSlots.PUT("/:id", write(h.TimeSlot.UpdateTimeSlot)...)
			timeSlots.DELETE("/:id", write(h.TimeSlot.DeleteTimeSlot)...)
			timeSlots.POST("/seed", write(h.TimeSlot.SeedTimeSlots)...)
			timeSlots.POST("/import", write(h.TimeSlot.ImportTimeSlots)...)
		}

		// 教师
		instructors := authorized.Group("/instructors")
		{
			instructors.GET("", h.Instructor.ListInstructors)
			instructors.GET("/:id", h.Instructor.GetInstructor)
			instructors.POST("", write(h.Instructor.CreateInstructor)...)
			instructors.PUT("/:id", write(h.Instructor.UpdateInstructor)...)
			instructors.DELETE("/:id", write(h.Instructor.DeleteInstructor)...)
		}

		// 教室
		classrooms := authorized.Group("/classrooms")
		{
			classrooms.GET("", h.Classroom.ListClassrooms)
			classrooms.GET("/:id", h.Classroom.GetClassroom)
			classrooms.POST("", write(h.Classroom.CreateClassroom)...)
			classrooms.PUT("/:id", write(h.Classroom.UpdateClassroom)...)
			classrooms.DELETE("/:id", write(h.Classroom.DeleteClassroom)...)
		}

		// 专业
		programs := authorized.Group("/programs")
		{
			programs.GET("", h.Program.ListPrograms)
			programs.GET("/:id", h.Program.GetProgram)
			programs.POST("", write(h.Program.CreateProgram)...)
			programs.PUT("/:id", write(h.Program.UpdateProgram)...)
			programs.DELETE("/:id", write(h.Program.DeleteProgram)...)
		}

		// 课程
		courses := authorized.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.GET("/:id", h.Course.GetCourse)
			courses.POST("", write(h.Course.CreateCourse)...)
			courses.PUT("/:id", write(h.Course.UpdateCourse)...)
			courses.DELETE("/:id", write(h.Course.DeleteCourse)...)
		}

		// 排课
		schedules := authorized.Group("/schedules")
		{
			schedules.POST("/check-conflict", h.Schedule.CheckConflict)
			schedules.GET("/grid", h.Schedule.Grid)
			schedules.GET("", h.Schedule.ListEntries)
			schedules.GET("/:id", h.Schedule.GetEntry)
			schedules.POST("/batch", write(h.Schedule.CreateBatch)...)
			schedules.PUT("/:id", write(h.Schedule.UpdateEntry)...)
			schedules.DELETE("/:id", write(h.Schedule.DeleteEntry)...)
		}

		// 统计
		authorized.GET("/stats", h.Stats.Overview)
	}

	return r
}
