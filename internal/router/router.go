package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/school-records/internal/config"
	"github.com/stemsi/school-records/internal/handler"
	"github.com/stemsi/school-records/internal/middleware"
	"github.com/stemsi/school-records/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student *handler.StudentHandler
	Teacher *handler.TeacherHandler
	Course  *handler.CourseHandler
	Health  *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// limiter may be nil, which disables rate limiting.
func SetupRouter(
	auth middleware.Authenticator,
	limiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID, "WWW-Authenticate"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Health check (no auth).
	router.GET("/health", handlers.Health.Health)

	// ─── API (HTTP Basic) ──────────────────────────────────────────────
	api := router.Group("/api/v1")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	api.Use(
		middleware.RequireBasicAuth(auth, cfg.AuthRealm, log),
		middleware.NoStore(),
	)

	teacher := api.Group("/teacher")
	{
		teacher.POST("", handlers.Teacher.Create)
		teacher.PUT("/:email", handlers.Teacher.Update)
		teacher.DELETE("/by-id/:id", handlers.Teacher.DeleteByID)
		teacher.DELETE("/by-email/:email", handlers.Teacher.DeleteByEmail)
		teacher.GET("/by-id/:id", handlers.Teacher.GetByID)
		teacher.GET("/by-email/:email", handlers.Teacher.GetByEmail)
		teacher.GET("", handlers.Teacher.GetAll)
	}

	student := api.Group("/student")
	{
		student.POST("", handlers.Student.Create)
		student.PUT("/:email", handlers.Student.Update)
		student.DELETE("/by-id/:id", handlers.Student.DeleteByID)
		student.DELETE("/by-email/:email", handlers.Student.DeleteByEmail)
		student.GET("/by-id/:id", handlers.Student.GetByID)
		student.GET("/by-email/:email", handlers.Student.GetByEmail)
		student.GET("", handlers.Student.GetAll)
		student.POST("/:id/enroll/:course_id", handlers.Student.Enroll)
	}

	course := api.Group("/course")
	{
		course.POST("", handlers.Course.Create)
		course.PUT("/:id", handlers.Course.Update)
		course.DELETE("/:id", handlers.Course.Delete)
		course.GET("/:id", handlers.Course.GetByID)
		course.GET("", handlers.Course.GetAll)
		course.GET("/:id/students", handlers.Course.GetStudents)
	}

	return router
}
