package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/registrar/internal/app/controllers"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Enrollment *controllers.EnrollmentController
	Student    *controllers.StudentController
	Tariff     *controllers.TariffController
	Health     *controllers.HealthController
}

// SetupRouter configures all application routes.
// uploadLimit bounds the whole enrollment request body.
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware, uploadLimit int64) {
	router.GET("/health", c.Health.Health)
	router.GET("/ping", c.Health.Ping)

	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.POST("/auth/login", c.Auth.Login)
	v1.GET("/tariffs", c.Tariff.List)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", c.Auth.Me)
		authenticated.PUT("/auth/password", c.Auth.ChangePassword)
	}

	// --- Staff routes, closed until a temporary password is changed ---
	staff := authenticated.Group("")
	staff.Use(authMiddleware.PasswordRotated())
	{
		staff.POST("/enrollments", middleware.BodyLimit(uploadLimit), c.Enrollment.Enroll)
		staff.POST("/reenrollments/:matricule", c.Enrollment.Reenroll)

		staff.GET("/students/search", c.Student.Search)
		staff.GET("/statistics", c.Student.Statistics)
		staff.GET("/exports/students.xlsx", c.Student.Export)
	}

	// --- Admin routes ---
	admin := staff.Group("")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/users", c.User.CreateUser)
	}
}
