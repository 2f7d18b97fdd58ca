package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/app/controllers"
	"github.com/yigit/unirecords/internal/app/metrics"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Health       *controllers.HealthController
	Course       *controllers.CourseController
	Student      *controllers.StudentController
	Registration *controllers.RegistrationController
	Result       *controllers.ResultController
	Dashboard    *controllers.DashboardController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
) {
	router.GET("/health", ctrl.Health.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := router.Group("/api/v1")

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	courses := authenticated.Group("/courses")
	{
		courses.GET("", ctrl.Course.ListCourses)
		courses.GET("/:id", ctrl.Course.GetCourse)
		courses.POST("", adminOnly, ctrl.Course.CreateCourse)
		courses.PUT("/:id", adminOnly, ctrl.Course.UpdateCourse)
		courses.DELETE("/:id", adminOnly, ctrl.Course.DeleteCourse)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", adminOnly, ctrl.Student.ListStudents)
		students.GET("/:id", adminOnly, ctrl.Student.GetStudent)
		students.POST("", adminOnly, ctrl.Student.CreateStudent)
		students.PUT("/:id", adminOnly, ctrl.Student.UpdateStudent)
		students.DELETE("/:id", adminOnly, ctrl.Student.DeleteStudent)

		// Scoped by session inside the projection service
		students.GET("/:id/courses", ctrl.Dashboard.GetEnrolledCourses)
		students.GET("/:id/available-courses", ctrl.Dashboard.GetAvailableCourses)
		students.GET("/:id/credits", ctrl.Dashboard.GetTotalCredits)
		students.GET("/by-number/:studentNumber/dashboard", ctrl.Dashboard.GetDashboard)
		students.GET("/by-number/:studentNumber/results", ctrl.Dashboard.GetResults)
	}

	registrations := authenticated.Group("/registrations")
	{
		registrations.GET("", adminOnly, ctrl.Registration.ListRegistrations)
		registrations.POST("", ctrl.Registration.Register)
		registrations.DELETE("/:id", ctrl.Registration.DeleteRegistration)
	}

	results := authenticated.Group("/results")
	results.Use(adminOnly)
	{
		results.GET("", ctrl.Result.ListResults)
		results.GET("/:id", ctrl.Result.GetResult)
		results.POST("", ctrl.Result.CreateResult)
		results.PUT("/:id", ctrl.Result.UpdateResult)
		results.DELETE("/:id", ctrl.Result.DeleteResult)
	}
}
