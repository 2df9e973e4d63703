package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"School-Administration-System/config/middleware"
	"School-Administration-System/handlers"
	"School-Administration-System/repository"
	"School-Administration-System/services"

	_ "School-Administration-System/docs"
)

// Deps carries the shared repositories and services built in main.
type Deps struct {
	UserRepo       repository.UserRepository
	AttendanceRepo repository.AttendanceRepository
	PolicyRepo     repository.PolicyRepository
	HolidayRepo    repository.HolidayRepository
	ResultRepo     repository.ResultRepository

	SelfMark    *services.SelfMarkService
	Sweeper     *services.Sweeper
	Scheduler   *services.SweepScheduler
	Performance *services.PerformanceService

	// Operational timezone shared with the services.
	Loc *time.Location
}

func SetupRoutes(app *fiber.App, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.UserRepo)
	userHandler := handlers.NewUserHandler(deps.UserRepo)
	attendanceHandler := handlers.NewAttendanceHandler(deps.AttendanceRepo, deps.SelfMark, deps.Loc)
	automationHandler := handlers.NewAutomationHandler(deps.PolicyRepo, deps.Sweeper, deps.Scheduler)
	holidayHandler := handlers.NewHolidayHandler(deps.HolidayRepo)
	performanceHandler := handlers.NewPerformanceHandler(deps.Performance, deps.ResultRepo)

	// Health check & Docs
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "School Administration System API",
			"status":  "running",
			"docs":    "/docs/index.html",
		})
	})
	app.Get("/docs/*", swagger.HandlerDefault)

	// API v1 group
	api := app.Group("/api/v1")

	// Authentication routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)

	// User routes
	protectedUserGroup := api.Group("/users", middleware.AuthMiddleware())
	protectedUserGroup.Post("/change-password", authHandler.ChangePassword)
	protectedUserGroup.Get("/:id", userHandler.GetUserByID)
	protectedUserGroup.Put("/:id", userHandler.UpdateUser)

	// Admin routes
	adminGroup := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	adminGroup.Post("/register", authHandler.Register)
	adminGroup.Get("/users", userHandler.GetAllUsers)
	adminGroup.Delete("/users/:id", userHandler.DeleteUser)

	// Attendance routes
	attendanceGroup := api.Group("/attendance", middleware.AuthMiddleware())
	attendanceGroup.Post("/self-mark", attendanceHandler.SelfMark)
	attendanceGroup.Get("/today-status", attendanceHandler.GetTodayStatus)
	attendanceGroup.Get("/my-history", attendanceHandler.GetMyHistory)

	adminAttendanceGroup := attendanceGroup.Group("/", middleware.AdminMiddleware())
	adminAttendanceGroup.Get("/day", attendanceHandler.GetDayAttendance)
	adminAttendanceGroup.Get("/range", attendanceHandler.GetRangeAttendance)
	adminAttendanceGroup.Put("/:id", attendanceHandler.UpdateAttendance)

	// Automation (policy + sweep) routes, admin only
	automationGroup := api.Group("/automation", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	automationGroup.Get("/policy", automationHandler.GetPolicy)
	automationGroup.Put("/policy", automationHandler.UpdatePolicy)
	automationGroup.Post("/sweep", automationHandler.TriggerSweep)

	// Holiday routes
	holidayGroup := api.Group("/holidays", middleware.AuthMiddleware())
	holidayGroup.Get("/", holidayHandler.ListHolidays)
	holidayGroup.Get("/calendar", holidayHandler.GetCalendar)
	adminHolidayGroup := holidayGroup.Group("/", middleware.AdminMiddleware())
	adminHolidayGroup.Post("/", holidayHandler.CreateHoliday)
	adminHolidayGroup.Delete("/:id", holidayHandler.DeleteHoliday)

	// Performance routes
	performanceGroup := api.Group("/performance", middleware.AuthMiddleware())
	performanceGroup.Post("/results", performanceHandler.UploadResult)
	performanceGroup.Get("/:id", performanceHandler.GetPerformance)

	log.Println("All application routes registered.")
	log.Println("Swagger documentation available at: /docs/index.html")
}
