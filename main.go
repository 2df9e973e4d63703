package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"School-Administration-System/config"
	"School-Administration-System/pkg/geofence"
	"School-Administration-System/repository"
	"School-Administration-System/router"
	"School-Administration-System/seeder"
	"School-Administration-System/services"

	_ "School-Administration-System/docs"
	_ "time/tzdata"
)

// @title School Administration System API
// @version 1.0
// @description Backend for the school administration system: teacher attendance lifecycle, automated compliance sweep, holiday calendar and teacher performance reports.
//
// @contact.name API Support
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:3000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the PASETO token.
//
// @tag.name Auth
// @tag.description Authentication endpoints
//
// @tag.name Attendance
// @tag.description Attendance ledger and self-marking
//
// @tag.name Automation
// @tag.description Attendance automation policy and compliance sweep
//
// @tag.name Holidays
// @tag.description Holiday calendar
//
// @tag.name Performance
// @tag.description Teacher performance reports
func main() {

	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.LoadConfig()

	config.MongoConnect()
	config.InitDatabase()

	defer config.DisconnectDB()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	userRepo := repository.NewUserRepository()
	attendanceRepo := repository.NewAttendanceRepository()
	policyRepo := repository.NewPolicyRepository()
	holidayRepo := repository.NewHolidayRepository()
	resultRepo := repository.NewResultRepository()

	if os.Getenv("SEED_DATA") == "true" {
		seeder.SeedUsers(userRepo)
		seeder.SeedHolidays(holidayRepo)
	}

	verifier := geofence.NewVerifier(cfg.SchoolLatitude, cfg.SchoolLongitude, cfg.SchoolRadiusKm)
	notifier := services.NewNotifier(cfg)

	selfMark := services.NewSelfMarkService(userRepo, attendanceRepo, policyRepo, verifier, loc)
	sweeper := services.NewSweeper(userRepo, attendanceRepo, policyRepo, holidayRepo, notifier, loc, cfg.WeeklyOffDay)
	performance := services.NewPerformanceService(userRepo, resultRepo, attendanceRepo, loc)

	scheduler := services.NewSweepScheduler(sweeper, policyRepo, loc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start sweep scheduler: %v", err)
	}
	defer scheduler.Stop()

	app := fiber.New()

	config.SetupCORS(app)

	app.Use(logger.New())

	router.SetupRoutes(app, router.Deps{
		UserRepo:       userRepo,
		AttendanceRepo: attendanceRepo,
		PolicyRepo:     policyRepo,
		HolidayRepo:    holidayRepo,
		ResultRepo:     resultRepo,
		SelfMark:       selfMark,
		Sweeper:        sweeper,
		Scheduler:      scheduler,
		Performance:    performance,
		Loc:            loc,
	})

	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("API Documentation: http://localhost:%s/docs/index.html", cfg.Port)
	log.Printf("CORS enabled for origins: %v", config.GetAllowedOrigins())
	log.Fatal(app.Listen(":" + cfg.Port))
}
