package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"School-Administration-System/models"
	"School-Administration-System/pkg/paseto"
	util "School-Administration-System/pkg/utils"
	"School-Administration-System/repository"
	"School-Administration-System/services"
)

type AttendanceHandler struct {
	repo     repository.AttendanceRepository
	selfMark *services.SelfMarkService

	// Ledger dates are stamped in the operational timezone, so "today"
	// defaults must be derived in it too.
	loc *time.Location
	now func() time.Time
}

func NewAttendanceHandler(repo repository.AttendanceRepository, selfMark *services.SelfMarkService, loc *time.Location) *AttendanceHandler {
	return &AttendanceHandler{repo: repo, selfMark: selfMark, loc: loc, now: time.Now}
}

// SelfMark godoc
// @Summary Mark own attendance
// @Description Marks the calling teacher's attendance for today. Present/HalfDay require a location inside the school geofence and are time-gated.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SelfMarkPayload true "Attendance status and location"
// @Success 201 {object} models.SelfMarkSuccessResponse
// @Failure 400 {object} models.ErrorResponse "Window closed, location missing or out of range"
// @Failure 403 {object} models.ForbiddenErrorResponse
// @Failure 409 {object} models.ErrorResponse "Already marked today"
// @Router /attendance/self-mark [post]
func (h *AttendanceHandler) SelfMark(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated or token claims invalid"})
	}

	var payload models.SelfMarkPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	record, err := h.selfMark.Mark(ctx, claims.UserID, &payload)
	if err != nil {
		var alreadyMarked *services.AlreadyMarkedError
		var windowClosed *services.WindowClosedError
		var outOfRange *services.LocationOutOfRangeError

		switch {
		case errors.Is(err, services.ErrTeacherNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.As(err, &alreadyMarked):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":      alreadyMarked.Error(),
				"attendance": alreadyMarked.Existing,
			})
		case errors.As(err, &windowClosed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": windowClosed.Error()})
		case errors.Is(err, services.ErrLocationRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.As(err, &outOfRange):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":       outOfRange.Message,
				"distance_km": outOfRange.DistanceKm,
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark attendance", "details": err.Error()})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Attendance marked successfully",
		"attendance": record,
	})
}

// GetTodayStatus godoc
// @Summary Get own attendance status for today
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TodayStatusResponse
// @Router /attendance/today-status [get]
func (h *AttendanceHandler) GetTodayStatus(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated or token claims invalid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	record, err := h.selfMark.TodayStatus(ctx, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch today's attendance"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"marked":     record != nil,
		"attendance": record,
	})
}

// GetMyHistory godoc
// @Summary Get own attendance history
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Range start (YYYY-MM-DD)"
// @Param end_date query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.Attendance
// @Router /attendance/my-history [get]
func (h *AttendanceHandler) GetMyHistory(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated or token claims invalid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	var history []models.Attendance
	var err error
	if startDate != "" && endDate != "" {
		history, err = h.repo.ListForTeacher(ctx, claims.UserID, startDate, endDate)
	} else {
		history, err = h.repo.ListAllForTeacher(ctx, claims.UserID)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance history"})
	}

	return c.Status(fiber.StatusOK).JSON(history)
}

// GetDayAttendance godoc
// @Summary Get all attendance for one day (admin)
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {array} models.AttendanceWithTeacher
// @Router /attendance/day [get]
func (h *AttendanceHandler) GetDayAttendance(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = h.now().In(h.loc).Format(util.DateLayout)
	}
	if _, err := time.Parse(util.DateLayout, date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	records, err := h.repo.ListForDayWithTeacher(ctx, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch daily attendance"})
	}

	return c.Status(fiber.StatusOK).JSON(records)
}

// GetRangeAttendance godoc
// @Summary Get all attendance records in a date range (admin)
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.Attendance
// @Router /attendance/range [get]
func (h *AttendanceHandler) GetRangeAttendance(c *fiber.Ctx) error {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if _, err := time.Parse(util.DateLayout, startDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format"})
	}
	if _, err := time.Parse(util.DateLayout, endDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	records, err := h.repo.ListForRange(ctx, startDate, endDate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance records"})
	}

	return c.Status(fiber.StatusOK).JSON(records)
}

// UpdateAttendance godoc
// @Summary Correct an attendance record (admin)
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance record ID"
// @Param payload body models.AttendanceUpdatePayload true "Fields to correct"
// @Success 200 {object} models.SelfMarkSuccessResponse
// @Router /attendance/{id} [put]
func (h *AttendanceHandler) UpdateAttendance(c *fiber.Ctx) error {
	recordID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attendance record ID"})
	}

	var payload models.AttendanceUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	res, err := h.repo.UpdateByAdmin(ctx, recordID, &payload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update attendance record"})
	}
	if res.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attendance record not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Attendance record updated"})
}
