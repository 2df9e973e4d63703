package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"School-Administration-System/models"
	"School-Administration-System/pkg/paseto"
	util "School-Administration-System/pkg/utils"
	"School-Administration-System/repository"
	"School-Administration-System/services"
)

type PerformanceHandler struct {
	performance *services.PerformanceService
	results     repository.ResultRepository
}

func NewPerformanceHandler(performance *services.PerformanceService, results repository.ResultRepository) *PerformanceHandler {
	return &PerformanceHandler{performance: performance, results: results}
}

// UploadResult godoc
// @Summary Upload a student result
// @Description Stores one student's exam result under the calling teacher. Uploaded results feed the teacher's performance score.
// @Tags Performance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ResultUploadPayload true "Student result"
// @Success 201 {object} models.Result
// @Failure 400 {object} models.ErrorResponse
// @Router /performance/results [post]
func (h *PerformanceHandler) UploadResult(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated or token claims invalid"})
	}
	if claims.Role != "teacher" && claims.Role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only teachers can upload results"})
	}

	var payload models.ResultUploadPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	subjects := make([]models.ResultSubject, 0, len(payload.Subjects))
	for _, s := range payload.Subjects {
		if s.Marks > s.MaxMarks {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Marks cannot exceed max marks", "subject": s.Name})
		}
		subjects = append(subjects, models.ResultSubject{Name: s.Name, Marks: s.Marks, MaxMarks: s.MaxMarks})
	}

	result := &models.Result{
		GRNumber:    payload.GRNumber,
		StudentName: payload.StudentName,
		Standard:    payload.Standard,
		ExamType:    payload.ExamType,
		Subjects:    subjects,
		UploadedBy:  claims.UserID,
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.results.Create(ctx, result); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store result"})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetPerformance godoc
// @Summary Get a teacher's performance snapshot
// @Description Composite score over uploads, class average, pass rate and attendance. Admins can request any teacher; teachers only themselves.
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} models.PerformanceSnapshot
// @Failure 404 {object} models.NotFoundErrorResponse
// @Router /performance/{id} [get]
func (h *PerformanceHandler) GetPerformance(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated or token claims invalid"})
	}

	teacherID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher ID"})
	}

	if claims.Role != "admin" && claims.UserID != teacherID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only view your own performance"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	snapshot, err := h.performance.Score(ctx, teacherID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute performance", "details": err.Error()})
	}
	if snapshot == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
	}

	return c.Status(fiber.StatusOK).JSON(snapshot)
}
