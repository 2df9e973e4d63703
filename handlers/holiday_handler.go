package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"School-Administration-System/models"
	util "School-Administration-System/pkg/utils"
	"School-Administration-System/repository"
)

type HolidayHandler struct {
	repo repository.HolidayRepository
}

func NewHolidayHandler(repo repository.HolidayRepository) *HolidayHandler {
	return &HolidayHandler{repo: repo}
}

// CreateHoliday godoc
// @Summary Add a holiday (admin)
// @Tags Holidays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.HolidayCreatePayload true "Holiday"
// @Success 201 {object} models.Holiday
// @Router /holidays [post]
func (h *HolidayHandler) CreateHoliday(c *fiber.Ctx) error {
	var payload models.HolidayCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	holiday := &models.Holiday{
		Date:        payload.Date,
		Name:        payload.Name,
		IsRecurring: payload.IsRecurring,
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.Create(ctx, holiday); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create holiday"})
	}

	return c.Status(fiber.StatusCreated).JSON(holiday)
}

// ListHolidays godoc
// @Summary List stored holidays
// @Tags Holidays
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Holiday
// @Router /holidays [get]
func (h *HolidayHandler) ListHolidays(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	holidays, err := h.repo.List(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch holidays"})
	}

	return c.Status(fiber.StatusOK).JSON(holidays)
}

// GetCalendar godoc
// @Summary Holiday calendar feed
// @Description Expands stored holidays (recurring ones included) into concrete dates inside the requested range.
// @Tags Holidays
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.HolidayOccurrence
// @Router /holidays/calendar [get]
func (h *HolidayHandler) GetCalendar(c *fiber.Ctx) error {
	start, err := time.Parse(util.DateLayout, c.Query("start_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format"})
	}
	end, err := time.Parse(util.DateLayout, c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	holidays, err := h.repo.List(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch holidays"})
	}

	occurrences, err := util.ExpandHolidays(holidays, start, end)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to expand holidays", "details": err.Error()})
	}
	if occurrences == nil {
		occurrences = []models.HolidayOccurrence{}
	}

	return c.Status(fiber.StatusOK).JSON(occurrences)
}

// DeleteHoliday godoc
// @Summary Delete a holiday (admin)
// @Tags Holidays
// @Produce json
// @Security BearerAuth
// @Param id path string true "Holiday ID"
// @Success 200 {object} object{message=string}
// @Router /holidays/{id} [delete]
func (h *HolidayHandler) DeleteHoliday(c *fiber.Ctx) error {
	holidayID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid holiday ID"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	res, err := h.repo.Delete(ctx, holidayID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete holiday"})
	}
	if res.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Holiday not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Holiday deleted"})
}
