package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"School-Administration-System/models"
	util "School-Administration-System/pkg/utils"
	"School-Administration-System/repository"
	"School-Administration-System/services"
)

// AutomationHandler is the admin surface of the compliance engine:
// policy settings and on-demand sweep runs.
type AutomationHandler struct {
	policies  repository.PolicyRepository
	sweeper   *services.Sweeper
	scheduler *services.SweepScheduler
}

func NewAutomationHandler(policies repository.PolicyRepository, sweeper *services.Sweeper, scheduler *services.SweepScheduler) *AutomationHandler {
	return &AutomationHandler{policies: policies, sweeper: sweeper, scheduler: scheduler}
}

// GetPolicy godoc
// @Summary Get attendance automation policy (admin)
// @Tags Automation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AttendancePolicy
// @Router /automation/policy [get]
func (h *AutomationHandler) GetPolicy(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	policy, err := h.policies.GetSettings(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load automation policy"})
	}

	return c.Status(fiber.StatusOK).JSON(policy)
}

// UpdatePolicy godoc
// @Summary Update attendance automation policy (admin)
// @Description Partial update; HH:MM fields are validated. A deadline change reschedules the daily sweep.
// @Tags Automation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.PolicyUpdatePayload true "Fields to change"
// @Success 200 {object} models.AttendancePolicy
// @Failure 400 {object} models.ValidationErrorResponse
// @Router /automation/policy [put]
func (h *AutomationHandler) UpdatePolicy(c *fiber.Ctx) error {
	var payload models.PolicyUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	policy, deadlineChanged, err := h.policies.UpdateSettings(ctx, &payload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update automation policy"})
	}

	if deadlineChanged && h.scheduler != nil {
		if err := h.scheduler.Reschedule(); err != nil {
			// Policy is saved, the cron entry will be rebuilt on restart.
			log.Printf("[automation] failed to reschedule sweep: %v", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Automation policy updated",
		"policy":  policy,
	})
}

// TriggerSweep godoc
// @Summary Run the compliance sweep now (admin)
// @Description Runs the auto-mark sweep immediately. With force=true the enabled/deadline/weekend/holiday gates are bypassed.
// @Tags Automation
// @Produce json
// @Security BearerAuth
// @Param force query bool false "Bypass gates"
// @Success 200 {object} services.SweepReport
// @Router /automation/sweep [post]
func (h *AutomationHandler) TriggerSweep(c *fiber.Ctx) error {
	force := c.QueryBool("force", false)

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Minute)
	defer cancel()

	report, err := h.sweeper.Run(ctx, force)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Sweep failed", "details": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
