package http

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tutorhub/tutorhub-backend/internal/service"
)

type TutorHandler struct {
	tutors   *service.TutorService
	validate *validator.Validate
}

func NewTutorHandler(tutors *service.TutorService, validate *validator.Validate) *TutorHandler {
	return &TutorHandler{tutors: tutors, validate: validate}
}

// PublishSlot — POST /api/tutors/me/slots
func (h *TutorHandler) PublishSlot(c *fiber.Ctx) error {
	var req publishSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	slot, err := h.tutors.PublishSlot(c.Context(), principalID(c), req.StartTime, req.EndTime)
	if err != nil {
		return fail(c, err)
	}

	return created(c, slot)
}

// GetSlots — GET /api/tutors/:id/slots?from=...&to=...
func (h *TutorHandler) GetSlots(c *fiber.Ctx) error {
	tutorID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "tutor id must be an integer")
	}

	from, to, err := parseRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	slots, err := h.tutors.GetTutorSlots(c.Context(), tutorID, from, to)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, slots)
}

// CreateSubject — POST /api/subjects
func (h *TutorHandler) CreateSubject(c *fiber.Ctx) error {
	var req createSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	subject, err := h.tutors.CreateSubject(c.Context(), principalID(c), req.Name)
	if err != nil {
		return fail(c, err)
	}

	return created(c, subject)
}

// ListSubjects — GET /api/subjects
func (h *TutorHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.tutors.ListSubjects(c.Context())
	if err != nil {
		return fail(c, err)
	}

	return ok(c, subjects)
}

// CreateTier — POST /api/tutors/me/tiers
func (h *TutorHandler) CreateTier(c *fiber.Ctx) error {
	var req createTierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	tier, err := h.tutors.CreateTier(c.Context(), principalID(c), req.Credits, req.Category, req.SubjectIDs)
	if err != nil {
		return fail(c, err)
	}

	return created(c, tier)
}

// GetTiers — GET /api/tutors/:id/tiers
func (h *TutorHandler) GetTiers(c *fiber.Ctx) error {
	tutorID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "tutor id must be an integer")
	}

	tiers, err := h.tutors.GetTutorTiers(c.Context(), tutorID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, tiers)
}

// CreatePackageType — POST /api/package-types
func (h *TutorHandler) CreatePackageType(c *fiber.Ctx) error {
	var req createPackageTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	pt, err := h.tutors.CreatePackageType(c.Context(), req.Name, req.MaximumSessions, req.Description)
	if err != nil {
		return fail(c, err)
	}

	return created(c, pt)
}

// CreateOffering — POST /api/tutors/me/offerings
func (h *TutorHandler) CreateOffering(c *fiber.Ctx) error {
	var req createOfferingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	offering, err := h.tutors.CreateOffering(c.Context(), principalID(c), req.PackageTypeID, req.DiscountPercent)
	if err != nil {
		return fail(c, err)
	}

	return created(c, offering)
}

// GetOfferings — GET /api/tutors/:id/offerings
func (h *TutorHandler) GetOfferings(c *fiber.Ctx) error {
	tutorID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "tutor id must be an integer")
	}

	offerings, err := h.tutors.GetTutorOfferings(c.Context(), tutorID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, offerings)
}

// CreateTemplates — POST /api/tutors/me/templates
func (h *TutorHandler) CreateTemplates(c *fiber.Ctx) error {
	var req createTemplatesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.tutors.CreateAvailabilityTemplates(c.Context(), principalID(c), req.toModels()); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

// GetTemplates — GET /api/tutors/me/templates
func (h *TutorHandler) GetTemplates(c *fiber.Ctx) error {
	templates, err := h.tutors.GetTutorTemplates(c.Context(), principalID(c))
	if err != nil {
		return fail(c, err)
	}

	return ok(c, templates)
}

// DeactivateTemplates — DELETE /api/tutors/me/templates/:group_id
func (h *TutorHandler) DeactivateTemplates(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("group_id"))
	if err != nil {
		return badRequest(c, "group id must be a UUID")
	}

	if err := h.tutors.DeactivateTemplates(c.Context(), principalID(c), groupID); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseRange читает from/to из query, по умолчанию месяц от текущего момента
func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	from := time.Now()
	to := from.AddDate(0, 1, 0)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "from must be RFC3339")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "to must be RFC3339")
		}
		to = parsed
	}

	return from, to, nil
}
