package http

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutorhub-backend/internal/model"
	"github.com/tutorhub/tutorhub-backend/internal/service"
)

type PackageHandler struct {
	packages *service.PackageService
	validate *validator.Validate
}

func NewPackageHandler(packages *service.PackageService, validate *validator.Validate) *PackageHandler {
	return &PackageHandler{packages: packages, validate: validate}
}

// Create — POST /api/packages
func (h *PackageHandler) Create(c *fiber.Ctx) error {
	var req createPackageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	pkg, err := h.packages.Create(c.Context(), req.toInput(principalID(c)))
	if err != nil {
		return fail(c, err)
	}

	return created(c, pkg)
}

// Accept — POST /api/packages/:id/accept
// Перечисленные сессии принимаются, остальные отклоняются с возвратом.
func (h *PackageHandler) Accept(c *fiber.Ctx) error {
	packageID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "package id must be an integer")
	}

	var req acceptPackageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	pkg, err := h.packages.Accept(c.Context(), packageID, req.AcceptedSessionIDs, principalID(c))
	if err != nil {
		return fail(c, err)
	}

	return ok(c, pkg)
}

// GetByID — GET /api/packages/:id
func (h *PackageHandler) GetByID(c *fiber.Ctx) error {
	packageID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "package id must be an integer")
	}

	pkg, err := h.packages.GetByID(c.Context(), packageID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, pkg)
}

// List — GET /api/packages?status=pending&limit=20&offset=0
func (h *PackageHandler) List(c *fiber.Ctx) error {
	status := model.PackageStatus(c.Query("status"))
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	packages, err := h.packages.ListByUser(c.Context(), principalID(c), status, limit, offset)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, packages)
}

// CancelSession — POST /api/sessions/:id/cancel
func (h *PackageHandler) CancelSession(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "session id must be an integer")
	}

	if err := h.packages.CancelSession(c.Context(), sessionID, principalID(c)); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// JoinSession — GET /join/:token (публичный, без principal)
func (h *PackageHandler) JoinSession(c *fiber.Ctx) error {
	sessionID, err := h.packages.ResolveMeetToken(c.Params("token"))
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.Map{"session_id": sessionID})
}
