package http

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutorhub-backend/internal/model"
	"github.com/tutorhub/tutorhub-backend/internal/service"
)

type UserHandler struct {
	users    *service.UserService
	validate *validator.Validate
}

func NewUserHandler(users *service.UserService, validate *validator.Validate) *UserHandler {
	return &UserHandler{users: users, validate: validate}
}

// Register — POST /api/users
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.users.Register(c.Context(), service.RegisterInput{
		Email:       req.Email,
		Phone:       req.Phone,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsTutor:     req.IsTutor,
		EmailPublic: req.EmailPublic,
		PhonePublic: req.PhonePublic,
	})
	if err != nil {
		return fail(c, err)
	}

	return created(c, user)
}

// GetProfile — GET /api/users/:id
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "user id must be an integer")
	}

	user, err := h.users.GetProfile(c.Context(), userID, principalID(c))
	if err != nil {
		return fail(c, err)
	}

	return ok(c, user)
}

// TopUp — POST /api/users/me/credits
func (h *UserHandler) TopUp(c *fiber.Ctx) error {
	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.users.TopUpCredits(c.Context(), principalID(c), model.CreditAmount(req.Amount))
	if err != nil {
		return fail(c, err)
	}

	return ok(c, user)
}

// UpdateVisibility — PATCH /api/users/me/visibility
func (h *UserHandler) UpdateVisibility(c *fiber.Ctx) error {
	var req visibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	user, err := h.users.UpdateContactVisibility(c.Context(), principalID(c), req.EmailPublic, req.PhonePublic)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, user)
}
