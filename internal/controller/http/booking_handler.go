package http

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutorhub-backend/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
	validate *validator.Validate
}

func NewBookingHandler(bookings *service.BookingService, validate *validator.Validate) *BookingHandler {
	return &BookingHandler{bookings: bookings, validate: validate}
}

// Book — POST /api/bookings
func (h *BookingHandler) Book(c *fiber.Ctx) error {
	var req bookSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	booking, err := h.bookings.BookSlot(c.Context(), principalID(c), req.SlotID, req.SubjectID)
	if err != nil {
		return fail(c, err)
	}

	return created(c, booking)
}

// Approve — POST /api/bookings/:id/approve
func (h *BookingHandler) Approve(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "booking id must be an integer")
	}

	if err := h.bookings.ApproveBooking(c.Context(), bookingID, principalID(c)); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Reject — POST /api/bookings/:id/reject
func (h *BookingHandler) Reject(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "booking id must be an integer")
	}

	if err := h.bookings.RejectBooking(c.Context(), bookingID, principalID(c)); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Cancel — POST /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "booking id must be an integer")
	}

	if err := h.bookings.CancelBooking(c.Context(), bookingID, principalID(c)); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListMine — GET /api/bookings
func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	bookings, err := h.bookings.GetStudentBookings(c.Context(), principalID(c))
	if err != nil {
		return fail(c, err)
	}

	return ok(c, bookings)
}

// ListPending — GET /api/bookings/pending (для репетитора)
func (h *BookingHandler) ListPending(c *fiber.Ctx) error {
	bookings, err := h.bookings.GetPendingBookings(c.Context(), principalID(c))
	if err != nil {
		return fail(c, err)
	}

	return ok(c, bookings)
}

// AvailableSlots — GET /api/tutors/:id/free-slots
func (h *BookingHandler) AvailableSlots(c *fiber.Ctx) error {
	tutorID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "tutor id must be an integer")
	}

	from, to, err := parseRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	slots, err := h.bookings.GetAvailableSlots(c.Context(), tutorID, from, to)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, slots)
}
