package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/service"
)

// Server собирает Fiber-приложение поверх сервисного слоя.
type Server struct {
	app    *fiber.App
	logger *zap.Logger
}

func NewServer(
	users *service.UserService,
	tutors *service.TutorService,
	packages *service.PackageService,
	bookings *service.BookingService,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "tutorhub-backend",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(RequestLogger(logger))

	validate := validator.New()

	userHandler := NewUserHandler(users, validate)
	tutorHandler := NewTutorHandler(tutors, validate)
	packageHandler := NewPackageHandler(packages, validate)
	bookingHandler := NewBookingHandler(bookings, validate)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Публичная точка входа по meet-ссылке
	app.Get("/join/:token", packageHandler.JoinSession)

	api := app.Group("/api")
	api.Post("/users", userHandler.Register)

	authed := api.Group("", Principal())

	authed.Get("/users/:id", userHandler.GetProfile)
	authed.Post("/users/me/credits", userHandler.TopUp)
	authed.Patch("/users/me/visibility", userHandler.UpdateVisibility)

	authed.Get("/subjects", tutorHandler.ListSubjects)
	authed.Post("/subjects", tutorHandler.CreateSubject)
	authed.Post("/package-types", tutorHandler.CreatePackageType)

	authed.Post("/tutors/me/slots", tutorHandler.PublishSlot)
	authed.Post("/tutors/me/tiers", tutorHandler.CreateTier)
	authed.Post("/tutors/me/offerings", tutorHandler.CreateOffering)
	authed.Post("/tutors/me/templates", tutorHandler.CreateTemplates)
	authed.Get("/tutors/me/templates", tutorHandler.GetTemplates)
	authed.Delete("/tutors/me/templates/:group_id", tutorHandler.DeactivateTemplates)
	authed.Get("/tutors/:id/slots", tutorHandler.GetSlots)
	authed.Get("/tutors/:id/free-slots", bookingHandler.AvailableSlots)
	authed.Get("/tutors/:id/tiers", tutorHandler.GetTiers)
	authed.Get("/tutors/:id/offerings", tutorHandler.GetOfferings)

	authed.Post("/packages", packageHandler.Create)
	authed.Get("/packages", packageHandler.List)
	authed.Get("/packages/:id", packageHandler.GetByID)
	authed.Post("/packages/:id/accept", packageHandler.Accept)
	authed.Post("/sessions/:id/cancel", packageHandler.CancelSession)

	authed.Post("/bookings", bookingHandler.Book)
	authed.Get("/bookings", bookingHandler.ListMine)
	authed.Get("/bookings/pending", bookingHandler.ListPending)
	authed.Post("/bookings/:id/approve", bookingHandler.Approve)
	authed.Post("/bookings/:id/reject", bookingHandler.Reject)
	authed.Post("/bookings/:id/cancel", bookingHandler.Cancel)

	return &Server{app: app, logger: logger}
}

// Listen блокирует до остановки сервера
func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown мягко останавливает сервер
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App отдаёт *fiber.App для тестов через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

func errorHandler(c *fiber.Ctx, err error) error {
	return fail(c, err)
}
