package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scolaris/scolaris-go-api/internal/config"
	"github.com/scolaris/scolaris-go-api/internal/handler"
	"github.com/scolaris/scolaris-go-api/internal/middleware"
	"github.com/scolaris/scolaris-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration. Nil handlers
// are skipped so partial wiring stays possible in tests.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	StudentHandler      *handler.StudentHandler
	ClassHandler        *handler.ClassHandler
	SubjectHandler      *handler.SubjectHandler
	CalendarHandler     *handler.CalendarHandler
	ScoreHandler        *handler.ScoreHandler
	GradeHandler        *handler.GradeHandler
	PromotionHandler    *handler.PromotionHandler
	AssignmentHandler   *handler.AssignmentHandler
	MessageHandler      *handler.MessageHandler
	NotificationHandler *handler.NotificationHandler
	ScheduleHandler     *handler.ScheduleHandler
	SeedHandler         *handler.SeedHandler
	AuthMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	authGuard := deps.AuthMiddleware
	if authGuard == nil {
		authGuard = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.RegisterPublic(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", authGuard))
	}

	protected := api.Group("", authGuard)

	if deps.UserHandler != nil {
		deps.UserHandler.Register(protected.Group("/users"))
	}
	if deps.StudentHandler != nil {
		students := protected.Group("/students")
		deps.StudentHandler.Register(students)
		if deps.UserHandler != nil {
			deps.UserHandler.RegisterParentRoutes(students)
		}
	}
	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(protected.Group("/classes"))
	}
	if deps.SubjectHandler != nil {
		deps.SubjectHandler.Register(protected.Group("/subjects"))
	}
	if deps.CalendarHandler != nil {
		deps.CalendarHandler.RegisterSchoolYears(protected.Group("/school-years"))
		deps.CalendarHandler.RegisterTrimesters(protected.Group("/trimesters"))
		deps.CalendarHandler.RegisterPeriods(protected.Group("/periods"))
	}
	if deps.ScoreHandler != nil {
		deps.ScoreHandler.Register(protected.Group("/scores"))
	}
	if deps.GradeHandler != nil {
		deps.GradeHandler.Register(protected.Group("/grades"))
	}
	if deps.PromotionHandler != nil {
		deps.PromotionHandler.Register(protected.Group("/promotions"))
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(protected.Group("/assignments"))
	}
	if deps.MessageHandler != nil {
		deps.MessageHandler.Register(protected.Group("/messages"))
	}
	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(protected.Group("/notifications"))
	}
	if deps.ScheduleHandler != nil {
		deps.ScheduleHandler.Register(protected.Group("/schedules"))
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(protected.Group("/seed"))
	}
}
