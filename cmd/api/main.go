package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-go-api/internal/config"
	"github.com/scolaris/scolaris-go-api/internal/database"
	"github.com/scolaris/scolaris-go-api/internal/handler"
	"github.com/scolaris/scolaris-go-api/internal/middleware"
	"github.com/scolaris/scolaris-go-api/internal/models"
	"github.com/scolaris/scolaris-go-api/internal/repository"
	"github.com/scolaris/scolaris-go-api/internal/router"
	"github.com/scolaris/scolaris-go-api/internal/service"
	cloud "github.com/scolaris/scolaris-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Class{},
		&models.Subdivision{},
		&models.Student{},
		&models.Subject{},
		&models.SchoolYear{},
		&models.Trimester{},
		&models.Period{},
		&models.CourseworkScore{},
		&models.ExamScore{},
		&models.TrimesterGrade{},
		&models.AnnualGrade{},
		&models.Assignment{},
		&models.Message{},
		&models.Notification{},
		&models.Schedule{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	var uploader service.FileUploader
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudService
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	authService := service.NewAuthService(userRepo, tokenRepo, redisClient, cfg.JWTSecret, cfg.TokenTTL, validate, logger)
	userService := service.NewUserService(userRepo, studentRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, classRepo, validate, logger)
	classService := service.NewClassService(classRepo, validate, logger)
	subjectService := service.NewSubjectService(subjectRepo, classRepo, validate, logger)
	calendarService := service.NewCalendarService(calendarRepo, validate, logger)
	scoreService := service.NewScoreService(scoreRepo, studentRepo, subjectRepo, calendarRepo, validate, logger)
	gradeService := service.NewGradeService(gradeRepo, scoreRepo, calendarRepo, studentRepo, subjectRepo, logger)
	promotionService := service.NewPromotionService(studentRepo, classRepo, subjectRepo, gradeRepo, rng, logger)
	notificationService := service.NewNotificationService(notificationRepo, studentRepo, redisClient, cfg.EventChannel, natsConn, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, classRepo, notificationService, uploader, validate, logger)
	messageService := service.NewMessageService(messageRepo, userRepo, notificationService, validate, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, classRepo, calendarRepo, validate, logger)
	seedService := service.NewSeedService(classRepo, subjectRepo, calendarRepo, studentRepo, scoreRepo, cfg.SeedEnabled, rng, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		UserHandler:         handler.NewUserHandler(userService, logger),
		StudentHandler:      handler.NewStudentHandler(studentService, logger),
		ClassHandler:        handler.NewClassHandler(classService, logger),
		SubjectHandler:      handler.NewSubjectHandler(subjectService, logger),
		CalendarHandler:     handler.NewCalendarHandler(calendarService, logger),
		ScoreHandler:        handler.NewScoreHandler(scoreService, logger),
		GradeHandler:        handler.NewGradeHandler(gradeService, logger),
		PromotionHandler:    handler.NewPromotionHandler(promotionService, logger),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, logger),
		MessageHandler:      handler.NewMessageHandler(messageService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		ScheduleHandler:     handler.NewScheduleHandler(scheduleService, logger),
		SeedHandler:         handler.NewSeedHandler(seedService, logger),
		AuthMiddleware:      middleware.Authenticate(authService),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
