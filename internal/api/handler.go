package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskleaf/taskleaf/internal/config"
	"github.com/taskleaf/taskleaf/internal/db"
	"github.com/taskleaf/taskleaf/internal/gcal"
	"github.com/taskleaf/taskleaf/internal/models"
	"github.com/taskleaf/taskleaf/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	authCookieName = "access_token"
	authTokenTTL   = 7 * 24 * time.Hour
)

type Handler struct {
	cfg       *config.Config
	logger    *zap.Logger
	secretKey []byte

	repositories *db.Repositories
	authService  *services.AuthService
	taskService  *services.TaskService
	analytics    *services.AnalyticsService
	pomodoro     *services.PomodoroService
	calendar     *gcal.Client
}

// NewHandler wires the request layer. The weather and calendar clients
// arrive constructed so their configuration stays with whoever built
// them.
func NewHandler(
	database *gorm.DB,
	cfg *config.Config,
	logger *zap.Logger,
	weatherClient services.WeatherLookup,
	calendarClient *gcal.Client,
) *Handler {
	repositories := db.NewRepositories(database)
	syncService := services.NewSyncService(calendarClient, logger)

	return &Handler{
		cfg:          cfg,
		logger:       logger.Named("api"),
		secretKey:    []byte(cfg.SecretKey),
		repositories: repositories,
		authService:  services.NewAuthService(repositories.Users),
		taskService:  services.NewTaskService(repositories.Tasks, weatherClient, syncService, logger),
		analytics:    services.NewAnalyticsService(repositories.Tasks),
		pomodoro:     services.NewPomodoroService(repositories.Pomodoro),
		calendar:     calendarClient,
	}
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "version": handler.cfg.Version})
}

// currentUser returns the user the auth middleware resolved.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userContextKey).(*models.User)
	return user
}

func apiError(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

func notFound(c *fiber.Ctx, what string) error {
	return apiError(c, fiber.StatusNotFound, what+" not found")
}
