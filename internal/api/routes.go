package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Get("/google/login", handler.GoogleLogin)
	auth.Get("/google/callback", handler.GoogleCallback)

	tasks := api.Group("/tasks", handler.AuthRequired)
	tasks.Get("/categories", handler.GetCategories)
	tasks.Post("/categories", handler.CreateCategory)
	tasks.Put("/categories/:id", handler.UpdateCategory)
	tasks.Delete("/categories/:id", handler.DeleteCategory)
	tasks.Get("/stats/summary", handler.GetTaskStats)
	tasks.Get("/", handler.GetTasks)
	tasks.Get("", handler.GetTasks)
	tasks.Post("/", handler.CreateTask)
	tasks.Post("", handler.CreateTask)
	tasks.Get("/:id", handler.GetTask)
	tasks.Put("/:id", handler.UpdateTask)
	tasks.Delete("/:id", handler.DeleteTask)
	tasks.Post("/:id/sync", handler.SyncTask)
	tasks.Post("/:id/unsync", handler.UnsyncTask)

	analytics := api.Group("/analytics", handler.AuthRequired)
	analytics.Get("/metrics", handler.GetAnalyticsMetrics)
	analytics.Get("/daily-stats", handler.GetDailyStats)

	pomodoro := api.Group("/pomodoro", handler.AuthRequired)
	pomodoro.Post("/sessions", handler.CreatePomodoroSession)
	pomodoro.Get("/sessions/active", handler.GetActivePomodoroSession)
	pomodoro.Get("/sessions", handler.GetPomodoroSessions)
	pomodoro.Put("/sessions/:id", handler.UpdatePomodoroSession)
	pomodoro.Delete("/sessions/:id", handler.DeletePomodoroSession)
	pomodoro.Get("/stats", handler.GetPomodoroStats)

	calendar := api.Group("/calendar", handler.AuthRequired)
	calendar.Get("/events", handler.GetCalendarEvents)
	calendar.Post("/events", handler.CreateCalendarEvent)
	calendar.Put("/events/:id", handler.UpdateCalendarEvent)
	calendar.Delete("/events/:id", handler.DeleteCalendarEvent)
	calendar.Get("/google/events", handler.GetGoogleEvents)
	calendar.Post("/google/events", handler.CreateGoogleEvent)
	calendar.Put("/google/events/:id", handler.UpdateGoogleEvent)
	calendar.Delete("/google/events/:id", handler.DeleteGoogleEvent)
}
