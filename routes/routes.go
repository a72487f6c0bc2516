package routes

import (
	"github.com/Dosada05/footbot/handlers"
	"github.com/Dosada05/footbot/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Session   *handlers.SessionHandler
	Workspace *handlers.WorkspaceHandler
	Player    *handlers.PlayerHandler
	Team      *handlers.TeamHandler
	Schedule  *handlers.ScheduleHandler
	Settings  *handlers.SettingsHandler
	Export    *handlers.ExportHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	Auth           middleware.SessionAuthenticator
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", handlers.Health)
	router.Post("/sessions", h.Session.CreateSession)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.Auth))

		r.Get("/ws", h.WebSocket.ServeWs)

		r.Route("/workspace", func(r chi.Router) {
			r.Get("/", h.Workspace.GetWorkspace)
			r.Post("/reset", h.Workspace.ResetWorkspace)
			r.Put("/config", h.Workspace.UpdateConfig)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.Player.ListPlayers)
			r.Post("/", h.Player.AddPlayer)
			r.Post("/reorder", h.Player.ReorderPlayers)
			r.Get("/{index}", h.Player.GetPlayer)
			r.Put("/{index}", h.Player.UpdatePlayer)
			r.Delete("/{index}", h.Player.DeletePlayer)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Post("/generate", h.Team.GenerateTeams)
			r.Post("/confirm", h.Team.ConfirmNames)
			r.Put("/{index}/name", h.Team.SetTeamName)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.Schedule.GetSchedule)
			r.Post("/simulate", h.Schedule.Simulate)
			r.Post("/simulate-all", h.Schedule.SimulateAll)
		})

		r.Route("/settings/api", func(r chi.Router) {
			r.Get("/", h.Settings.GetAPISettings)
			r.Put("/", h.Settings.SetAPITarget)
			r.Delete("/", h.Settings.ResetAPITarget)
		})

		r.Post("/exports", h.Export.CreateExport)
		r.Delete("/exports", h.Export.DeleteExport)
	})
}
