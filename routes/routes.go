package routes

import (
	"github.com/blackrose-gg/guild-system/handlers"
	"github.com/blackrose-gg/guild-system/middleware"
	"github.com/blackrose-gg/guild-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes wires every handler onto the router. Every view window talks
// to these endpoints plus one websocket subscription per context.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	contextHandler *handlers.ContextHandler,
	bracketHandler *handlers.BracketHandler,
	broadcastHandler *handlers.BroadcastHandler,
	participantHandler *handlers.ParticipantHandler,
	profileHandler *handlers.ProfileHandler,
	queueHandler *handlers.QueueHandler,
	leaveHandler *handlers.LeaveHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	noticeHandler *handlers.NoticeHandler,
	auditHandler *handlers.AuditHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Websocket subscription; the token rides in a query parameter.
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/ws/contexts/{contextID}", webSocketHandler.ServeWs)
	})

	router.Route("/contexts", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/{contextID}/view", contextHandler.GetView)
		r.Get("/{contextID}/vs", broadcastHandler.GetVSView)
		r.Get("/{contextID}/banner", broadcastHandler.GetBannerView)

		r.Get("/{contextID}/participants", participantHandler.List)
		r.Post("/{contextID}/participants", participantHandler.Apply)
		r.Delete("/{contextID}/participants/self", participantHandler.Leave)

		// Manager mutations; fine-grained officer/admin scoping happens in the
		// services.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleOfficer, models.RoleAdmin))

			r.Post("/{contextID}/bracket", bracketHandler.Initialize)
			r.Delete("/{contextID}/bracket", bracketHandler.Reset)
			r.Post("/{contextID}/bracket/shuffle", bracketHandler.Shuffle)
			r.Post("/{contextID}/matches/{matchID}/winner", bracketHandler.DeclareWinner)
			r.Delete("/{contextID}/matches/{matchID}/slots/{slot}", bracketHandler.ClearSlot)
			r.Put("/{contextID}/matches/{matchID}/slots/{slot}", bracketHandler.AssignSlot)

			r.Put("/{contextID}/stream", broadcastHandler.SetStreamMatch)
			r.Put("/{contextID}/banner", broadcastHandler.SetBannerMatch)

			r.Put("/{contextID}/participants/{participantID}/approve", participantHandler.Approve)
			r.Put("/{contextID}/participants/{participantID}/deny", participantHandler.Deny)
			r.Put("/{contextID}/participants/{participantID}/points", participantHandler.SetPoints)
			r.Delete("/{contextID}/participants/{participantID}", participantHandler.Remove)
		})
	})

	router.Route("/guilds", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/", contextHandler.ListGuilds)
		r.Get("/{guildID}/queue", queueHandler.List)
		r.Post("/{guildID}/queue", queueHandler.Join)
		r.Delete("/{guildID}/queue/self", queueHandler.Leave)
		r.Get("/{guildID}/leaderboard", leaderboardHandler.List)
		r.Post("/{guildID}/leaderboard", leaderboardHandler.Submit)
		r.Get("/{guildID}/notices", noticeHandler.List)
		r.Post("/{guildID}/leaves", leaveHandler.File)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleOfficer, models.RoleAdmin))

			r.Put("/{guildID}/flags", contextHandler.UpdateGuildFlags)
			r.Post("/{guildID}/queue/pop", queueHandler.PopNext)
			r.Delete("/{guildID}/queue", queueHandler.Reset)
			r.Delete("/{guildID}/leaderboard/{recordID}", leaderboardHandler.Delete)
			r.Post("/{guildID}/notices", noticeHandler.Create)
			r.Delete("/{guildID}/notices/{noticeID}", noticeHandler.Delete)
			r.Get("/{guildID}/leaves", leaveHandler.ListByGuild)
			r.Put("/{guildID}/leaves/{requestID}/approve", leaveHandler.Approve)
			r.Put("/{guildID}/leaves/{requestID}/deny", leaveHandler.Deny)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/", contextHandler.ListTournaments)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Post("/", contextHandler.CreateTournament)
			r.Delete("/{id}", contextHandler.DeleteTournament)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/me", profileHandler.GetMe)
		r.Put("/me", profileHandler.Update)
		r.Post("/me/photo", profileHandler.UploadPhoto)
		r.Get("/{uid}", profileHandler.Get)
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))
		r.Get("/audit", auditHandler.ListRecent)
	})
}
