package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/padelpoint/padel-system/handlers"
	"github.com/padelpoint/padel-system/middleware"
	"github.com/padelpoint/padel-system/models"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	Player     *handlers.PlayerHandler
	Bracket    *handlers.BracketHandler
	Match      *handlers.MatchHandler
	WebSocket  *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret string, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	organizerOnly := middleware.Authorize(models.RoleOrganizer)

	router.Post("/auth/register", h.Auth.RegisterHandler)
	router.Post("/auth/login", h.Auth.LoginHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetHandler)
		r.Get("/{tournamentID}/categories", h.Tournament.ListCategoriesHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Post("/", h.Tournament.CreateHandler)
			r.Put("/{tournamentID}", h.Tournament.UpdateHandler)
			r.Patch("/{tournamentID}/status", h.Tournament.ChangeStatusHandler)
			r.Delete("/{tournamentID}", h.Tournament.DeleteHandler)
			r.Post("/{tournamentID}/poster", h.Tournament.UploadPosterHandler)
			r.Post("/{tournamentID}/categories", h.Tournament.AddCategoryHandler)
		})
	})

	router.Route("/categories/{categoryID}", func(r chi.Router) {
		r.Get("/teams", h.Team.ListByCategoryHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Post("/teams", h.Team.RegisterHandler)
			r.Delete("/", h.Tournament.DeleteCategoryHandler)
		})
	})

	router.Route("/teams/{teamID}", func(r chi.Router) {
		r.Get("/", h.Team.GetHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Delete("/", h.Team.RemoveHandler)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", h.Player.GetHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", h.Player.CreateHandler)
			r.Post("/{playerID}/photo", h.Player.UploadPhotoHandler)
		})
	})

	router.Route("/brackets", func(r chi.Router) {
		r.Get("/{bracketID}", h.Bracket.GetHandler)
		r.Get("/{bracketID}/standings", h.Bracket.StandingsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Post("/", h.Bracket.CreateHandler)
			r.Post("/{bracketID}/generate", h.Bracket.GenerateHandler)
			r.Put("/{bracketID}/groups", h.Bracket.AssignGroupsHandler)
			r.Post("/{bracketID}/publish", h.Bracket.PublishHandler)
			r.Post("/{bracketID}/knockout", h.Bracket.GenerateKnockoutHandler)
			r.Post("/{bracketID}/rounds/next", h.Bracket.NextRoundHandler)
			r.Post("/{bracketID}/standings/recompute", h.Bracket.RecomputeStandingsHandler)
			r.Post("/{bracketID}/teams/{teamID}/withdraw", h.Match.WithdrawTeamHandler)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", h.Match.GetHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Put("/score", h.Match.RecordScoreHandler)
			r.Post("/advance", h.Match.ManualAdvanceHandler)
		})
	})

	router.Get("/ws/brackets/{bracketID}", h.WebSocket.ServeWs)

	return router
}
