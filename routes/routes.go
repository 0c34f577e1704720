package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/docs"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/handlers"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Sessions       middleware.SessionSource
	WebSocket      http.Handler
}

type Handlers struct {
	Health     *handlers.HealthHandler
	Session    *handlers.SessionHandler
	Categories *handlers.CategoryHandler
	Screens    *handlers.ScreenHandler
	Events     *handlers.EventHandler
	Social     *handlers.SocialHandler
}

func SetupRoutes(router chi.Router, opts Options, h Handlers) {
	handlers.SetLogger(opts.Logger)

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", h.Health.Health)
	router.Get("/swagger/doc.json", docs.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Handle("/ws", opts.WebSocket)

	router.Route("/session", func(r chi.Router) {
		r.Put("/", h.Session.SetSession)
		r.Get("/", h.Session.GetSession)
		r.Delete("/", h.Session.ClearSession)
	})

	router.Route("/categories", func(r chi.Router) {
		r.Get("/", h.Categories.List)
		r.Get("/normalize", h.Categories.Normalize)
	})

	// Всё остальное работает только от имени вошедшего пользователя
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(opts.Sessions))
		r.Use(chiMiddleware.Timeout(60 * time.Second))

		r.Route("/screens", func(r chi.Router) {
			r.Route("/events/{eventID}", func(r chi.Router) {
				r.Get("/", h.Screens.GetEventDetail)
				r.Delete("/", h.Screens.CloseEventDetail)
				r.Post("/join", h.Screens.JoinEvent)
				r.Post("/leave", h.Screens.RequestLeave)
				r.Post("/leave/confirm", h.Screens.ConfirmLeave)
				r.Post("/leave/cancel", h.Screens.CancelLeave)
			})

			r.Route("/friend-requests", func(r chi.Router) {
				r.Get("/", h.Screens.GetFriendRequests)
				r.Post("/{requestID}/accept", h.Screens.AcceptFriendRequest)
				r.Post("/{requestID}/reject", h.Screens.RejectFriendRequest)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Screens.GetNotifications)
				r.Post("/read-all", h.Screens.MarkAllNotificationsRead)
				r.Post("/{notificationID}/read", h.Screens.MarkNotificationRead)
			})

			r.Get("/participated-events", h.Screens.GetParticipatedEvents)
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.Events.CreateEvent)
			r.Get("/{eventID}/ratings", h.Events.ListRatings)
			r.Post("/{eventID}/ratings", h.Events.CreateRating)
		})

		r.Route("/ratings/{ratingID}", func(r chi.Router) {
			r.Put("/", h.Events.UpdateRating)
			r.Delete("/", h.Events.DeleteRating)
		})

		r.Post("/users/{userID}/report", h.Social.ReportUser)

		r.Route("/messages", func(r chi.Router) {
			r.Get("/conversations", h.Social.ListConversations)
			r.Delete("/item/{messageID}", h.Social.DeleteMessage)
			r.Get("/{userID}", h.Social.GetThread)
			r.Post("/{userID}", h.Social.SendMessage)
			r.Put("/{userID}/read", h.Social.MarkThreadRead)
		})

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", h.Social.ListFriends)
			r.Delete("/{friendshipID}", h.Social.RemoveFriend)
		})
	})
}
