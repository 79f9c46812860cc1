package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/todo-be/internal/api/handlers"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators the router dispatches to.
type Dependencies struct {
	DB             *database.DB
	Resolver       *auth.Resolver
	Users          services.UserServiceProvider
	Tasks          services.TaskServiceProvider
	Events         services.EventServiceProvider
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "WWW-Authenticate"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(deps.Users)
	authHandler := handlers.NewAuthHandler(deps.Users)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	eventHandler := handlers.NewEventHandler(deps.Events)
	requireAccount := auth.JWTMiddleware(deps.DB, deps.Resolver)

	r.Get("/", handlers.Root)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.Get("/", userHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(requireAccount)
			r.Get("/me", userHandler.Me)
			r.Get("/me/events", eventHandler.Recent)
			r.Put("/{user_id}", userHandler.Update)
			r.Delete("/{user_id}", userHandler.Delete)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.Token)

		r.Group(func(r chi.Router) {
			r.Use(requireAccount)
			r.Post("/refresh_token", authHandler.Refresh)
			r.Get("/refresh_token", authHandler.Refresh)
		})
	})

	r.Route("/todos", func(r chi.Router) {
		r.Use(requireAccount)
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Route("/{todo_id}", func(r chi.Router) {
			r.Get("/", taskHandler.Get)
			r.Patch("/", taskHandler.Update)
			r.Put("/", taskHandler.Update)
			r.Delete("/", taskHandler.Delete)
		})
	})

	return r
}

// requestIDLogger tags the request logger with chi's request id.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("requestID", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Request handled")
}
