package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moodshare/internal/handler"
	"moodshare/internal/httputil"
	"moodshare/internal/service"
	"moodshare/internal/session"
	"moodshare/internal/transport/http/middleware"
	"moodshare/internal/web"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	PostHandler *handler.PostHandler
	FeedHandler *handler.FeedHandler
	WebHandlers *web.Handlers

	TokenService *service.TokenService
	UserService  *service.UserService
	Sessions     session.Store
}

// NewRouter creates and configures a chi router with the page routes and the
// /api route group.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// JSON API, bearer-token authenticated
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.TokenService, cfg.UserService))

			r.Get("/me", cfg.AuthHandler.Me)
			r.Get("/feed", cfg.FeedHandler.GetFeed)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", cfg.PostHandler.List)
				r.Post("/", cfg.PostHandler.Create)
				r.Get("/{id}", cfg.PostHandler.GetByID)
				r.Delete("/{id}", cfg.PostHandler.Delete)
				r.Post("/{id}/like", cfg.PostHandler.Like)
				r.Delete("/{id}/like", cfg.PostHandler.Unlike)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/{id}", cfg.UserHandler.GetByID)
				r.Get("/{id}/posts", cfg.UserHandler.GetPosts)
			})
		})
	})

	// Server-rendered pages, session authenticated
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(cfg.Sessions, cfg.UserService))

		w := cfg.WebHandlers
		r.Get("/login", w.Login)
		r.Post("/login", w.Login)
		r.Get("/logout", w.Logout)
		r.Get("/register", w.Register)
		r.Post("/register", w.Register)
		r.Get("/reset_password_request", w.ResetPasswordRequest)
		r.Post("/reset_password_request", w.ResetPasswordRequest)
		r.Get("/reset_password/{token}", w.ResetPassword)
		r.Post("/reset_password/{token}", w.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin)

			r.Get("/", w.Index)
			r.Post("/", w.Index)
			r.Get("/index", w.Index)
			r.Post("/index", w.Index)
			r.Get("/explore", w.Explore)
			r.Get("/user/{username}", w.UserProfile)
			r.Get("/edit_profile", w.EditProfile)
			r.Post("/edit_profile", w.EditProfile)
			r.Post("/follow/{username}", w.Follow)
			r.Post("/unfollow/{username}", w.Unfollow)
			r.Post("/like/{id}", w.Like)
			r.Post("/unlike/{id}", w.Unlike)
			r.Post("/delete/{id}", w.DeletePost)
			r.Get("/search", w.Search)
		})
	})

	return r
}
