package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"texcat/internal/auth"
	"texcat/internal/httpserver/handlers"
	"texcat/internal/models"
	"texcat/internal/services"
)

// Deps bundles what the router wires into handlers.
type Deps struct {
	Tokens      *auth.TokenService
	Users       *services.UserService
	Collections *services.CollectionService
	Hangers     *services.HangerService
	Samples     *services.SampleService
	Log         *zap.SugaredLogger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Post("/v1/auth/login", handlers.Login(d.Users, d.Log))
	r.Post("/v1/auth/refresh", handlers.Refresh(d.Tokens, d.Log))
	r.Post("/v1/auth/forgot-password", handlers.ForgotPassword(d.Users, d.Log))
	r.Post("/v1/auth/reset-password", handlers.ResetPassword(d.Users, d.Log))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(d.Tokens))

		protected.Get("/v1/me", handlers.Me(d.Users, d.Log))
		protected.Patch("/v1/auth/password", handlers.ChangePassword(d.Users, d.Log))

		// Profile updates are self-or-admin; the handler decides.
		protected.Patch("/v1/users/{uuid}", handlers.UpdateUser(d.Users, d.Log))

		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(models.RoleAdmin))
			admin.Post("/v1/users", handlers.CreateUser(d.Users, d.Log))
			admin.Get("/v1/users", handlers.ListUsers(d.Users, d.Log))
			admin.Get("/v1/users/{uuid}", handlers.GetUser(d.Users, d.Log))
			admin.Post("/v1/users/{uuid}/status", handlers.ToggleUserStatus(d.Users, d.Log))
			admin.Delete("/v1/users/{uuid}", handlers.DeleteUser(d.Users, d.Log))
		})

		protected.Get("/v1/collections", handlers.ListCollections(d.Collections, d.Log))
		protected.Get("/v1/collections/{uuid}", handlers.GetCollection(d.Collections, d.Log))
		protected.Get("/v1/hangers", handlers.ListHangers(d.Hangers, d.Log))
		protected.Get("/v1/hangers/{uuid}", handlers.GetHanger(d.Hangers, d.Log))
		protected.Get("/v1/samples", handlers.ListSamples(d.Samples, d.Log))
		protected.Get("/v1/samples/{uuid}", handlers.GetSample(d.Samples, d.Log))

		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(models.RoleAdmin))
			admin.Post("/v1/collections", handlers.CreateCollection(d.Collections, d.Log))
			admin.Patch("/v1/collections/{uuid}", handlers.UpdateCollection(d.Collections, d.Log))
			admin.Post("/v1/collections/{uuid}/status", handlers.ToggleCollectionStatus(d.Collections, d.Log))
			admin.Delete("/v1/collections/{uuid}", handlers.DeleteCollection(d.Collections, d.Log))

			admin.Post("/v1/hangers", handlers.CreateHanger(d.Hangers, d.Log))
			admin.Patch("/v1/hangers/{uuid}", handlers.UpdateHanger(d.Hangers, d.Log))
			admin.Post("/v1/hangers/{uuid}/status", handlers.ToggleHangerStatus(d.Hangers, d.Log))
			admin.Delete("/v1/hangers/{uuid}", handlers.DeleteHanger(d.Hangers, d.Log))

			admin.Post("/v1/samples", handlers.CreateSample(d.Samples, d.Log))
			admin.Patch("/v1/samples/{uuid}", handlers.UpdateSample(d.Samples, d.Log))
			admin.Post("/v1/samples/{uuid}/status", handlers.ToggleSampleStatus(d.Samples, d.Log))
			admin.Delete("/v1/samples/{uuid}", handlers.DeleteSample(d.Samples, d.Log))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
