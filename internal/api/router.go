package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jwpconsulting/projectify/internal/api/handler"
	customMiddleware "github.com/jwpconsulting/projectify/internal/api/middleware"
	"github.com/jwpconsulting/projectify/internal/config"
	"github.com/jwpconsulting/projectify/internal/notify"
	"github.com/jwpconsulting/projectify/internal/repository/postgres"
	"github.com/jwpconsulting/projectify/internal/repository/redis"
	"github.com/jwpconsulting/projectify/internal/security"
	"github.com/jwpconsulting/projectify/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	store := postgres.NewStore(db)
	notifier := notify.NewLogNotifier()

	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	// Initialize services
	authService := service.NewAuthService(store, jwtManager)
	workspaceService := service.NewWorkspaceService(store)
	projectService := service.NewProjectService(store)
	sectionService := service.NewSectionService(store)
	taskService := service.NewTaskService(store)
	subTaskService := service.NewSubTaskService(store)
	labelService := service.NewLabelService(store)
	memberService := service.NewTeamMemberService(store)
	inviteService := service.NewInviteService(store, notifier)
	chatService := service.NewChatMessageService(store)
	billingService := service.NewBillingService(store)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, rateLimiter)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	projectHandler := handler.NewProjectHandler(projectService)
	sectionHandler := handler.NewSectionHandler(sectionService)
	taskHandler := handler.NewTaskHandler(taskService)
	subTaskHandler := handler.NewSubTaskHandler(subTaskService)
	labelHandler := handler.NewLabelHandler(labelService)
	memberHandler := handler.NewTeamMemberHandler(memberService)
	inviteHandler := handler.NewInviteHandler(inviteService)
	chatHandler := handler.NewChatMessageHandler(chatService)
	billingHandler := handler.NewBillingHandler(billingService)

	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/me", authHandler.Me)

			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Post("/", workspaceHandler.Create)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Use(customMiddleware.WorkspaceContext)

					r.Get("/", workspaceHandler.Get)
					r.Patch("/", workspaceHandler.Update)
					r.Delete("/", workspaceHandler.Delete)

					r.Route("/projects", func(r chi.Router) {
						r.Get("/", projectHandler.List)
						r.Post("/", projectHandler.Create)
					})

					r.Route("/labels", func(r chi.Router) {
						r.Get("/", labelHandler.List)
						r.Post("/", labelHandler.Create)
					})

					r.Route("/members", func(r chi.Router) {
						r.Get("/", memberHandler.List)
						r.Patch("/prefs", memberHandler.UpdatePrefs)
					})

					r.Route("/invites", func(r chi.Router) {
						r.Post("/", inviteHandler.Create)
					})

					r.Route("/customer", func(r chi.Router) {
						r.Get("/", billingHandler.GetCustomer)
						r.Patch("/", billingHandler.UpdateCustomer)
					})
					r.Get("/quota", billingHandler.GetQuota)
				})
			})

			r.Route("/projects/{projectID}", func(r chi.Router) {
				r.Get("/", projectHandler.Get)
				r.Patch("/", projectHandler.Update)
				r.Delete("/", projectHandler.Delete)
				r.Post("/archive", projectHandler.Archive)
				r.Post("/unarchive", projectHandler.Unarchive)

				r.Route("/sections", func(r chi.Router) {
					r.Get("/", sectionHandler.List)
					r.Post("/", sectionHandler.Create)
				})
			})

			r.Route("/sections/{sectionID}", func(r chi.Router) {
				r.Get("/", sectionHandler.Get)
				r.Patch("/", sectionHandler.Update)
				r.Delete("/", sectionHandler.Delete)
				r.Post("/move", sectionHandler.Move)

				r.Route("/tasks", func(r chi.Router) {
					r.Get("/", taskHandler.List)
					r.Post("/", taskHandler.Create)
				})
			})

			r.Route("/tasks/{taskID}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Patch("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
				r.Post("/move", taskHandler.Move)
				r.Post("/move-after", taskHandler.MoveAfter)

				r.Put("/labels/{labelID}", taskHandler.AddLabel)
				r.Delete("/labels/{labelID}", taskHandler.RemoveLabel)

				r.Route("/sub-tasks", func(r chi.Router) {
					r.Post("/", subTaskHandler.Create)
				})

				r.Route("/chat", func(r chi.Router) {
					r.Get("/", chatHandler.List)
					r.Post("/", chatHandler.Create)
				})
			})

			r.Route("/sub-tasks/{subTaskID}", func(r chi.Router) {
				r.Patch("/", subTaskHandler.Update)
				r.Delete("/", subTaskHandler.Delete)
				r.Post("/move", subTaskHandler.Move)
			})

			r.Route("/labels/{labelID}", func(r chi.Router) {
				r.Patch("/", labelHandler.Update)
				r.Delete("/", labelHandler.Delete)
			})

			r.Route("/members/{memberID}", func(r chi.Router) {
				r.Patch("/", memberHandler.Update)
				r.Delete("/", memberHandler.Delete)
			})

			r.Route("/invites/{inviteID}", func(r chi.Router) {
				r.Delete("/", inviteHandler.Delete)
			})
		})
	})

	return r
}
