package api

import (
	"github.com/gorilla/mux"
	"github.com/qalamdan/porsesh/internal/config"
	"github.com/qalamdan/porsesh/internal/db"
	"github.com/qalamdan/porsesh/internal/policy"
	"github.com/qalamdan/porsesh/internal/repository/sqlite"
	"github.com/qalamdan/porsesh/pkg/models"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, notifier policy.Notifier) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository and policy engine
	repo := sqlite.New(database)
	engine := policy.New(database, logger, notifier)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	questionsHandler := NewQuestionsHandler(repo, repo, repo, repo, repo, repo, engine)
	answersHandler := NewAnswersHandler(repo, engine)
	commentsHandler := NewCommentsHandler(repo, engine)
	votesHandler := NewVotesHandler(engine)
	taxonomyHandler := NewTaxonomyHandler(repo)
	usersHandler := NewUsersHandler(repo, repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// Public reads: visibility widens when a valid token identifies the viewer
	public := r.PathPrefix("/v1").Subrouter()
	public.Use(OptionalAuthMiddleware(cfg.JWTSecret, repo))
	public.HandleFunc("/questions", questionsHandler.List).Methods("GET")
	public.HandleFunc("/questions/{id}", questionsHandler.Get).Methods("GET")
	public.HandleFunc("/categories", taxonomyHandler.ListCategories).Methods("GET")
	public.HandleFunc("/tags", taxonomyHandler.ListTags).Methods("GET")
	public.HandleFunc("/users/{id}", usersHandler.Get).Methods("GET")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddleware(cfg.JWTSecret, repo))

	// Auth endpoints
	apiV1.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")

	// Content creation
	apiV1.HandleFunc("/questions", questionsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/questions/{id}/answers", answersHandler.Create).Methods("POST")
	apiV1.HandleFunc("/questions/{id}/comments", commentsHandler.Create(models.KindQuestion)).Methods("POST")
	apiV1.HandleFunc("/answers/{id}/comments", commentsHandler.Create(models.KindAnswer)).Methods("POST")

	// Moderation: publish and correctness
	apiV1.HandleFunc("/questions/{id}/publish", questionsHandler.Publish).Methods("POST")
	apiV1.HandleFunc("/answers/{id}/publish", answersHandler.Publish).Methods("POST")
	apiV1.HandleFunc("/comments/{id}/publish", commentsHandler.Publish).Methods("POST")
	apiV1.HandleFunc("/answers/{id}/toggle-correctness", answersHandler.ToggleCorrectness).Methods("POST")

	// Votes
	apiV1.HandleFunc("/questions/{id}/vote", votesHandler.Cast(models.KindQuestion)).Methods("POST")
	apiV1.HandleFunc("/answers/{id}/vote", votesHandler.Cast(models.KindAnswer)).Methods("POST")
	apiV1.HandleFunc("/comments/{id}/vote", votesHandler.Cast(models.KindComment)).Methods("POST")

	// Notifications
	apiV1.HandleFunc("/notifications", usersHandler.Notifications).Methods("GET")

	return r
}
