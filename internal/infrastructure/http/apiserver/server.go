// Package apiserver assembles the JSON API: router, middleware chain and
// the http.Server that serves it.
package apiserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/pantrymatch/v1/internal/infrastructure/config"
	"github.com/pantrymatch/v1/internal/infrastructure/http/handlers"
	"github.com/pantrymatch/v1/internal/infrastructure/http/middleware"
	"github.com/pantrymatch/v1/internal/infrastructure/monitoring"
	"github.com/pantrymatch/v1/internal/ports/inbound"
	"github.com/pantrymatch/v1/pkg/healthcheck"
)

// Services groups the use cases the API exposes
type Services struct {
	Ingredients inbound.IngredientService
	Pantry      inbound.PantryService
	Recipes     inbound.RecipeService
	Users       inbound.UserService
	Catalog     inbound.CatalogService
}

// Server represents the JSON API HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
	router  *chi.Mux
	limiter *middleware.RateLimiter
	metrics *monitoring.MetricsCollector
	health  *healthcheck.HealthCheck
}

// NewServer creates a new API server instance. metrics may be nil.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	services Services,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) *Server {
	rateCfg := cfg.RateLimit
	rateCfg.Enable = rateCfg.Enable && !cfg.IsDevelopment()

	s := &Server{
		config:  cfg,
		logger:  logger.Named("api-server"),
		metrics: metrics,
		health:  health,
		limiter: middleware.NewRateLimiter(rateCfg, logger, cfg.Monitoring.HealthCheckPath),
	}
	s.router = s.setupRoutes(services)

	var handler http.Handler = s.router
	handler = otelhttp.NewHandler(handler, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	)
	if cfg.Server.EnableH2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       zap.NewStdLog(s.logger),
	}

	return s
}

func (s *Server) setupRoutes(services Services) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger, s.config.Monitoring.HealthCheckPath, s.config.Monitoring.MetricsPath))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           s.config.CORS.MaxAge,
	}))
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}
	r.Use(s.limiter.For(config.RateGlobal))
	if s.config.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	}
	if s.config.Server.EnableCompression {
		r.Use(newCompressor().Handler)
	}

	r.Method(http.MethodGet, s.config.Monitoring.HealthCheckPath, s.health.Handler())
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}
	r.Get("/openapi.yaml", ServeOpenAPISpec)

	catalogH := handlers.NewCatalogHandlers(services.Ingredients, services.Catalog, s.logger)
	userH := handlers.NewUserHandlers(services.Users, s.logger)
	pantryH := handlers.NewPantryHandlers(services.Pantry, s.logger)
	recipeH := handlers.NewRecipeHandlers(services.Recipes, s.logger)

	r.Get("/ingredients", catalogH.Ingredients)
	r.Get("/categories", catalogH.Categories)
	r.Get("/cuisines", catalogH.Cuisines)

	limit := s.limiter.For
	r.Route("/users", func(r chi.Router) {
		r.With(limit(config.RateUsersCreate)).Post("/", userH.CreateUser)
		r.Get("/", userH.GetUserByEmail)

		r.Route("/{user_id}", func(r chi.Router) {
			r.With(limit(config.RateIngredientsAdd)).Post("/ingredients", pantryH.AddIngredients)
			r.With(limit(config.RateIngredientsList)).Get("/ingredients", pantryH.ListIngredients)
			r.With(limit(config.RateIngredientsDelete)).Delete("/ingredients", pantryH.RemoveIngredients)
			r.With(limit(config.RateIngredientsUpdate)).Put("/ingredients/{id}", pantryH.ReplaceIngredient)

			r.With(limit(config.RateRecipesRecommendations)).Get("/recipes/recommended-recipes", recipeH.Recommendations)
			r.With(limit(config.RateRecipesDetails)).Get("/recipes/recommended-recipes/{recipe_id}", recipeH.Detail)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Not found"}`+"\n")
	})

	return r
}

// newCompressor compresses JSON and YAML bodies with brotli or gzip
func newCompressor() *chimiddleware.Compressor {
	c := chimiddleware.NewCompressor(5, "application/json", "application/x-yaml", "text/plain")
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c
}

// Handler exposes the fully wrapped handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr is the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start blocks serving requests until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.Bool("h2c", s.config.Server.EnableH2C),
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	s.limiter.Stop()
	return s.server.Shutdown(ctx)
}
