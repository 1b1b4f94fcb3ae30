package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometria/authcore/internal/application"
	"github.com/prometria/authcore/internal/domain"
	"github.com/prometria/authcore/internal/infrastructure/config"
	"github.com/prometria/authcore/internal/infrastructure/database"
	"github.com/prometria/authcore/internal/infrastructure/identity"
	"github.com/prometria/authcore/internal/infrastructure/jwt"
	"github.com/prometria/authcore/internal/infrastructure/payment"
	"github.com/prometria/authcore/internal/infrastructure/repository"
	"github.com/prometria/authcore/internal/interfaces/http/handlers"
	"github.com/prometria/authcore/internal/interfaces/http/middleware/auth"
	"github.com/prometria/authcore/internal/interfaces/http/middleware/ratelimit"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// AdminScope is the scope an access token must carry to manage clients.
const AdminScope = "authcore:admin"

type Router struct {
	router *chi.Mux
	db     *database.Postgres
}

func NewRouter(
	db *database.Postgres,
	cfg *config.Config,
	logger *zap.Logger,
) (*Router, error) {
	strategy, err := jwt.NewLocalStrategy(cfg.JWTKeyPath, logger)
	if err != nil {
		return nil, err
	}
	jwtService := jwt.NewJWTService(strategy, cfg.Issuer, cfg.JWTAccessDuration, logger)
	authMiddleware := auth.NewAuthMiddleware(jwtService, logger)

	clientRepo := repository.NewClientRepository(db, logger)
	sessionRepo := repository.NewSessionRepository(db, logger)
	codeRepo := repository.NewCodeRepository(db, logger)
	refreshRepo := repository.NewRefreshTokenRepository(db, logger)

	payments := payment.NewHTTPProvider(cfg.PaymentSetupURL, logger)
	authenticator := identity.NewHeaderAuthenticator(logger)
	stepPolicy := domain.NewStepPolicy(domain.StepGate{Scope: cfg.PaymentScope, Step: domain.StepSetup})

	registrationService := application.NewRegistrationService(clientRepo, logger)
	authorizationService := application.NewAuthorizationService(
		sessionRepo, codeRepo, clientRepo, payments, stepPolicy, cfg.SessionTTL, logger)
	tokenService := application.NewTokenService(codeRepo, refreshRepo, sessionRepo, jwtService, logger)

	registerHandler := handlers.NewRegisterHandler(registrationService, logger)
	authorizeHandler := handlers.NewAuthorizeHandler(authorizationService, cfg.LoginURL, logger)
	sessionHandler := handlers.NewSessionHandler(authorizationService, authenticator, logger)
	tokenHandler := handlers.NewTokenHandler(tokenService, logger)
	wellKnownHandler := handlers.NewWellKnownHandler(jwtService, cfg.Issuer, logger)
	clientHandler := handlers.NewClientHandler(registrationService, logger)

	router := createRouter()

	rateLimiter := ratelimit.NewRateLimiter(100, 200, 3*time.Minute)
	router.Use(rateLimiter.Middleware)

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := db.Ping(); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	// Swagger UI
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))
	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "docs/swagger.json")
	})

	// Public OAuth surface
	router.Group(func(r chi.Router) {
		r.Post("/register", registerHandler.Register)
		r.Get("/authorize", authorizeHandler.Authorize)
		r.Post("/token", tokenHandler.Token)
		r.Get("/.well-known/jwks.json", wellKnownHandler.JWKS)
		r.Get("/.well-known/openid-configuration", wellKnownHandler.OpenIDConfiguration)
	})

	// Internal session RPCs, called by the identity provider and the consent
	// screen backend behind the perimeter
	router.Route("/internal/sessions", func(r chi.Router) {
		r.Post("/{id}/confirm-login", sessionHandler.ConfirmLogin)
		r.Post("/{id}/payment-setup", sessionHandler.CompletePaymentSetup)
		r.Post("/{id}/authorize", sessionHandler.CompleteAuthorize)
		r.Post("/{id}/deny", sessionHandler.Deny)
	})

	// Admin client management
	router.Route("/admin/clients", func(r chi.Router) {
		r.Use(authMiddleware.Authenticator, authMiddleware.RequireScope(AdminScope))
		r.Get("/", clientHandler.ListClients)
		r.Get("/{id}", clientHandler.GetClient)
		r.Put("/{id}", clientHandler.UpdateClient)
		r.Delete("/{id}", clientHandler.DeleteClient)
	})

	return &Router{router: router, db: db}, nil
}

func createRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Timeout(60 * time.Second))

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
