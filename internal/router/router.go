package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"adlens/docs"
	"adlens/internal/auth"
	"adlens/internal/config"
	apperrors "adlens/internal/errors"
	"adlens/internal/handler"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Seed     *handler.SeedHandler
	Analysis *handler.AnalysisHandler
	Events   *handler.EventsHandler
	// Media is set when objects are stored on local disk.
	Media *handler.MediaHandler
}

// Security carries what the bearer middleware needs.
type Security struct {
	JWT    *auth.JWTService
	Tokens auth.TokenStoreInterface
	Users  auth.UserLoader
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, logger zerolog.Logger, sec Security, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(corsConfig(cfg.CORS.FrontendURL)))

	e.Validator = NewValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	if cfg.Swagger.Host != "" {
		docs.SwaggerInfo.Host = cfg.Swagger.Host
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	bearer := auth.JWTMiddleware(sec.JWT, sec.Tokens, auth.HeaderLookup)
	bearerOrQuery := auth.JWTMiddleware(sec.JWT, sec.Tokens, auth.HeaderOrQueryLookup)
	loadUser := auth.LoadUser(sec.Users)

	// Media files follow the visibility of their analysis.
	if h.Media != nil {
		e.GET("/media/analyses/:id/*", h.Media.ServeMedia, bearerOrQuery, loadUser)
	}

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/me", h.Auth.Me, bearer)

	// Websocket clients cannot always set headers, so the stream also accepts ?token=.
	api.GET("/analyses/:id/events", h.Events.Stream, bearerOrQuery, loadUser)

	// Secured routes (require JWT authentication)
	secured := api.Group("", bearer, loadUser)

	secured.GET("/users", h.User.ListUsers, auth.RequireAdmin)
	secured.POST("/seed/users", h.Seed.SeedUsers, auth.RequireAdmin)

	secured.GET("/analyses", h.Analysis.ListAnalyses)
	secured.POST("/analyses", h.Analysis.CreateAnalysis)
	secured.GET("/analyses/compare", h.Analysis.CompareAnalyses)
	secured.POST("/analyses/upload", h.Analysis.UploadVideo,
		middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxUploadMB)),
		uploadRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
	)
	secured.GET("/analyses/:id", h.Analysis.GetAnalysis)
	secured.PATCH("/analyses/:id", h.Analysis.UpdateAnalysis)
	secured.DELETE("/analyses/:id", h.Analysis.DeleteAnalysis)
	secured.POST("/analyses/:id/copy-suggestions", h.Analysis.CopySuggestions)
}

func corsConfig(frontendURL string) middleware.CORSConfig {
	cfg := middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}
	if frontendURL != "" {
		cfg.AllowOrigins = []string{frontendURL}
		cfg.AllowCredentials = true
	}
	return cfg
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logger.Info()
			if v.Error != nil {
				ev = logger.Error().Err(v.Error)
				if v.Status < http.StatusInternalServerError {
					ev = logger.Warn().Err(v.Error)
				}
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Str("remote_ip", v.RemoteIP).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// uploadRateLimiter throttles uploads per user, falling back to the client IP.
func uploadRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 10 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if user := auth.CurrentUser(c); user != nil {
				return "user:" + user.ID, nil
			}
			return "ip:" + c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: "Too many uploads, please wait a moment.",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the validator installed on the server.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
