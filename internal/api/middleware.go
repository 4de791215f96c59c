package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"whattoeat/internal/identity"
	"whattoeat/internal/logging"
)

const emailKey = "email"

// requireAuth rejects requests without a valid bearer token and stores the
// token's email on the context.
func requireAuth(tokens identity.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := identity.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" || tokens == nil {
				return c.JSON(http.StatusUnauthorized, message("Unauthorized"))
			}
			email, err := tokens.VerifyToken(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, message("Unauthorized"))
			}
			c.Set(emailKey, email)
			return next(c)
		}
	}
}

func accountEmail(c echo.Context) string {
	email, _ := c.Get(emailKey).(string)
	return email
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

func newValidator() echo.Validator {
	return &requestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logging.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = logging.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// ServerConfig holds transport-level settings.
type ServerConfig struct {
	// AllowOrigins lists browser origins allowed to send credentialed requests.
	AllowOrigins []string
	// RateLimitRPS is the per-client request rate. Zero disables limiting.
	RateLimitRPS float64
}

// NewServer builds an echo instance with the middleware stack and h's routes.
func NewServer(h *Handler, cfg ServerConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(middleware.Secure())
	if len(cfg.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.AllowOrigins,
			AllowCredentials: true,
		}))
	} else {
		e.Use(middleware.CORS())
	}
	if cfg.RateLimitRPS > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitRPS))))
	}

	h.RegisterRoutes(e)
	return e
}
