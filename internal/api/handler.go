// Package api exposes the recommendation, account and saved-food endpoints
// over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"whattoeat/internal/auth"
	"whattoeat/internal/identity"
	"whattoeat/internal/places"
	"whattoeat/internal/recommend"
	"whattoeat/internal/session"
)

type Recommender interface {
	Recommend(ctx context.Context, key session.Key, loc recommend.Location) (recommend.Result, error)
	ImageLink(ctx context.Context, food string) string
}

type Accounts interface {
	Register(ctx context.Context, req auth.RegisterRequest) error
	Login(ctx context.Context, req auth.LoginRequest) (string, auth.Profile, error)
	Profile(ctx context.Context, email string) (auth.Profile, error)
}

type History interface {
	GetHistory(ctx context.Context, email string) ([]string, error)
	AppendHistory(ctx context.Context, email, food string) error
	RemoveHistory(ctx context.Context, email, food string) error
}

type RestaurantFinder interface {
	Search(ctx context.Context, q places.Query) ([]places.Restaurant, error)
}

// Deps wires a Handler. Restaurants may be nil, in which case the
// restaurants endpoint reports the search as unavailable.
type Deps struct {
	Recommender Recommender
	Accounts    Accounts
	History     History
	Restaurants RestaurantFinder
	Tokens      identity.TokenVerifier

	// CookieTTL is the lifetime of the anonymous id cookie.
	CookieTTL time.Duration
	// Production issues the cookie Secure with SameSite=Strict.
	Production bool
}

type Handler struct {
	recommender Recommender
	accounts    Accounts
	history     History
	restaurants RestaurantFinder
	tokens      identity.TokenVerifier
	resolver    *identity.Resolver
	cookieTTL   time.Duration
	production  bool
	now         func() time.Time
}

func NewHandler(d Deps) *Handler {
	ttl := d.CookieTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Handler{
		recommender: d.Recommender,
		accounts:    d.Accounts,
		history:     d.History,
		restaurants: d.Restaurants,
		tokens:      d.Tokens,
		resolver:    identity.NewResolver(d.Tokens),
		cookieTTL:   ttl,
		production:  d.Production,
		now:         time.Now,
	}
}

// RegisterRoutes registers all routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	authed := requireAuth(h.tokens)

	e.POST("/", h.Recommend)
	e.POST("/restaurants", h.Restaurants, authed)

	e.POST("/register", h.Register)
	e.POST("/login", h.Login)
	e.GET("/user", h.User, authed)

	e.POST("/save-food", h.SaveFood, authed)
	e.GET("/saved-food", h.SavedFood, authed)
	e.POST("/delete-food", h.DeleteFood, authed)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
