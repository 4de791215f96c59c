package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"whattoeat/internal/identity"
	"whattoeat/internal/logging"
	"whattoeat/internal/places"
	"whattoeat/internal/recommend"
)

type recommendRequest struct {
	Location struct {
		City    string `json:"city" validate:"required"`
		Country string `json:"country" validate:"required"`
	} `json:"location"`
	AnonID string `json:"anonId"`
}

type recommendResponse struct {
	Food      string `json:"food"`
	ImageLink string `json:"imageLink"`
	AnonID    string `json:"anonId"`
}

// Recommend handles POST /.
func (h *Handler) Recommend(c echo.Context) error {
	var req recommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid request body"))
	}
	req.Location.City = strings.TrimSpace(req.Location.City)
	req.Location.Country = strings.TrimSpace(req.Location.Country)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("location.city and location.country are required"))
	}

	creds := identity.Credentials{
		Authorization: c.Request().Header.Get(echo.HeaderAuthorization),
		AnonBody:      req.AnonID,
	}
	if ck, err := c.Cookie(identity.CookieName); err == nil {
		creds.AnonCookie = ck.Value
	}
	id := h.resolver.Resolve(creds)
	if !id.Key.Durable || id.Minted {
		h.setAnonCookie(c, id.AnonID)
	}

	res, err := h.recommender.Recommend(c.Request().Context(), id.Key,
		recommend.Location{City: req.Location.City, Country: req.Location.Country})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, recommendResponse{Food: res.Food, ImageLink: res.ImageLink, AnonID: id.AnonID})
}

type restaurantsRequest struct {
	Location struct {
		Latitude  float64 `json:"latitude" validate:"latitude"`
		Longitude float64 `json:"longitude" validate:"longitude"`
	} `json:"location"`
	Food string `json:"food" validate:"required"`
}

// Restaurants handles POST /restaurants.
func (h *Handler) Restaurants(c echo.Context) error {
	var req restaurantsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid request body"))
	}
	req.Food = strings.TrimSpace(req.Food)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("food and a valid location are required"))
	}
	if h.restaurants == nil {
		return c.JSON(http.StatusBadGateway, message(places.ErrNotConfigured.Error()))
	}

	found, err := h.restaurants.Search(c.Request().Context(), places.Query{
		Food:      req.Food,
		Latitude:  req.Location.Latitude,
		Longitude: req.Location.Longitude,
	})
	if err != nil {
		logging.Warn().Err(err).Str("food", req.Food).Msg("restaurant search failed")
		return c.JSON(http.StatusBadGateway, message("restaurant search failed"))
	}
	return c.JSON(http.StatusOK, map[string]any{"places": found})
}
