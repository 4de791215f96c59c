package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"whattoeat/internal/auth"
)

// Register handles POST /register.
func (h *Handler) Register(c echo.Context) error {
	var req auth.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid request body"))
	}
	if err := h.accounts.Register(c.Request().Context(), req); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, message("User registered successfully"))
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    auth.Profile `json:"user"`
}

// Login handles POST /login.
func (h *Handler) Login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid request body"))
	}
	token, prof, err := h.accounts.Login(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, loginResponse{Message: "Login successful", Token: token, User: prof})
}

// User handles GET /user.
func (h *Handler) User(c echo.Context) error {
	prof, err := h.accounts.Profile(c.Request().Context(), accountEmail(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "User Found", "user": prof})
}

type savedFood struct {
	FoodName  string `json:"foodName"`
	ImageLink string `json:"imageLink"`
}

// SavedFood handles GET /saved-food.
func (h *Handler) SavedFood(c echo.Context) error {
	ctx := c.Request().Context()
	foods, err := h.history.GetHistory(ctx, accountEmail(c))
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]savedFood, 0, len(foods))
	for _, f := range foods {
		if f == "" || f == "None" {
			continue
		}
		out = append(out, savedFood{FoodName: f, ImageLink: h.recommender.ImageLink(ctx, f)})
	}
	return c.JSON(http.StatusOK, map[string]any{"food": out})
}

// SaveFood handles POST /save-food.
func (h *Handler) SaveFood(c echo.Context) error {
	var req struct {
		Food string `json:"food"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid request body"))
	}
	food := strings.ToLower(strings.TrimSpace(req.Food))
	if food == "" {
		return c.JSON(http.StatusBadRequest, message("food is required"))
	}
	if err := h.history.AppendHistory(c.Request().Context(), accountEmail(c), food); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, message("Success"))
}

// DeleteFood handles POST /delete-food.
func (h *Handler) DeleteFood(c echo.Context) error {
	var req struct {
		FoodName string `json:"foodName"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, message("invalid request body"))
	}
	food := strings.ToLower(strings.TrimSpace(req.FoodName))
	if food == "" {
		return c.JSON(http.StatusBadRequest, message("foodName is required"))
	}
	if err := h.history.RemoveHistory(c.Request().Context(), accountEmail(c), food); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, message("Success"))
}
