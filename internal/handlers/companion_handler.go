package handlers

import (
	"net/http"

	"github.com/heartlink-app/backend/internal/growth"
	"github.com/heartlink-app/backend/internal/models"
	"github.com/heartlink-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CompanionHandler handles companion-related HTTP requests
type CompanionHandler struct {
	companionRepository repositories.CompanionRepository
}

// NewCompanionHandler creates a new CompanionHandler
func NewCompanionHandler(companionRepo repositories.CompanionRepository) *CompanionHandler {
	return &CompanionHandler{companionRepository: companionRepo}
}

// RegisterCompanionRoutes registers companion routes
func (h *CompanionHandler) RegisterCompanionRoutes(g *echo.Group) {
	g.GET("/companion", h.GetCompanion)
	g.POST("/companion/chat", h.Chat)
	g.GET("/companion/growth", h.GetGrowth)
}

// GetCompanion returns the authenticated user's companion along with its
// current appearance, creating a level-1 companion on first access.
func (h *CompanionHandler) GetCompanion(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	companion, err := h.companionRepository.GetOrCreate(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"companion":  companion,
		"appearance": models.CompanionAppearances[companion.Level],
	})
}

// ChatRequest defines the request body for chatting with the companion
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// Chat returns the companion's scripted reply for its level and refreshes
// the last interaction timestamp.
func (h *CompanionHandler) Chat(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	companion, err := h.companionRepository.Touch(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Companion not found")
	}

	reply, ok := models.CompanionChatReplies[companion.Level]
	if !ok {
		reply = "안녕하세요!"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":    reply,
		"appearance": models.CompanionAppearances[companion.Level],
	})
}

// GetGrowth reports the companion's counters, level and progress toward the
// next level.
func (h *CompanionHandler) GetGrowth(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	companion, err := h.companionRepository.GetOrCreate(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	score := growth.Score(companion.PostCount, companion.CommentCount)

	return c.JSON(http.StatusOK, echo.Map{
		"companion":  companion,
		"appearance": models.CompanionAppearances[companion.Level],
		"growth": echo.Map{
			"post_count":          companion.PostCount,
			"comment_count":       companion.CommentCount,
			"current_level":       companion.Level,
			"next_level_progress": growth.Progress(score, companion.Level),
		},
	})
}
