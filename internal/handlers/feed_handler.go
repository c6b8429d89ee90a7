package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/heartlink-app/backend/internal/growth"
	"github.com/heartlink-app/backend/internal/models"
	"github.com/heartlink-app/backend/internal/notify"
	"github.com/heartlink-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles HTTP requests for feeds, their comments and reactions
type FeedHandler struct {
	feedRepository    repositories.FeedRepository
	commentRepository repositories.CommentRepository
	userRepository    repositories.UserRepository
	groupRepository   repositories.GroupRepository
	growthService     *growth.Service
	dispatcher        *notify.Dispatcher
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedRepo repositories.FeedRepository, commentRepo repositories.CommentRepository, userRepo repositories.UserRepository, groupRepo repositories.GroupRepository, growthService *growth.Service, dispatcher *notify.Dispatcher) *FeedHandler {
	return &FeedHandler{
		feedRepository:    feedRepo,
		commentRepository: commentRepo,
		userRepository:    userRepo,
		groupRepository:   groupRepo,
		growthService:     growthService,
		dispatcher:        dispatcher,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.POST("/feeds", h.CreateFeed)
	g.GET("/feeds/:feed_id", h.GetFeed)
	g.DELETE("/feeds/:feed_id", h.DeleteFeed)
	g.GET("/groups/:group_id/feeds", h.GetGroupFeeds)
	g.GET("/users/:id/feeds", h.GetUserFeeds)
	g.POST("/feeds/:feed_id/comments", h.CreateComment)
	g.GET("/feeds/:feed_id/comments", h.GetComments)
	g.DELETE("/feeds/:feed_id/comments/:comment_id", h.DeleteComment)
	g.POST("/feeds/:feed_id/reactions", h.ToggleReaction)
}

func paginationParams(c echo.Context) (skip, limit int64) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 50 {
		size = 20
	}
	return int64((page - 1) * size), int64(size)
}

// CreateFeed creates a new feed and records the authoring activity on the
// author's companion.
func (h *FeedHandler) CreateFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateFeedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.GroupID != "" {
		group, err := h.groupRepository.GetGroupByID(c.Request().Context(), req.GroupID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		if !group.HasMember(currentUserID) {
			return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this group")
		}
	}

	feed := &models.Feed{
		FeedID:  uuid.NewString(),
		UserID:  currentUserID,
		GroupID: req.GroupID,
		Content: req.Content,
		Images:  req.Images,
	}

	if err := h.feedRepository.CreateFeed(c.Request().Context(), feed); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Companion growth rides on the same request; a failed counter write is
	// fatal here because the level transition cannot be determined.
	result, err := h.growthService.RecordActivity(c.Request().Context(), currentUserID, models.ActivityPost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"feed": feed, "growth": result})
}

// GetFeed retrieves a single feed
func (h *FeedHandler) GetFeed(c echo.Context) error {
	feed, err := h.feedRepository.GetFeedByID(c.Request().Context(), c.Param("feed_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feed not found")
	}
	return c.JSON(http.StatusOK, feed)
}

// DeleteFeed soft-deletes a feed owned by the authenticated user
func (h *FeedHandler) DeleteFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	feed, err := h.feedRepository.GetFeedByID(c.Request().Context(), c.Param("feed_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feed not found")
	}

	if feed.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this feed")
	}

	if err := h.feedRepository.DeleteFeed(c.Request().Context(), feed.FeedID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// GetGroupFeeds lists a group's feeds for its members
func (h *FeedHandler) GetGroupFeeds(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	groupID := c.Param("group_id")
	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), groupID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Group not found")
	}
	if !group.HasMember(currentUserID) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this group")
	}

	skip, limit := paginationParams(c)
	feeds, err := h.feedRepository.GetFeedsByGroupID(c.Request().Context(), groupID, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"feeds": feeds})
}

// GetUserFeeds lists a user's feeds
func (h *FeedHandler) GetUserFeeds(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	skip, limit := paginationParams(c)
	feeds, err := h.feedRepository.GetFeedsByUserID(c.Request().Context(), uint(userID), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"feeds": feeds})
}

// CreateComment creates a comment on a feed, notifies the feed owner and
// records the commenting activity on the commenter's companion.
func (h *FeedHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	feedID := c.Param("feed_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	feed, err := h.feedRepository.GetFeedByID(c.Request().Context(), feedID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feed not found")
	}

	comment := &models.Comment{
		CommentID: uuid.NewString(),
		FeedID:    feedID,
		UserID:    currentUserID,
		Content:   req.Content,
	}

	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Notify the feed owner, unless the author commented on their own feed
	if feed.UserID != currentUserID {
		commenter, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			if err := h.dispatcher.SendComment(c.Request().Context(), feed.UserID, currentUserID, commenter.Nickname, feedID, comment.CommentID); err != nil {
				log.Printf("comment notification failed for feed %s: %v", feedID, err)
			}
		}
	}

	go h.feedRepository.IncrementCommentCount(context.Background(), feedID)

	result, err := h.growthService.RecordActivity(c.Request().Context(), currentUserID, models.ActivityComment)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"comment": comment, "growth": result})
}

// GetComments lists a feed's comments, oldest first
func (h *FeedHandler) GetComments(c echo.Context) error {
	feedID := c.Param("feed_id")

	if _, err := h.feedRepository.GetFeedByID(c.Request().Context(), feedID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feed not found")
	}

	comments, err := h.commentRepository.GetCommentsByFeedID(c.Request().Context(), feedID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// DeleteComment soft-deletes a comment owned by the authenticated user
func (h *FeedHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID := c.Param("comment_id")
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), commentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.feedRepository.DecrementCommentCount(context.Background(), comment.FeedID)

	return c.NoContent(http.StatusNoContent)
}

// ToggleReaction toggles the authenticated user's reaction on a feed. A user
// holds at most one active reaction per feed; repeating the same type removes
// it and a different type replaces it. Adding a reaction notifies the feed
// owner unless the reactor owns the feed.
func (h *FeedHandler) ToggleReaction(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	feedID := c.Param("feed_id")

	var req models.ReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	feed, err := h.feedRepository.GetFeedByID(c.Request().Context(), feedID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Feed not found")
	}

	reactions, added := models.ApplyReaction(feed.Reactions, currentUserID, req.Type, time.Now())
	if err := h.feedRepository.SetReactions(c.Request().Context(), feedID, reactions); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if added && feed.UserID != currentUserID {
		reactor, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			if err := h.dispatcher.SendReaction(c.Request().Context(), feed.UserID, currentUserID, reactor.Nickname, feedID, req.Type); err != nil {
				log.Printf("reaction notification failed for feed %s: %v", feedID, err)
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "reactions": reactions})
}
