package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/heartlink-app/backend/internal/models"
	"github.com/heartlink-app/backend/internal/notify"
	"github.com/heartlink-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// FriendshipHandler handles friend-request HTTP requests
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository
	dispatcher           *notify.Dispatcher
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository, dispatcher *notify.Dispatcher) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
		dispatcher:           dispatcher,
	}
}

// RegisterFriendshipRoutes registers friendship routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/requests", h.SendRequest)
	g.PUT("/friends/requests/:id", h.RespondToRequest)
	g.GET("/friends/requests", h.GetPendingRequests)
	g.GET("/friends", h.GetFriends)
}

// SendRequest sends a friend request and notifies the receiver
func (h *FriendshipHandler) SendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.ReceiverID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
	}

	if _, err := h.userRepository.GetUserByID(req.ReceiverID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Receiver not found")
	}

	if _, err := h.friendshipRepository.GetPendingRequestBetween(currentUserID, req.ReceiverID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "A pending friend request already exists")
	} else if err != gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	request := &models.FriendRequest{
		SenderID:   currentUserID,
		ReceiverID: req.ReceiverID,
		Status:     "pending",
	}

	if err := h.friendshipRepository.CreateRequest(request); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sender, err := h.userRepository.GetUserByID(currentUserID)
	if err == nil {
		if err := h.dispatcher.SendFriendRequest(c.Request().Context(), req.ReceiverID, currentUserID, sender.Nickname); err != nil {
			log.Printf("friend request notification failed for user %d: %v", req.ReceiverID, err)
		}
	}

	return c.JSON(http.StatusCreated, request)
}

// RespondToRequest accepts or rejects a pending friend request addressed to
// the authenticated user. Acceptance notifies the original sender.
func (h *FriendshipHandler) RespondToRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request ID")
	}

	var req models.UpdateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, err := h.friendshipRepository.GetRequestByID(uint(requestID))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
	}

	if request.ReceiverID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the receiver of this friend request")
	}
	if request.Status != "pending" {
		return echo.NewHTTPError(http.StatusConflict, "Friend request already handled")
	}

	request.Status = req.Status
	if err := h.friendshipRepository.UpdateRequest(request); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Status == "accepted" {
		accepter, err := h.userRepository.GetUserByID(currentUserID)
		if err == nil {
			if err := h.dispatcher.SendFriendAccepted(c.Request().Context(), request.SenderID, currentUserID, accepter.Nickname); err != nil {
				log.Printf("friend accepted notification failed for user %d: %v", request.SenderID, err)
			}
		}
	}

	return c.JSON(http.StatusOK, request)
}

// GetPendingRequests lists the pending friend requests addressed to the user
func (h *FriendshipHandler) GetPendingRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.friendshipRepository.GetPendingForReceiver(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}

// GetFriends lists the authenticated user's friends
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	friendIDs, err := h.friendshipRepository.GetFriendIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friends := make([]models.UserCompact, 0, len(friendIDs))
	for _, id := range friendIDs {
		user, err := h.userRepository.GetUserByID(id)
		if err != nil {
			continue
		}
		friends = append(friends, user.ToCompact())
	}

	return c.JSON(http.StatusOK, echo.Map{"friends": friends})
}
