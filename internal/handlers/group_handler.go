package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/heartlink-app/backend/internal/models"
	"github.com/heartlink-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// GroupHandler handles group-related HTTP requests
type GroupHandler struct {
	groupRepository repositories.GroupRepository
	userRepository  repositories.UserRepository
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupRepo repositories.GroupRepository, userRepo repositories.UserRepository) *GroupHandler {
	return &GroupHandler{
		groupRepository: groupRepo,
		userRepository:  userRepo,
	}
}

// RegisterGroupRoutes registers group routes
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/groups", h.CreateGroup)
	g.GET("/groups", h.GetMyGroups)
	g.GET("/groups/:group_id", h.GetGroup)
	g.POST("/groups/:group_id/join", h.JoinGroup)
	g.POST("/groups/:group_id/leave", h.LeaveGroup)
	g.GET("/groups/:group_id/members", h.GetMembers)
}

// CreateGroup creates a new group owned by the authenticated user
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     currentUserID,
	}

	if err := h.groupRepository.CreateGroup(c.Request().Context(), group); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, group)
}

// GetMyGroups lists the groups the authenticated user belongs to
func (h *GroupHandler) GetMyGroups(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	groups, err := h.groupRepository.GetGroupsByMember(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"groups": groups})
}

// GetGroup retrieves a single group
func (h *GroupHandler) GetGroup(c echo.Context) error {
	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), c.Param("group_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Group not found")
	}
	return c.JSON(http.StatusOK, group)
}

// JoinGroup adds the authenticated user to a group
func (h *GroupHandler) JoinGroup(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.groupRepository.AddMember(c.Request().Context(), c.Param("group_id"), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Group not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// LeaveGroup removes the authenticated user from a group
func (h *GroupHandler) LeaveGroup(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), c.Param("group_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Group not found")
	}

	if group.OwnerID == currentUserID {
		return echo.NewHTTPError(http.StatusConflict, "Group owner cannot leave the group")
	}

	if err := h.groupRepository.RemoveMember(c.Request().Context(), group.ID.Hex(), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetMembers lists a group's members
func (h *GroupHandler) GetMembers(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	group, err := h.groupRepository.GetGroupByID(c.Request().Context(), c.Param("group_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Group not found")
	}
	if !group.HasMember(currentUserID) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this group")
	}

	members := make([]models.UserCompact, 0, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		user, err := h.userRepository.GetUserByID(id)
		if err != nil {
			continue
		}
		members = append(members, user.ToCompact())
	}

	return c.JSON(http.StatusOK, echo.Map{"members": members})
}
