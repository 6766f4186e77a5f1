package handler

import (
	"errors"
	"net/http"

	"course_insights/internal/middleware"
	"course_insights/internal/model"
	"course_insights/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleHandler handles personal schedule requests
type ScheduleHandler struct {
	service service.ScheduleService
	log     *zap.Logger
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(s service.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{service: s, log: log}
}

// authorizeFor checks that the caller may act on username's schedule.
// Users may only touch their own; admins may touch anyone's.
func authorizeFor(c *gin.Context, username string) bool {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Not authorized")
		return false
	}
	if caller.IsAdmin() || caller.Username == username {
		return true
	}
	respondMessage(c, http.StatusForbidden, "Not authorized to access this schedule")
	return false
}

func (h *ScheduleHandler) AddToSchedule(c *gin.Context) {
	var req model.AddToScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if !authorizeFor(c, req.Username) {
		return
	}

	if err := h.service.AddSection(c.Request.Context(), req.Username, req.CRN); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		respondInternalError(c, h.log, "Error adding CRN to schedule", err)
		return
	}

	respondMessage(c, http.StatusOK, "CRN added to schedule successfully")
}

func (h *ScheduleHandler) RemoveFromSchedule(c *gin.Context) {
	var req model.RemoveFromScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if !authorizeFor(c, req.Username) {
		return
	}

	if err := h.service.RemoveSection(c.Request.Context(), req.Username, req.NewInstanceID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		respondInternalError(c, h.log, "Error removing section from schedule", err)
		return
	}

	respondMessage(c, http.StatusOK, "Section removed from schedule successfully")
}

func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	username := c.Param("username")
	if !authorizeFor(c, username) {
		return
	}

	refs, err := h.service.GetSchedule(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondMessage(c, http.StatusNotFound, "User not found")
			return
		}
		respondInternalError(c, h.log, "Error fetching user schedule", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": refs})
}

// RegisterScheduleRoutes registers schedule routes; all of them require authMW
func (h *ScheduleHandler) RegisterScheduleRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	scheduleRoutes := rg.Group("/user")
	scheduleRoutes.Use(authMW)
	{
		scheduleRoutes.POST("/addToSchedule", h.AddToSchedule)
		scheduleRoutes.POST("/removeFromSchedule", h.RemoveFromSchedule)
		scheduleRoutes.GET("/schedule/:username", h.GetSchedule)
	}
}
