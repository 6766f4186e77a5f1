package handler

import (
	"context"
	"net/http"

	"course_insights/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the read-only catalog collections
type CatalogHandler struct {
	service service.CatalogService
	log     *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(s service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{service: s, log: log}
}

// listHandler adapts a fetch-all method to a gin handler. Empty collections
// are rendered as [] rather than null.
func listHandler[T any](h *CatalogHandler, name string, list func(context.Context) ([]T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := list(c.Request.Context())
		if err != nil {
			respondInternalError(c, h.log, "Failed to fetch "+name, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// RegisterCatalogRoutes registers the catalog routes; none require authentication
func (h *CatalogHandler) RegisterCatalogRoutes(rg *gin.RouterGroup) {
	rg.GET("/dept", listHandler(h, "departments", h.service.ListDepts))
	rg.GET("/course", listHandler(h, "courses", h.service.ListCourses))
	rg.GET("/instructor", listHandler(h, "instructors", h.service.ListInstructors))
	rg.GET("/pastInstance", listHandler(h, "past instances", h.service.ListPastInstances))
	rg.GET("/instructorCourseStat", listHandler(h, "instructor course stats", h.service.ListInstructorCourseStats))
	rg.GET("/newInstance", listHandler(h, "new instances", h.service.ListNewInstances))
}
