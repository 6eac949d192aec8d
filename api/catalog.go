package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelkov/tripdesk/internal/domain"
	"github.com/avelkov/tripdesk/internal/service/catalog"
)

type CatalogHandler struct {
	service catalog.CatalogUseCase
}

type reorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func NewCatalogHandler(service catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("/:resource", h.list)
	router.PATCH("/:resource/reorder", h.reorder)
}

func (h *CatalogHandler) list(c *gin.Context) {
	resource := domain.CatalogResource(c.Param("resource"))
	entries, err := h.service.List(c.Request.Context(), resource)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownResource) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// reorder receives the full desired ID order in one request; the backend
// alone assigns the resulting positions. The response carries no body the
// client needs — it has already applied the move optimistically.
func (h *CatalogHandler) reorder(c *gin.Context) {
	resource := domain.CatalogResource(c.Param("resource"))

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Reorder(c.Request.Context(), resource, req.IDs); err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownResource):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrReorderInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
