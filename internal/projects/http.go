package projects

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TheProSWPPP/swppp-interface/internal/projects/domain"
	"github.com/TheProSWPPP/swppp-interface/internal/projects/service"
)

type Handler struct {
	svc *service.ProjectService
}

// Register mounts the project and archive routes on the API group. The wire
// format is what the front end binds to: bare arrays and records on success,
// {"error": "..."} on failure.
func Register(rg *gin.RouterGroup, svc *service.ProjectService) {
	h := &Handler{svc: svc}

	rg.GET("/projects", h.list)
	rg.POST("/projects", h.create)
	rg.PUT("/projects/:id", h.update)
	rg.DELETE("/projects/:id", h.remove)
	rg.POST("/projects/:id/accept", h.accept)
	rg.POST("/projects/:id/approve", h.approve)

	rg.GET("/archive", h.listArchive)
	rg.POST("/archive/:id/restore", h.restore)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("New project received: %s", p.ProjectName)
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) accept(c *gin.Context) {
	p, err := h.svc.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) approve(c *gin.Context) {
	p, err := h.svc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) listArchive(c *gin.Context) {
	items, err := h.svc.ListArchived(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) restore(c *gin.Context) {
	p, err := h.svc.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Project id already exists"})
	case errors.Is(err, domain.ErrPreconditionFailed):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
