package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"
)

type TitleHandler struct {
	svc service.TitleService
}

func NewTitleHandler(svc service.TitleService) *TitleHandler {
	return &TitleHandler{svc: svc}
}

// RegisterRoutes attaches the policy per route rather than on the group:
// the reviews and comments groups nest under /titles and must not inherit
// the admin-only write rule.
func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	adminOnly := middleware.AdminOrReadOnly()
	rg.GET("", h.List)
	rg.POST("", adminOnly, h.Create)
	rg.GET("/:title_id", h.Get)
	rg.PATCH("/:title_id", adminOnly, h.Update)
	rg.DELETE("/:title_id", adminOnly, h.Delete)
}

func (h *TitleHandler) List(c *gin.Context) {
	filter := repository.TitleFilter{
		Name:     strings.TrimSpace(c.Query("name")),
		Category: strings.TrimSpace(c.Query("category")),
		Genre:    strings.TrimSpace(c.Query("genre")),
	}
	if yearStr := strings.TrimSpace(c.Query("year")); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year parameter"})
			return
		}
		filter.Year = &year
	}
	filter.Page, filter.PageSize = parsePagination(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, total, err := h.svc.List(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.TitleResponse, 0, len(list))
	for _, rt := range list {
		resp = append(resp, dto.TitleFromModel(rt.Title, rt.Rating))
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       resp,
		"pagination": paginationEnvelope(filter.Page, filter.PageSize, total),
	})
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rt, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TitleFromModel(rt.Title, rt.Rating))
}

func (h *TitleHandler) Create(c *gin.Context) {
	var in dto.WriteTitleDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rt, err := h.svc.Create(ctx, titleInput(in))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TitleFromModel(rt.Title, rt.Rating))
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	var in dto.WriteTitleDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rt, err := h.svc.Update(ctx, id, titleInput(in))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TitleFromModel(rt.Title, rt.Rating))
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func titleInput(in dto.WriteTitleDTO) service.TitleInput {
	return service.TitleInput{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
		Genre:       in.Genre,
		Category:    in.Category,
	}
}
