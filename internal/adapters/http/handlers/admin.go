package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteboard/internal/app"
)

// AdminHandler serves catalog administration.
type AdminHandler struct {
	catalog *app.CatalogService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(catalog *app.CatalogService) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

// ListSources handles GET /api/v1/admin/sources
//
// @Summary List sources
// @Tags admin
// @Produce json
// @Success 200 {object} dto.SourceListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/admin/sources [get]
func (h *AdminHandler) ListSources(c *gin.Context) {
	sources, err := h.catalog.ListSources(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SourceListResponse{Items: dto.NewSourceResponses(sources)})
}

// CreateSource handles POST /api/v1/admin/sources
//
// @Summary Create a source
// @Tags admin
// @Accept json
// @Produce json
// @Param source body dto.SourceRequest true "Source"
// @Success 201 {object} dto.SourceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/admin/sources [post]
func (h *AdminHandler) CreateSource(c *gin.Context) {
	var req dto.SourceRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	source, err := h.catalog.CreateSource(c.Request.Context(), app.SourceInput{Name: req.Name, Kind: req.Kind})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSourceResponse(source))
}

// UpdateSource handles PUT /api/v1/admin/sources/:id
//
// @Summary Update a source
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Source ID"
// @Param source body dto.SourceRequest true "Source"
// @Success 200 {object} dto.SourceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/admin/sources/{id} [put]
func (h *AdminHandler) UpdateSource(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SourceRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	source, err := h.catalog.UpdateSource(c.Request.Context(), id, app.SourceInput{Name: req.Name, Kind: req.Kind})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSourceResponse(source))
}

// DeleteSource handles DELETE /api/v1/admin/sources/:id
// Its quotes and their votes go with it.
//
// @Summary Delete a source
// @Tags admin
// @Param id path int true "Source ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/admin/sources/{id} [delete]
func (h *AdminHandler) DeleteSource(c *gin.Context) {
	h.remove(c, h.catalog.DeleteSource)
}

// CreateQuote handles POST /api/v1/admin/quotes
//
// @Summary Create a quote
// @Tags admin
// @Accept json
// @Produce json
// @Param quote body dto.QuoteRequest true "Quote"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/admin/quotes [post]
func (h *AdminHandler) CreateQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	quote, err := h.catalog.CreateQuote(c.Request.Context(), quoteInput(&req))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// UpdateQuote handles PUT /api/v1/admin/quotes/:id
// An omitted weight keeps the stored one.
//
// @Summary Update a quote
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param quote body dto.QuoteRequest true "Quote"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/admin/quotes/{id} [put]
func (h *AdminHandler) UpdateQuote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	quote, err := h.catalog.UpdateQuote(c.Request.Context(), id, quoteInput(&req))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// DeleteQuote handles DELETE /api/v1/admin/quotes/:id
//
// @Summary Delete a quote
// @Tags admin
// @Param id path int true "Quote ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/admin/quotes/{id} [delete]
func (h *AdminHandler) DeleteQuote(c *gin.Context) {
	h.remove(c, h.catalog.DeleteQuote)
}

// DeleteVote handles DELETE /api/v1/admin/votes/:id
//
// @Summary Delete a vote
// @Tags admin
// @Param id path int true "Vote ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/admin/votes/{id} [delete]
func (h *AdminHandler) DeleteVote(c *gin.Context) {
	h.remove(c, h.catalog.DeleteVote)
}

func (h *AdminHandler) remove(c *gin.Context, del func(ctx context.Context, id int64) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := del(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the admin routes behind guard.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	admin := rg.Group("/admin", guard)

	admin.GET("/sources", h.ListSources)
	admin.POST("/sources", h.CreateSource)
	admin.PUT("/sources/:id", h.UpdateSource)
	admin.DELETE("/sources/:id", h.DeleteSource)

	admin.POST("/quotes", h.CreateQuote)
	admin.PUT("/quotes/:id", h.UpdateQuote)
	admin.DELETE("/quotes/:id", h.DeleteQuote)

	admin.DELETE("/votes/:id", h.DeleteVote)
}

func quoteInput(req *dto.QuoteRequest) app.QuoteInput {
	return app.QuoteInput{Text: req.Text, SourceID: req.SourceID, Weight: req.Weight}
}
