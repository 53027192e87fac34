package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteboard/internal/app"
)

// QuoteHandler serves the public quote endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// List handles GET /api/v1/quotes
//
// @Summary List quotes
// @Description Returns a filtered page of quotes together with the leaderboard
// @Tags quotes
// @Produce json
// @Param q query string false "Case-insensitive source name substring"
// @Param kind query string false "Source kind (film, book, other)"
// @Param order query string false "likes, views or date"
// @Param dir query string false "asc or desc"
// @Param limit query int false "Page size"
// @Param cursor query string false "Cursor from a previous page"
// @Success 200 {object} dto.QuoteListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	req, offset, ok := bindListRequest(c, "all")
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.Filter(), app.PageRequest{Offset: offset, Limit: req.Limit})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteListResponse{
		PaginatedResponse: *newPageResponse(&result.Page, req.QueryKey("all")),
		Top:               dto.NewQuoteResponses(result.Top),
	})
}

// Top handles GET /api/v1/quotes/top
//
// @Summary Leaderboard
// @Tags quotes
// @Produce json
// @Param n query int false "Number of quotes (default 10, max 100)"
// @Success 200 {object} dto.TopResponse
// @Router /api/v1/quotes/top [get]
func (h *QuoteHandler) Top(c *gin.Context) {
	var req dto.TopRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	top, err := h.service.Top(c.Request.Context(), req.N)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TopResponse{Items: dto.NewQuoteResponses(top)})
}

// Random handles GET /api/v1/quotes/random
// Returns 204 when there are no quotes.
//
// @Summary Weighted random quote
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.QuoteResponse
// @Success 204
// @Router /api/v1/quotes/random [get]
func (h *QuoteHandler) Random(c *gin.Context) {
	quote, err := h.service.Random(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if quote == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// Get handles GET /api/v1/quotes/:id
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	quote, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// RecordView handles POST /api/v1/quotes/:id/views
//
// @Summary Count a view
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.ViewResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id}/views [post]
func (h *QuoteHandler) RecordView(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	views, err := h.service.RecordView(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ViewResponse{QuoteID: id, Views: views})
}

// RegisterRoutes registers the public quote routes.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.List)
	quotes.GET("/top", h.Top)
	quotes.GET("/random", h.Random)
	quotes.GET("/:id", h.Get)
	quotes.POST("/:id/views", h.RecordView)
}

// pathID parses the :id parameter, writing a 400 when it is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, "id must be a positive integer")
		return 0, false
	}

	return id, true
}

// bindListRequest binds the list query and resolves its cursor for scope.
func bindListRequest(c *gin.Context, scope string) (*dto.ListQuotesRequest, int, bool) {
	var req dto.ListQuotesRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return nil, 0, false
	}

	offset, err := req.Offset(req.QueryKey(scope))
	if err != nil {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, err.Error())
		return nil, 0, false
	}

	return &req, offset, true
}

func newPageResponse(page *app.QuotePage, queryKey string) *dto.PaginatedResponse[dto.QuoteResponse] {
	return dto.NewPaginatedResponse(
		dto.NewQuoteResponses(page.Items),
		page.HasMore,
		dto.NewCursor(page.NextOffset, queryKey),
	)
}
