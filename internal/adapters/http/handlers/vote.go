package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// VoteHandler serves the endpoints that need a logged-in caller.
type VoteHandler struct {
	service *app.VoteService
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(service *app.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

// Like handles POST /api/v1/quotes/:id/like
//
// @Summary Like a quote
// @Tags votes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.VoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id}/like [post]
func (h *VoteHandler) Like(c *gin.Context) {
	h.vote(c, domain.VoteLike)
}

// Dislike handles POST /api/v1/quotes/:id/dislike
//
// @Summary Dislike a quote
// @Tags votes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.VoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id}/dislike [post]
func (h *VoteHandler) Dislike(c *gin.Context) {
	h.vote(c, domain.VoteDislike)
}

func (h *VoteHandler) vote(c *gin.Context, value domain.VoteValue) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	counts, err := h.service.SetVote(c.Request.Context(), middleware.Subject(c), id, int(value))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VoteResponse{QuoteID: id, Likes: counts.Likes, Dislikes: counts.Dislikes})
}

type scopedList func(ctx context.Context, subject string, filter domain.ListFilter, page app.PageRequest) (*app.QuotePage, error)

// Liked handles GET /api/v1/quotes/liked
//
// @Summary Quotes the caller liked
// @Tags votes
// @Produce json
// @Param q query string false "Case-insensitive source name substring"
// @Param kind query string false "Source kind (film, book, other)"
// @Param order query string false "likes, views or date"
// @Param dir query string false "asc or desc"
// @Param limit query int false "Page size"
// @Param cursor query string false "Cursor from a previous page"
// @Success 200 {object} dto.PaginatedResponse[dto.QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/quotes/liked [get]
func (h *VoteHandler) Liked(c *gin.Context) {
	h.list(c, "liked", h.service.Liked)
}

// Disliked handles GET /api/v1/quotes/disliked
//
// @Summary Quotes the caller disliked
// @Tags votes
// @Produce json
// @Param q query string false "Case-insensitive source name substring"
// @Param kind query string false "Source kind (film, book, other)"
// @Param order query string false "likes, views or date"
// @Param dir query string false "asc or desc"
// @Param limit query int false "Page size"
// @Param cursor query string false "Cursor from a previous page"
// @Success 200 {object} dto.PaginatedResponse[dto.QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/quotes/disliked [get]
func (h *VoteHandler) Disliked(c *gin.Context) {
	h.list(c, "disliked", h.service.Disliked)
}

// Unvoted handles GET /api/v1/quotes/unvoted
//
// @Summary Quotes the caller has not voted on
// @Tags votes
// @Produce json
// @Param q query string false "Case-insensitive source name substring"
// @Param kind query string false "Source kind (film, book, other)"
// @Param order query string false "likes, views or date"
// @Param dir query string false "asc or desc"
// @Param limit query int false "Page size"
// @Param cursor query string false "Cursor from a previous page"
// @Success 200 {object} dto.PaginatedResponse[dto.QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/quotes/unvoted [get]
func (h *VoteHandler) Unvoted(c *gin.Context) {
	h.list(c, "unvoted", h.service.Unvoted)
}

func (h *VoteHandler) list(c *gin.Context, scope string, fetch scopedList) {
	req, offset, ok := bindListRequest(c, scope)
	if !ok {
		return
	}

	page, err := fetch(c.Request.Context(), middleware.Subject(c), req.Filter(),
		app.PageRequest{Offset: offset, Limit: req.Limit})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPageResponse(page, req.QueryKey(scope)))
}

// RegisterRoutes registers the vote routes behind requireLogin.
func (h *VoteHandler) RegisterRoutes(rg *gin.RouterGroup, requireLogin gin.HandlerFunc) {
	quotes := rg.Group("/quotes", requireLogin)
	quotes.POST("/:id/like", h.Like)
	quotes.POST("/:id/dislike", h.Dislike)
	quotes.GET("/liked", h.Liked)
	quotes.GET("/disliked", h.Disliked)
	quotes.GET("/unvoted", h.Unvoted)
}
