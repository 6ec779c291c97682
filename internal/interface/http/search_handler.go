package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/internal/application"
	"github.com/oksasatya/classical-review/pkg/response"
	"github.com/oksasatya/classical-review/pkg/validation"
)

type SearchHandler struct {
	Svc    *application.SearchService
	Logger *logrus.Logger
}

func NewSearchHandler(svc *application.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{Svc: svc, Logger: logger}
}

type composerQuery struct {
	Name  string `form:"name"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type compositionQuery struct {
	Title      string `form:"title"`
	ComposerID string `form:"composerId"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type userQuery struct {
	Q     string `form:"q"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type reviewQuery struct {
	CompositionID string `form:"compositionId"`
	UserID        string `form:"userId"`
	Q             string `form:"q"`
	Limit         int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

// Composers GET /api/search/composers?name=
func (h *SearchHandler) Composers(c *gin.Context) {
	var q composerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	list, err := h.Svc.Composers(c.Request.Context(), q.Name, q.Limit)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, mapAll(list, toComposer), "Composers.", nil)
}

// Composer GET /api/search/composers/:id
func (h *SearchHandler) Composer(c *gin.Context) {
	cp, err := h.Svc.Composer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toComposer(cp), "Composer.", nil)
}

// Compositions GET /api/search/compositions?title=&composerId=
func (h *SearchHandler) Compositions(c *gin.Context) {
	var q compositionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	list, err := h.Svc.Compositions(c.Request.Context(), q.Title, q.ComposerID, q.Limit)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, mapAll(list, toComposition), "Compositions.", nil)
}

// Composition GET /api/search/compositions/:id
func (h *SearchHandler) Composition(c *gin.Context) {
	cp, err := h.Svc.Composition(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toComposition(cp), "Composition.", nil)
}

// Users GET /api/search/users?q=
func (h *SearchHandler) Users(c *gin.Context) {
	var q userQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	list, err := h.Svc.Users(c.Request.Context(), q.Q, q.Limit)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, mapAll(list, toPublicUser), "Users.", nil)
}

// User GET /api/search/users/:id
func (h *SearchHandler) User(c *gin.Context) {
	u, err := h.Svc.User(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toPublicUser(u), "User.", nil)
}

// Reviews GET /api/search/reviews?compositionId=&userId=&q=
func (h *SearchHandler) Reviews(c *gin.Context) {
	var q reviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	list, err := h.Svc.Reviews(c.Request.Context(), application.ReviewQuery{
		CompositionID: q.CompositionID,
		UserID:        q.UserID,
		Text:          q.Q,
		Limit:         q.Limit,
	})
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, mapAll(list, toReview), "Reviews.", nil)
}

// Review GET /api/search/reviews/:id
func (h *SearchHandler) Review(c *gin.Context) {
	rv, err := h.Svc.Review(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toReview(rv), "Review.", nil)
}
