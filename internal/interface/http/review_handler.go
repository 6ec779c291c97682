package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/internal/application"
	"github.com/oksasatya/classical-review/internal/interface/middleware"
	"github.com/oksasatya/classical-review/pkg/response"
	"github.com/oksasatya/classical-review/pkg/validation"
)

type ReviewHandler struct {
	Svc    *application.ReviewService
	Logger *logrus.Logger
}

func NewReviewHandler(svc *application.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Logger: logger}
}

type createReviewRequest struct {
	CompositionID string  `json:"compositionId" binding:"required"`
	Rating        int     `json:"rating" binding:"required,rating"`
	Comment       *string `json:"comment" binding:"omitempty,max=5000"`
}

type changeReviewRequest struct {
	Rating  int     `json:"rating" binding:"required,rating"`
	Comment *string `json:"comment" binding:"omitempty,max=5000"`
}

// Create POST /api/review
func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	rv, err := h.Svc.Create(c.Request.Context(), application.CreateReviewInput{
		UserID:        c.GetString(middleware.CtxUserIDKey),
		CompositionID: req.CompositionID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, toReview(rv), "Review created.", nil)
}

// Change PUT /api/review/:id
func (h *ReviewHandler) Change(c *gin.Context) {
	var req changeReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, h.Logger, validation.FromBinding(err))
		return
	}
	rv, err := h.Svc.Change(c.Request.Context(), application.ChangeReviewInput{
		UserID:   c.GetString(middleware.CtxUserIDKey),
		ReviewID: c.Param("id"),
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toReview(rv), "Review updated.", nil)
}

// Delete DELETE /api/review/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "Review deleted.", nil)
}

// Like POST /api/review/:id/like
func (h *ReviewHandler) Like(c *gin.Context) {
	if err := h.Svc.Like(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "Review liked.", nil)
}

// Unlike DELETE /api/review/:id/like
func (h *ReviewHandler) Unlike(c *gin.Context) {
	if err := h.Svc.Unlike(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "Review unliked.", nil)
}
