package review

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func idParam(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}

func pageQuery(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return limit, offset
}

// POST /reviews
func (h *Handler) Create(c *gin.Context) {
	var in CreateReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BindError(c, err)
		return
	}

	rv, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"review": rv})
}

// GET /users/me/reviews
func (h *Handler) GetMyReviews(c *gin.Context) {
	items, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": itemsOf(items)})
}

// DELETE /reviews/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := idParam(c, "review")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetByRoom lists the approved reviews of a room.
// GET /rooms/:id/reviews?limit=&offset=
func (h *Handler) GetByRoom(c *gin.Context) {
	id, ok := idParam(c, "room")
	if !ok {
		return
	}
	limit, offset := pageQuery(c)
	items, err := h.service.ListForRoom(c.Request.Context(), id, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]gin.H, len(items))
	for i, rv := range items {
		out[i] = gin.H{"id": rv.ID, "rating": rv.Rating, "comment": rv.Comment, "created_at": rv.CreatedAt}
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": out})
}

// GET /admin/reviews?status=&limit=&offset=
func (h *Handler) List(c *gin.Context) {
	limit, offset := pageQuery(c)
	items, total, err := h.service.List(c.Request.Context(), domain.ReviewStatus(c.Query("status")), limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ReviewListResponse{Reviews: itemsOf(items), Total: total})
}

// PATCH /admin/reviews/:id
func (h *Handler) Moderate(c *gin.Context) {
	id, ok := idParam(c, "review")
	if !ok {
		return
	}
	var body ModerateReviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BindError(c, err)
		return
	}

	rv, err := h.service.Moderate(c.Request.Context(), id, domain.ReviewStatus(body.Status), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": ReviewItemFromEntity(rv)})
}
