package handler

import (
	"net/http"

	"github.com/Truthtechno/LockerRoom-sub000/internal/service"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/response"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EngagementHandler struct {
	service service.EngagementService
}

func NewEngagementHandler(service service.EngagementService) *EngagementHandler {
	return &EngagementHandler{service: service}
}

type commentInput struct {
	Body string `json:"body" binding:"required,max=2000"`
}

func (h *EngagementHandler) LikePost(c *gin.Context) {
	userID, postID, ok := h.userAndPost(c)
	if !ok {
		return
	}

	if err := h.service.LikePost(c.Request.Context(), userID, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post liked"})
}

func (h *EngagementHandler) UnlikePost(c *gin.Context) {
	userID, postID, ok := h.userAndPost(c)
	if !ok {
		return
	}

	if err := h.service.UnlikePost(c.Request.Context(), userID, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post unliked"})
}

func (h *EngagementHandler) CommentOnPost(c *gin.Context) {
	userID, postID, ok := h.userAndPost(c)
	if !ok {
		return
	}

	var input commentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	comment, err := h.service.CommentOnPost(c.Request.Context(), userID, postID, input.Body)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

func (h *EngagementHandler) GetComments(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	limit, offset := pagination(c)
	comments, err := h.service.GetComments(c.Request.Context(), postID, limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (h *EngagementHandler) SavePost(c *gin.Context) {
	userID, postID, ok := h.userAndPost(c)
	if !ok {
		return
	}

	if err := h.service.SavePost(c.Request.Context(), userID, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post saved"})
}

func (h *EngagementHandler) UnsavePost(c *gin.Context) {
	userID, postID, ok := h.userAndPost(c)
	if !ok {
		return
	}

	if err := h.service.UnsavePost(c.Request.Context(), userID, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post unsaved"})
}

func (h *EngagementHandler) GetSaved(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	limit, offset := pagination(c)
	saved, err := h.service.GetSaved(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": saved})
}

func (h *EngagementHandler) PostCounts(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}

	likes, comments, err := h.service.PostCounts(c.Request.Context(), postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likes, "comments": comments})
}

func (h *EngagementHandler) userAndPost(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, postID, true
}
