package handler

import (
	"net/http"

	"github.com/Truthtechno/LockerRoom-sub000/internal/service"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/response"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type XenHandler struct {
	service service.XenService
}

func NewXenHandler(service service.XenService) *XenHandler {
	return &XenHandler{service: service}
}

type confirmPaymentInput struct {
	PaymentReference string `json:"payment_reference" binding:"required"`
}

type reviewInput struct {
	Score    int    `json:"score" binding:"required,min=1,max=10"`
	Feedback string `json:"feedback" binding:"max=2000"`
}

type finalizeInput struct {
	Approve bool `json:"approve"`
}

// CreateSubmission expects a multipart form with a "video" file and an
// optional "description" field.
func (h *XenHandler) CreateSubmission(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		response.BadRequest(c, "video file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "failed to read video file")
		return
	}
	defer file.Close()

	submission, err := h.service.CreateSubmission(c.Request.Context(), userID, service.CreateSubmissionInput{
		Description: c.PostForm("description"),
		Video:       file,
		FileName:    fileHeader.Filename,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": submission})
}

func (h *XenHandler) ConfirmPayment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}

	var input confirmPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	submission, err := h.service.ConfirmPayment(c.Request.Context(), userID, submissionID, input.PaymentReference)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": submission})
}

func (h *XenHandler) GetSubmission(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}

	submission, err := h.service.GetSubmission(c.Request.Context(), userID, submissionID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": submission})
}

func (h *XenHandler) ListMySubmissions(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	submissions, err := h.service.ListMySubmissions(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": submissions})
}

func (h *XenHandler) ListReviewQueue(c *gin.Context) {
	limit, offset := pagination(c)

	submissions, err := h.service.ListReviewQueue(c.Request.Context(), limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": submissions})
}

func (h *XenHandler) AddReview(c *gin.Context) {
	scoutID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}

	var input reviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	review, err := h.service.AddReview(c.Request.Context(), scoutID, submissionID, service.ReviewInput{
		Score:    input.Score,
		Feedback: input.Feedback,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": review})
}

func (h *XenHandler) Finalize(c *gin.Context) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid submission id")
		return
	}

	var input finalizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, validator.FormatValidationError(err))
		return
	}

	submission, err := h.service.Finalize(c.Request.Context(), adminID, submissionID, input.Approve)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": submission})
}
