package handler

import (
	"net/http"
	"strconv"

	"github.com/Truthtechno/LockerRoom-sub000/internal/service"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service service.SearchService
}

func NewSearchHandler(service service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) SearchPosts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "query is required")
		return
	}

	limit, offset := searchPagination(c)
	hits, err := h.service.SearchPosts(query, limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hits})
}

func (h *SearchHandler) SearchStudents(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "query is required")
		return
	}

	limit, offset := searchPagination(c)
	hits, err := h.service.SearchStudents(query, limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hits})
}

func searchPagination(c *gin.Context) (limit, offset int64) {
	limit = 20
	offset = 0
	if l, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.ParseInt(c.Query("offset"), 10, 64); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}
