package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/middleware"
	"github.com/yigit/unirecords/internal/pkg/helpers"
)

// parseIDParam reads a positive int64 path parameter, writing a 400 response
// when it is malformed
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID")
		errorDetail = errorDetail.WithField(name).WithDetails(label + " ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewFailureResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// currentSession returns the session set by the auth middleware, writing a
// 401 response when there is none
func currentSession(ctx *gin.Context) (models.Session, bool) {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewFailureResponse(errorDetail))
		return models.Session{}, false
	}
	return session, true
}

// respondList writes a list, paginated when the request asks for a page
func respondList[T any](ctx *gin.Context, items []T, message string) {
	if items == nil {
		items = []T{}
	}
	req, ok := helpers.ParsePageRequest(ctx)
	if !ok {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, message))
		return
	}
	pageItems, info := helpers.Paginate(items, req)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      pageItems,
		Pagination: info,
	}, message))
}
