package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/middleware"
)

// ResultController handles grade results
type ResultController struct {
	resultsService    services.ResultsService
	projectionService services.ProjectionService
}

// NewResultController creates a new ResultController
func NewResultController(resultsService services.ResultsService, projectionService services.ProjectionService) *ResultController {
	return &ResultController{
		resultsService:    resultsService,
		projectionService: projectionService,
	}
}

// CreateResult records a grade
// @Summary Record a result
// @Tags results
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResultRequest true "Result"
// @Success 201 {object} dto.APIResponse{data=models.Result} "Result with courseName"
// @Failure 400 {object} dto.APIResponse "Missing field"
// @Failure 404 {object} dto.APIResponse "Unknown student or course"
// @Router /results [post]
func (c *ResultController) CreateResult(ctx *gin.Context) {
	var req dto.ResultRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.resultsService.RecordResult(ctx, req.StudentNumber, req.CourseCode, req.Grade)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result, "Result recorded successfully"))
}

// UpdateResult replaces a result
func (c *ResultController) UpdateResult(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Result")
	if !ok {
		return
	}

	var req dto.ResultRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.resultsService.UpdateResult(ctx, id, req.Fields())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, "Result updated successfully"))
}

// DeleteResult removes a result
func (c *ResultController) DeleteResult(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Result")
	if !ok {
		return
	}

	if err := c.resultsService.DeleteResult(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Result deleted successfully"))
}

// GetResult retrieves a result by ID
func (c *ResultController) GetResult(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Result")
	if !ok {
		return
	}

	result, err := c.resultsService.GetResult(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// ListResults returns every result with grade tier and resolution state
func (c *ResultController) ListResults(ctx *gin.Context) {
	session, ok := currentSession(ctx)
	if !ok {
		return
	}

	results, err := c.projectionService.AllResults(ctx, session)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondList(ctx, results, "")
}
