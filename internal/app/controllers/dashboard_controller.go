package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/middleware"
)

// DashboardController serves the read-side views of a student's records.
// Access is scoped by the session in the projection service.
type DashboardController struct {
	projectionService services.ProjectionService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(projectionService services.ProjectionService) *DashboardController {
	return &DashboardController{
		projectionService: projectionService,
	}
}

// GetDashboard returns the full overview of a student
// @Summary Student dashboard
// @Tags students
// @Security BearerAuth
// @Param studentNumber path string true "Student number"
// @Success 200 {object} dto.APIResponse{data=models.Dashboard}
// @Failure 403 {object} dto.APIResponse "Not allowed to view this student"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /students/by-number/{studentNumber}/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	session, ok := currentSession(ctx)
	if !ok {
		return
	}

	dashboard, err := c.projectionService.Dashboard(ctx, session, ctx.Param("studentNumber"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard, ""))
}

// GetResults returns the results recorded for a student number
func (c *DashboardController) GetResults(ctx *gin.Context) {
	session, ok := currentSession(ctx)
	if !ok {
		return
	}

	results, err := c.projectionService.ResultsFor(ctx, session, ctx.Param("studentNumber"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondList(ctx, results, "")
}

// GetEnrolledCourses returns the courses a student is registered for
func (c *DashboardController) GetEnrolledCourses(ctx *gin.Context) {
	session, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	courses, err := c.projectionService.EnrolledCourses(ctx, session, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondList(ctx, courses, "")
}

// GetAvailableCourses returns the courses a student may still register for
func (c *DashboardController) GetAvailableCourses(ctx *gin.Context) {
	session, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	courses, err := c.projectionService.AvailableCourses(ctx, session, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondList(ctx, courses, "")
}

// GetTotalCredits returns the sum of credits over a student's enrolled courses
func (c *DashboardController) GetTotalCredits(ctx *gin.Context) {
	session, ok := currentSession(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id", "Student")
	if !ok {
		return
	}

	total, err := c.projectionService.TotalCredits(ctx, session, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CreditsResponse{StudentID: id, TotalCredits: total}, ""))
}
