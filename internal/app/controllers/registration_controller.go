package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/middleware"
)

// RegistrationController handles course registrations
type RegistrationController struct {
	enrollmentService services.EnrollmentService
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(enrollmentService services.EnrollmentService) *RegistrationController {
	return &RegistrationController{
		enrollmentService: enrollmentService,
	}
}

// Register registers a student for a course
// @Summary Register a student for a course
// @Description Admins may register any student; students only themselves. An omitted registrationDate means today.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegistrationRequest true "Registration"
// @Success 201 {object} dto.APIResponse{data=models.Registration}
// @Failure 400 {object} dto.APIResponse "Invalid registration data"
// @Failure 403 {object} dto.APIResponse "Not allowed to register this student"
// @Failure 404 {object} dto.APIResponse "Unknown student or course"
// @Failure 409 {object} dto.APIResponse "Already registered"
// @Router /registrations [post]
func (c *RegistrationController) Register(ctx *gin.Context) {
	session, ok := currentSession(ctx)
	if !ok {
		return
	}

	var req dto.RegistrationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	registration, err := c.enrollmentService.Register(ctx, session, req.StudentID, req.CourseID, req.Date())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(registration, "Registered successfully"))
}

// DeleteRegistration drops a registration by id
// @Summary Drop a registration
// @Tags registrations
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse "Not allowed to drop this registration"
// @Failure 404 {object} dto.APIResponse "Registration not found"
// @Router /registrations/{id} [delete]
func (c *RegistrationController) DeleteRegistration(ctx *gin.Context) {
	session, ok := currentSession(ctx)
	if !ok {
		return
	}

	id, ok := parseIDParam(ctx, "id", "Registration")
	if !ok {
		return
	}

	if err := c.enrollmentService.DropByID(ctx, session, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Registration dropped successfully"))
}

// ListRegistrations returns every live registration
func (c *RegistrationController) ListRegistrations(ctx *gin.Context) {
	registrations, err := c.enrollmentService.ListRegistrations(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondList(ctx, registrations, "")
}
