package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
	"github.com/proske/proske-backend/internal/pkg/helpers"
)

// SubmissionController handles task submission endpoints
type SubmissionController struct {
	submissionService services.SubmissionService
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(submissionService services.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

// Create godoc
// @Summary Submit a task artifact for review
// @Description Optionally announces the submission in a group's chat when groupId is set
// @Tags submissions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Community ID"
// @Param request body dto.CreateSubmissionRequest true "Submission details"
// @Success 201 {object} dto.APIResponse{data=models.Submission}
// @Router /communities/{id}/submissions [post]
func (ctrl *SubmissionController) Create(c *gin.Context) {
	communityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	submission, err := ctrl.submissionService.Create(c, middleware.GetUserID(c), communityID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(submission))
}

// List godoc
// @Summary List a community's submissions
// @Description Students see only their own submissions; community managers see all
// @Tags submissions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Community ID"
// @Param status query string false "Filter by status" Enums(pending, reviewed)
// @Param userId query int false "Filter by user (managers only)"
// @Success 200 {object} dto.APIResponse
// @Router /communities/{id}/submissions [get]
func (ctrl *SubmissionController) List(c *gin.Context) {
	communityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var filter dto.SubmissionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(c)

	submissions, total, err := ctrl.submissionService.List(c, communityID, middleware.GetUserID(c), middleware.GetUserRole(c), &filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"submissions": submissions,
		"pagination":  helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}))
}

// Get returns one submission
func (ctrl *SubmissionController) Get(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	submission, err := ctrl.submissionService.Get(c, submissionID, middleware.GetUserID(c), middleware.GetUserRole(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(submission))
}

// Review godoc
// @Summary Grade a pending submission
// @Description Community managers only. A submission can be reviewed once; a grade or comments must be provided.
// @Tags submissions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param request body dto.ReviewSubmissionRequest true "Grade and comments"
// @Success 200 {object} dto.APIResponse{data=models.Submission}
// @Failure 409 {object} dto.ErrorResponse "Already reviewed"
// @Router /submissions/{id}/review [post]
func (ctrl *SubmissionController) Review(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	submission, err := ctrl.submissionService.Review(c, middleware.GetUserID(c), middleware.GetUserRole(c), submissionID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(submission))
}

// Delete removes a submission
func (ctrl *SubmissionController) Delete(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.submissionService.Delete(c, middleware.GetUserID(c), middleware.GetUserRole(c), submissionID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Submission deleted"}))
}
