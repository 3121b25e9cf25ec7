package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
)

// CourseController handles the course hierarchy and lesson progress
type CourseController struct {
	courseService   services.CourseService
	progressService services.ProgressService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, progressService services.ProgressService) *CourseController {
	return &CourseController{
		courseService:   courseService,
		progressService: progressService,
	}
}

// Create godoc
// @Summary Create a course in a community
// @Tags courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Community ID"
// @Param request body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Router /communities/{id}/courses [post]
func (ctrl *CourseController) Create(c *gin.Context) {
	communityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	course, err := ctrl.courseService.Create(c, middleware.GetUserID(c), middleware.GetUserRole(c), communityID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// List returns a community's courses
func (ctrl *CourseController) List(c *gin.Context) {
	communityID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	courses, err := ctrl.courseService.List(c, communityID, middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// Get godoc
// @Summary Get a course with its full module and lesson tree
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Router /courses/{id} [get]
func (ctrl *CourseController) Get(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	course, err := ctrl.courseService.Get(c, courseID, middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// Update edits a course
func (ctrl *CourseController) Update(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	course, err := ctrl.courseService.Update(c, middleware.GetUserID(c), middleware.GetUserRole(c), courseID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// Delete removes a course
func (ctrl *CourseController) Delete(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.courseService.Delete(c, middleware.GetUserID(c), middleware.GetUserRole(c), courseID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Course deleted"}))
}

// CreateModule adds a module to a course
func (ctrl *CourseController) CreateModule(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	module, err := ctrl.courseService.CreateModule(c, middleware.GetUserID(c), middleware.GetUserRole(c), courseID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(module))
}

// UpdateModule edits a module
func (ctrl *CourseController) UpdateModule(c *gin.Context) {
	moduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	module, err := ctrl.courseService.UpdateModule(c, middleware.GetUserID(c), middleware.GetUserRole(c), moduleID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(module))
}

// DeleteModule removes a module and its lessons
func (ctrl *CourseController) DeleteModule(c *gin.Context) {
	moduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.courseService.DeleteModule(c, middleware.GetUserID(c), middleware.GetUserRole(c), moduleID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Module deleted"}))
}

// CreateLesson adds a lesson to a module
func (ctrl *CourseController) CreateLesson(c *gin.Context) {
	moduleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	lesson, err := ctrl.courseService.CreateLesson(c, middleware.GetUserID(c), middleware.GetUserRole(c), moduleID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(lesson))
}

// GetLesson returns one lesson
func (ctrl *CourseController) GetLesson(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lesson, err := ctrl.courseService.GetLesson(c, lessonID, middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(lesson))
}

// UpdateLesson edits a lesson
func (ctrl *CourseController) UpdateLesson(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	lesson, err := ctrl.courseService.UpdateLesson(c, middleware.GetUserID(c), middleware.GetUserRole(c), lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(lesson))
}

// DeleteLesson removes a lesson
func (ctrl *CourseController) DeleteLesson(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.courseService.DeleteLesson(c, middleware.GetUserID(c), middleware.GetUserRole(c), lessonID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Lesson deleted"}))
}

// SetProgress godoc
// @Summary Mark or unmark a lesson as completed for the caller
// @Tags courses, progress
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body dto.SetProgressRequest true "Completion flag"
// @Success 200 {object} dto.APIResponse{data=models.LessonProgress}
// @Router /lessons/{id}/progress [put]
func (ctrl *CourseController) SetProgress(c *gin.Context) {
	lessonID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	progress, err := ctrl.progressService.SetProgress(c, middleware.GetUserID(c), lessonID, req.Completed)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(progress))
}

// GetCourseProgress returns the caller's aggregate completion for a course
func (ctrl *CourseController) GetCourseProgress(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	progress, err := ctrl.progressService.GetCourseProgress(c, middleware.GetUserID(c), courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(progress))
}

// ListCourseProgress returns the caller's per-lesson rows for a course
func (ctrl *CourseController) ListCourseProgress(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rows, err := ctrl.progressService.ListCourseProgress(c, middleware.GetUserID(c), courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(rows))
}
