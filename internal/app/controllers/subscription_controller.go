package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
)

// SubscriptionController handles plan and subscription endpoints
type SubscriptionController struct {
	subscriptionService services.SubscriptionService
}

// NewSubscriptionController creates a new SubscriptionController
func NewSubscriptionController(subscriptionService services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{subscriptionService: subscriptionService}
}

// CreatePlan godoc
// @Summary Create a subscription plan
// @Description Teachers and admins only. Default groups must exist.
// @Tags plans
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePlanRequest true "Plan details"
// @Success 201 {object} dto.APIResponse{data=models.SubscriptionPlan}
// @Router /plans [post]
func (ctrl *SubscriptionController) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	plan, err := ctrl.subscriptionService.CreatePlan(c, middleware.GetUserRole(c), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(plan))
}

// ListPlans returns plans visible to the caller
func (ctrl *SubscriptionController) ListPlans(c *gin.Context) {
	plans, err := ctrl.subscriptionService.ListPlans(c, middleware.GetUserRole(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(plans))
}

// GetPlan returns one plan with its default group IDs
func (ctrl *SubscriptionController) GetPlan(c *gin.Context) {
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := ctrl.subscriptionService.GetPlan(c, planID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(plan))
}

// UpdatePlan edits a plan
func (ctrl *SubscriptionController) UpdatePlan(c *gin.Context) {
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	plan, err := ctrl.subscriptionService.UpdatePlan(c, middleware.GetUserRole(c), planID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(plan))
}

// AssignPlan godoc
// @Summary Activate a plan for a user
// @Description Replaces any active subscription and joins the plan's default groups. Re-assigning the same plan is idempotent for memberships.
// @Tags subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AssignPlanRequest true "User and plan"
// @Success 201 {object} dto.APIResponse{data=models.UserSubscription}
// @Failure 400 {object} dto.ErrorResponse "Plan is not active"
// @Router /subscriptions/assign [post]
func (ctrl *SubscriptionController) AssignPlan(c *gin.Context) {
	var req dto.AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	sub, err := ctrl.subscriptionService.AssignPlan(c, middleware.GetUserRole(c), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(sub))
}

// Cancel ends a user's active subscription
func (ctrl *SubscriptionController) Cancel(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	if err := ctrl.subscriptionService.Cancel(c, middleware.GetUserRole(c), userID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Subscription cancelled"}))
}

// GetMyActive returns the caller's active subscription
func (ctrl *SubscriptionController) GetMyActive(c *gin.Context) {
	sub, err := ctrl.subscriptionService.GetActive(c, middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(sub))
}

// ListMine returns the caller's subscription history
func (ctrl *SubscriptionController) ListMine(c *gin.Context) {
	subs, err := ctrl.subscriptionService.ListForUser(c, middleware.GetUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(subs))
}

// ListForUser returns another user's subscription history, managers only
func (ctrl *SubscriptionController) ListForUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	subs, err := ctrl.subscriptionService.ListForUser(c, userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(subs))
}
