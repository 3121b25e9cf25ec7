package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proske/proske-backend/internal/app/models/dto"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/middleware"
	"github.com/proske/proske-backend/internal/pkg/helpers"
)

// PaymentController handles payment ledger endpoints
type PaymentController struct {
	paymentService services.PaymentService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// Create godoc
// @Summary Record a payment obligation for a user
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.APIResponse{data=models.Payment}
// @Router /payments [post]
func (ctrl *PaymentController) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	payment, err := ctrl.paymentService.Create(c, middleware.GetUserRole(c), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(payment))
}

// List godoc
// @Summary List payments
// @Description Students see only their own rows; managers may filter by user
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, confirmed, overdue, cancelled)
// @Param userId query int false "Filter by user (managers only)"
// @Param from query string false "Earliest due date (YYYY-MM-DD)"
// @Param to query string false "Latest due date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse
// @Router /payments [get]
func (ctrl *PaymentController) List(c *gin.Context) {
	var filter dto.PaymentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(c)

	payments, total, err := ctrl.paymentService.List(c, middleware.GetUserID(c), middleware.GetUserRole(c), &filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"payments":   payments,
		"pagination": helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}))
}

// Get returns one payment
func (ctrl *PaymentController) Get(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	payment, err := ctrl.paymentService.Get(c, middleware.GetUserID(c), middleware.GetUserRole(c), paymentID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(payment))
}

// UpdateStatus godoc
// @Summary Move a payment through its lifecycle
// @Description Confirming stamps the paid time and records the amount actually paid. Confirmed and cancelled are final.
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param request body dto.UpdatePaymentStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Payment}
// @Failure 400 {object} dto.ErrorResponse "Invalid status transition"
// @Router /payments/{id}/status [put]
func (ctrl *PaymentController) UpdateStatus(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	payment, err := ctrl.paymentService.UpdateStatus(c, middleware.GetUserRole(c), paymentID, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(payment))
}

// Summary godoc
// @Summary Aggregate payment totals per status
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param from query string false "Earliest due date (YYYY-MM-DD)"
// @Param to query string false "Latest due date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=models.FinancialSummary}
// @Router /payments/summary [get]
func (ctrl *PaymentController) Summary(c *gin.Context) {
	var filter dto.PaymentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	summary, err := ctrl.paymentService.Summary(c, middleware.GetUserRole(c), filter.From, filter.To)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}

// Delete removes a payment record
func (ctrl *PaymentController) Delete(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.paymentService.Delete(c, middleware.GetUserRole(c), paymentID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Payment deleted"}))
}
