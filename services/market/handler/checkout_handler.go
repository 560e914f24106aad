package handler

import (
	"fmt"
	"net/http"

	checkout "agribid/internal/checkoutService"
	model "agribid/internal/models"
	"agribid/services/market/helpers"
	"agribid/utils"

	"github.com/gin-gonic/gin"
)

type CheckoutServiceInterface interface {
	Begin(productID string, user *model.User) (checkout.Checkout, error)
	Get(checkoutID string) (checkout.Checkout, error)
	SubmitShipping(checkoutID string, details model.ShippingDetails) (checkout.Checkout, error)
	SubmitPayment(checkoutID string, details model.PaymentDetails) (checkout.Checkout, error)
	Back(checkoutID string) (checkout.Checkout, error)
	ConfirmOrder(checkoutID string) (checkout.Checkout, error)
}

type CheckoutHandler struct {
	service CheckoutServiceInterface
	session SessionReader
}

func NewCheckoutHandler(service CheckoutServiceInterface, session SessionReader) *CheckoutHandler {
	return &CheckoutHandler{service: service, session: session}
}

// BeginCheckoutHandler handles POST /products/:product_id/checkout
func (h *CheckoutHandler) BeginCheckoutHandler(c *gin.Context) {
	productID := c.Param("product_id")

	co, err := h.service.Begin(productID, h.session.Current())
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BeginCheckoutHandler: failed to open checkout", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToCheckoutResponse(co), "checkout opened successfully")
	helpers.LogSuccess("BeginCheckoutHandler", "checkout opened successfully", map[string]any{
		"checkout_id": co.CheckoutID,
		"product_id":  co.ProductID,
		"user_id":     co.UserID,
	})
}

// GetCheckoutHandler handles GET /checkout/:checkout_id
func (h *CheckoutHandler) GetCheckoutHandler(c *gin.Context) {
	checkoutID := c.Param("checkout_id")
	co, err := h.service.Get(checkoutID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToCheckoutResponse(co), "checkout retrieved successfully")
}

// SubmitShippingHandler handles POST /checkout/:checkout_id/shipping
func (h *CheckoutHandler) SubmitShippingHandler(c *gin.Context) {
	var req helpers.ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitShippingHandler", err)
		return
	}

	checkoutID := c.Param("checkout_id")
	details := model.ShippingDetails{
		FullName:     req.FullName,
		Email:        req.Email,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Country:      req.Country,
		Phone:        req.Phone,
	}

	co, err := h.service.SubmitShipping(checkoutID, details)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SubmitShippingHandler: shipping step rejected", map[string]any{"checkout_id": checkoutID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToCheckoutResponse(co), "shipping details accepted")
	helpers.LogSuccess("SubmitShippingHandler", "shipping details accepted", map[string]any{
		"checkout_id": co.CheckoutID,
		"step":        string(co.Step),
	})
}

// SubmitPaymentHandler handles POST /checkout/:checkout_id/payment
func (h *CheckoutHandler) SubmitPaymentHandler(c *gin.Context) {
	var req helpers.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitPaymentHandler", err)
		return
	}

	checkoutID := c.Param("checkout_id")
	details := model.PaymentDetails{
		CardNumber:     req.CardNumber,
		CardHolder:     req.CardHolder,
		ExpiryDate:     req.ExpiryDate,
		CVV:            req.CVV,
		BillingAddress: req.BillingAddress,
	}

	co, err := h.service.SubmitPayment(checkoutID, details)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SubmitPaymentHandler: payment step rejected", map[string]any{"checkout_id": checkoutID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToCheckoutResponse(co), "payment details accepted")
	helpers.LogSuccess("SubmitPaymentHandler", "payment details accepted", map[string]any{
		"checkout_id": co.CheckoutID,
		"step":        string(co.Step),
	})
}

// BackHandler handles POST /checkout/:checkout_id/back
func (h *CheckoutHandler) BackHandler(c *gin.Context) {
	checkoutID := c.Param("checkout_id")
	co, err := h.service.Back(checkoutID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BackHandler: backward step rejected", map[string]any{"checkout_id": checkoutID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToCheckoutResponse(co), "moved back one step")
}

// ConfirmOrderHandler handles POST /checkout/:checkout_id/confirm
func (h *CheckoutHandler) ConfirmOrderHandler(c *gin.Context) {
	checkoutID := c.Param("checkout_id")
	co, err := h.service.ConfirmOrder(checkoutID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("ConfirmOrderHandler: order confirmation failed", map[string]any{"checkout_id": checkoutID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToCheckoutResponse(co), "order placed successfully")
	helpers.LogSuccess("ConfirmOrderHandler", "order placed successfully", map[string]any{
		"checkout_id":  co.CheckoutID,
		"order_number": co.Order.OrderNumber,
		"total":        co.Order.Total,
	})
}
