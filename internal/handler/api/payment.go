package api

import (
	"errors"
	"net/http"

	reqdto "staybook/internal/handler/dto/request"
	resdto "staybook/internal/handler/dto/response"
	"staybook/internal/handler/middleware"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

// @Summary Initiate a payment
// @Description Create a payment transaction and return the signed gateway redirect fields
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.InitiatePaymentRequest true "Payment request"
// @Success 201 {object} resdto.PaymentRedirectResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /payments [post]
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req reqdto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	redirect, err := h.paymentCommands.InitiatePayment(c.Request.Context(), req, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrBookingAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		case errors.Is(err, commands.ErrBookingNotPayable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Booking is not payable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPaymentRedirect(redirect))
}

// @Summary Payment gateway callback
// @Description Receive the form-encoded gateway callback and settle the payment
// @Tags payments
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} resdto.CallbackResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	var cb reqdto.PaymentCallbackRequest
	if err := c.ShouldBind(&cb); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid callback format",
		})
		return
	}

	result, err := h.paymentCommands.HandleCallback(c.Request.Context(), cb)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrHashMismatch):
			// The row is already marked rejected; the gateway gets a 400 so
			// operators can spot tampering in its logs.
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Hash verification failed",
			})
		case errors.Is(err, commands.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Unknown transaction",
			})
		case errors.Is(err, commands.ErrPaymentAlreadySettled):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Payment already settled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCallbackResult(result))
}

// @Summary Get a payment
// @Description Fetch one payment by transaction id
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param txnid path string true "Transaction id"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/{txnid} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	view, err := h.paymentQueries.GetByTxnID(c.Request.Context(), userID, role, c.Param("txnid"))
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		case errors.Is(err, queries.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Payment not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary List payments for a booking
// @Description List all payment attempts recorded for one booking
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param token path string true "Correlation token"
// @Success 200 {array} resdto.PaymentResponse
// @Failure 403 {object} map[string]string
// @Router /bookings/{token}/payments [get]
func (h *PaymentHandler) ListByBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	views, err := h.paymentQueries.ListByBooking(c.Request.Context(), userID, role, c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		case errors.Is(err, queries.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentViews(views))
}
