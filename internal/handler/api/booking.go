package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "staybook/internal/handler/dto/request"
	resdto "staybook/internal/handler/dto/response"
	"staybook/internal/handler/middleware"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Submit a booking
// @Description Record a booking and push it to the channel manager
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.SubmitBookingResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.SubmitBooking(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid booking data",
			})
		case errors.Is(err, commands.ErrDuplicateToken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking token collision, retry the request",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	// The booking row exists regardless of how the push went; the response
	// status tells the client which outcome it got.
	c.JSON(http.StatusCreated, resdto.FromSubmitResult(result))
}

// @Summary Get a booking
// @Description Fetch one booking by correlation token
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param token path string true "Correlation token"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{token} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	view, err := h.bookingQueries.GetByToken(c.Request.Context(), userID, role, c.Param("token"))
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

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List own bookings
// @Description List bookings of the authenticated user, newest first
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} resdto.BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit := queryInt32(c, "limit", 50)
	offset := queryInt32(c, "offset", 0)

	views, err := h.bookingQueries.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingViews(views))
}

// @Summary Cancel a booking
// @Description Send a cancellation for the booking to the channel manager
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param token path string true "Correlation token"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.CancelBookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{token}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	// The body is optional; an empty body is a cancel without a reason.
	var req reqdto.CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.bookingCommands.CancelBooking(c.Request.Context(), c.Param("token"), userID, role, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		case errors.Is(err, commands.ErrBookingNotFound):
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

	c.JSON(http.StatusOK, resdto.FromCancelResult(result))
}

// @Summary Verify booking status
// @Description Ask the channel manager for the authoritative booking status
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param token path string true "Correlation token"
// @Success 200 {object} resdto.StatusCheckResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{token}/verify [post]
func (h *BookingHandler) VerifyStatus(c *gin.Context) {
	result, err := h.bookingCommands.VerifyBookingStatus(c.Request.Context(), c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
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

	c.JSON(http.StatusOK, resdto.FromStatusCheckResult(result))
}

func queryInt32(c *gin.Context, key string, def int32) int32 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}
