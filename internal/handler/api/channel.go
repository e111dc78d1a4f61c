package api

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"staybook/internal/pkg/config"
	"staybook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// ChannelHandler receives the channel manager's out-of-band deliveries.
// These arrive on a shared-secret webhook, not a user session.
type ChannelHandler struct {
	confirmations commands.ConfirmationCommands
	webhookSecret string
}

func NewChannelHandler(confirmations commands.ConfirmationCommands, cfg config.ChannelConfig) *ChannelHandler {
	return &ChannelHandler{
		confirmations: confirmations,
		webhookSecret: cfg.WebhookSecret,
	}
}

// @Summary Channel manager webhook
// @Description Receive an asynchronous confirmation report from the channel manager
// @Tags channel
// @Accept xml
// @Produce json
// @Param X-Webhook-Secret header string true "Shared webhook secret"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /channel/confirmations [post]
func (h *ChannelHandler) ReceiveConfirmation(c *gin.Context) {
	secret := c.GetHeader("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid webhook secret",
		})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil || len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Empty or unreadable body",
		})
		return
	}

	result, err := h.confirmations.HandleInboundConfirmation(c.Request.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrMalformedConfirmation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Malformed confirmation message",
			})
		case errors.Is(err, commands.ErrConfirmationConflict):
			// 409 tells the counterparty the delivery was seen but cannot
			// be applied; resending the same message will not help.
			c.JSON(http.StatusConflict, gin.H{
				"outcome": string(commands.CorrelationConflict),
				"token":   result.Token,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outcome": string(result.Outcome),
		"token":   result.Token,
	})
}
