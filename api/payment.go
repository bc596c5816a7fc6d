package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/service/payment"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	confirmation payment.ConfirmationUseCase
	log          *zap.Logger
}

func NewPaymentHandler(confirmation payment.ConfirmationUseCase, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{confirmation: confirmation, log: log.With(zap.String("handler", "payment"))}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.GET("/payment-success", h.success)
}

// success is the provider's return URL. It streams the confirmation states as server-sent
// events and ends with a "redirect" event naming the booking detail page. A client that
// disconnects cancels the request context, which stops polling.
func (h *PaymentHandler) success(c *gin.Context) {
	bookingID := c.Query("bookingId")
	if bookingID == "" {
		badRequest(c, "missing bookingId")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	_, err := h.confirmation.Run(c.Request.Context(), principal(c), bookingID, func(u payment.Update) {
		name := "state"
		if u.State == payment.StateRedirected {
			name = "redirect"
		}
		c.SSEvent(name, u)
		c.Writer.Flush()
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		h.log.Debug("confirmation stream ended", zap.String("booking_id", bookingID), zap.Error(err))
	}
}
