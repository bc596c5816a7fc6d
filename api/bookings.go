package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/bookings"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service bookings.BookingsUseCase
	refresh time.Duration
}

func NewBookingHandler(service bookings.BookingsUseCase, refresh time.Duration) *BookingHandler {
	return &BookingHandler{service: service, refresh: refresh}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	group := router.Group("/bookings", RequireIdentity())
	group.GET("", h.list)
	group.GET("/stream", h.stream)
	group.GET("/:id", h.detail)
	group.POST("/:id/cancel", h.cancel)
	group.POST("/:id/upgrade", h.upgrade)
	group.POST("/:id/verify-payment", h.verifyPayment)
	group.POST("/:id/pay", h.pay)
	group.GET("/:id/itinerary.pdf", h.itinerary)
}

func (h *BookingHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err, "Failed to load bookings.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// stream pushes the bookings list on connect and again on every refresh tick until the client
// goes away. Failed refreshes are sent as "error" events and the stream stays open.
func (h *BookingHandler) stream(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	h.service.Watch(c.Request.Context(), principal(c), h.refresh, func(list []domain.Booking, err error) {
		if err != nil {
			c.SSEvent("error", gin.H{"error": domain.UserMessage(err, "Failed to load bookings.")})
		} else {
			c.SSEvent("bookings", gin.H{"bookings": list})
		}
		c.Writer.Flush()
	})
}

func (h *BookingHandler) detail(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Booking not found or failed to load.")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	result, err := h.service.Cancel(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to cancel booking.")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) upgrade(c *gin.Context) {
	result, err := h.service.ChangeToBusiness(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to upgrade class.")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) verifyPayment(c *gin.Context) {
	result, err := h.service.VerifyPayment(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to verify payment. Please try again.")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) pay(c *gin.Context) {
	location, err := h.service.PayNow(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to start payment process.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": location})
}

func (h *BookingHandler) itinerary(c *gin.Context) {
	doc, err := h.service.DownloadItinerary(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Unable to download PDF. Please try again.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
