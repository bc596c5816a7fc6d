package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// DraftHandler serves the booking form for a selected offer.
type DraftHandler struct {
	service booking.BookingUseCase
}

func NewDraftHandler(service booking.BookingUseCase) *DraftHandler {
	return &DraftHandler{service: service}
}

func (h *DraftHandler) Register(router *gin.RouterGroup) {
	book := router.Group("/book/:id")
	book.POST("", h.start)
	book.GET("", h.current)
	book.POST("/passengers", h.addPassenger)
	book.PATCH("/passengers/:index", h.editPassenger)
	book.DELETE("/passengers/:index", h.removePassenger)
	book.POST("/confirm", h.confirm)
}

type editPassengerRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// start takes the offer the browser carried over from search results.
func (h *DraftHandler) start(c *gin.Context) {
	var offer domain.FlightOffer
	if err := c.ShouldBindJSON(&offer); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if offer.ID == "" {
		offer.ID = c.Param("id")
	}
	if offer.ID != c.Param("id") {
		badRequest(c, "flight id mismatch")
		return
	}

	view, err := h.service.Start(principal(c), offer)
	if err != nil {
		respondError(c, err, "No flight selected.")
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *DraftHandler) current(c *gin.Context) {
	view, err := h.service.Current(principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "No flight selected.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// addPassenger reports the passenger limit as a warning alongside the unchanged draft.
func (h *DraftHandler) addPassenger(c *gin.Context) {
	view, err := h.service.AddPassenger(principal(c), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"draft": view})
	case domain.IsValidation(err):
		c.JSON(http.StatusOK, gin.H{"draft": view, "warning": domain.UserMessage(err, "")})
	default:
		respondError(c, err, "No flight selected.")
	}
}

func (h *DraftHandler) editPassenger(c *gin.Context) {
	index, ok := passengerIndex(c)
	if !ok {
		return
	}
	var req editPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := h.service.EditPassenger(principal(c), c.Param("id"), index, req.Field, req.Value)
	if err != nil {
		respondError(c, err, "No flight selected.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": view})
}

func (h *DraftHandler) removePassenger(c *gin.Context) {
	index, ok := passengerIndex(c)
	if !ok {
		return
	}
	view, err := h.service.RemovePassenger(principal(c), c.Param("id"), index)
	if err != nil {
		respondError(c, err, "No flight selected.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": view})
}

// confirm answers with the external checkout URL the browser must navigate to.
func (h *DraftHandler) confirm(c *gin.Context) {
	location, err := h.service.Confirm(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Unable to process booking. Try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": location})
}

func passengerIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "invalid passenger index")
		return 0, false
	}
	return index, true
}
