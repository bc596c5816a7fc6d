package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/dashboard", h.dashboard)
	router.GET("/flights", h.search)
	router.GET("/flights/locations", h.locations)
	router.GET("/flights/status/:number", h.status)
}

func (h *FlightHandler) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Dashboard(c.Request.Context()))
}

func (h *FlightHandler) locations(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Locations(c.Request.Context()))
}

func (h *FlightHandler) search(c *gin.Context) {
	input := flights.SearchInput{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Date:        c.Query("date"),
		Passengers:  domain.MinPassengers,
		TravelClass: domain.TravelClass(c.DefaultQuery("travelClass", string(domain.TravelClassEconomy))),
	}
	if input.Origin == "" || input.Destination == "" || input.Date == "" {
		badRequest(c, "origin, destination and date are required")
		return
	}
	if !input.TravelClass.Valid() {
		badRequest(c, "invalid travel class")
		return
	}
	if raw := c.Query("passengers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid passengers")
			return
		}
		input.Passengers = n
	}

	results, err := h.service.Search(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Error fetching flights.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": results})
}

// status is best effort; an unknown flight number is an explicit null.
func (h *FlightHandler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": h.service.Status(c.Request.Context(), c.Param("number"))})
}
