package api

import (
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/support"
	"github.com/gin-gonic/gin"
)

type SupportHandler struct {
	service support.SupportUseCase
}

func NewSupportHandler(service support.SupportUseCase) *SupportHandler {
	return &SupportHandler{service: service}
}

func (h *SupportHandler) Register(router *gin.RouterGroup) {
	router.GET("/reports", RequireIdentity(), h.reports)
	router.POST("/support", h.submitTicket)
	router.POST("/contact", h.contact)
}

func (h *SupportHandler) reports(c *gin.Context) {
	summary, err := h.service.Reports(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err, "Failed to load reports.")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", summary)
}

func (h *SupportHandler) submitTicket(c *gin.Context) {
	var req domain.SupportTicket
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	msg, err := h.service.SubmitTicket(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err, "Failed to submit support ticket.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *SupportHandler) contact(c *gin.Context) {
	var req domain.ContactMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	msg, err := h.service.Contact(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Please fill all required fields.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
