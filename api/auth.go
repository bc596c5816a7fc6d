package api

import (
	"net/http"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/session"
	"github.com/Domenick1991/airbooking-web/internal/validation"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sessions session.SessionUseCase
	cookie   config.SessionConfig
}

func NewAuthHandler(sessions session.SessionUseCase, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/login", h.login)
	router.POST("/register", h.register)
	router.POST("/logout", h.logout)
	router.GET("/me", h.me)

	profile := router.Group("/profile", RequireIdentity())
	profile.GET("", h.profile)
	profile.PUT("", h.updateProfile)
}

func (h *AuthHandler) login(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil {
		respondError(c, domain.ErrLoginRequired, "")
		return
	}

	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	fresh, err := h.sessions.Login(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err, "Invalid credentials.")
		return
	}
	h.switchSession(c, fresh)
	c.JSON(http.StatusOK, gin.H{"user": fresh.Identity(), "redirect": "/dashboard"})
}

func (h *AuthHandler) register(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil {
		respondError(c, domain.ErrLoginRequired, "")
		return
	}

	var req domain.RegistrationForm
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	fresh, err := h.sessions.Register(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err, "Registration failed.")
		return
	}
	h.switchSession(c, fresh)
	c.JSON(http.StatusCreated, gin.H{"user": fresh.Identity(), "message": "Registration successful!", "redirect": "/dashboard"})
}

// switchSession points the browser and the rest of this request at the session issued by login.
func (h *AuthHandler) switchSession(c *gin.Context, sess *session.Session) {
	setSessionCookie(c, h.cookie, sess.ID())
	c.Set(sessionKey, sess)
}

func (h *AuthHandler) logout(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		h.sessions.Logout(c.Request.Context(), sess)
	}
	c.JSON(http.StatusOK, gin.H{"redirect": loginPath})
}

// me reports the cached identity; anonymous sessions get a null user rather than an error.
func (h *AuthHandler) me(c *gin.Context) {
	var identity *domain.Identity
	if p := principal(c); p != nil {
		identity = p.Identity()
	}
	c.JSON(http.StatusOK, gin.H{"user": identity})
}

func (h *AuthHandler) profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": principal(c).Identity()})
}

func (h *AuthHandler) updateProfile(c *gin.Context) {
	var req domain.ProfileForm
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := validation.Check(req, "Please correct the highlighted fields."); err != nil {
		respondError(c, err, "")
		return
	}

	identity, err := h.sessions.UpdateProfile(c.Request.Context(), currentSession(c), req.Profile())
	if err != nil {
		respondError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity, "message": "Profile updated successfully!"})
}
