package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/session"
	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"go.uber.org/zap"
)

const sessionKey = "session"

// SessionMiddleware resolves the browser's session cookie into a session, issuing a new
// cookie whenever the session it resolves to has a different id.
func SessionMiddleware(sessions session.SessionUseCase, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cfg.CookieName)
		sess := sessions.Open(c.Request.Context(), id)
		if sess.ID() != id {
			setSessionCookie(c, cfg, sess.ID())
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func setSessionCookie(c *gin.Context, cfg config.SessionConfig, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, id, cfg.CookieMaxAgeDay*24*60*60, "/", "", cfg.SecureCookie, true)
}

// RequireIdentity stops anonymous requests before any backend call is made.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if p == nil || p.Identity() == nil {
			respondError(c, domain.ErrLoginRequired, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request. Credentials and cookies are never logged.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ua := user_agent.New(c.Request.UserAgent())
		browser, version := ua.Browser()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("browser", browser),
			zap.String("browser_version", version),
			zap.String("os", ua.OS()),
			zap.Bool("mobile", ua.Mobile()),
		}
		if p := principal(c); p != nil {
			fields = append(fields, zap.String("session_id", p.ID()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func principal(c *gin.Context) domain.Principal {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	p, _ := v.(domain.Principal)
	return p
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
