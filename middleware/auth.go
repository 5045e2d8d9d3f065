package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pratyushashukla/IP-BE/metrics"
	"github.com/pratyushashukla/IP-BE/models"
	"github.com/pratyushashukla/IP-BE/service"
)

// TokenHeader carries the credential on requests and the rotated
// credential on responses. The same name is used as cookie fallback.
const TokenHeader = "authtoken"

const identityKey = "authIdentity"

// publicSuffixes lists the path suffixes that bypass the session gate,
// method-independent. Anchoring them to the auth segment keeps
// lookalike resource paths (e.g. /tasks/login) behind the gate.
var publicSuffixes = []string{
	"/auth/login",
	"/auth/signup",
	"/auth/forgot-password",
	"/auth/reset-password",
	"/auth/verify-code",
	"/auth/resend-code",
}

// IdentityFromContext returns the authenticated identity set by the
// session gate.
func IdentityFromContext(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// AuthGuard gates every non-public route behind the session policy
// engine. On rejection the downstream handler is never invoked.
type AuthGuard struct {
	sessions *service.SessionService
}

func NewAuthGuard(sessions *service.SessionService) *AuthGuard {
	return &AuthGuard{sessions: sessions}
}

func (g *AuthGuard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Cross-origin preflights carry no credentials.
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		eval, err := g.sessions.Evaluate(c.Request.Context(), extractToken(c))
		if err != nil {
			g.reject(c, err)
			return
		}

		metrics.AuthDecision("allowed")
		c.Header(TokenHeader, eval.RefreshedToken)
		c.Set(identityKey, eval.Identity)
		c.Next()
	}
}

func (g *AuthGuard) reject(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCredential):
		metrics.AuthDecision("missing_credential")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing auth token in headers"})
	case errors.Is(err, service.ErrCredentialExpired):
		metrics.AuthDecision("credential_expired")
		clearClientCredential(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session expired. Please log in again."})
	case errors.Is(err, service.ErrCredentialMalformed):
		metrics.AuthDecision("credential_malformed")
		clearClientCredential(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid auth token. Please log in again."})
	case errors.Is(err, service.ErrUnknownUser):
		metrics.AuthDecision("unknown_user")
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, service.ErrSessionEnded):
		metrics.AuthDecision("session_ended")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session already ended. Please log in again."})
	case errors.Is(err, service.ErrSessionIdle):
		metrics.AuthDecision("session_idle")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session expired due to inactivity."})
	default:
		metrics.AuthDecision("store_unavailable")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong, please try again later"})
	}
}

func isPublicPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, suffix := range publicSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// extractToken reads the credential from the authtoken header, falling
// back to the cookie of the same name.
func extractToken(c *gin.Context) string {
	if token := c.GetHeader(TokenHeader); token != "" {
		return token
	}
	if token, err := c.Cookie(TokenHeader); err == nil {
		return token
	}
	return ""
}

// clearClientCredential instructs the client to drop the credential it
// presented: blank response header plus an expired cookie.
func clearClientCredential(c *gin.Context) {
	c.Header(TokenHeader, "")
	c.SetCookie(TokenHeader, "", -1, "/", "", false, true)
}
