package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pathwise/pathwise-backend/internal/logger"
	"github.com/pathwise/pathwise-backend/internal/requestdata"
)

// SessionMiddleware reads the identity provider's bearer token and attaches
// its email/name claims to the request context. There is no rejection path:
// a missing or unverifiable token simply yields an anonymous session, which
// the identity resolver maps to the guest user.
type SessionMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewSessionMiddleware(log *logger.Logger, secret string) *SessionMiddleware {
	return &SessionMiddleware{
		log:    log.With("middleware", "SessionMiddleware"),
		secret: []byte(secret),
	}
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func (sm *SessionMiddleware) AttachSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sm.sessionFromToken(extractBearer(c))
		ctx := requestdata.WithSession(c.Request.Context(), session)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (sm *SessionMiddleware) sessionFromToken(tokenString string) requestdata.Session {
	if tokenString == "" {
		return requestdata.Session{}
	}
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return sm.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		sm.log.Debug("Session token rejected, continuing anonymously", "error", err)
		return requestdata.Session{}
	}
	return requestdata.Session{
		Email: strings.TrimSpace(claims.Email),
		Name:  strings.TrimSpace(claims.Name),
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
