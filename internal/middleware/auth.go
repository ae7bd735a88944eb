package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stwalsh4118/bma/api/internal/domain"
)

// PrincipalKey is the context key for the authenticated principal.
const PrincipalKey = "principal"

// Claims are the token claims identifying the acting user.
type Claims struct {
	UserID   int64 `json:"user_id,omitempty"`
	IsAdmin  bool  `json:"is_admin"`
	IsActive bool  `json:"is_active"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the acting identity. The subject
// claim is used when user_id is absent.
func (c *Claims) Principal() (domain.Principal, error) {
	id := c.UserID
	if id == 0 && c.Subject != "" {
		parsed, err := strconv.ParseInt(c.Subject, 10, 64)
		if err != nil {
			return domain.Principal{}, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
		}
		id = parsed
	}
	if id <= 0 {
		return domain.Principal{}, errors.New("token does not identify a user")
	}
	return domain.Principal{UserID: id, IsAdmin: c.IsAdmin, IsActive: c.IsActive}, nil
}

// Authenticate requires an HS256-signed bearer token and stores the
// principal it names in the context.
func Authenticate(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided")
			return
		}

		claims := &Claims{}
		_, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Warn("Rejected token", map[string]interface{}{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				})
			}
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		p, err := claims.Principal()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}
		if !p.IsActive {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", "User account is inactive")
			return
		}

		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from the Gin context.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(domain.Principal); ok {
			return p, true
		}
	}
	return domain.Principal{}, false
}

// IssueToken signs a token for the principal. It backs the admin tooling
// and tests; end-user tokens come from the identity provider.
func IssueToken(secret []byte, p domain.Principal, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = strconv.FormatInt(p.UserID, 10)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           p.UserID,
		IsAdmin:          p.IsAdmin,
		IsActive:         p.IsActive,
		RegisteredClaims: claims,
	})
	return token.SignedString(secret)
}
