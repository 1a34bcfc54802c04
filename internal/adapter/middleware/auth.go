package middleware

import (
	"errors"
	"net/http"
	"strings"

	"club-event-approval/internal/domain/access"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Claims carried by the console's bearer tokens.
type Claims struct {
	Role   string `json:"role"`
	ClubID string `json:"club_id,omitempty"`
	jwt.RegisteredClaims
}

// Authenticate validates an HS256 bearer token and stores the caller's
// access.Identity on the echo context.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is required"})
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header format"})
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}

			id := access.Identity{Subject: claims.Subject, Role: access.Role(claims.Role), ClubID: claims.ClubID}
			if id.Subject == "" || !id.Role.Valid() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token claims"})
			}
			if id.Role == access.RoleClub && id.ClubID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "club token without club_id"})
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}

// RequireCapability rejects callers whose role lacks the required capability.
func RequireCapability(required access.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := access.Authorize(IdentityFrom(c), required)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, access.ErrUnauthenticated):
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			default:
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
			}
		}
	}
}

// SetIdentity stores id on c the way Authenticate does.
func SetIdentity(c echo.Context, id access.Identity) { c.Set(identityKey, id) }

// IdentityFrom returns the authenticated caller, or the zero Identity.
func IdentityFrom(c echo.Context) access.Identity {
	id, _ := c.Get(identityKey).(access.Identity)
	return id
}

// SignToken issues a token for id. Used by tests and local tooling.
func SignToken(secret []byte, id access.Identity, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = id.Subject
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             string(id.Role),
		ClubID:           id.ClubID,
		RegisteredClaims: claims,
	}).SignedString(secret)
}
