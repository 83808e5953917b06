package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/taskleaf/taskleaf/internal/models"
)

const userContextKey = "current_user"

type accessClaims struct {
	jwt.RegisteredClaims
}

// AuthRequired resolves the caller from the Authorization header or the
// access_token cookie and loads the owning user. Everything behind it
// can trust currentUser.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return apiError(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid token subject")
	}

	user, err := handler.authService.FindByID(uint(userID))
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "user no longer exists")
	}
	if !user.IsActive {
		return apiError(c, fiber.StatusUnauthorized, "account disabled")
	}

	c.Locals(userContextKey, &user)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	// Cookie carries "Bearer <token>" for browser clients; accept a bare
	// token too.
	cookie := c.Cookies(authCookieName)
	if strings.HasPrefix(cookie, "Bearer ") {
		return strings.TrimPrefix(cookie, "Bearer ")
	}
	return cookie
}

func (handler *Handler) issueToken(user *models.User, now time.Time) (string, error) {
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(authTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

func (handler *Handler) setAuthCookie(c *fiber.Ctx, tokenString string) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "Bearer " + tokenString,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(authTokenTTL.Seconds()),
	})
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
	})
}
