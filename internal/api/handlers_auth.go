package api

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskleaf/taskleaf/internal/models"
	"github.com/taskleaf/taskleaf/internal/services"
	"go.uber.org/zap"
)

const oauthStateCookieName = "taskleaf_oauth_state"

type registerInput struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if !validEmail(input.Email) {
		return apiError(c, fiber.StatusBadRequest, "invalid email address")
	}
	if len(input.Password) < 6 {
		return apiError(c, fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	user, err := handler.authService.Register(input.Email, strings.TrimSpace(input.FullName), input.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return apiError(c, fiber.StatusBadRequest, "email already registered")
		}
		handler.logger.Error("register failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "registration failed")
	}

	return handler.respondWithToken(c, &user, fiber.StatusCreated)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(strings.TrimSpace(strings.ToLower(input.Email)), input.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOAuthOnlyAccount):
			return apiError(c, fiber.StatusBadRequest, "this account uses Google Sign-In; please continue with Google")
		case errors.Is(err, services.ErrInvalidCredentials):
			return apiError(c, fiber.StatusUnauthorized, "incorrect email or password")
		default:
			handler.logger.Error("login failed", zap.Error(err))
			return apiError(c, fiber.StatusInternalServerError, "login failed")
		}
	}

	return handler.respondWithToken(c, &user, fiber.StatusOK)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"message": "successfully logged out"})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

func (handler *Handler) respondWithToken(c *fiber.Ctx, user *models.User, status int) error {
	tokenString, err := handler.issueToken(user, time.Now())
	if err != nil {
		handler.logger.Error("token issue failed", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.setAuthCookie(c, tokenString)

	return c.Status(status).JSON(tokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
		User:        user,
	})
}

func (handler *Handler) GoogleLogin(c *fiber.Ctx) error {
	state, err := randomState()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start oauth flow")
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   300,
	})

	return c.Redirect(handler.calendar.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

func (handler *Handler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(oauthStateCookieName) {
		return handler.redirectWithOAuthError(c, "state_mismatch")
	}

	code := c.Query("code")
	if code == "" {
		return handler.redirectWithOAuthError(c, "missing_code")
	}

	token, err := handler.calendar.ExchangeCode(c.Context(), code)
	if err != nil {
		handler.logger.Warn("oauth code exchange failed", zap.Error(err))
		return handler.redirectWithOAuthError(c, "oauth_failed")
	}

	info, err := handler.calendar.FetchUserInfo(c.Context(), token)
	if err != nil {
		handler.logger.Warn("oauth userinfo fetch failed", zap.Error(err))
		return handler.redirectWithOAuthError(c, "oauth_failed")
	}

	user, err := handler.authService.UpsertGoogleUser(services.GoogleProfile{
		GoogleID:     info.ID,
		Email:        info.Email,
		FullName:     info.Name,
		Picture:      info.Picture,
		RefreshToken: token.RefreshToken,
	})
	if err != nil {
		handler.logger.Error("google user upsert failed", zap.Error(err))
		return handler.redirectWithOAuthError(c, "oauth_failed")
	}

	tokenString, err := handler.issueToken(&user, time.Now())
	if err != nil {
		return handler.redirectWithOAuthError(c, "oauth_failed")
	}
	handler.setAuthCookie(c, tokenString)

	userJSON, err := json.Marshal(user)
	if err != nil {
		return handler.redirectWithOAuthError(c, "oauth_failed")
	}

	redirect := handler.cfg.FrontendURL + "/auth/callback?token=" + url.QueryEscape(tokenString) +
		"&user=" + url.QueryEscape(string(userJSON))
	return c.Redirect(redirect, fiber.StatusSeeOther)
}

func (handler *Handler) redirectWithOAuthError(c *fiber.Ctx, reason string) error {
	return c.Redirect(handler.cfg.FrontendURL+"/login?error="+url.QueryEscape(reason), fiber.StatusSeeOther)
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
