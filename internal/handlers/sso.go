package handlers

import (
	"net/url"

	"github.com/famcart/backend/internal/config"
	"github.com/famcart/backend/internal/services"
	"github.com/famcart/backend/pkg/logger"
	"github.com/famcart/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SSOHandler struct {
	Cfg          *config.Config
	SSOService   *services.SSOService
	OAuthService *services.OAuthService
}

func NewSSOHandler(db *gorm.DB, cfg *config.Config) *SSOHandler {
	return &SSOHandler{
		Cfg:          cfg,
		SSOService:   services.NewSSOService(db, cfg),
		OAuthService: services.NewOAuthService(cfg),
	}
}

// GetLoginRedirect hands the frontend the Google authorization URL.
func (h *SSOHandler) GetLoginRedirect(c *fiber.Ctx) error {
	state, err := h.OAuthService.GenerateState()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating state")
	}

	authCodeURL, err := h.OAuthService.AuthCodeURL(state)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"url": authCodeURL})
}

// HandleCallback exchanges the authorization code, verifies the ID
// token, resolves the local user and redirects back to the frontend
// with a session token.
func (h *SSOHandler) HandleCallback(c *fiber.Ctx) error {
	frontendURL := h.Cfg.Server.FrontendURL

	code := c.Query("code")
	if code == "" {
		return c.Redirect(frontendURL + "/login?error=" + url.QueryEscape("authorization code is required"))
	}

	oauthToken, err := h.OAuthService.ExchangeCode(c.Context(), code)
	if err != nil {
		return c.Redirect(frontendURL + "/login?error=" + url.QueryEscape(err.Error()))
	}

	profile, err := h.OAuthService.VerifyIDToken(c.Context(), oauthToken)
	if err != nil {
		return c.Redirect(frontendURL + "/login?error=" + url.QueryEscape(err.Error()))
	}

	user, err := h.SSOService.FindOrCreateUser(c.Context(), profile)
	if err != nil {
		return c.Redirect(frontendURL + "/login?error=" + url.QueryEscape(err.Error()))
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return c.Redirect(frontendURL + "/login?error=" + url.QueryEscape("failed to generate token"))
	}

	logger.InfoWithUser(user.ID.String(), "sso_login_success", map[string]interface{}{
		"email":    user.Email,
		"provider": "google",
	})

	return c.Redirect(frontendURL + "/auth/callback?token=" + token)
}
