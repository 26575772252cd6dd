package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	autherrors "github.com/shahadat-technovicinity/school-management-system/internal/auth/errors"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/apperror"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/response"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/token"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

type Handler struct {
	service      Service
	secureCookie bool
}

func NewHandler(s Service, secureCookie bool) *Handler {
	return &Handler{service: s, secureCookie: secureCookie}
}

// isWebClient trusts X-Client-Type first and falls back to the user agent.
func isWebClient(c *gin.Context) bool {
	switch strings.ToLower(strings.TrimSpace(c.GetHeader("X-Client-Type"))) {
	case "web":
		return true
	case "mobile", "api":
		return false
	}
	return strings.Contains(c.GetHeader("User-Agent"), "Mozilla")
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) writeTokens(c *gin.Context, resp TokenResponse) {
	if isWebClient(c) {
		h.setCookie(c, accessCookie, resp.AccessToken, int(token.AccessTTL.Seconds()))
		h.setCookie(c, refreshCookie, resp.RefreshToken, int(token.RefreshTTL.Seconds()))
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.writeTokens(c, resp)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	var refreshToken string
	if isWebClient(c) {
		refreshToken, _ = c.Cookie(refreshCookie)
	}
	if refreshToken == "" {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.FromError(c, autherrors.ErrTokenNotFound)
			return
		}
		refreshToken = req.RefreshToken
	}

	resp, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.writeTokens(c, resp)
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	resp, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, accessCookie, "", -1)
	h.setCookie(c, refreshCookie, "", -1)

	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, nil)
}
