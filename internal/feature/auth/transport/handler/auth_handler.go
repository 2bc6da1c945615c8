// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_portfolio/internal/api"
	"stock_portfolio/internal/feature/auth/domain/entity"
	"stock_portfolio/internal/feature/auth/usecase"
	"stock_portfolio/internal/shared/apperr"
)

// AuthUsecase defines the authentication operations the handler needs.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Signup(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string, meta entity.ClientMeta) (*entity.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string, meta entity.ClientMeta) (*entity.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// AuthHandler handles signup, login and session endpoints.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

var invalidRequest = api.ErrorResponse{Error: "invalid request", Kind: string(apperr.KindValidation)}

func clientMeta(c *gin.Context) entity.ClientMeta {
	return entity.ClientMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}

func tokenResponse(p *entity.TokenPair) api.TokenResponse {
	return api.TokenResponse{
		Token:        p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    int64(p.ExpiresIn.Seconds()),
	}
}

// Signup handles POST /signup.
//   - 400 on a malformed body or a password policy violation
//   - 409 when the email is taken
//   - 201 on success
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, invalidRequest)
		return
	}
	if err := h.auth.Signup(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		slog.Warn("signup failed", "error", err, "remote_addr", c.ClientIP())
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "signup failed", Kind: string(apperr.KindValidation)})
		case apperr.KindOf(err) == apperr.KindValidation:
			c.JSON(http.StatusBadRequest, api.NewErrorResponse(err))
		default:
			c.JSON(http.StatusInternalServerError, api.NewErrorResponse(err))
		}
		return
	}
	slog.Info("user signup successful", "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "ok"})
}

// Login handles POST /login. Every failure is a 401 with the same message
// so callers cannot tell unknown emails from wrong passwords.
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, invalidRequest)
		return
	}
	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{
			Error: "invalid email or password",
			Kind:  string(apperr.KindUnauthenticated),
		})
		return
	}
	c.JSON(http.StatusOK, tokenResponse(pair))
}

// Refresh handles POST /refresh by rotating the refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req api.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, invalidRequest)
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, clientMeta(c))
	if err != nil {
		slog.Warn("refresh failed", "error", err, "remote_addr", c.ClientIP())
		if apperr.KindOf(err) == apperr.KindUnauthenticated {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{
				Error: "invalid refresh token",
				Kind:  string(apperr.KindUnauthenticated),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, api.NewErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, tokenResponse(pair))
}

// Logout handles POST /logout. It succeeds for unknown tokens.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req api.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, invalidRequest)
		return
	}
	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		slog.Error("logout failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.NewErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}
