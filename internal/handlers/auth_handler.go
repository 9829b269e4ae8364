package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusync/task-automation-service/internal/models"
	"github.com/edusync/task-automation-service/internal/services"
	"github.com/edusync/task-automation-service/internal/upstream"
	"github.com/edusync/task-automation-service/internal/utils"
	"github.com/edusync/task-automation-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService *services.AuthService
	validator   *validator.Validator
}

func NewAuthHandler(authService *services.AuthService, v *validator.Validator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		validator:   v,
	}
}

// Login exchanges student credentials for a platform auth token.
// @Summary Authenticate student
// @Description Proxies the platform registration exchange
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.AuthRequest true "Student credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Authenticating student", "ra", req.RA)

	resp, err := h.authService.Login(c.Request.Context(), req.RA, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoginFailed), errors.Is(err, services.ErrNoAuthToken):
			h.RespondWithError(c, http.StatusUnauthorized, "Authentication failed", err)
		case upstream.IsUpstreamError(err):
			h.RespondWithError(c, http.StatusBadGateway, "Upstream platform error", err)
		default:
			h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Success:   true,
		AuthToken: resp.AuthToken,
		Nick:      resp.Nick,
	})
}
