package handler

import (
	"net/http"

	"github.com/botvault/botvault/internal/botapi"
	"github.com/botvault/botvault/internal/middleware"
	"github.com/gin-gonic/gin"
)

// TokenHandler verifies bot tokens against the remote API before they are
// stored or proxied for the first time.
type TokenHandler struct {
	verify botapi.TokenVerifier
}

type VerifyTokenRequest struct {
	BotToken string `json:"bot_token" validate:"required,bottoken"`
}

type VerifyTokenResponse struct {
	OK  bool            `json:"ok"`
	Bot *botapi.BotInfo `json:"bot,omitempty"`
}

func NewTokenHandler(verify botapi.TokenVerifier) *TokenHandler {
	return &TokenHandler{verify: verify}
}

func (h *TokenHandler) VerifyToken(c *gin.Context) {
	var req VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	info, err := h.verify(req.BotToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, VerifyTokenResponse{OK: false})
		return
	}

	c.JSON(http.StatusOK, VerifyTokenResponse{OK: true, Bot: info})
}
