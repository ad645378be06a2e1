package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/botvault/botvault/internal/command"
	"github.com/botvault/botvault/internal/middleware"
	"github.com/botvault/botvault/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// AccountProcessor defines the command dispatch used by AccountHandler.
type AccountProcessor interface {
	Process(ctx context.Context, req command.Request) (*command.Response, error)
}

// AccountHandler handles account-management command requests.
type AccountHandler struct {
	commands AccountProcessor
}

type AccountCommandRequest struct {
	Method string            `json:"method" validate:"required"`
	Params map[string]string `json:"params"`
}

func NewAccountHandler(commands AccountProcessor) *AccountHandler {
	return &AccountHandler{commands: commands}
}

// ProcessCommand executes one account command. An unrecognized method
// answers with the literal `false` body (HTTP 200): long-standing callers
// key off that sentinel, so it stays on the wire even though internally it
// is an explicit error.
func (h *AccountHandler) ProcessCommand(c *gin.Context) {
	var req AccountCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	resp, err := h.commands.Process(c.Request.Context(), command.Request{
		Method: req.Method,
		Params: req.Params,
	})
	if errors.Is(err, command.ErrUnknownCommand) {
		metrics.CommandCounter.WithLabelValues(req.Method, "unknown").Inc()
		c.JSON(http.StatusOK, false)
		return
	}
	if err != nil {
		metrics.CommandCounter.WithLabelValues(req.Method, "error").Inc()
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to process command")
		return
	}

	metrics.CommandCounter.WithLabelValues(req.Method, "ok").Inc()
	c.JSON(http.StatusOK, resp)
}
