package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/botvault/botvault/internal/botapi"
	"github.com/botvault/botvault/internal/middleware"
	"github.com/botvault/botvault/internal/sanitize"
	"github.com/botvault/botvault/pkg/metrics"
	"github.com/gin-gonic/gin"
)

var methodNamePattern = regexp.MustCompile(`^[a-zA-Z]+$`)

// Sanitizer scrubs request parameters before they leave the service.
type Sanitizer func(map[string]any) map[string]any

// ProxyHandler forwards bot API calls upstream. It validates and sanitizes
// the inputs, then relays whatever the remote (or its intermediary) answers
// without reinterpreting it. No retries: resilience belongs to the client.
type ProxyHandler struct {
	clients  botapi.ClientFactory
	sanitize Sanitizer
}

type ProxyRequest struct {
	BotToken  string         `json:"bot_token" validate:"required,bottoken"`
	APIParams map[string]any `json:"api_params"`
}

func NewProxyHandler(clients botapi.ClientFactory, sanitizer Sanitizer) *ProxyHandler {
	if sanitizer == nil {
		sanitizer = sanitize.Params
	}
	return &ProxyHandler{clients: clients, sanitize: sanitizer}
}

// Proxy handles GET|POST /v1/proxy/:method.
func (h *ProxyHandler) Proxy(c *gin.Context) {
	methodName := c.Param("method")
	if !methodNamePattern.MatchString(methodName) {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid method name")
		return
	}
	method, err := botapi.ParseMethod(methodName)
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "Unknown bot API method")
		return
	}

	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	params := req.APIParams
	if params == nil {
		params = map[string]any{}
	}
	params = h.sanitize(params)

	start := time.Now()
	resp, err := h.clients(req.BotToken).Invoke(c.Request.Context(), method, params)
	metrics.ProxyDuration.WithLabelValues(methodName).Observe(time.Since(start).Seconds())

	if err != nil {
		// The call never completed; the remote's own failures arrive as a
		// Response and take the branch below.
		metrics.ProxyRequests.WithLabelValues(methodName, "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":          false,
			"error_code":  http.StatusInternalServerError,
			"description": err.Error(),
		})
		return
	}

	metrics.ProxyRequests.WithLabelValues(methodName, strconv.Itoa(resp.ResponseCode())).Inc()
	c.JSON(resp.ResponseCode(), resp.DecodedBody())
}

func (h *ProxyHandler) bindRequest(c *gin.Context) (*ProxyRequest, bool) {
	var req ProxyRequest
	if c.Request.Method == http.MethodGet {
		req.BotToken = c.Query("bot_token")
		if raw := c.Query("api_params"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.APIParams); err != nil {
				middleware.RespondWithError(c, http.StatusBadRequest, "api_params must be a JSON object")
				return nil, false
			}
		}
		return &req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return &req, true
}
