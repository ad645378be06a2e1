package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

// ---- mock implementations ----

type mockAuthQuerier struct {
	loginFn   func(email, password string) (string, error)
	refreshFn func(token string) (string, error)
}

func (m *mockAuthQuerier) Login(email, password string) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(email, password)
	}
	return "", fmt.Errorf("not configured")
}

func (m *mockAuthQuerier) RefreshToken(token string) (string, error) {
	if m.refreshFn != nil {
		return m.refreshFn(token)
	}
	return "", fmt.Errorf("not configured")
}

// ---- helpers ----

func newAuthTestRouter(queries AuthQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(queries)
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/refresh", h.RefreshToken)
	return r
}

// ---- tests ----

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		loginFn        func(email, password string) (string, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{"email": "admin@example.com", "password": "hunter2"},
			loginFn: func(email, password string) (string, error) {
				return "signed-token", nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unauthorized - wrong credentials",
			body: map[string]interface{}{"email": "admin@example.com", "password": "wrong"},
			loginFn: func(email, password string) (string, error) {
				return "", fmt.Errorf("invalid credentials")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - invalid email",
			body:           map[string]interface{}{"email": "not-an-email", "password": "hunter2"},
			loginFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]interface{}{"email": "admin@example.com"},
			loginFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthQuerier{loginFn: tt.loginFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		refreshFn      func(token string) (string, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{"token": "old-token"},
			refreshFn: func(token string) (string, error) {
				return "new-token", nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unauthorized - expired token",
			body: map[string]interface{}{"token": "expired"},
			refreshFn: func(token string) (string, error) {
				return "", fmt.Errorf("invalid token")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing token",
			body:           map[string]interface{}{},
			refreshFn:      nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthQuerier{refreshFn: tt.refreshFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/refresh", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
