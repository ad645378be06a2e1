package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/botvault/botvault/internal/botapi"
	"github.com/gin-gonic/gin"
)

const testBotToken = "12345:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw"

// ---- mock implementations ----

type mockInvoker struct {
	invokeFn func(botapi.Method, map[string]any) (*botapi.Response, error)
	calls    int
}

func (m *mockInvoker) Invoke(_ context.Context, method botapi.Method, params map[string]any) (*botapi.Response, error) {
	m.calls++
	if m.invokeFn != nil {
		return m.invokeFn(method, params)
	}
	return botapi.NewResponse(map[string]any{"ok": true}, http.StatusOK), nil
}

// ---- helpers ----

func newProxyTestRouter(invoker botapi.Invoker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewProxyHandler(func(token string) botapi.Invoker { return invoker }, nil)
	r.GET("/v1/proxy/:method", h.Proxy)
	r.POST("/v1/proxy/:method", h.Proxy)
	return r
}

// ---- tests ----

func TestProxyTokenValidation(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{"valid token", testBotToken, http.StatusOK},
		{"missing token", "", http.StatusBadRequest},
		{"no colon", "12345AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw", http.StatusBadRequest},
		{"non-numeric bot id", "abc:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw", http.StatusBadRequest},
		{"unsafe characters", "12345:AAH<script>", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := &mockInvoker{}
			router := newProxyTestRouter(invoker)
			body := map[string]interface{}{"bot_token": tt.token}
			w := doRequest(router, http.MethodPost, "/v1/proxy/getMe", body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK && invoker.calls != 0 {
				t.Errorf("invalid token must be rejected before any remote call, saw %d calls", invoker.calls)
			}
		})
	}
}

func TestProxyMethodValidation(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{"known method", "sendMessage", http.StatusOK},
		{"unknown method", "dropDatabase", http.StatusNotFound},
		{"non-alphabetic", "get2Me", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := &mockInvoker{}
			router := newProxyTestRouter(invoker)
			body := map[string]interface{}{"bot_token": testBotToken}
			w := doRequest(router, http.MethodPost, "/v1/proxy/"+tt.method, body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK && invoker.calls != 0 {
				t.Errorf("rejected method must not reach the remote, saw %d calls", invoker.calls)
			}
		})
	}
}

func TestProxyTransportFailure(t *testing.T) {
	invoker := &mockInvoker{
		invokeFn: func(botapi.Method, map[string]any) (*botapi.Response, error) {
			return nil, &botapi.Error{Code: "network_error", Message: "timeout"}
		},
	}
	router := newProxyTestRouter(invoker)

	body := map[string]interface{}{"bot_token": testBotToken}
	w := doRequest(router, http.MethodPost, "/v1/proxy/getMe", body)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got["ok"] != false {
		t.Errorf("expected ok false, got %v", got["ok"])
	}
	if got["error_code"] != float64(500) {
		t.Errorf("expected error_code 500, got %v", got["error_code"])
	}
	if got["description"] != "network_error - timeout" {
		t.Errorf("expected synthesized description, got %v", got["description"])
	}
}

func TestProxyBodyErrorCodePrecedence(t *testing.T) {
	// An intermediary answered 200 on the transport but embedded the real
	// error code in the body.
	invoker := &mockInvoker{
		invokeFn: func(botapi.Method, map[string]any) (*botapi.Response, error) {
			return botapi.NewResponse(map[string]any{
				"ok":          false,
				"error_code":  float64(429),
				"description": "Too Many Requests: retry after 5",
			}, http.StatusOK), nil
		},
	}
	router := newProxyTestRouter(invoker)

	body := map[string]interface{}{"bot_token": testBotToken}
	w := doRequest(router, http.MethodPost, "/v1/proxy/sendMessage", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected body error_code to win over transport status, got %d", w.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got["description"] != "Too Many Requests: retry after 5" {
		t.Errorf("remote body not relayed verbatim: %v", got)
	}
}

func TestProxySanitizesParams(t *testing.T) {
	var got map[string]any
	invoker := &mockInvoker{
		invokeFn: func(_ botapi.Method, params map[string]any) (*botapi.Response, error) {
			got = params
			return botapi.NewResponse(map[string]any{"ok": true}, http.StatusOK), nil
		},
	}
	router := newProxyTestRouter(invoker)

	body := map[string]interface{}{
		"bot_token": testBotToken,
		"api_params": map[string]interface{}{
			"chat_id": float64(42),
			"text":    "hello <script>alert(1)</script> world",
			"extra":   map[string]interface{}{"<b>k</b>": "  spaced   out  "},
		},
	}
	w := doRequest(router, http.MethodPost, "/v1/proxy/sendMessage", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}

	if got["chat_id"] != float64(42) {
		t.Errorf("non-string leaf must pass through, got %v", got["chat_id"])
	}
	if got["text"] != "hello world" {
		t.Errorf("expected markup stripped from text, got %q", got["text"])
	}
	nested, ok := got["extra"].(map[string]any)
	if !ok {
		t.Fatalf("nested structure not preserved: %T", got["extra"])
	}
	if nested["k"] != "spaced out" {
		t.Errorf("expected sanitized key and value, got %+v", nested)
	}
}

func TestProxyGetRequest(t *testing.T) {
	var gotMethod botapi.Method
	var gotParams map[string]any
	invoker := &mockInvoker{
		invokeFn: func(method botapi.Method, params map[string]any) (*botapi.Response, error) {
			gotMethod = method
			gotParams = params
			return botapi.NewResponse(map[string]any{"ok": true, "result": []any{}}, http.StatusOK), nil
		},
	}
	router := newProxyTestRouter(invoker)

	query := url.Values{}
	query.Set("bot_token", testBotToken)
	query.Set("api_params", `{"offset": 7}`)
	w := doRequest(router, http.MethodGet, "/v1/proxy/getUpdates?"+query.Encode(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}
	if gotMethod != botapi.MethodGetUpdates {
		t.Errorf("expected getUpdates, got %s", gotMethod)
	}
	if gotParams["offset"] != float64(7) {
		t.Errorf("query api_params not decoded, got %+v", gotParams)
	}
}

func TestProxyGetRequestBadAPIParams(t *testing.T) {
	invoker := &mockInvoker{}
	router := newProxyTestRouter(invoker)

	query := url.Values{}
	query.Set("bot_token", testBotToken)
	query.Set("api_params", "not-json")
	w := doRequest(router, http.MethodGet, "/v1/proxy/getUpdates?"+query.Encode(), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if invoker.calls != 0 {
		t.Errorf("malformed api_params must not reach the remote")
	}
}
