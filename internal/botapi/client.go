package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.telegram.org"

// Error is a failed client call: the request never completed or its reply
// could not be decoded. Remote application-level failures are not Errors —
// they come back as a Response and are relayed as-is.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s - %s", e.Code, e.Message)
}

// Response is a completed remote call. The decoded body is relayed verbatim;
// the response code prefers an error_code embedded in the body (set by some
// intermediaries that always answer 200 on the transport) over the transport
// status line.
type Response struct {
	body map[string]any
	code int
}

// NewResponse applies the error_code precedence rule to a decoded body and
// its transport status.
func NewResponse(body map[string]any, transportCode int) *Response {
	code := transportCode
	if embedded, ok := body["error_code"]; ok {
		switch v := embedded.(type) {
		case float64:
			code = int(v)
		case int:
			code = v
		}
	}
	return &Response{body: body, code: code}
}

func (r *Response) DecodedBody() map[string]any { return r.body }
func (r *Response) ResponseCode() int           { return r.code }

// Invoker is the remote-call capability the proxy handler depends on.
type Invoker interface {
	Invoke(ctx context.Context, method Method, params map[string]any) (*Response, error)
}

// ClientFactory builds an Invoker for a bot token. Injected into the proxy
// handler so tests can substitute a fake remote.
type ClientFactory func(token string) Invoker

// Client calls the Telegram Bot API for a single bot token.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

// Invoke POSTs params as JSON to the named method. Nested values are JSON
// objects the remote API expects (e.g. reply_markup), so the body is sent
// as one JSON document rather than form fields.
func (c *Client) Invoke(ctx context.Context, method Method, params map[string]any) (*Response, error) {
	if params == nil {
		params = map[string]any{}
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, &Error{Code: "encode_error", Message: err.Error()}
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Code: "bad_request", Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Code: "network_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: "network_error", Message: err.Error()}
	}

	body := map[string]any{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &Error{Code: "decode_error", Message: err.Error()}
	}

	return NewResponse(body, resp.StatusCode), nil
}
