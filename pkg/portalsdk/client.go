package portalsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the portal JSON API. A zero token makes anonymous calls;
// use WithToken to act as a signed-in identity.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

// NewClient creates an anonymous client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login",
		LoginRequest{Identifier: identifier, Password: password}, &out, http.StatusOK)
	return &out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, http.StatusNoContent)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*IdentityResponse, error) {
	var out IdentityResponse
	err := c.do(ctx, http.MethodPost, "/v1/register", req, &out, http.StatusCreated)
	return &out, err
}

func (c *Client) Me(ctx context.Context) (*IdentityResponse, error) {
	var out IdentityResponse
	err := c.do(ctx, http.MethodGet, "/v1/me", nil, &out, http.StatusOK)
	return &out, err
}

func (c *Client) Preferences(ctx context.Context) (*Preferences, error) {
	var out Preferences
	err := c.do(ctx, http.MethodGet, "/v1/me/preferences", nil, &out, http.StatusOK)
	return &out, err
}

func (c *Client) UpdatePreferences(ctx context.Context, p Preferences) (*Preferences, error) {
	var out Preferences
	err := c.do(ctx, http.MethodPut, "/v1/me/preferences", p, &out, http.StatusOK)
	return &out, err
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPost, "/v1/me/password",
		ChangePasswordRequest{CurrentPassword: current, NewPassword: next}, nil, http.StatusNoContent)
}

func (c *Client) ActiveContent(ctx context.Context, family string) (*ContentResponse, error) {
	var out ContentResponse
	err := c.do(ctx, http.MethodGet, "/v1/content/"+url.PathEscape(family)+"/active", nil, &out, http.StatusOK)
	return &out, err
}

func (c *Client) ListContent(ctx context.Context, family string) ([]ContentResponse, error) {
	var out ContentListResponse
	err := c.do(ctx, http.MethodGet, "/v1/content/"+url.PathEscape(family), nil, &out, http.StatusOK)
	return out.Records, err
}

func (c *Client) CreateContent(ctx context.Context, family string, req ContentRequest) (*ContentResponse, error) {
	var out ContentResponse
	err := c.do(ctx, http.MethodPost, "/v1/content/"+url.PathEscape(family), req, &out, http.StatusCreated)
	return &out, err
}

func (c *Client) UpdateContent(ctx context.Context, family, id string, req ContentRequest) (*ContentResponse, error) {
	var out ContentResponse
	path := "/v1/content/" + url.PathEscape(family) + "/" + url.PathEscape(id)
	err := c.do(ctx, http.MethodPut, path, req, &out, http.StatusOK)
	return &out, err
}

// CreateIdentity registers an identity as an administrator. Unlike Register
// it may create staff identities.
func (c *Client) CreateIdentity(ctx context.Context, req RegisterRequest) (*IdentityResponse, error) {
	var out IdentityResponse
	err := c.do(ctx, http.MethodPost, "/v1/admin/identities", req, &out, http.StatusCreated)
	return &out, err
}

func (c *Client) UnlockIdentity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/v1/admin/identities/"+url.PathEscape(id)+"/unlock", nil, nil, http.StatusNoContent)
}

func (c *Client) SetIdentityStatus(ctx context.Context, id string, active bool) (*IdentityResponse, error) {
	var out IdentityResponse
	err := c.do(ctx, http.MethodPost, "/v1/admin/identities/"+url.PathEscape(id)+"/status",
		SetStatusRequest{Active: active}, &out, http.StatusOK)
	return &out, err
}

func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/admin/identities/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// Audit fetches recent audit records. limit <= 0 uses the server default.
func (c *Client) Audit(ctx context.Context, actorID string, limit int) (*AuditResponse, error) {
	q := url.Values{}
	if actorID != "" {
		q.Set("actor", actorID)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := "/v1/admin/audit"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out AuditResponse
	err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return &out, err
}

func (c *Client) Liveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK)
	return &out, err
}

func (c *Client) Readiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK)
	return &out, err
}

// do sends in as JSON (when non-nil) and decodes the response into out
// (when non-nil). Any status other than expected becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any, expected int) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != expected {
		return parseErrorResponse(resp, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
