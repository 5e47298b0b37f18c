// Package transport is the HTTP client for the remote API. It owns
// the request-authentication contract: every outgoing call attaches
// the cached bearer credential when one exists, a 401 response tears
// the session down and redirects to the login entry point, and a 403
// is surfaced to the caller untouched.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
	"github.com/oressource/auth-client-go/internal/ports"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 1 << 20
)

// SessionCache is the slice of the session store the client needs:
// a pure credential read on every call, and the full session teardown
// on a 401.
type SessionCache interface {
	Credential() string
	Teardown(ctx context.Context) error
}

// Options groups dependencies for NewClient.
type Options struct {
	// BaseURL is the API base, absolute or relative ("/api" in the
	// browser deployment).
	BaseURL string

	// LoginPath is where a 401 redirects to. Defaults to "/login".
	LoginPath string

	HTTPClient *http.Client
	Sessions   SessionCache
	Navigator  ports.Navigator
	Logger     *slog.Logger
}

// Client calls the remote API with the authentication hooks built in.
type Client struct {
	baseURL    string
	loginPath  string
	httpClient *http.Client
	sessions   SessionCache
	navigator  ports.Navigator
	logger     *slog.Logger
}

var _ ports.AuthAPI = (*Client)(nil)

// NewClient constructs a Client.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	return &Client{
		baseURL:    opts.BaseURL,
		loginPath:  loginPath,
		httpClient: httpClient,
		sessions:   opts.Sessions,
		navigator:  opts.Navigator,
		logger:     logger,
	}
}

// endpoint joins the base URL and target path. When both are relative
// it collapses a duplicated separator at the join point, which
// otherwise double-prefixes paths when the base already ends in "/".
func (c *Client) endpoint(path string) string {
	base := c.baseURL
	if base == "" {
		return path
	}
	if isRelativeURL(base) && isRelativeURL(path) {
		if strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/") {
			return base + path[1:]
		}
	}
	switch {
	case strings.HasSuffix(base, "/") && strings.HasPrefix(path, "/"):
		return strings.TrimSuffix(base, "/") + path
	case !strings.HasSuffix(base, "/") && !strings.HasPrefix(path, "/"):
		return base + "/" + path
	default:
		return base + path
	}
}

func isRelativeURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// do performs one API call: pre-hook (path normalization, bearer
// attachment), the call itself, then the post-hook status
// classification. Calls without a cached credential go out
// unauthenticated; some endpoints are public.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.sessions.Credential(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil {
		return fmt.Errorf("read response %s %s: %w", method, path, readErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.teardown(ctx)
		return &APIError{Status: resp.StatusCode, Message: extractMessage(raw)}
	}
	if resp.StatusCode >= 400 {
		// 403 included: forbidden is the calling view's problem, the
		// credential stays cached.
		return &APIError{Status: resp.StatusCode, Message: extractMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response %s %s: %w", method, path, err)
		}
	}
	return nil
}

// teardown handles credential invalidation: the whole session is
// destroyed (durable credential removed first, then identity, flag
// and permissions cleared in memory and durably), then navigation to
// the login entry point. A surviving identity would keep the oracle
// answering authenticated after the server has revoked the session.
func (c *Client) teardown(ctx context.Context) {
	if err := c.sessions.Teardown(ctx); err != nil {
		c.logger.Error("session teardown after 401", "error", err)
	}
	if c.navigator != nil {
		c.navigator.NavigateTo(c.loginPath)
	}
}

type loginResponse struct {
	Token string                 `json:"token"`
	User  domainsession.Identity `json:"user"`
}

// Login exchanges identifier+secret for a bearer token and identity
// record.
func (c *Client) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	payload := map[string]string{"email": in.Email, "password": in.Password}
	var decoded loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", payload, &decoded); err != nil {
		return ports.LoginResult{}, err
	}
	return ports.LoginResult{Token: decoded.Token, Identity: decoded.User}, nil
}

type permissionsResponse struct {
	Permissions []string `json:"permissions"`
}

// FetchPermissions returns the permission strings for the current
// identity. Requires an authenticated call.
func (c *Client) FetchPermissions(ctx context.Context) ([]string, error) {
	var decoded permissionsResponse
	if err := c.do(ctx, http.MethodGet, "/me/permissions", nil, &decoded); err != nil {
		return nil, err
	}
	return decoded.Permissions, nil
}

// Signup creates an account in pending state. It does not
// authenticate the caller.
func (c *Client) Signup(ctx context.Context, in ports.SignupInput) error {
	payload := map[string]string{"email": in.Email, "password": in.Password}
	if in.Phone != "" {
		payload["phone"] = in.Phone
	}
	return c.do(ctx, http.MethodPost, "/users", payload, nil)
}

// RequestPasswordReset triggers the reset email for a contact.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/password/forgot", map[string]string{"email": email}, nil)
}

// ConfirmPasswordReset sets a new secret from a reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	payload := map[string]string{"token": resetToken, "password": newPassword}
	return c.do(ctx, http.MethodPost, "/password/reset", payload, nil)
}

// NotifyLogout posts the server-side audit notification for a logout.
func (c *Client) NotifyLogout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// Heartbeat posts the liveness signal for the authenticated user.
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/presence/heartbeat", nil, nil)
}
