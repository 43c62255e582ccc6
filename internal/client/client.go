// Package client is the consumer-side session manager for the back-office
// API: it stores the authentication artifact, attaches it to outgoing
// requests, and tracks the authenticated principal the way the admin SPA
// does. A cookie jar carries session-mode artifacts; bearer-mode tokens are
// held in memory and sent in the Authorization header.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/orderdesk/orderdesk/internal/auth"
	"github.com/orderdesk/orderdesk/internal/model"
)

var (
	// ErrUnauthenticated is returned when the server rejects the client's
	// artifact. The client clears its principal before returning it.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound is returned for lookups by a business key the server
	// doesn't know.
	ErrNotFound = errors.New("not found")
)

// Client manages authentication state against one back-office server.
// Loading is true only while the initial resolve-on-load check (or a login
// confirmation) is in flight; callers must treat loading and unauthenticated
// as distinct states.
type Client struct {
	baseURL string
	mode    auth.Mode
	httpc   *http.Client

	mu        sync.Mutex
	token     string // bearer mode only
	principal *model.AdminInfo
	loading   bool
}

// New creates a Client for the server at baseURL running the given auth
// mode. The client starts in the loading state; call Load to resolve any
// ambient session before rendering an unauthenticated view.
func New(baseURL string, mode auth.Mode) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		mode:    mode,
		httpc: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
		loading: true,
	}, nil
}

// Loading reports whether an initial resolve or login confirmation is in
// flight.
func (c *Client) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Principal returns the authenticated identity, or nil.
func (c *Client) Principal() *model.AdminInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.principal == nil {
		return nil
	}
	p := *c.principal
	return &p
}

// Authenticated reports whether a principal is currently resolved.
func (c *Client) Authenticated() bool {
	return c.Principal() != nil
}

// Token returns the stored bearer artifact, empty in session mode.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Load resolves authentication state on startup. In bearer mode with no
// stored token it settles unauthenticated immediately, without a network
// call. In session mode it always asks the server, since the cookie jar may
// carry an ambient session from a previous run.
func (c *Client) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.mode == auth.ModeBearer && c.token == "" {
		c.principal = nil
		c.loading = false
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.check(ctx)
}

// Login authenticates with the server. The caller is not considered
// authenticated until the artifact is durably stored and confirmed: in
// bearer mode storing the token is an in-memory assignment that cannot fail,
// so the login response is trusted directly; in session mode the cookie
// round-trip is confirmed with a follow-up check before Login returns.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return auth.ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", decodeErrorMessage(resp))
	}

	var loginResp model.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	if c.mode == auth.ModeBearer {
		if loginResp.Token == "" {
			return fmt.Errorf("login response carried no token")
		}
		c.mu.Lock()
		c.token = loginResp.Token
		c.principal = &model.AdminInfo{ID: loginResp.Admin.ID, Email: loginResp.Admin.Email}
		c.loading = false
		c.mu.Unlock()
		return nil
	}

	// Session mode: the artifact lives in the cookie jar. Confirm the
	// round-trip before reporting authenticated.
	if err := c.check(ctx); err != nil {
		return err
	}
	if !c.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// Logout tells the server to revoke the artifact, then unconditionally
// clears local state. A failed network call never leaves the client
// logged in.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err == nil {
		c.attach(req)
		if resp, doErr := c.httpc.Do(req); doErr == nil {
			resp.Body.Close()
		}
	}

	c.mu.Lock()
	c.token = ""
	c.principal = nil
	c.loading = false
	c.mu.Unlock()
	return nil
}

// Orders fetches the order list through the protected API.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	resp, err := c.get(ctx, "/api/admin/orders")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var listResp model.OrderListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return listResp.Data, nil
}

// UpdateOrderStatus patches one order's status by business key.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderNo, status string) (*model.Order, error) {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.baseURL+"/api/admin/orders/"+orderNo+"/status", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.attach(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var updateResp struct {
		Data model.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&updateResp); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &updateResp.Data, nil
}

// check calls the "who am I" endpoint and settles the principal either way.
func (c *Client) check(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	settle := func(p *model.AdminInfo) {
		c.mu.Lock()
		c.principal = p
		c.loading = false
		c.mu.Unlock()
	}

	resp, err := c.get(ctx, "/api/admin/check")
	if err != nil {
		settle(nil)
		return fmt.Errorf("check auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		settle(nil)
		return nil
	}

	var checkResp model.CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&checkResp); err != nil {
		settle(nil)
		return fmt.Errorf("decode check response: %w", err)
	}
	if !checkResp.IsAuthenticated || checkResp.Admin == nil {
		settle(nil)
		return nil
	}

	settle(&model.AdminInfo{ID: checkResp.Admin.ID, Email: checkResp.Admin.Email})
	return nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.attach(req)
	return c.httpc.Do(req)
}

// attach adds the bearer artifact to an outgoing request. Session-mode
// artifacts ride along automatically via the cookie jar.
func (c *Client) attach(req *http.Request) {
	if c.mode != auth.ModeBearer {
		return
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// checkStatus maps protected-route failures to sentinel errors. A 401 drops
// the local principal: the server has spoken.
func (c *Client) checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		c.mu.Lock()
		c.principal = nil
		c.mu.Unlock()
		return ErrUnauthenticated
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("request failed: %s", decodeErrorMessage(resp))
	}
}

func decodeErrorMessage(resp *http.Response) string {
	var errResp model.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Message == "" {
		return resp.Status
	}
	return errResp.Message
}
