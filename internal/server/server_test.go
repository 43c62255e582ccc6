package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orderdesk/orderdesk/internal/auth"
	"github.com/orderdesk/orderdesk/internal/model"
	"github.com/orderdesk/orderdesk/internal/store"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

const (
	testJWTSecret = "test-secret-for-integration-tests"
	testPassword  = "supersecretpassword"
	testAdminName = "Test Admin"
)

// testEnv holds all the shared state for integration tests.
type testEnv struct {
	server  *Server
	store   *store.Store
	authSvc *auth.Service
}

// newTestEnv creates a fresh test environment with an in-memory store and a
// fully wired Server running the given auth mode.
func newTestEnv(t *testing.T, mode auth.Mode) *testEnv {
	t.Helper()

	st, err := store.Open(store.Config{}) // in-memory SQLite
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	authSvc := auth.New(st, auth.Options{Mode: mode, JWTSecret: testJWTSecret})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := DefaultConfig()
	srv := New(cfg, st, authSvc, logger)

	return &testEnv{
		server:  srv,
		store:   st,
		authSvc: authSvc,
	}
}

// seedAdmin creates a default admin account and returns it.
func (e *testEnv) seedAdmin(t *testing.T) *model.Admin {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := &model.Admin{
		Email:        "admin@example.com",
		PasswordHash: hash,
		Name:         testAdminName,
		IsActive:     true,
	}
	if err := e.store.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("seedAdmin: %v", err)
	}
	return admin
}

// seedOrders inserts n orders with sequential order numbers.
func (e *testEnv) seedOrders(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		order := &model.Order{
			OrderNo:      orderNo(i),
			CustomerName: "Acme Corp",
			TotalCents:   int64(1000 * i),
			Status:       "pending",
		}
		if err := e.store.CreateOrder(context.Background(), order); err != nil {
			t.Fatalf("seedOrders: %v", err)
		}
	}
}

func orderNo(i int) string {
	return fmt.Sprintf("ORD-%03d", i)
}

// login authenticates as the seeded admin and returns the response recorder.
func (e *testEnv) login(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	body := jsonBody(t, map[string]string{
		"email":    "admin@example.com",
		"password": testPassword,
	})
	return e.do(t, "POST", "/auth/login", body, nil)
}

// adminToken logs in and returns the bearer token. Bearer mode only.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	rr := e.login(t)
	assertStatus(t, rr, http.StatusOK)

	var resp model.LoginResponse
	decodeJSON(t, rr, &resp)
	if resp.Token == "" {
		t.Fatal("adminToken: got empty token from login")
	}
	return resp.Token
}

// sessionCookie logs in and returns the session cookie. Session mode only.
func (e *testEnv) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	rr := e.login(t)
	assertStatus(t, rr, http.StatusOK)

	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	t.Fatal("sessionCookie: no session cookie in login response")
	return nil
}

// do executes an HTTP request against the test server and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

// doAuth executes an authenticated request using a bearer token.
func (e *testEnv) doAuth(t *testing.T, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// doCookie executes an authenticated request using a session cookie.
func (e *testEnv) doCookie(t *testing.T, method, path string, body io.Reader, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("jsonBody: %v", err)
	}
	return buf
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decodeJSON: %v; body = %s", err, rr.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Health check tests
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)

	rr := env.do(t, "GET", "/healthz", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	decodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want %q", resp["status"], "ok")
	}
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)

	rr := env.do(t, "GET", "/readyz", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	decodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want %q", resp["status"], "ok")
	}
}

// ---------------------------------------------------------------------------
// Login tests
// ---------------------------------------------------------------------------

func TestLogin_BearerMode(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)

	rr := env.login(t)
	assertStatus(t, rr, http.StatusOK)

	var resp model.LoginResponse
	decodeJSON(t, rr, &resp)

	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.Token == "" {
		t.Error("expected token in bearer-mode login response")
	}
	if resp.ExpiresIn <= 0 {
		t.Errorf("expires_in = %d, want > 0", resp.ExpiresIn)
	}
	if resp.Admin.Email != "admin@example.com" {
		t.Errorf("admin email = %q, want admin@example.com", resp.Admin.Email)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("bearer-mode login must not set cookies")
	}
}

func TestLogin_SessionMode(t *testing.T) {
	env := newTestEnv(t, auth.ModeSession)
	env.seedAdmin(t)

	rr := env.login(t)
	assertStatus(t, rr, http.StatusOK)

	var resp model.LoginResponse
	decodeJSON(t, rr, &resp)
	if resp.Token != "" {
		t.Error("session-mode login must not put a token in the body")
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie in login response")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be httpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.MaxAge <= 0 {
		t.Errorf("MaxAge = %d, want > 0", cookie.MaxAge)
	}
}

// Wrong password, unknown email, and a disabled account all produce the same
// 401 with the same message.
func TestLogin_UniformRejection(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)

	inactiveHash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	inactive := &model.Admin{
		Email:        "inactive@example.com",
		PasswordHash: inactiveHash,
		IsActive:     false,
	}
	if err := env.store.CreateAdmin(context.Background(), inactive); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "admin@example.com", "wrongpassword"},
		{"unknown email", "nobody@example.com", testPassword},
		{"inactive account", "inactive@example.com", testPassword},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := jsonBody(t, map[string]string{"email": tt.email, "password": tt.password})
			rr := env.do(t, "POST", "/auth/login", body, nil)
			assertStatus(t, rr, http.StatusUnauthorized)

			var resp model.ErrorResponse
			decodeJSON(t, rr, &resp)
			messages = append(messages, resp.Message)
		})
	}

	for i := 1; i < len(messages); i++ {
		if messages[i] != messages[0] {
			t.Errorf("rejection messages differ: %q vs %q", messages[0], messages[i])
		}
	}
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)

	body := jsonBody(t, map[string]string{"email": "admin@example.com"})
	rr := env.do(t, "POST", "/auth/login", body, nil)
	assertStatus(t, rr, http.StatusBadRequest)

	body = jsonBody(t, map[string]string{"password": testPassword})
	rr = env.do(t, "POST", "/auth/login", body, nil)
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestLogin_InvalidJSONBody(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)

	body := bytes.NewBufferString("{invalid json")
	rr := env.do(t, "POST", "/auth/login", body, nil)
	assertStatus(t, rr, http.StatusBadRequest)
}

// ---------------------------------------------------------------------------
// Admin bootstrap tests
// ---------------------------------------------------------------------------

func TestCreateAdmin(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)

	body := jsonBody(t, map[string]string{
		"email":    "new@example.com",
		"password": "longenoughpassword",
		"name":     "New Admin",
	})
	rr := env.do(t, "POST", "/auth/create", body, nil)
	assertStatus(t, rr, http.StatusCreated)

	var resp struct {
		Status string          `json:"status"`
		Admin  model.AdminInfo `json:"admin"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Admin.Email != "new@example.com" {
		t.Errorf("email = %q, want new@example.com", resp.Admin.Email)
	}

	// The new admin can log in.
	body = jsonBody(t, map[string]string{
		"email":    "new@example.com",
		"password": "longenoughpassword",
	})
	rr = env.do(t, "POST", "/auth/login", body, nil)
	assertStatus(t, rr, http.StatusOK)
}

func TestCreateAdmin_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)

	body := jsonBody(t, map[string]string{
		"email":    "admin@example.com",
		"password": "duplicatepassword",
	})
	rr := env.do(t, "POST", "/auth/create", body, nil)
	assertStatus(t, rr, http.StatusConflict)
}

func TestCreateAdmin_Validation(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "longpassword123"}},
		{"missing password", map[string]string{"email": "test@test.com"}},
		{"short password", map[string]string{"email": "test@test.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, "POST", "/auth/create", jsonBody(t, tt.body), nil)
			assertStatus(t, rr, http.StatusBadRequest)
		})
	}
}

// ---------------------------------------------------------------------------
// Authentication gate tests
// ---------------------------------------------------------------------------

func TestProtectedEndpoints_Unauthenticated(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)

	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/api/admin/check"},
		{"GET", "/api/admin/orders"},
		{"GET", "/api/admin/orders/ORD-001"},
		{"PATCH", "/api/admin/orders/ORD-001/status"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			var body io.Reader
			if ep.method == "PATCH" {
				body = jsonBody(t, map[string]string{"status": "shipped"})
			}
			rr := env.do(t, ep.method, ep.path, body, nil)
			assertStatus(t, rr, http.StatusUnauthorized)

			var resp model.ErrorResponse
			decodeJSON(t, rr, &resp)
			if resp.Message != "Authentication required" {
				t.Errorf("message = %q, want the generic rejection", resp.Message)
			}
		})
	}
}

func TestProtectedEndpoints_InvalidToken(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)

	rr := env.doAuth(t, "GET", "/api/admin/orders", nil, "invalid.jwt.token")
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestCheck(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	admin := env.seedAdmin(t)
	token := env.adminToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/check", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var resp model.CheckResponse
	decodeJSON(t, rr, &resp)
	if !resp.IsAuthenticated {
		t.Error("expected isAuthenticated true")
	}
	if resp.Admin == nil || resp.Admin.ID != admin.ID {
		t.Errorf("admin = %+v, want ID %d", resp.Admin, admin.ID)
	}
}

// ---------------------------------------------------------------------------
// Logout and revocation tests
// ---------------------------------------------------------------------------

// The session-mode lifecycle: login, access, logout, then the same cookie is
// rejected because the backing record is gone.
func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t, auth.ModeSession)
	env.seedAdmin(t)

	cookie := env.sessionCookie(t)

	rr := env.doCookie(t, "GET", "/api/admin/check", nil, cookie)
	assertStatus(t, rr, http.StatusOK)

	// Logout revokes the record and instructs the browser to drop the cookie.
	rr = env.doCookie(t, "POST", "/auth/logout", nil, cookie)
	assertStatus(t, rr, http.StatusOK)

	var cleared *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			cleared = c
		}
	}
	if cleared == nil {
		t.Fatal("expected logout to set a clearing cookie")
	}
	if cleared.MaxAge != -1 {
		t.Errorf("clearing cookie MaxAge = %d, want -1", cleared.MaxAge)
	}

	// The old cookie no longer resolves.
	rr = env.doCookie(t, "GET", "/api/admin/check", nil, cookie)
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestLogout_Idempotent(t *testing.T) {
	env := newTestEnv(t, auth.ModeSession)
	env.seedAdmin(t)

	cookie := env.sessionCookie(t)

	rr := env.doCookie(t, "POST", "/auth/logout", nil, cookie)
	assertStatus(t, rr, http.StatusOK)

	// Logging out again with the dead cookie still succeeds.
	rr = env.doCookie(t, "POST", "/auth/logout", nil, cookie)
	assertStatus(t, rr, http.StatusOK)

	// So does logging out with no artifact at all.
	rr = env.do(t, "POST", "/auth/logout", nil, nil)
	assertStatus(t, rr, http.StatusOK)
}

// Bearer tokens cannot be revoked server-side. After logout the token still
// resolves until it expires; the client is responsible for discarding it.
func TestLogout_BearerTokenStillValid(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)
	token := env.adminToken(t)

	rr := env.doAuth(t, "POST", "/auth/logout", nil, token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.doAuth(t, "GET", "/api/admin/check", nil, token)
	assertStatus(t, rr, http.StatusOK)
}

// Disabling the admin cuts off both artifact variants immediately.
func TestDeactivatedAdminLosesAccess(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	admin := env.seedAdmin(t)
	token := env.adminToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/check", nil, token)
	assertStatus(t, rr, http.StatusOK)

	if err := env.store.SetAdminActive(context.Background(), admin.ID, false); err != nil {
		t.Fatalf("SetAdminActive: %v", err)
	}

	rr = env.doAuth(t, "GET", "/api/admin/check", nil, token)
	assertStatus(t, rr, http.StatusUnauthorized)
}

// ---------------------------------------------------------------------------
// Order endpoint tests
// ---------------------------------------------------------------------------

func TestOrders_List(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)
	env.seedOrders(t, 3)
	token := env.adminToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/orders", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var resp model.OrderListResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Data) != 3 {
		t.Fatalf("count = %d, want 3", len(resp.Data))
	}
	if resp.Meta == nil || resp.Meta.Total != 3 {
		t.Errorf("meta = %+v, want total 3", resp.Meta)
	}
	// Newest first.
	if resp.Data[0].OrderNo != "ORD-003" {
		t.Errorf("first order = %q, want ORD-003", resp.Data[0].OrderNo)
	}
}

func TestOrders_ListEmpty(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)
	token := env.adminToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/orders", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var resp model.OrderListResponse
	decodeJSON(t, rr, &resp)
	if resp.Data == nil {
		t.Error("expected empty array, not null")
	}
	if len(resp.Data) != 0 {
		t.Errorf("count = %d, want 0", len(resp.Data))
	}
}

func TestOrders_ListPaging(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)
	env.seedOrders(t, 5)
	token := env.adminToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/orders?limit=2&offset=2", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var resp model.OrderListResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Data) != 2 {
		t.Fatalf("count = %d, want 2", len(resp.Data))
	}
	if resp.Meta.Total != 5 {
		t.Errorf("total = %d, want 5", resp.Meta.Total)
	}
	if resp.Data[0].OrderNo != "ORD-003" {
		t.Errorf("first order = %q, want ORD-003", resp.Data[0].OrderNo)
	}
}

func TestOrders_Get(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)
	env.seedOrders(t, 1)
	token := env.adminToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/orders/ORD-001", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Status string      `json:"status"`
		Data   model.Order `json:"data"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Data.OrderNo != "ORD-001" {
		t.Errorf("orderNo = %q, want ORD-001", resp.Data.OrderNo)
	}
}

func TestOrders_GetNotFound(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)
	token := env.adminToken(t)

	rr := env.doAuth(t, "GET", "/api/admin/orders/ORD-GHOST", nil, token)
	assertStatus(t, rr, http.StatusNotFound)
}

func TestOrders_UpdateStatus(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)
	env.seedOrders(t, 1)
	token := env.adminToken(t)

	body := jsonBody(t, map[string]string{"status": "shipped"})
	rr := env.doAuth(t, "PATCH", "/api/admin/orders/ORD-001/status", body, token)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Status string      `json:"status"`
		Data   model.Order `json:"data"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Data.Status != "shipped" {
		t.Errorf("status = %q, want shipped", resp.Data.Status)
	}
}

func TestOrders_UpdateStatusValidation(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)
	env.seedAdmin(t)
	env.seedOrders(t, 1)
	token := env.adminToken(t)

	body := jsonBody(t, map[string]string{})
	rr := env.doAuth(t, "PATCH", "/api/admin/orders/ORD-001/status", body, token)
	assertStatus(t, rr, http.StatusBadRequest)

	body = jsonBody(t, map[string]string{"status": "shipped"})
	rr = env.doAuth(t, "PATCH", "/api/admin/orders/ORD-GHOST/status", body, token)
	assertStatus(t, rr, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// CORS headers test
// ---------------------------------------------------------------------------

func TestCORSHeaders(t *testing.T) {
	env := newTestEnv(t, auth.ModeBearer)

	rr := env.do(t, "OPTIONS", "/healthz", nil, map[string]string{
		"Origin":                         "http://localhost:3000",
		"Access-Control-Request-Method":  "GET",
		"Access-Control-Request-Headers": "Authorization,Content-Type",
	})

	if rr.Code < 200 || rr.Code >= 300 {
		t.Errorf("CORS preflight status = %d, want 2xx", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected Access-Control-Allow-Origin header")
	}
}

// ---------------------------------------------------------------------------
// Full workflow: create admin -> login -> browse orders -> logout
// ---------------------------------------------------------------------------

func TestFullWorkflow_SessionMode(t *testing.T) {
	env := newTestEnv(t, auth.ModeSession)
	env.seedOrders(t, 2)

	// Step 1: Bootstrap the first admin.
	createBody := jsonBody(t, map[string]string{
		"email":    "ops@example.com",
		"password": "bootstrappassword",
		"name":     "Ops",
	})
	rr := env.do(t, "POST", "/auth/create", createBody, nil)
	assertStatus(t, rr, http.StatusCreated)

	// Step 2: Login and capture the session cookie.
	loginBody := jsonBody(t, map[string]string{
		"email":    "ops@example.com",
		"password": "bootstrappassword",
	})
	rr = env.do(t, "POST", "/auth/login", loginBody, nil)
	assertStatus(t, rr, http.StatusOK)

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie")
	}

	// Step 3: Browse and mutate orders through the gate.
	rr = env.doCookie(t, "GET", "/api/admin/orders", nil, cookie)
	assertStatus(t, rr, http.StatusOK)

	patchBody := jsonBody(t, map[string]string{"status": "delivered"})
	rr = env.doCookie(t, "PATCH", "/api/admin/orders/ORD-002/status", patchBody, cookie)
	assertStatus(t, rr, http.StatusOK)

	// Step 4: Logout, after which the cookie is dead.
	rr = env.doCookie(t, "POST", "/auth/logout", nil, cookie)
	assertStatus(t, rr, http.StatusOK)

	rr = env.doCookie(t, "GET", "/api/admin/orders", nil, cookie)
	assertStatus(t, rr, http.StatusUnauthorized)
}
