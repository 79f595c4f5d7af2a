package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"folio/internal/config"
	"folio/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testServer struct {
	srv *Server
	app *fiber.App
	mr  *miniredis.Miniredis
	rdb *redis.Client
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    testSecret,
		Port:         "0",
		Env:          "test",
		FeatureFlags: "stats_cache=on,live_views=on",
	}
}

// newTestServer builds the full app over SQLite and miniredis.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	srv, err := NewServerWithDeps(testConfig(), testutil.NewSQLiteDB(t), rdb)
	require.NoError(t, err)

	return &testServer{srv: srv, app: srv.NewApp(), mr: mr, rdb: rdb}
}

// newTestServerWithoutRedis builds the app the way it runs when Redis is down outside production.
func newTestServerWithoutRedis(t *testing.T) *testServer {
	t.Helper()

	srv, err := NewServerWithDeps(testConfig(), testutil.NewSQLiteDB(t), nil)
	require.NoError(t, err)

	return &testServer{srv: srv, app: srv.NewApp()}
}

// do sends a request and decodes the JSON body into out when out is non-nil.
func (ts *testServer) do(t *testing.T, method, path, token string, body any, out any, headers ...string) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}
	return resp.StatusCode
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

// registerAndLogin creates username with a fixed password and returns a bearer token.
func (ts *testServer) registerAndLogin(t *testing.T, username string) authBody {
	t.Helper()

	email := username + "@example.com"
	status := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Test " + username,
		"username": username,
		"email":    email,
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var auth authBody
	status = ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	}, &auth)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, auth.Token)
	return auth
}
