package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"clubhouse/internal/cache"
	"clubhouse/internal/config"
	"clubhouse/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	server *Server
	app    *fiber.App
	redis  *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		Port:             "0",
		Env:              "test",
		DBDriver:         "sqlite",
		SQLitePath:       ":memory:",
		SessionSecret:    "test-session-secret",
		SessionTTLHours:  1,
		ClubPassphrase:   "poggers",
		BcryptCost:       bcrypt.MinCost,
		MessageMaxLength: 1000,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, testConfig())
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	mr := miniredis.RunT(t)
	rdb, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	return &testEnv{server: s, app: s.App(), redis: mr}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookie string) *http.Response {
	t.Helper()
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookie})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, path, cookie string) *http.Response {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, path, nil), cookie)
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req, cookie)
}

func (e *testEnv) signUp(t *testing.T, name, username, password string) *http.Response {
	t.Helper()
	return e.postForm(t, "/sign-up", url.Values{
		"name":             {name},
		"username":         {username},
		"password":         {password},
		"confirm-password": {password},
	}, "")
}

// logIn signs in and returns the session token from the response cookie.
func (e *testEnv) logIn(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.postForm(t, "/log-in", url.Values{
		"username": {username},
		"password": {password},
	}, "")
	requireRedirectHome(t, resp)
	token := sessionToken(resp)
	require.NotEmpty(t, token, "log-in must set the session cookie")
	return token
}

func sessionToken(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return c.Value
		}
	}
	return ""
}

func cookieCleared(resp *http.Response) bool {
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value == "" {
			return true
		}
	}
	return false
}

func requireRedirectHome(t *testing.T, resp *http.Response) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func decodeView(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &view), string(body))
	return view
}

func messagesOf(t *testing.T, view map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := view["messages"].([]interface{})
	require.True(t, ok, "view has no messages list")

	out := make([]map[string]interface{}, 0, len(raw))
	for _, m := range raw {
		out = append(out, m.(map[string]interface{}))
	}
	return out
}

func firstError(t *testing.T, view map[string]interface{}) map[string]interface{} {
	t.Helper()
	errs, ok := view["errors"].([]interface{})
	require.True(t, ok, "view has no errors list")
	require.NotEmpty(t, errs)
	return errs[0].(map[string]interface{})
}
