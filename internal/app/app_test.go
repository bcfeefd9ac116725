package app

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mentorform/internal/config"
	"mentorform/internal/credentials"
	"mentorform/internal/view"
)

var (
	testApp     *fiber.App
	testJars    *credentials.Registry
	testBackend *backend
)

var staticFS = fstest.MapFS{
	"static/app.css": &fstest.MapFile{Data: []byte("body {}")},
}

func TestMain(m *testing.M) {
	testBackend = &backend{}
	server := httptest.NewServer(testBackend)

	var err error
	testApp, testJars, err = newTestApp(server.URL)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	code := m.Run()
	server.Close()
	os.Exit(code)
}

func newTestApp(apiURL string) (*fiber.App, *credentials.Registry, error) {
	cfg := config.NewTestConfig(apiURL, staticFS)
	jars := credentials.NewRegistry(time.Hour)
	a, err := New(&cfg, zap.NewNop(), jars)
	return a, jars, err
}

type call struct {
	Path   string
	Body   map[string]any
	Cookie string
}

// backend mimics the mentoring platform API.
type backend struct {
	mu    sync.Mutex
	calls []call
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	b.calls = append(b.calls, call{Path: r.URL.Path, Body: body, Cookie: r.Header.Get("Cookie")})
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/login":
		if body["email"] == "ada@example.com" && body["password"] == "secret" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			_, _ = io.WriteString(w, `{"success":true,"user":{"id":"u1","email":"ada@example.com"}}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"error":"Invalid credentials"}`)
	case "/api/register":
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"user":{"id":"u2"}}`)
	case "/api/logout":
		_, _ = io.WriteString(w, `{"success":true,"message":"Logged out successfully"}`)
	case "/api/health":
		_, _ = io.WriteString(w, `{"status":"healthy","message":"Server is running"}`)
	default:
		http.NotFound(w, r)
	}
}

func (b *backend) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

func (b *backend) snapshot() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]call(nil), b.calls...)
}

var csrfInput = regexp.MustCompile(`name="_csrf" value="([^"]*)"`)

// browser keeps cookies and the latest csrf token between requests, the way a real one would.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
	csrf    string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	b := &browser{t: t, app: app, cookies: make(map[string]*http.Cookie)}
	resp, _ := b.get("/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, b.csrf)
	return b
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}

	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	body := string(raw)

	if m := csrfInput.FindStringSubmatch(body); m != nil {
		b.csrf = m[1]
	}
	return resp, body
}

func (b *browser) get(path string) (*http.Response, string) {
	return b.do(httptest.NewRequest(fiber.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values, htmx bool) (*http.Response, string) {
	if form == nil {
		form = url.Values{}
	}
	if form.Get("_csrf") == "" {
		form.Set("_csrf", b.csrf)
	}

	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	if htmx {
		req.Header.Set(view.HeaderHxRequest, "true")
	}
	return b.do(req)
}

func notification(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	var trigger map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.Header.Get(view.HeaderHxTrigger)), &trigger))
	return trigger["notify"]
}

func TestShowRendersFreshForm(t *testing.T) {
	b := newBrowser(t, testApp)

	resp, body := b.get("/")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "Welcome Back!")
	assert.Contains(t, body, `name="mode" value="login"`)
}

func TestSubmitLoginSendsOnlyCredentials(t *testing.T) {
	testBackend.reset()
	b := newBrowser(t, testApp)

	resp, body := b.post("/form/submit", url.Values{
		"mode":     {"login"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
		"name":     {"ignored"},
		"role":     {"mentor"},
	}, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"level": "success", "message": "Success!"}, notification(t, resp))
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `value="ada@example.com"`)
	assert.Contains(t, body, `value="secret"`)

	calls := testBackend.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/login", calls[0].Path)
	assert.Equal(t, map[string]any{"email": "ada@example.com", "password": "secret"}, calls[0].Body)
}

func TestSubmitRegisterSendsAllFields(t *testing.T) {
	testBackend.reset()
	b := newBrowser(t, testApp)

	resp, body := b.post("/form/submit", url.Values{
		"mode":     {"register"},
		"name":     {"Ada Lovelace"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
		"role":     {"mentor"},
	}, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Success!", notification(t, resp)["message"])
	assert.Contains(t, body, "Join Us Today")
	assert.Contains(t, body, `<option value="mentor" selected>`)

	calls := testBackend.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/register", calls[0].Path)
	assert.Equal(t, map[string]any{
		"email":    "ada@example.com",
		"password": "secret",
		"name":     "Ada Lovelace",
		"role":     "mentor",
	}, calls[0].Body)
}

func TestSubmitShowsServerError(t *testing.T) {
	b := newBrowser(t, testApp)

	resp, body := b.post("/form/submit", url.Values{
		"mode":     {"login"},
		"email":    {"ada@example.com"},
		"password": {"wrong"},
	}, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"level": "error", "message": "Error: Invalid credentials"}, notification(t, resp))
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "Error: Invalid credentials")
	assert.Contains(t, body, `value="wrong"`)
}

func TestSubmitInvalidNeverCallsBackend(t *testing.T) {
	testBackend.reset()
	b := newBrowser(t, testApp)

	resp, body := b.post("/form/submit", url.Values{
		"mode":     {"register"},
		"email":    {"not-an-email"},
		"password": {"secret"},
	}, true)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(view.HeaderHxTrigger))
	assert.Contains(t, body, "The Name field is required.")
	assert.Contains(t, body, "The Email must be a valid email address.")
	assert.Empty(t, testBackend.snapshot())
}

func TestSubmitAcceptsDotlessEmailDomain(t *testing.T) {
	testBackend.reset()
	b := newBrowser(t, testApp)

	resp, _ := b.post("/form/submit", url.Values{
		"mode":     {"login"},
		"email":    {"user@localhost"},
		"password": {"secret"},
	}, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Error: Invalid credentials", notification(t, resp)["message"])

	calls := testBackend.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "user@localhost", calls[0].Body["email"])
}

func TestToggleKeepsValues(t *testing.T) {
	testBackend.reset()
	b := newBrowser(t, testApp)

	resp, body := b.post("/form/toggle", url.Values{
		"mode":     {"login"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
	}, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Join Us Today")
	assert.Contains(t, body, `name="mode" value="register"`)
	assert.Contains(t, body, `value="ada@example.com"`)
	assert.Contains(t, body, `value="secret"`)
	assert.Contains(t, body, `name="name"`)

	resp, body = b.post("/form/toggle", url.Values{
		"mode":     {"register"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
	}, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome Back!")
	assert.NotContains(t, body, `name="name"`)
	assert.Empty(t, testBackend.snapshot())
}

func TestPlainPostGetsFullPage(t *testing.T) {
	b := newBrowser(t, testApp)

	resp, body := b.post("/form/submit", url.Values{
		"mode":     {"login"},
		"email":    {"ada@example.com"},
		"password": {"wrong"},
	}, false)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "Error: Invalid credentials")
}

func TestReloadShowsFreshForm(t *testing.T) {
	b := newBrowser(t, testApp)

	b.post("/form/submit", url.Values{
		"mode":     {"register"},
		"name":     {"Ada"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
		"role":     {"mentor"},
	}, true)

	_, body := b.get("/")

	assert.Contains(t, body, "Welcome Back!")
	assert.NotContains(t, body, "ada@example.com")
}

func TestUnknownModeIsBadRequest(t *testing.T) {
	b := newBrowser(t, testApp)

	resp, _ := b.post("/form/submit", url.Values{"mode": {"admin"}}, true)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMissingCsrfIsForbidden(t *testing.T) {
	testBackend.reset()
	b := newBrowser(t, testApp)

	resp, body := b.post("/form/submit", url.Values{
		"_csrf":    {"forged"},
		"mode":     {"login"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
	}, true)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Forbidden")
	assert.Empty(t, testBackend.snapshot())
}

func TestLogoutSendsBackendCookiesAndDropsJar(t *testing.T) {
	b := newBrowser(t, testApp)

	resp, _ := b.post("/form/submit", url.Values{
		"mode":     {"login"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
	}, true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	jars := testJars.Len()
	testBackend.reset()

	resp, body := b.post("/logout", nil, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome Back!")
	assert.Equal(t, jars-1, testJars.Len())

	calls := testBackend.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/logout", calls[0].Path)
	assert.Contains(t, calls[0].Cookie, "session=abc")

	// the visitor starts over with an empty jar
	testBackend.reset()
	resp, _ = b.post("/logout", nil, true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	calls = testBackend.snapshot()
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Cookie, "session=abc")
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	app, _, err := newTestApp(server.URL)
	require.NoError(t, err)
	b := newBrowser(t, app)

	resp, body := b.post("/form/submit", url.Values{
		"mode":     {"login"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
	}, true)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"level": "error", "message": "Network error"}, notification(t, resp))
	assert.Contains(t, body, "Network error")
	assert.Contains(t, body, `value="ada@example.com"`)
}

func TestHealthz(t *testing.T) {
	unreachable := httptest.NewServer(http.NotFoundHandler())
	unreachable.Close()
	downApp, _, err := newTestApp(unreachable.URL)
	require.NoError(t, err)

	tests := []struct {
		name    string
		app     *fiber.App
		backend string
	}{
		{name: "backend up", app: testApp, backend: "healthy"},
		{name: "backend down", app: downApp, backend: "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var got map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, map[string]string{"status": "ok", "backend": tt.backend}, got)
		})
	}
}

func TestStaticAndNotFound(t *testing.T) {
	resp, err := testApp.Test(httptest.NewRequest(fiber.MethodGet, "/static/app.css", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	b := newBrowser(t, testApp)
	resp, body := b.get("/nope")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Not Found")
}

func TestUnknownSessionStorage(t *testing.T) {
	cfg := config.NewTestConfig("http://localhost:1", staticFS)
	cfg.SessionStorage = "etcd"

	_, err := New(&cfg, zap.NewNop(), credentials.NewRegistry(time.Hour))

	assert.ErrorIs(t, err, ErrUnknownStorage)
}
