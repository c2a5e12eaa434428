package core

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/caasmo/tokengate/config"
	"github.com/caasmo/tokengate/db/mock"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// memoryCache is a deterministic stand-in for the Ristretto cache: writes
// are synchronous and TTLs are ignored.
type memoryCache struct {
	entries map[string]any
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]any)}
}

func (c *memoryCache) Get(key string) (any, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *memoryCache) Set(key string, value any, cost int64) bool {
	c.entries[key] = value
	return true
}

func (c *memoryCache) SetWithTTL(key string, value any, cost int64, ttl time.Duration) bool {
	c.entries[key] = value
	return true
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Jwt.AuthSecret = testSecret
	cfg.Jwt.ActivationSecret = testSecret
	cfg.Jwt.PasswordResetSecret = testSecret
	return cfg
}

func newTestApp(mockDb *mock.Db) *App {
	app := &App{}
	app.SetDb(mockDb)
	app.SetConfigProvider(config.NewProvider(testConfig()))
	app.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	app.SetValidator(NewValidator())
	app.SetCache(newMemoryCache())
	return app
}

// doRequest runs a handler against a JSON request and returns the recorder.
func doRequest(handler http.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// checkResponse asserts the recorded status and the code field of the JSON body.
func checkResponse(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	if rec.Code != wantStatus {
		t.Errorf("status = %d, want %d (body %s)", rec.Code, wantStatus, rec.Body.String())
	}
	var basic JsonBasic
	if err := json.Unmarshal(rec.Body.Bytes(), &basic); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if basic.Code != wantCode {
		t.Errorf("code = %q, want %q", basic.Code, wantCode)
	}
}
