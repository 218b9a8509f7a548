package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"leedsbot-backend/internal/logger"
)

const testSecret = "test-secret"

func emailEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetEmail(r.Context())))
	})
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestJWTAuth_ValidToken(t *testing.T) {
	auth := NewJWTAuth(testSecret)
	token, err := auth.GenerateAccessToken("Student@Leeds.ac.uk", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	auth.Middleware(emailEcho()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != "student@leeds.ac.uk" {
		t.Errorf("expected lower-cased email, got %q", got)
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	auth := NewJWTAuth(testSecret)

	expired, _ := auth.GenerateAccessToken("a@b.c", -time.Minute)
	foreign, _ := NewJWTAuth("other").GenerateAccessToken("a@b.c", time.Hour)
	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "UNAUTHORIZED"},
		{"not bearer", "Basic abc", "UNAUTHORIZED"},
		{"garbage token", "Bearer not.a.jwt", "UNAUTHORIZED"},
		{"expired", "Bearer " + expired, "TOKEN_EXPIRED"},
		{"wrong secret", "Bearer " + foreign, "UNAUTHORIZED"},
		{"no email claim", "Bearer " + noEmail, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			auth.Middleware(emailEcho()).ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
			if code := errorCode(t, rr); code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, code)
			}
		})
	}
}

func TestMemoryCounter_Window(t *testing.T) {
	c := NewMemoryCounter()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for i := int64(1); i <= 3; i++ {
		n, _ := c.Incr(context.Background(), "k", time.Minute)
		if n != i {
			t.Fatalf("expected %d, got %d", i, n)
		}
	}

	now = now.Add(2 * time.Minute)
	if n, _ := c.Incr(context.Background(), "k", time.Minute); n != 1 {
		t.Errorf("expected counter reset after window, got %d", n)
	}
	if n, _ := c.Incr(context.Background(), "other", time.Minute); n != 1 {
		t.Errorf("expected independent key, got %d", n)
	}
}

func TestMemoryCounter_SteadyTrafficResets(t *testing.T) {
	c := NewMemoryCounter()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	// One hit every 50s never leaves a gap longer than the window, so the
	// count must still roll over once a minute.
	for i := 0; i < 40; i++ {
		n, err := c.Incr(context.Background(), "steady", time.Minute)
		if err != nil {
			t.Fatalf("incr: %v", err)
		}
		if n > 2 {
			t.Fatalf("request %d: count %d exceeds one window's worth", i, n)
		}
		now = now.Add(50 * time.Second)
	}
}

func TestMemoryCounter_WindowBoundary(t *testing.T) {
	c := NewMemoryCounter()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Incr(context.Background(), "k", time.Minute)
	now = now.Add(59 * time.Second)
	if n, _ := c.Incr(context.Background(), "k", time.Minute); n != 2 {
		t.Errorf("expected 2 inside the window, got %d", n)
	}
	now = now.Add(time.Second)
	if n, _ := c.Incr(context.Background(), "k", time.Minute); n != 1 {
		t.Errorf("expected reset at window end, got %d", n)
	}
}

func TestRateLimiter_PerEmail(t *testing.T) {
	rl := NewRateLimiter(NewMemoryCounter(), 2, time.Minute, logger.Nop())
	h := rl.Middleware(emailEcho())

	send := func(email string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), EmailKey, email))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if send("a@x") != http.StatusOK || send("a@x") != http.StatusOK {
		t.Fatal("first two requests should pass")
	}
	if code := send("a@x"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", code)
	}
	if code := send("b@x"); code != http.StatusOK {
		t.Errorf("other principal should pass, got %d", code)
	}
}

type failingCounter struct{}

func (failingCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	rl := NewRateLimiter(failingCounter{}, 1, time.Minute, logger.Nop())

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		rl.Middleware(emailEcho()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rr.Header().Get(RequestIDHeader) != seen {
		t.Errorf("expected generated id echoed, got request=%q response=%q", seen, rr.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("expected incoming id kept, got %q", rr.Header().Get(RequestIDHeader))
	}
}

func TestCORS(t *testing.T) {
	h := CORS("http://localhost:3000/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("expected preflight 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("expected allowed origin header")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("unexpected CORS header for foreign origin")
	}
	if rr.Code != http.StatusTeapot {
		t.Errorf("expected request to reach handler, got %d", rr.Code)
	}
}

func TestNoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	NoStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected no-store, got %q", rr.Header().Get("Cache-Control"))
	}
}
