package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// echoUserID writes the context user ID (or "anonymous") as the body.
var echoUserID = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		id = "anonymous"
	}
	w.Write([]byte(id))
})

func TestOptionalAuth(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate("u1")
	expired, _ := ts.GenerateWithDuration("u1", -time.Minute)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    string
	}{
		{"no credentials", func(*http.Request) {}, "anonymous"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) }, "u1"},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, "u1"},
		{"expired cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: expired}) }, "anonymous"},
		{"basic auth header", func(r *http.Request) { r.Header.Set("Authorization", "Basic dTpw") }, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/page", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			OptionalAuth(ts)(echoUserID).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("user = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate("owner")

	rec := httptest.NewRecorder()
	RequireAuth(ts)(echoUserID).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/migration", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/migration", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec = httptest.NewRecorder()
	RequireAuth(ts)(echoUserID).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "owner" {
		t.Errorf("signed-in: status = %d body = %q, want 200 owner", rec.Code, rec.Body.String())
	}
}

func TestSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "abc", true)
	ClearSessionCookie(rec, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(cookies))
	}
	set, cleared := cookies[0], cookies[1]
	if set.Value != "abc" || !set.HttpOnly || !set.Secure || set.MaxAge <= 0 {
		t.Errorf("session cookie = %+v", set)
	}
	if cleared.MaxAge >= 0 {
		t.Errorf("cleared cookie MaxAge = %d, want negative", cleared.MaxAge)
	}
}
