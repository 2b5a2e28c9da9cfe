package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Ali34f/VideoTranscriber/internal/service"
)

const testCookieName = "session_token"

func newAuthHandler(t *testing.T) (*AuthHandler, *fakeUserStore, *fakeSessionStore) {
	t.Helper()
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := service.NewAccountService(users, sessions, nil)
	h := NewAuthHandler(svc, testLogger(), CookieConfig{
		Name: testCookieName,
		TTL:  24 * time.Hour,
	})
	return h, users, sessions
}

func postJSON(t *testing.T, handlerFn http.HandlerFunc, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestSignup(t *testing.T) {
	h, _, sessions := newAuthHandler(t)

	rec := postJSON(t, h.Signup, "/api/signup", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("missing user object in %v", body)
	}
	if user["username"] != "alice" || user["email"] != "alice@example.com" {
		t.Errorf("unexpected user payload: %v", user)
	}
	if _, ok := user["password_hash"]; ok {
		t.Error("password hash leaked in response")
	}

	cookie := sessionCookie(t, rec)
	if cookie.Value == "" {
		t.Fatal("empty session cookie value")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if sess, _ := sessions.GetSession(context.Background(), cookie.Value); sess == nil {
		t.Error("cookie token not backed by a stored session")
	}
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing fields", `{"username":"alice"}`, "all fields are required"},
		{"short username", `{"username":"al","email":"a@b.com","password":"secret1"}`, "username must be at least 3 characters"},
		{"short password", `{"username":"alice","email":"a@b.com","password":"pw"}`, "password must be at least 6 characters"},
		{"malformed json", `{"username":`, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, users, _ := newAuthHandler(t)
			rec := postJSON(t, h.Signup, "/api/signup", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if got := decodeBody(t, rec)["error"]; got != tt.wantMsg {
				t.Errorf("error = %q, want %q", got, tt.wantMsg)
			}
			if len(users.users) != 0 {
				t.Error("rejected signup created an account")
			}
		})
	}
}

func TestSignupDuplicate(t *testing.T) {
	h, _, _ := newAuthHandler(t)

	rec := postJSON(t, h.Signup, "/api/signup", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d", rec.Code)
	}

	rec = postJSON(t, h.Signup, "/api/signup", `{"username":"alice","email":"other@example.com","password":"secret1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate username status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "username already exists" {
		t.Errorf("error = %q", got)
	}

	rec = postJSON(t, h.Signup, "/api/signup", `{"username":"bob","email":"alice@example.com","password":"secret1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "email already exists" {
		t.Errorf("error = %q", got)
	}
}

func TestLogin(t *testing.T) {
	h, _, _ := newAuthHandler(t)

	signupRec := postJSON(t, h.Signup, "/api/signup", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	oldCookie := sessionCookie(t, signupRec)

	rec := postJSON(t, h.Login, "/api/login", `{"username":"alice","password":"secret1"}`, oldCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	newCookie := sessionCookie(t, rec)
	if newCookie.Value == oldCookie.Value {
		t.Error("login did not rotate the session token")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	h, _, _ := newAuthHandler(t)
	postJSON(t, h.Signup, "/api/signup", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)

	// Wrong password and unknown username must be indistinguishable.
	for _, body := range []string{
		`{"username":"alice","password":"wrong-one"}`,
		`{"username":"nobody","password":"secret1"}`,
	} {
		rec := postJSON(t, h.Login, "/api/login", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if got := decodeBody(t, rec)["error"]; got != "invalid username or password" {
			t.Errorf("error = %q", got)
		}
	}
}

func TestLogout(t *testing.T) {
	h, _, sessions := newAuthHandler(t)

	signupRec := postJSON(t, h.Signup, "/api/signup", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	cookie := sessionCookie(t, signupRec)

	rec := postJSON(t, h.Logout, "/api/logout", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if sess, _ := sessions.GetSession(context.Background(), cookie.Value); sess != nil {
		t.Error("session survived logout")
	}
	if cleared := sessionCookie(t, rec); cleared.MaxAge >= 0 {
		t.Error("logout did not clear the session cookie")
	}

	// Without any session it is still a success.
	rec = postJSON(t, h.Logout, "/api/logout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout without session status = %d, want 200", rec.Code)
	}
}

func TestCheckAuth(t *testing.T) {
	h, _, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	rec := httptest.NewRecorder()
	h.CheckAuth(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["authenticated"] != false {
		t.Errorf("unauthenticated check-auth body = %v", body)
	}

	signupRec := postJSON(t, h.Signup, "/api/signup", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	cookie := sessionCookie(t, signupRec)

	req = httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.CheckAuth(rec, req)

	body := decodeBody(t, rec)
	if body["authenticated"] != true {
		t.Fatalf("authenticated check-auth body = %v", body)
	}
	user, _ := body["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Errorf("user payload = %v", user)
	}
}
