package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/climapp/backend/internal/config"
)

func testIdentityClient(t *testing.T, handler http.HandlerFunc) *IdentityClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewIdentityClient(config.IdentityConfig{WebAPIKey: "test-key"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c.WithBaseURL(srv.URL)
}

func TestSignInWithPasswordSuccess(t *testing.T) {
	c := testIdentityClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts:signInWithPassword" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("api key missing from query")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "tec@exemplo.com" {
			t.Fatalf("unexpected email: %v", body["email"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"localId":     "uid-1",
			"email":       "tec@exemplo.com",
			"displayName": "Técnico",
			"registered":  true,
			"idToken":     "tok",
		})
	})

	user, err := c.SignInWithPassword(context.Background(), "tec@exemplo.com", "senha123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UID != "uid-1" || user.DisplayName != "Técnico" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestSignInWithPasswordInvalidCredentials(t *testing.T) {
	c := testIdentityClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "INVALID_LOGIN_CREDENTIALS"},
		})
	})

	_, err := c.SignInWithPassword(context.Background(), "tec@exemplo.com", "errada")
	var identityErr *IdentityError
	if !errors.As(err, &identityErr) {
		t.Fatalf("expected IdentityError, got %v", err)
	}
	if identityErr.Code != IdentityInvalidLogin {
		t.Fatalf("unexpected code: %s", identityErr.Code)
	}
}

func TestParseIdentityErrorCode(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error":{"message":"EMAIL_EXISTS"}}`, "EMAIL_EXISTS"},
		{`{"error":{"message":"WEAK_PASSWORD : Password should be at least 6 characters"}}`, "WEAK_PASSWORD"},
		{`{"error":{"message":"TOO_MANY_ATTEMPTS_TRY_LATER: retry later"}}`, "TOO_MANY_ATTEMPTS_TRY_LATER"},
		{`not json`, "UNKNOWN_ERROR"},
		{`{"error":{}}`, "UNKNOWN_ERROR"},
	}
	for _, tc := range cases {
		if got := parseIdentityErrorCode([]byte(tc.body)); got != tc.want {
			t.Fatalf("parseIdentityErrorCode(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestLookupNoUsers(t *testing.T) {
	c := testIdentityClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"users": []any{}})
	})

	_, err := c.Lookup(context.Background(), "token")
	var identityErr *IdentityError
	if !errors.As(err, &identityErr) || identityErr.Code != IdentityEmailNotFound {
		t.Fatalf("expected EMAIL_NOT_FOUND, got %v", err)
	}
}

func TestNewIdentityClientRequiresKey(t *testing.T) {
	if _, err := NewIdentityClient(config.IdentityConfig{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
