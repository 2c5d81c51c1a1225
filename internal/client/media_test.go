package client

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/climapp/backend/internal/config"
)

func testMediaClient(t *testing.T, handler http.HandlerFunc) *MediaClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewMediaClient(config.MediaConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c.WithBaseURL(srv.URL)
}

func TestMediaSign(t *testing.T) {
	c := &MediaClient{apiSecret: "abcd"}

	params := map[string]string{
		"timestamp": "1700000000",
		"folder":    "climapp/atendimentos/u/a",
		"public_id": "foto_1",
	}
	// Chaves em ordem alfabética, pares unidos por & e secret no fim.
	sum := sha1.Sum([]byte("folder=climapp/atendimentos/u/a&public_id=foto_1&timestamp=1700000000abcd"))
	want := hex.EncodeToString(sum[:])

	if got := c.sign(params); got != want {
		t.Fatalf("sign mismatch: got %s, want %s", got, want)
	}
}

func TestUploadImageSendsSignedForm(t *testing.T) {
	c := testMediaClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/image/upload" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("api_key") != "key" {
			t.Fatal("api_key missing")
		}
		if r.FormValue("signature") == "" {
			t.Fatal("signature missing")
		}
		if !strings.Contains(r.FormValue("transformation"), "c_limit,w_1200,h_1200") {
			t.Fatalf("unexpected transformation: %s", r.FormValue("transformation"))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"secure_url": "https://res.example/demo/foto.jpg",
			"public_id":  "climapp/atendimentos/u/a/foto_1",
			"width":      1200,
			"height":     800,
			"format":     "jpg",
			"bytes":      12345,
		})
	})

	image, err := c.UploadImage(context.Background(), strings.NewReader("imagem"), "climapp/atendimentos/u/a", "foto_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if image.URL != "https://res.example/demo/foto.jpg" || image.Width != 1200 {
		t.Fatalf("unexpected image: %+v", image)
	}
}

func TestDestroyImageNotFound(t *testing.T) {
	c := testMediaClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"result": "not found"})
	})

	removed, err := c.DestroyImage(context.Background(), "inexistente")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed {
		t.Fatal("expected removed false")
	}
}

func TestMediaErrorsAreTyped(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUpstreamAuth},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusBadRequest, ErrBadPayload},
		{http.StatusBadGateway, ErrUpstreamUnavailable},
	}
	for _, tc := range cases {
		c := testMediaClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})
		_, err := c.UploadImage(context.Background(), strings.NewReader("x"), "f", "p")
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}
