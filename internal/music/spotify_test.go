package music

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestAuthURL(t *testing.T) {
	client := NewSpotifyClient("client-id", "client-secret", "http://localhost:3001/api/spotify/callback")

	raw := client.AuthURL("user-123")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthURL not parseable: %v", err)
	}

	if u.Path != "/authorize" {
		t.Errorf("path = %q, want /authorize", u.Path)
	}

	q := u.Query()
	if q.Get("response_type") != "code" {
		t.Errorf("response_type = %q", q.Get("response_type"))
	}
	if q.Get("client_id") != "client-id" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("state") != "user-123" {
		t.Errorf("state = %q", q.Get("state"))
	}
	if q.Get("redirect_uri") != "http://localhost:3001/api/spotify/callback" {
		t.Errorf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	for _, scope := range []string{"user-top-read", "user-read-email"} {
		if !strings.Contains(q.Get("scope"), scope) {
			t.Errorf("scope missing %q: %q", scope, q.Get("scope"))
		}
	}
}

func TestExchangeCode(t *testing.T) {
	var capturedForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capturedForm, _ = url.ParseQuery(string(body))
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		_, _ = w.Write([]byte(`{
			"access_token": "access-1",
			"token_type": "Bearer",
			"scope": "user-top-read",
			"expires_in": 3600,
			"refresh_token": "refresh-1"
		}`))
	}))
	defer srv.Close()

	client := NewSpotifyClient("client-id", "client-secret", "http://localhost/cb", WithSpotifyURLs(srv.URL, srv.URL))

	token, err := client.ExchangeCode(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("ExchangeCode() error: %v", err)
	}

	if capturedForm.Get("grant_type") != "authorization_code" {
		t.Errorf("grant_type = %q", capturedForm.Get("grant_type"))
	}
	if capturedForm.Get("code") != "auth-code" {
		t.Errorf("code = %q", capturedForm.Get("code"))
	}
	if capturedForm.Get("client_secret") != "client-secret" {
		t.Errorf("client_secret = %q", capturedForm.Get("client_secret"))
	}

	if token.AccessToken != "access-1" || token.RefreshToken != "refresh-1" {
		t.Errorf("tokens = %q, %q", token.AccessToken, token.RefreshToken)
	}
	if token.ExpiresIn != 3600 {
		t.Errorf("expires_in = %d", token.ExpiresIn)
	}
}

func TestRefreshToken(t *testing.T) {
	var capturedForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		capturedForm, _ = url.ParseQuery(string(body))
		_, _ = w.Write([]byte(`{"access_token": "access-2", "expires_in": 3600}`))
	}))
	defer srv.Close()

	client := NewSpotifyClient("client-id", "client-secret", "http://localhost/cb", WithSpotifyURLs(srv.URL, srv.URL))

	token, err := client.RefreshToken(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("RefreshToken() error: %v", err)
	}
	if capturedForm.Get("grant_type") != "refresh_token" {
		t.Errorf("grant_type = %q", capturedForm.Get("grant_type"))
	}
	if capturedForm.Get("refresh_token") != "refresh-1" {
		t.Errorf("refresh_token = %q", capturedForm.Get("refresh_token"))
	}
	if token.AccessToken != "access-2" {
		t.Errorf("access_token = %q", token.AccessToken)
	}
}

func TestExchangeCodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_grant"}`))
	}))
	defer srv.Close()

	client := NewSpotifyClient("client-id", "client-secret", "http://localhost/cb", WithSpotifyURLs(srv.URL, srv.URL))
	if _, err := client.ExchangeCode(context.Background(), "bad-code"); err == nil {
		t.Fatal("expected error for rejected code")
	}
}

func TestSpotifyTopArtists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer access-1" {
			t.Errorf("Authorization = %q", auth)
		}
		q := r.URL.Query()
		if q.Get("time_range") != "medium_term" {
			t.Errorf("time_range = %q", q.Get("time_range"))
		}
		if q.Get("limit") != "20" {
			t.Errorf("limit = %q", q.Get("limit"))
		}
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"id": "a1",
					"name": "The Midnight",
					"genres": ["synthwave"],
					"popularity": 70,
					"followers": {"total": 500000},
					"images": [{"url": "https://img.example.com/a1.jpg"}]
				},
				{
					"id": "a2",
					"name": "Carly Rae Jepsen",
					"genres": ["pop"],
					"popularity": 80,
					"followers": {"total": 2000000},
					"images": []
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewSpotifyClient("client-id", "client-secret", "http://localhost/cb", WithSpotifyURLs(srv.URL, srv.URL))

	artists, err := client.TopArtists(context.Background(), "access-1", 20)
	if err != nil {
		t.Fatalf("TopArtists() error: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("expected 2 artists, got %d", len(artists))
	}

	if artists[0].Name != "The Midnight" || artists[0].Rank != 1 {
		t.Errorf("first artist = %q rank %d", artists[0].Name, artists[0].Rank)
	}
	if artists[0].ImageURL != "https://img.example.com/a1.jpg" {
		t.Errorf("ImageURL = %q", artists[0].ImageURL)
	}
	if artists[1].Rank != 2 {
		t.Errorf("second artist rank = %d", artists[1].Rank)
	}
	if artists[1].ImageURL != "" {
		t.Errorf("expected empty ImageURL for artist without images")
	}
}
