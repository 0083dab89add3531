// Package music provides clients for streaming-service APIs used to build a
// listener's top-artist profile: Spotify (OAuth code flow) and Apple Music
// (MusicKit developer tokens).
package music

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Spotify endpoints.
const (
	spotifyAccountsURL = "https://accounts.spotify.com"
	spotifyAPIURL      = "https://api.spotify.com/v1"
)

// spotifyScopes are the OAuth scopes requested during authorization.
var spotifyScopes = []string{
	"user-top-read",
	"user-read-private",
	"user-read-email",
	"user-library-read",
}

// Artist is a normalized artist entry from a streaming service.
type Artist struct {
	Name       string   `json:"name"`
	ProviderID string   `json:"provider_id"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
	Rank       int      `json:"rank"`
	Followers  int      `json:"followers,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
}

// TokenResponse is the Spotify token endpoint payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// SpotifyClient drives the Spotify authorization-code flow and top-artist
// lookups.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	accountsURL  string
	apiURL       string
	http         *http.Client
}

// SpotifyOption configures a SpotifyClient.
type SpotifyOption func(*SpotifyClient)

// WithSpotifyURLs overrides the accounts and API base URLs. Used in tests.
func WithSpotifyURLs(accounts, api string) SpotifyOption {
	return func(c *SpotifyClient) {
		c.accountsURL = accounts
		c.apiURL = api
	}
}

// WithSpotifyHTTPClient overrides the HTTP client.
func WithSpotifyHTTPClient(h *http.Client) SpotifyOption {
	return func(c *SpotifyClient) { c.http = h }
}

// NewSpotifyClient creates a Spotify client with app credentials.
func NewSpotifyClient(clientID, clientSecret, redirectURI string, opts ...SpotifyOption) *SpotifyClient {
	c := &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		accountsURL:  spotifyAccountsURL,
		apiURL:       spotifyAPIURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthURL builds the authorization URL the user is redirected to. The state
// parameter carries the initiating user's ID through the OAuth round trip.
func (c *SpotifyClient) AuthURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {c.clientID},
		"scope":         {strings.Join(spotifyScopes, " ")},
		"redirect_uri":  {c.redirectURI},
		"state":         {state},
		"show_dialog":   {"true"},
	}
	return c.accountsURL + "/authorize?" + params.Encode()
}

// ExchangeCode trades an authorization code for access and refresh tokens.
func (c *SpotifyClient) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {c.redirectURI},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	return c.postToken(ctx, form)
}

// RefreshToken obtains a fresh access token from a refresh token.
func (c *SpotifyClient) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	return c.postToken(ctx, form)
}

func (c *SpotifyClient) postToken(ctx context.Context, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build spotify token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify token request: unexpected status %d", resp.StatusCode)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode spotify token response: %w", err)
	}
	return &token, nil
}

// topArtistsResponse mirrors the Spotify /me/top/artists payload.
type topArtistsResponse struct {
	Items []struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Genres     []string `json:"genres"`
		Popularity int      `json:"popularity"`
		Followers  struct {
			Total int `json:"total"`
		} `json:"followers"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"items"`
}

// TopArtists returns the user's most-listened artists over the last six
// months, ranked by listen frequency.
func (c *SpotifyClient) TopArtists(ctx context.Context, accessToken string, limit int) ([]Artist, error) {
	params := url.Values{
		"limit":      {strconv.Itoa(limit)},
		"time_range": {"medium_term"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/me/top/artists?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build spotify top-artists request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify top-artists request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify top-artists request: unexpected status %d", resp.StatusCode)
	}

	var body topArtistsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode spotify top-artists response: %w", err)
	}

	artists := make([]Artist, 0, len(body.Items))
	for i, item := range body.Items {
		artist := Artist{
			Name:       item.Name,
			ProviderID: item.ID,
			Genres:     item.Genres,
			Popularity: item.Popularity,
			Rank:       i + 1,
			Followers:  item.Followers.Total,
		}
		if len(item.Images) > 0 {
			artist.ImageURL = item.Images[0].URL
		}
		artists = append(artists, artist)
	}
	return artists, nil
}
