package music

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wkndwarrior/api/internal/cache"
)

// appleMusicAPIURL is the Apple Music API root.
const appleMusicAPIURL = "https://api.music.apple.com/v1"

// developerTokenTTL is how long generated developer tokens stay valid.
const developerTokenTTL = time.Hour

// AppleMusicClient talks to the Apple Music API using short-lived developer
// tokens signed with the team's ES256 key. User-scoped calls additionally
// carry a Music-User-Token obtained by MusicKit on the frontend.
type AppleMusicClient struct {
	keyID      string
	teamID     string
	mediaID    string
	privateKey *ecdsa.PrivateKey
	apiURL     string
	http       *http.Client
	cache      *cache.EventCache
}

// AppleOption configures an AppleMusicClient.
type AppleOption func(*AppleMusicClient)

// WithAppleAPIURL overrides the API base URL. Used in tests.
func WithAppleAPIURL(u string) AppleOption {
	return func(c *AppleMusicClient) { c.apiURL = u }
}

// WithAppleHTTPClient overrides the HTTP client.
func WithAppleHTTPClient(h *http.Client) AppleOption {
	return func(c *AppleMusicClient) { c.http = h }
}

// WithAppleCache enables caching of catalog search results. User-scoped
// calls are never cached.
func WithAppleCache(ec *cache.EventCache) AppleOption {
	return func(c *AppleMusicClient) { c.cache = ec }
}

// NewAppleMusicClient creates an Apple Music client. privateKeyPEM is the
// PKCS#8 ES256 key downloaded from the developer portal.
func NewAppleMusicClient(keyID, teamID, mediaID, privateKeyPEM string, opts ...AppleOption) (*AppleMusicClient, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse apple music private key: %w", err)
	}

	c := &AppleMusicClient{
		keyID:      keyID,
		teamID:     teamID,
		mediaID:    mediaID,
		privateKey: key,
		apiURL:     appleMusicAPIURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DeveloperToken signs a one-hour developer token for Apple Music API calls.
func (c *AppleMusicClient) DeveloperToken() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.teamID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(developerTokenTTL)),
		Audience:  jwt.ClaimStrings{"appstoreconnect-v1"},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = c.keyID

	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign apple music developer token: %w", err)
	}
	return signed, nil
}

// MusicKitConfig is the frontend configuration for MusicKit.configure().
type MusicKitConfig struct {
	DeveloperToken string `json:"developer_token"`
	AppName        string `json:"app_name"`
	AppBuild       string `json:"app_build"`
}

// MusicKitConfig returns the developer token and app identity the web
// frontend needs to start the MusicKit authorization flow.
func (c *AppleMusicClient) MusicKitConfig() (*MusicKitConfig, error) {
	token, err := c.DeveloperToken()
	if err != nil {
		return nil, err
	}
	return &MusicKitConfig{
		DeveloperToken: token,
		AppName:        "WKND Warrior",
		AppBuild:       "1.0.0",
	}, nil
}

func (c *AppleMusicClient) get(ctx context.Context, path string, params url.Values, userToken string, dest any) error {
	devToken, err := c.DeveloperToken()
	if err != nil {
		return err
	}

	u := c.apiURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build apple music request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+devToken)
	if userToken != "" {
		req.Header.Set("Music-User-Token", userToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apple music request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("apple music request %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode apple music response: %w", err)
	}
	return nil
}

// heavyRotationResponse mirrors the /me/history/heavy-rotation payload.
type heavyRotationResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name       string   `json:"name"`
			GenreNames []string `json:"genreNames"`
			Artwork    struct {
				URL string `json:"url"`
			} `json:"artwork"`
		} `json:"attributes"`
	} `json:"data"`
}

// recentTracksResponse mirrors the /me/recent/played/tracks payload.
type recentTracksResponse struct {
	Data []struct {
		Relationships struct {
			Artists struct {
				Data []struct {
					ID         string `json:"id"`
					Attributes struct {
						Name       string   `json:"name"`
						GenreNames []string `json:"genreNames"`
						Artwork    struct {
							URL string `json:"url"`
						} `json:"artwork"`
					} `json:"attributes"`
				} `json:"data"`
			} `json:"artists"`
		} `json:"relationships"`
	} `json:"data"`
}

// TopArtists returns the user's most-played artists from their heavy
// rotation, falling back to artists extracted from recently played tracks
// when rotation history is empty or unavailable.
func (c *AppleMusicClient) TopArtists(ctx context.Context, userToken string, limit int) ([]Artist, error) {
	params := url.Values{
		"limit":   {strconv.Itoa(limit)},
		"types[]": {"artists"},
	}

	var body heavyRotationResponse
	if err := c.get(ctx, "/me/history/heavy-rotation", params, userToken, &body); err != nil {
		return c.recentlyPlayedArtists(ctx, userToken, limit)
	}
	if len(body.Data) == 0 {
		return c.recentlyPlayedArtists(ctx, userToken, limit)
	}

	artists := make([]Artist, 0, len(body.Data))
	for i, item := range body.Data {
		artists = append(artists, Artist{
			Name:       item.Attributes.Name,
			ProviderID: item.ID,
			Genres:     item.Attributes.GenreNames,
			Rank:       i + 1,
			ImageURL:   item.Attributes.Artwork.URL,
		})
	}
	return artists, nil
}

// recentlyPlayedArtists extracts unique artists from the user's recently
// played tracks, most recent first.
func (c *AppleMusicClient) recentlyPlayedArtists(ctx context.Context, userToken string, limit int) ([]Artist, error) {
	params := url.Values{
		"limit": {"100"},
	}

	var body recentTracksResponse
	if err := c.get(ctx, "/me/recent/played/tracks", params, userToken, &body); err != nil {
		return nil, err
	}
	if len(body.Data) == 0 {
		return nil, fmt.Errorf("apple music: no listening history")
	}

	seen := make(map[string]bool)
	var artists []Artist
	for _, track := range body.Data {
		for _, artist := range track.Relationships.Artists.Data {
			if seen[artist.ID] {
				continue
			}
			seen[artist.ID] = true
			artists = append(artists, Artist{
				Name:       artist.Attributes.Name,
				ProviderID: artist.ID,
				Genres:     artist.Attributes.GenreNames,
				Rank:       len(artists) + 1,
				ImageURL:   artist.Attributes.Artwork.URL,
			})
			if len(artists) == limit {
				return artists, nil
			}
		}
	}
	return artists, nil
}

// searchResponse mirrors the catalog search payload.
type searchResponse struct {
	Results struct {
		Artists struct {
			Data []struct {
				ID         string `json:"id"`
				Attributes struct {
					Name       string   `json:"name"`
					GenreNames []string `json:"genreNames"`
					Artwork    struct {
						URL string `json:"url"`
					} `json:"artwork"`
				} `json:"attributes"`
			} `json:"data"`
		} `json:"artists"`
	} `json:"results"`
}

// SearchArtists searches the US catalog for artists matching a term.
// Results carry no user data, so they are cached across users.
func (c *AppleMusicClient) SearchArtists(ctx context.Context, term string, limit int) ([]Artist, error) {
	key := cache.ArtistKey(term, limit)
	var cached []Artist
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.DebugContext(ctx, "artist cache read failed", "error", err)
	}

	params := url.Values{
		"term":  {term},
		"types": {"artists"},
		"limit": {strconv.Itoa(limit)},
	}

	var body searchResponse
	if err := c.get(ctx, "/catalog/us/search", params, "", &body); err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(body.Results.Artists.Data))
	for _, item := range body.Results.Artists.Data {
		artists = append(artists, Artist{
			Name:       item.Attributes.Name,
			ProviderID: item.ID,
			Genres:     item.Attributes.GenreNames,
			ImageURL:   item.Attributes.Artwork.URL,
		})
	}

	if err := c.cache.Set(ctx, key, artists, cache.ArtistTTL); err != nil {
		slog.DebugContext(ctx, "artist cache write failed", "error", err)
	}
	return artists, nil
}

// storefrontResponse mirrors the /me/storefront payload.
type storefrontResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			DefaultLanguageTag string `json:"defaultLanguageTag"`
		} `json:"attributes"`
	} `json:"data"`
}

// TokenValidation is the outcome of a user-token check.
type TokenValidation struct {
	Valid      bool   `json:"valid"`
	Storefront string `json:"storefront,omitempty"`
	Language   string `json:"language,omitempty"`
}

// ValidateUserToken checks a Music-User-Token by fetching the user's
// storefront. An API error means the token is invalid or expired.
func (c *AppleMusicClient) ValidateUserToken(ctx context.Context, userToken string) (*TokenValidation, error) {
	var body storefrontResponse
	if err := c.get(ctx, "/me/storefront", nil, userToken, &body); err != nil {
		return &TokenValidation{Valid: false}, nil
	}

	result := &TokenValidation{Valid: true}
	if len(body.Data) > 0 {
		result.Storefront = body.Data[0].ID
		result.Language = body.Data[0].Attributes.DefaultLanguageTag
	}
	return result, nil
}
