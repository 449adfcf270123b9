package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fujocoded/guestbook-appview/internal/cache"
	"github.com/fujocoded/guestbook-appview/internal/observability"
)

// getProfiles accepts at most 25 actors per call.
const profileBatchSize = 25

// BskyProfileClient resolves display profiles against a Bluesky-style public
// AppView API.
type BskyProfileClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBskyProfileClient returns a profile resolver backed by the given public
// API base URL.
func NewBskyProfileClient(baseURL string) *BskyProfileClient {
	return &BskyProfileClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ResolveProfiles resolves handles and avatars for the given DIDs in batched
// lookups, reading through the profile cache. DIDs the upstream does not know
// are absent from the result.
func (c *BskyProfileClient) ResolveProfiles(ctx context.Context, dids []string) (map[string]Profile, error) {
	profiles := make(map[string]Profile, len(dids))

	var misses []string
	seen := make(map[string]bool, len(dids))
	for _, did := range dids {
		if did == "" || seen[did] {
			continue
		}
		seen[did] = true

		var cached Profile
		if found, err := cache.GetJSON(ctx, cache.ProfileKey(did), &cached); err == nil && found {
			profiles[did] = cached
			continue
		}
		misses = append(misses, did)
	}

	for start := 0; start < len(misses); start += profileBatchSize {
		end := start + profileBatchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch, err := c.fetchProfiles(ctx, misses[start:end])
		if err != nil {
			observability.ProfileLookups.WithLabelValues("error").Inc()
			return nil, err
		}
		for did, profile := range batch {
			profiles[did] = profile
			_ = cache.SetJSON(ctx, cache.ProfileKey(did), profile, cache.ProfileTTL)
		}
	}

	observability.ProfileLookups.WithLabelValues("ok").Inc()
	return profiles, nil
}

func (c *BskyProfileClient) fetchProfiles(ctx context.Context, dids []string) (map[string]Profile, error) {
	params := url.Values{}
	for _, did := range dids {
		params.Add("actors", did)
	}
	reqURL := c.baseURL + "/xrpc/app.bsky.actor.getProfiles?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile lookup failed: status %d", resp.StatusCode)
	}

	var body struct {
		Profiles []Profile `json:"profiles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid profile response: %w", err)
	}

	result := make(map[string]Profile, len(body.Profiles))
	for _, profile := range body.Profiles {
		if profile.Did != "" {
			result[profile.Did] = profile
		}
	}
	return result, nil
}
