package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProfilesBatchesAndDedupes(t *testing.T) {
	var requests [][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/xrpc/app.bsky.actor.getProfiles", r.URL.Path)
		actors := r.URL.Query()["actors"]
		requests = append(requests, actors)

		profiles := make([]Profile, 0, len(actors))
		for _, did := range actors {
			if did == "did:plc:ghost" {
				continue
			}
			profiles = append(profiles, Profile{
				Did:    did,
				Handle: "handle-for-" + did,
				Avatar: "https://cdn.example.com/" + did + ".jpg",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"profiles": profiles})
	}))
	defer srv.Close()

	client := NewBskyProfileClient(srv.URL)

	// 30 distinct DIDs plus duplicates and a blank: two upstream batches.
	dids := make([]string, 0, 35)
	for i := 0; i < 30; i++ {
		dids = append(dids, fmt.Sprintf("did:plc:user%02d", i))
	}
	dids = append(dids, dids[0], dids[1], "", "did:plc:ghost")

	profiles, err := client.ResolveProfiles(context.Background(), dids)
	require.NoError(t, err)

	require.Len(t, requests, 2)
	assert.Len(t, requests[0], 25)

	assert.Len(t, profiles, 30)
	assert.Equal(t, "handle-for-did:plc:user00", profiles["did:plc:user00"].Handle)

	_, ghostKnown := profiles["did:plc:ghost"]
	assert.False(t, ghostKnown)
}

func TestResolveProfilesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewBskyProfileClient(srv.URL)
	_, err := client.ResolveProfiles(context.Background(), []string{"did:plc:someone"})
	assert.Error(t, err)
}

func TestResolveProfilesEmptyInput(t *testing.T) {
	client := NewBskyProfileClient("http://unused.invalid")
	profiles, err := client.ResolveProfiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
