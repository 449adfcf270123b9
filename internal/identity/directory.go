package identity

import (
	"context"
	"crypto"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fujocoded/guestbook-appview/internal/cache"
	"github.com/fujocoded/guestbook-appview/internal/observability"
)

// didDocument is the subset of a DID document this service reads.
type didDocument struct {
	ID                 string `json:"id"`
	VerificationMethod []struct {
		ID                 string `json:"id"`
		Type               string `json:"type"`
		Controller         string `json:"controller"`
		PublicKeyMultibase string `json:"publicKeyMultibase"`
	} `json:"verificationMethod"`
}

// DirectoryClient resolves signing keys for did:plc (via the PLC directory)
// and did:web (via the host's well-known DID document) identifiers.
type DirectoryClient struct {
	plcURL     string
	httpClient *http.Client
}

// NewDirectoryClient returns a DirectoryClient backed by the given PLC
// directory base URL.
func NewDirectoryClient(plcURL string) *DirectoryClient {
	return &DirectoryClient{
		plcURL:     strings.TrimRight(plcURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ResolveSigningKey fetches (or reads from cache) the DID's current signing
// key multibase value and decodes it.
func (c *DirectoryClient) ResolveSigningKey(ctx context.Context, did string) (crypto.PublicKey, error) {
	method := didMethod(did)

	var multibase string
	err := cache.CacheAside(ctx, cache.SigningKeyKey(did), &multibase, cache.SigningKeyTTL, func() error {
		mb, err := c.fetchSigningKeyMultibase(ctx, did)
		if err != nil {
			return err
		}
		multibase = mb
		return nil
	})
	if err != nil {
		observability.KeyResolutions.WithLabelValues(method, "error").Inc()
		return nil, err
	}

	key, err := DecodePublicKeyMultibase(multibase)
	if err != nil {
		observability.KeyResolutions.WithLabelValues(method, "error").Inc()
		return nil, err
	}
	observability.KeyResolutions.WithLabelValues(method, "ok").Inc()
	return key, nil
}

func (c *DirectoryClient) fetchSigningKeyMultibase(ctx context.Context, did string) (string, error) {
	var docURL string
	switch didMethod(did) {
	case "plc":
		docURL = c.plcURL + "/" + did
	case "web":
		host := strings.TrimPrefix(did, "did:web:")
		docURL = "https://" + host + "/.well-known/did.json"
	default:
		return "", fmt.Errorf("unsupported DID method: %s", did)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("DID document fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("DID document fetch failed: status %d", resp.StatusCode)
	}

	var doc didDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("invalid DID document: %w", err)
	}

	// Prefer the #atproto verification method, fall back to the first one
	// carrying a key.
	for _, vm := range doc.VerificationMethod {
		if strings.HasSuffix(vm.ID, "#atproto") && vm.PublicKeyMultibase != "" {
			return vm.PublicKeyMultibase, nil
		}
	}
	for _, vm := range doc.VerificationMethod {
		if vm.PublicKeyMultibase != "" {
			return vm.PublicKeyMultibase, nil
		}
	}
	return "", fmt.Errorf("DID document for %s has no signing key", did)
}

func didMethod(did string) string {
	parts := strings.SplitN(did, ":", 3)
	if len(parts) < 3 || parts[0] != "did" {
		return "unknown"
	}
	return parts[1]
}
