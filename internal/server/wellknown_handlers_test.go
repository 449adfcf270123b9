package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDIDDocument(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/did.json", nil)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var doc didDocument
	require.NoError(t, json.Unmarshal(body, &doc))

	assert.Equal(t, "did:web:"+testDomain, doc.ID)
	assert.Contains(t, doc.Context, "https://www.w3.org/ns/did/v1")

	require.Len(t, doc.VerificationMethod, 1)
	vm := doc.VerificationMethod[0]
	assert.Equal(t, "did:web:"+testDomain+"#atproto", vm.ID)
	assert.Equal(t, "Multikey", vm.Type)
	assert.Equal(t, "did:web:"+testDomain, vm.Controller)
	assert.Equal(t, "zQ3shTestKey", vm.PublicKeyMultibase)

	require.Len(t, doc.Service, 1)
	assert.Equal(t, "#guestbook_appview", doc.Service[0].ID)
	assert.Equal(t, "GuestbookAppView", doc.Service[0].Type)
	assert.Equal(t, "https://"+testDomain, doc.Service[0].ServiceEndpoint)
}

func TestLivenessCheck(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadinessCheck(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "healthy", decoded["status"])
}
