package server

import (
	"github.com/gofiber/fiber/v2"
)

type verificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

type serviceEntry struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

type didDocument struct {
	Context            []string             `json:"@context"`
	ID                 string               `json:"id"`
	VerificationMethod []verificationMethod `json:"verificationMethod"`
	Service            []serviceEntry       `json:"service"`
}

// GetDIDDocument serves the did:web identity document. Other services
// resolve it to verify tokens this AppView issues and to locate its
// endpoint.
func (s *Server) GetDIDDocument(c *fiber.Ctx) error {
	did := s.config.ServiceDID()

	return c.Status(fiber.StatusOK).JSON(didDocument{
		Context: []string{
			"https://www.w3.org/ns/did/v1",
			"https://w3id.org/security/multikey/v1",
			"https://w3id.org/security/suites/secp256k1-2019/v1",
		},
		ID: did,
		VerificationMethod: []verificationMethod{
			{
				ID:                 did + "#atproto",
				Type:               "Multikey",
				Controller:         did,
				PublicKeyMultibase: s.config.PublicKeyMultibase,
			},
		},
		Service: []serviceEntry{
			{
				ID:              "#guestbook_appview",
				Type:            "GuestbookAppView",
				ServiceEndpoint: "https://" + s.config.AppviewDomain,
			},
		},
	})
}
