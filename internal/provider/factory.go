package provider

import (
	"fmt"
	"time"

	"smmdesk/internal/models"
)

// Factory builds a Client for a provider record. Components take a Factory
// so tests can substitute fake clients.
type Factory func(p *models.Provider) (Client, error)

// NewClient creates a Client based on the provider's API type. The request
// timeout comes from the provider record; 30s when unset.
func NewClient(p *models.Provider) (Client, error) {
	timeout := 30 * time.Second
	if p.TimeoutSeconds > 0 {
		timeout = time.Duration(p.TimeoutSeconds) * time.Second
	}

	switch p.APIType {
	case models.ProviderAPIv1:
		return NewV1Client(p.APIURL, p.APIKey, timeout), nil
	case models.ProviderAPIJSON:
		return NewJSONClient(p.APIURL, p.APIKey, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported provider api type: %s", p.APIType)
	}
}
