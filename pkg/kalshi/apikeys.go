package kalshi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tradewell/kalshi/internal/rest"
	"github.com/tradewell/kalshi/pkg/schema"
)

// APIKeysService manages API keys and account limits.
type APIKeysService struct {
	rest *rest.Client
}

// List returns all API keys registered on the account.
func (s *APIKeysService) List(ctx context.Context) ([]schema.APIKey, error) {
	var out struct {
		APIKeys []schema.APIKey `json:"api_keys"`
	}
	if err := s.rest.Get(ctx, "/api_keys", nil, &out); err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return out.APIKeys, nil
}

// Create registers a caller-provided PEM public key and returns the new key id.
func (s *APIKeysService) Create(ctx context.Context, publicKeyPEM, name string) (string, error) {
	body := map[string]string{"public_key": publicKeyPEM}
	if name != "" {
		body["name"] = name
	}
	var out struct {
		APIKeyID string `json:"api_key_id"`
	}
	if err := s.rest.Post(ctx, "/api_keys", body, &out); err != nil {
		return "", fmt.Errorf("create api key: %w", err)
	}
	return out.APIKeyID, nil
}

// Generate asks the venue to create a key pair server-side. The private key
// in the response is returned exactly once; store it immediately.
func (s *APIKeysService) Generate(ctx context.Context, name string) (schema.GeneratedAPIKey, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	var out schema.GeneratedAPIKey
	if err := s.rest.Post(ctx, "/api_keys/generate", body, &out); err != nil {
		return schema.GeneratedAPIKey{}, fmt.Errorf("generate api key: %w", err)
	}
	return out, nil
}

// Delete removes an API key.
func (s *APIKeysService) Delete(ctx context.Context, keyID string) error {
	if err := s.rest.Delete(ctx, "/api_keys/"+url.PathEscape(keyID), nil); err != nil {
		return fmt.Errorf("delete api key %s: %w", keyID, err)
	}
	return nil
}

// GetLimits fetches the account's API rate limits.
func (s *APIKeysService) GetLimits(ctx context.Context) (schema.APILimits, error) {
	var out schema.APILimits
	if err := s.rest.Get(ctx, "/account/limits", nil, &out); err != nil {
		return schema.APILimits{}, fmt.Errorf("get api limits: %w", err)
	}
	return out, nil
}
