package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// The service groups this app's secrets in the OS keychain.
const KeyringService = "footin"

var knownProviders = map[string]bool{
	"scraper":  true,
	"contacts": true,
}

func KnownProvider(provider string) bool {
	return knownProviders[strings.ToLower(strings.TrimSpace(provider))]
}

func account(provider string) string {
	return "footin:apikey:" + strings.ToLower(strings.TrimSpace(provider))
}

// GetAPIKey reads a provider's API key from the keychain. Providers
// without a stored key are usable anonymously or via synthetic data, so
// the caller decides whether an empty key is fatal.
func GetAPIKey(provider string) (string, error) {
	if !KnownProvider(provider) {
		return "", errors.New("unknown provider: " + provider)
	}
	key, err := keyring.Get(KeyringService, account(provider))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}

func SetAPIKey(provider, key string) error {
	if !KnownProvider(provider) {
		return errors.New("unknown provider: " + provider)
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, account(provider), key)
}

func DeleteAPIKey(provider string) error {
	if !KnownProvider(provider) {
		return errors.New("unknown provider: " + provider)
	}
	return keyring.Delete(KeyringService, account(provider))
}
