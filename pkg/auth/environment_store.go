package auth

import (
	"os"
	"time"
)

const (
	envAPIKey    = "THEMEDL_API_KEY"
	envAPISecret = "THEMEDL_API_SECRET"
	envShop      = "THEMEDL_SHOP"
)

// EnvironmentStore reads a single key/secret pair from the environment.
// When THEMEDL_SHOP is set the pair only applies to that shop.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *ShopAccount) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(shop string) (*ShopAccount, error) {
	key := os.Getenv(envAPIKey)
	secret := os.Getenv(envAPISecret)
	if key == "" || secret == "" {
		return nil, ErrCredentialsNotFound
	}

	if bound := os.Getenv(envShop); bound != "" {
		if shop != "" && shop != bound {
			return nil, ErrCredentialsNotFound
		}
		shop = bound
	}
	if shop == "" {
		shop = "default"
	}

	return &ShopAccount{
		Shop:         shop,
		APIKey:       key,
		APISecret:    secret,
		LastModified: time.Now(),
	}, nil
}

// List returns the environment account when one is bound to a shop
func (e *EnvironmentStore) List() ([]*ShopAccount, error) {
	if os.Getenv(envShop) == "" {
		return []*ShopAccount{}, nil
	}
	account, err := e.Retrieve("")
	if err != nil {
		return []*ShopAccount{}, nil
	}
	return []*ShopAccount{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(shop string) error {
	return ErrStoreUnavailable
}
