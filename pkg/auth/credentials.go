package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"themedl/pkg/models"
)

// ShopAccount holds the private app credentials for one shop
type ShopAccount struct {
	Shop         string    `json:"shop"`
	APIKey       string    `json:"api_key"`
	APISecret    string    `json:"api_secret"`
	LastModified time.Time `json:"last_modified"`
}

// Credentials converts the account into API credentials
func (a *ShopAccount) Credentials() models.ShopCredentials {
	return models.ShopCredentials{
		Domain: a.Shop,
		Key:    a.APIKey,
		Secret: a.APISecret,
	}
}

// CredentialStore persists key/secret pairs by shop domain. Retrieve and
// Delete return ErrCredentialsNotFound for unknown shops; List is sorted.
type CredentialStore interface {
	Store(account *ShopAccount) error
	Retrieve(shop string) (*ShopAccount, error)
	List() ([]*ShopAccount, error)
	Delete(shop string) error
}

// Manager tries its stores in order: the first store that accepts a write
// keeps it, and the first store that knows a shop answers for it
type Manager struct {
	stores []CredentialStore
}

// NewManager uses the system keychain when one answers, then an encrypted
// file in the themedl config directory, then the environment
func NewManager() (*Manager, error) {
	dir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	file, err := NewEncryptedFileStore(filepath.Join(dir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}

	var stores []CredentialStore
	if kr, err := NewKeyringStore(); err == nil {
		stores = append(stores, kr)
	}
	stores = append(stores, file, NewEnvironmentStore())
	return NewManagerWithStores(stores...), nil
}

// NewManagerWithStores creates a Manager over the given stores
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Validate reports the first missing field of an account
func (a *ShopAccount) Validate() error {
	switch {
	case a == nil:
		return ErrInvalidCredentials
	case a.Shop == "":
		return fmt.Errorf("%w: shop is required", ErrInvalidCredentials)
	case a.APIKey == "":
		return fmt.Errorf("%w: API key is required", ErrInvalidCredentials)
	case a.APISecret == "":
		return fmt.Errorf("%w: API secret is required", ErrInvalidCredentials)
	}
	return nil
}

// Store stamps the account and saves it in the first store that accepts it
func (m *Manager) Store(account *ShopAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}
	account.LastModified = time.Now()

	failures := make([]error, 0, len(m.stores))
	for _, store := range m.stores {
		err := store.Store(account)
		if err == nil {
			return nil
		}
		failures = append(failures, err)
	}
	if len(failures) == 0 {
		return ErrStoreUnavailable
	}
	return fmt.Errorf("failed to store credentials: %w", errors.Join(failures...))
}

func (m *Manager) Retrieve(shop string) (*ShopAccount, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(shop); err == nil {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w for shop: %s", ErrCredentialsNotFound, shop)
}

// List merges every store's shops. A shop found in several stores is listed
// once, with its most recent version. Unreadable stores are skipped.
func (m *Manager) List() ([]*ShopAccount, error) {
	merged := shopTable{}
	for _, store := range m.stores {
		accounts, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range accounts {
			if current, ok := merged[account.Shop]; !ok || account.LastModified.After(current.LastModified) {
				merged[account.Shop] = *account
			}
		}
	}
	return merged.accounts(), nil
}

// Delete removes the shop from every store holding it
func (m *Manager) Delete(shop string) error {
	removed := false
	var failures []error
	for _, store := range m.stores {
		switch err := store.Delete(shop); {
		case err == nil:
			removed = true
		case errors.Is(err, ErrCredentialsNotFound), errors.Is(err, ErrStoreUnavailable):
		default:
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("failed to delete credentials: %w", errors.Join(failures...))
	}
	if !removed {
		return fmt.Errorf("%w for shop: %s", ErrCredentialsNotFound, shop)
	}
	return nil
}

// getConfigDir returns the themedl directory under the user config dir,
// creating it if needed
func getConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "themedl")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// SanitizeAccount returns a copy safe to print
func SanitizeAccount(account *ShopAccount) *ShopAccount {
	if account == nil {
		return nil
	}
	masked := *account
	masked.APIKey = maskString(account.APIKey)
	masked.APISecret = maskString(account.APISecret)
	return &masked
}

// maskString keeps the first and last four characters of long values
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
