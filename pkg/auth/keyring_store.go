package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
	"themedl/pkg/models"
)

const (
	keyringService = "themedl"
	// keyringIndex lists the stored shops, since go-keyring cannot enumerate
	keyringIndex = "index"
)

// KeyringStore keeps one "key:secret" entry per shop in the system keychain,
// plus an index entry mapping each shop to its last modification time
type KeyringStore struct {
	mu sync.Mutex
}

// NewKeyringStore returns an error when no keychain backend answers
func NewKeyringStore() (*KeyringStore, error) {
	if _, err := keyring.Get(keyringService, keyringIndex); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	return &KeyringStore{}, nil
}

func shopEntry(shop string) string {
	return "shop:" + shop
}

func (k *KeyringStore) Store(account *ShopAccount) error {
	if account == nil || account.Shop == "" {
		return ErrInvalidCredentials
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	pair := account.APIKey + ":" + account.APISecret
	if err := keyring.Set(keyringService, shopEntry(account.Shop), pair); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	index, err := k.readIndex()
	if err != nil {
		return err
	}
	index[account.Shop] = account.LastModified
	return k.writeIndex(index)
}

func (k *KeyringStore) Retrieve(shop string) (*ShopAccount, error) {
	if shop == "" {
		return nil, ErrInvalidCredentials
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	return k.retrieve(shop)
}

func (k *KeyringStore) retrieve(shop string) (*ShopAccount, error) {
	pair, err := keyring.Get(keyringService, shopEntry(shop))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrCredentialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}

	creds, err := models.ParseAPIPair(shop, pair)
	if err != nil {
		return nil, fmt.Errorf("corrupt keyring entry for %s: %w", shop, err)
	}

	index, err := k.readIndex()
	if err != nil {
		return nil, err
	}
	return &ShopAccount{
		Shop:         shop,
		APIKey:       creds.Key,
		APISecret:    creds.Secret,
		LastModified: index[shop],
	}, nil
}

// List returns the indexed shops. Index entries whose secret is gone are
// skipped.
func (k *KeyringStore) List() ([]*ShopAccount, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	index, err := k.readIndex()
	if err != nil {
		return nil, err
	}

	table := shopTable{}
	for shop := range index {
		account, err := k.retrieve(shop)
		if err != nil {
			continue
		}
		table[shop] = *account
	}
	return table.accounts(), nil
}

func (k *KeyringStore) Delete(shop string) error {
	if shop == "" {
		return ErrInvalidCredentials
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	err := keyring.Delete(keyringService, shopEntry(shop))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrCredentialsNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	index, err := k.readIndex()
	if err != nil {
		return err
	}
	delete(index, shop)
	return k.writeIndex(index)
}

func (k *KeyringStore) readIndex() (map[string]time.Time, error) {
	index := map[string]time.Time{}
	raw, err := keyring.Get(keyringService, keyringIndex)
	if errors.Is(err, keyring.ErrNotFound) {
		return index, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring index: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		return nil, fmt.Errorf("corrupt keyring index: %w", err)
	}
	return index, nil
}

func (k *KeyringStore) writeIndex(index map[string]time.Time) error {
	if len(index) == 0 {
		err := keyring.Delete(keyringService, keyringIndex)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to clear keyring index: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(index)
	if err != nil {
		return err
	}
	if err := keyring.Set(keyringService, keyringIndex, string(raw)); err != nil {
		return fmt.Errorf("failed to write keyring index: %w", err)
	}
	return nil
}
