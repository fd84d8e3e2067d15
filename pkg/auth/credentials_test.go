package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zalando/go-keyring"
	"github.com/stretchr/testify/require"
	"themedl/pkg/models"
)

func TestCredentialManager(t *testing.T) {
	manager, memory := NewMemoryManager()

	account := &ShopAccount{
		Shop:      "foo.myshopify.com",
		APIKey:    "0123456789abcdef",
		APISecret: "shppa_fedcba9876543210",
	}
	require.NoError(t, manager.Store(account))
	assert.False(t, account.LastModified.IsZero())

	retrieved, err := manager.Retrieve("foo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, account.APIKey, retrieved.APIKey)
	assert.Equal(t, account.APISecret, retrieved.APISecret)
	assert.Equal(t, models.ShopCredentials{
		Domain: "foo.myshopify.com",
		Key:    "0123456789abcdef",
		Secret: "shppa_fedcba9876543210",
	}, retrieved.Credentials())

	accounts, err := manager.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	require.NoError(t, manager.Delete("foo.myshopify.com"))
	_, err = manager.Retrieve("foo.myshopify.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.Equal(t, 0, memory.Len())

	assert.ErrorIs(t, manager.Delete("foo.myshopify.com"), ErrCredentialsNotFound)
}

func TestManagerStoreValidation(t *testing.T) {
	manager, _ := NewMemoryManager()

	assert.Error(t, manager.Store(&ShopAccount{APIKey: "k", APISecret: "s"}))
	assert.Error(t, manager.Store(&ShopAccount{Shop: "foo.myshopify.com", APISecret: "s"}))
	assert.Error(t, manager.Store(&ShopAccount{Shop: "foo.myshopify.com", APIKey: "k"}))
}

func TestManagerFallback(t *testing.T) {
	broken := NewMemoryStore()
	broken.FailOn(OpStore, errors.New("keychain locked"))
	fallback := NewMemoryStore()
	manager := NewManagerWithStores(broken, fallback)

	require.NoError(t, manager.Store(&ShopAccount{Shop: "foo.myshopify.com", APIKey: "k", APISecret: "s"}))
	assert.Equal(t, 0, broken.Len())
	assert.Equal(t, 1, fallback.Len())

	retrieved, err := manager.Retrieve("foo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "k", retrieved.APIKey)

	fallback.FailOn(OpStore, errors.New("disk full"))
	err = manager.Store(&ShopAccount{Shop: "bar.myshopify.com", APIKey: "k", APISecret: "s"})
	assert.ErrorContains(t, err, "disk full")
}

func TestManagerListPrefersNewest(t *testing.T) {
	older := NewMemoryStore()
	newer := NewMemoryStore()
	now := time.Now()
	require.NoError(t, older.Store(&ShopAccount{Shop: "b.myshopify.com", APIKey: "old", APISecret: "s", LastModified: now.Add(-time.Hour)}))
	require.NoError(t, newer.Store(&ShopAccount{Shop: "b.myshopify.com", APIKey: "new", APISecret: "s", LastModified: now}))
	require.NoError(t, newer.Store(&ShopAccount{Shop: "a.myshopify.com", APIKey: "a", APISecret: "s", LastModified: now}))

	accounts, err := NewManagerWithStores(older, newer).List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a.myshopify.com", accounts[0].Shop)
	assert.Equal(t, "b.myshopify.com", accounts[1].Shop)
	assert.Equal(t, "new", accounts[1].APIKey)
}

func TestSanitizeAccount(t *testing.T) {
	account := &ShopAccount{Shop: "foo.myshopify.com", APIKey: "0123456789abcdef", APISecret: "short"}
	sanitized := SanitizeAccount(account)

	assert.Equal(t, "foo.myshopify.com", sanitized.Shop)
	assert.Equal(t, "0123...cdef", sanitized.APIKey)
	assert.Equal(t, "********", sanitized.APISecret)
	assert.Nil(t, SanitizeAccount(nil))
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "credentials.enc")
	store, err := NewEncryptedFileStoreWithPassphrase(path, "test_passphrase_123")
	require.NoError(t, err)

	account := &ShopAccount{Shop: "foo.myshopify.com", APIKey: "key", APISecret: "secret"}
	require.NoError(t, store.Store(account))
	require.NoError(t, store.Store(&ShopAccount{Shop: "bar.myshopify.com", APIKey: "k2", APISecret: "s2"}))

	retrieved, err := store.Retrieve("foo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "secret", retrieved.APISecret)
	_, err = store.Retrieve("bar.myshopify.com")
	assert.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "secret")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	require.NoError(t, store.Delete("foo.myshopify.com"))
	_, err = store.Retrieve("foo.myshopify.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, store.Delete("bar.myshopify.com"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")
	store, err := NewEncryptedFileStoreWithPassphrase(path, "right")
	require.NoError(t, err)
	require.NoError(t, store.Store(&ShopAccount{Shop: "foo.myshopify.com", APIKey: "k", APISecret: "s"}))

	other, err := NewEncryptedFileStoreWithPassphrase(path, "wrong")
	require.NoError(t, err)
	_, err = other.Retrieve("foo.myshopify.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsNotFound)

	_, err = NewEncryptedFileStoreWithPassphrase(path, "")
	assert.Error(t, err)
}

func TestEncryptedFileStorePassphraseFromEnv(t *testing.T) {
	t.Setenv("THEMEDL_PASSPHRASE", "from_env")
	dir := t.TempDir()

	store, err := NewEncryptedFileStore(filepath.Join(dir, "credentials.enc"))
	require.NoError(t, err)
	assert.Equal(t, "from_env", store.passphrase)

	_, err = os.Stat(filepath.Join(dir, ".passphrase"))
	assert.True(t, os.IsNotExist(err))
}

func TestEncryptedFileStoreGeneratedPassphrase(t *testing.T) {
	t.Setenv("THEMEDL_PASSPHRASE", "")
	dir := t.TempDir()

	first, err := NewEncryptedFileStore(filepath.Join(dir, "credentials.enc"))
	require.NoError(t, err)
	second, err := NewEncryptedFileStore(filepath.Join(dir, "credentials.enc"))
	require.NoError(t, err)

	assert.NotEmpty(t, first.passphrase)
	assert.Equal(t, first.passphrase, second.passphrase)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Setenv("THEMEDL_API_KEY", "")
	t.Setenv("THEMEDL_API_SECRET", "")
	t.Setenv("THEMEDL_SHOP", "")
	_, err := store.Retrieve("foo.myshopify.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	t.Setenv("THEMEDL_API_KEY", "env_key")
	t.Setenv("THEMEDL_API_SECRET", "env_secret")

	account, err := store.Retrieve("foo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "foo.myshopify.com", account.Shop)
	assert.Equal(t, "env_key", account.APIKey)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, accounts)

	t.Setenv("THEMEDL_SHOP", "bar.myshopify.com")
	_, err = store.Retrieve("foo.myshopify.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	_, err = store.Retrieve("bar.myshopify.com")
	assert.NoError(t, err)

	accounts, err = store.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "bar.myshopify.com", accounts[0].Shop)

	assert.ErrorIs(t, store.Store(account), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("bar.myshopify.com"), ErrStoreUnavailable)
}

func TestShowCredentialGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowCredentialGuide(&buf, "foo.myshopify.com")

	out := buf.String()
	assert.Contains(t, out, "https://foo.myshopify.com/admin/apps/private")
	assert.Contains(t, out, "themedl auth login foo.myshopify.com")
}

func TestMemoryStoreFailOn(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Store(&ShopAccount{Shop: "foo.myshopify.com", APIKey: "k", APISecret: "s"}))

	store.FailOn(OpList, errors.New("boom"))
	_, err := store.List()
	assert.EqualError(t, err, "boom")

	store.FailOn(OpList, nil)
	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	assert.ErrorIs(t, store.Store(&ShopAccount{}), ErrInvalidCredentials)
	_, err = store.Retrieve("")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store, err := NewKeyringStore()
	require.NoError(t, err)

	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Store(&ShopAccount{Shop: "foo.myshopify.com", APIKey: "key", APISecret: "se:cret", LastModified: modified}))
	require.NoError(t, store.Store(&ShopAccount{Shop: "bar.myshopify.com", APIKey: "k2", APISecret: "s2"}))

	account, err := store.Retrieve("foo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "key", account.APIKey)
	assert.Equal(t, "se:cret", account.APISecret)
	assert.True(t, modified.Equal(account.LastModified))

	pair, err := keyring.Get(keyringService, shopEntry("foo.myshopify.com"))
	require.NoError(t, err)
	assert.Equal(t, "key:se:cret", pair)

	accounts, err := store.List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "bar.myshopify.com", accounts[0].Shop)
	assert.Equal(t, "foo.myshopify.com", accounts[1].Shop)

	require.NoError(t, store.Delete("foo.myshopify.com"))
	_, err = store.Retrieve("foo.myshopify.com")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.ErrorIs(t, store.Delete("foo.myshopify.com"), ErrCredentialsNotFound)

	require.NoError(t, store.Delete("bar.myshopify.com"))
	_, err = keyring.Get(keyringService, keyringIndex)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestKeyringStoreUnavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("no dbus session"))
	t.Cleanup(keyring.MockInit)

	_, err := NewKeyringStore()
	assert.ErrorContains(t, err, "keyring not available")
}

func TestKeyringStoreSkipsOrphanedIndexEntries(t *testing.T) {
	keyring.MockInit()
	store, err := NewKeyringStore()
	require.NoError(t, err)

	require.NoError(t, store.Store(&ShopAccount{Shop: "foo.myshopify.com", APIKey: "k", APISecret: "s"}))
	require.NoError(t, keyring.Delete(keyringService, shopEntry("foo.myshopify.com")))

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestManagerDeleteSkipsReadOnlyStores(t *testing.T) {
	t.Setenv("THEMEDL_API_KEY", "env_key")
	t.Setenv("THEMEDL_API_SECRET", "env_secret")
	memory := NewMemoryStore()
	manager := NewManagerWithStores(memory, NewEnvironmentStore())

	require.NoError(t, manager.Store(&ShopAccount{Shop: "foo.myshopify.com", APIKey: "k", APISecret: "s"}))
	require.NoError(t, manager.Delete("foo.myshopify.com"))
	assert.Equal(t, 0, memory.Len())

	memory.FailOn(OpDelete, errors.New("locked"))
	assert.ErrorContains(t, manager.Delete("foo.myshopify.com"), "locked")
}

func TestShopAccountValidate(t *testing.T) {
	var missing *ShopAccount
	assert.ErrorIs(t, missing.Validate(), ErrInvalidCredentials)
	assert.ErrorContains(t, (&ShopAccount{Shop: "foo.myshopify.com", APIKey: "k"}).Validate(), "API secret is required")
	assert.NoError(t, (&ShopAccount{Shop: "foo.myshopify.com", APIKey: "k", APISecret: "s"}).Validate())
}
