package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000

	fileVersion = 2
)

// EncryptedFileStore keeps all shops in one JSON file whose account table is
// sealed with AES-GCM under a PBKDF2-derived key. Only the salt is in clear.
type EncryptedFileStore struct {
	path       string
	passphrase string
	mu         sync.Mutex
}

// credentialFile is the on-disk layout
type credentialFile struct {
	Salt     []byte    `json:"salt"`
	Sealed   []byte    `json:"sealed"`
	Version  int       `json:"version"`
	Modified time.Time `json:"modified"`
}

// NewEncryptedFileStore creates an encrypted file store. The passphrase comes
// from THEMEDL_PASSPHRASE or a generated file next to the credentials.
func NewEncryptedFileStore(path string) (*EncryptedFileStore, error) {
	passphrase, err := getPassphrase(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to get passphrase: %w", err)
	}
	return NewEncryptedFileStoreWithPassphrase(path, passphrase)
}

// NewEncryptedFileStoreWithPassphrase creates an encrypted file store with an
// explicit passphrase
func NewEncryptedFileStoreWithPassphrase(path, passphrase string) (*EncryptedFileStore, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &EncryptedFileStore{path: path, passphrase: passphrase}, nil
}

func (e *EncryptedFileStore) Store(account *ShopAccount) error {
	return e.update(func(table shopTable) error {
		return table.put(account)
	})
}

func (e *EncryptedFileStore) Retrieve(shop string) (*ShopAccount, error) {
	table, _, err := e.read()
	if err != nil {
		return nil, err
	}
	return table.get(shop)
}

func (e *EncryptedFileStore) List() ([]*ShopAccount, error) {
	table, _, err := e.read()
	if err != nil {
		return nil, err
	}
	return table.accounts(), nil
}

// Delete removes a shop. The file goes away with the last one.
func (e *EncryptedFileStore) Delete(shop string) error {
	return e.update(func(table shopTable) error {
		return table.remove(shop)
	})
}

func (e *EncryptedFileStore) read() (shopTable, []byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load()
}

// update applies fn to the current table and writes the result back
func (e *EncryptedFileStore) update(fn func(shopTable) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	table, salt, err := e.load()
	if err != nil {
		return err
	}
	if err := fn(table); err != nil {
		return err
	}

	if len(table) == 0 {
		if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove credential file: %w", err)
		}
		return nil
	}
	return e.save(table, salt)
}

// load returns an empty table and no salt when the file does not exist yet
func (e *EncryptedFileStore) load() (shopTable, []byte, error) {
	content, err := os.ReadFile(e.path)
	if os.IsNotExist(err) {
		return shopTable{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var file credentialFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse credential file: %w", err)
	}

	plaintext, err := decrypt(file.Sealed, e.deriveKey(file.Salt))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decrypt credentials, wrong passphrase?: %w", err)
	}

	table := shopTable{}
	if err := json.Unmarshal(plaintext, &table); err != nil {
		return nil, nil, fmt.Errorf("failed to parse accounts: %w", err)
	}
	return table, file.Salt, nil
}

// save seals the table and replaces the file. The salt is generated on the
// first save and kept afterwards.
func (e *EncryptedFileStore) save(table shopTable, salt []byte) error {
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
	}

	plaintext, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}
	sealed, err := encrypt(plaintext, e.deriveKey(salt))
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	content, err := json.MarshalIndent(credentialFile{
		Salt:     salt,
		Sealed:   sealed,
		Version:  fileVersion,
		Modified: time.Now(),
	}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(e.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	_, err = tmp.Write(content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := os.Rename(tmp.Name(), e.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}

func (e *EncryptedFileStore) deriveKey(salt []byte) []byte {
	return pbkdf2.Key([]byte(e.passphrase), salt, iterations, keySize, sha256.New)
}

// getPassphrase retrieves or generates the passphrase for encryption
func getPassphrase(dir string) (string, error) {
	if pass := os.Getenv("THEMEDL_PASSPHRASE"); pass != "" {
		return pass, nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	passphraseFile := filepath.Join(dir, ".passphrase")

	if content, err := os.ReadFile(passphraseFile); err == nil && len(content) > 0 {
		return string(content), nil
	}

	passphrase, err := generatePassphrase()
	if err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	if err := os.WriteFile(passphraseFile, []byte(passphrase), 0600); err != nil {
		return "", fmt.Errorf("failed to save passphrase: %w", err)
	}

	return passphrase, nil
}

// generatePassphrase generates a random passphrase
func generatePassphrase() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// encrypt seals plaintext with AES-GCM, prefixing the random nonce
func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt opens a nonce-prefixed AES-GCM message
func decrypt(sealed []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
