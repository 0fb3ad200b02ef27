package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "taskboard"
	recordKey   = "session"
)

// Keyring persists the session record as a single JSON item in the
// system keyring, falling back to an encrypted file backend when no
// native keychain is available.
type Keyring struct{}

// NewKeyring returns a keyring-backed session store.
func NewKeyring() *Keyring {
	return &Keyring{}
}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/taskboard/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Current returns the stored session, or a signed-out session when no
// record exists or the record cannot be read.
func (k *Keyring) Current() Session {
	ring, err := openKeyring()
	if err != nil {
		return Session{}
	}

	item, err := ring.Get(recordKey)
	if err != nil {
		return Session{}
	}

	var s Session
	if err := json.Unmarshal(item.Data, &s); err != nil {
		return Session{}
	}
	return s
}

// Save writes the session record to the keyring.
func (k *Keyring) Save(s Session) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := ring.Set(keyring.Item{Key: recordKey, Data: data}); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Clear removes the session record. A missing record is not an error.
func (k *Keyring) Clear() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(recordKey); err != nil &&
		!errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
