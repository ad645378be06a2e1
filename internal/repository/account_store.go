package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Account is a stored credential pair plus any extra metadata fields the
// remote service associates with it.
type Account struct {
	PublicKey string            `json:"publicKey"`
	SecretKey string            `json:"secretKey"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// AccountStore keeps all credential state inside an OptionStore: the account
// map is one JSON blob under AccountsKey and the active public key is a plain
// string under DefaultPublicKeyKey. Operations are idempotent at the store
// level — adding an existing public key overwrites, removing a missing key
// reports false and never fails.
type AccountStore struct {
	options OptionStore
}

func NewAccountStore(options OptionStore) *AccountStore {
	return &AccountStore{options: options}
}

func (s *AccountStore) load(ctx context.Context) (map[string]Account, error) {
	raw, err := s.options.Get(ctx, AccountsKey)
	if errors.Is(err, ErrNotFound) {
		return map[string]Account{}, nil
	}
	if err != nil {
		return nil, err
	}
	accounts := map[string]Account{}
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode accounts blob: %w", err)
	}
	return accounts, nil
}

func (s *AccountStore) save(ctx context.Context, accounts map[string]Account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts blob: %w", err)
	}
	return s.options.Set(ctx, AccountsKey, string(raw))
}

// Exists reports whether a credential with the given public key is stored.
func (s *AccountStore) Exists(ctx context.Context, publicKey string) (bool, error) {
	accounts, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	_, ok := accounts[publicKey]
	return ok, nil
}

// AddAccount inserts a credential pair, overwriting any existing entry with
// the same public key.
func (s *AccountStore) AddAccount(ctx context.Context, publicKey, secretKey string) error {
	accounts, err := s.load(ctx)
	if err != nil {
		return err
	}
	accounts[publicKey] = Account{PublicKey: publicKey, SecretKey: secretKey}
	return s.save(ctx, accounts)
}

// UpdateAccount merges fields into the stored account for publicKey. A
// "secret" field updates the secret key; everything else lands in Fields.
// Updating a missing account is a no-op; the caller distinguishes via Exists.
func (s *AccountStore) UpdateAccount(ctx context.Context, publicKey string, fields map[string]string) error {
	accounts, err := s.load(ctx)
	if err != nil {
		return err
	}
	account, ok := accounts[publicKey]
	if !ok {
		return nil
	}
	for name, value := range fields {
		if name == "secret" {
			account.SecretKey = value
			continue
		}
		if account.Fields == nil {
			account.Fields = make(map[string]string)
		}
		account.Fields[name] = value
	}
	accounts[publicKey] = account
	return s.save(ctx, accounts)
}

// Remove deletes the credential for publicKey and reports whether it existed.
func (s *AccountStore) Remove(ctx context.Context, publicKey string) (bool, error) {
	accounts, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := accounts[publicKey]; !ok {
		return false, nil
	}
	delete(accounts, publicKey)
	if err := s.save(ctx, accounts); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateAPIPublicKey points the default-key option at publicKey.
func (s *AccountStore) UpdateAPIPublicKey(ctx context.Context, publicKey string) error {
	return s.options.Set(ctx, DefaultPublicKeyKey, publicKey)
}

// APIPublicKey returns the currently active public key, or "" when unset.
func (s *AccountStore) APIPublicKey(ctx context.Context) (string, error) {
	value, err := s.options.Get(ctx, DefaultPublicKeyKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}

// AllAccounts returns every stored credential sorted by public key.
func (s *AccountStore) AllAccounts(ctx context.Context) ([]Account, error) {
	accounts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(accounts))
	for key := range accounts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	all := make([]Account, 0, len(keys))
	for _, key := range keys {
		all = append(all, accounts[key])
	}
	return all, nil
}

// GetOption reads a raw option value through the underlying store.
func (s *AccountStore) GetOption(ctx context.Context, key string) (string, error) {
	return s.options.Get(ctx, key)
}

// DeleteOption removes a raw option key, reporting whether it was present.
func (s *AccountStore) DeleteOption(ctx context.Context, key string) (bool, error) {
	return s.options.Delete(ctx, key)
}
