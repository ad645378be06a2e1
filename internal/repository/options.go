package repository

import (
	"context"
	"errors"
)

// Option keys in active use.
const (
	AccountsKey         = "accounts"
	DefaultPublicKeyKey = "default_public_key"
)

// Legacy option keys kept only so that cleanup commands can delete them.
const (
	LegacySecretKeyKey    = "bvSecretKey"
	LegacyKeysKey         = "bvKeys"
	LegacyDefaultPubKey   = "bvDefaultPublic"
	LegacyAccountsBlobKey = "bvAccounts"
)

// ErrNotFound is returned when an option key has no stored value.
var ErrNotFound = errors.New("option not found")

// OptionStore is the key/value configuration storage capability. All account
// state is persisted through it, so handing a test double to AccountStore is
// enough to exercise every command path without a database.
type OptionStore interface {
	// Get returns the stored value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. It reports false when the key was not present;
	// deleting a missing key is not an error.
	Delete(ctx context.Context, key string) (bool, error)
}
