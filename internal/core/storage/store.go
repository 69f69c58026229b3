package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get and GetGlobal when the document does not exist
var ErrNotFound = errors.New("document not found")

// Store is a key-value document store. Invoice documents are keyed by
// invoice id; settings, clients and products share one global document.
// Documents are opaque JSON bytes at this layer.
type Store interface {
	Put(ctx context.Context, key string, doc []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete is idempotent: deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
	// List returns every invoice document ordered by key
	List(ctx context.Context) ([][]byte, error)

	GetGlobal(ctx context.Context) ([]byte, error)
	PutGlobal(ctx context.Context, doc []byte) error

	Name() string
	Close() error
}

const (
	kindInvoice = "invoice"
	kindGlobal  = "global"
	globalKey   = "data"
)

// ValidateKey rejects keys that cannot be used as a file name
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return fmt.Errorf("invalid key: empty")
	case strings.ContainsAny(key, `/\`):
		return fmt.Errorf("invalid key %q: contains path separator", key)
	case key == "." || strings.Contains(key, ".."):
		return fmt.Errorf("invalid key %q: relative path", key)
	case strings.ContainsRune(key, 0):
		return fmt.Errorf("invalid key %q: contains NUL", key)
	}
	return nil
}
