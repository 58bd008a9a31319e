/* kv.go
 * Contains the key-value client interface the result store is built on
 */

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get, and by Store loads, when nothing is stored under a key
var ErrNotFound = errors.New("key not found")

// KV gets and sets string values by key
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
