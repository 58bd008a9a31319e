/* store.go
 * Contains the Store struct which persists quiz results and the theme flag for a user. Results are kept under
 * score:<id> as their display text and the theme under theme:<id> as "true" or "false".
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// DefaultTimeout bounds every store call when no timeout is configured
const DefaultTimeout = 10 * time.Second

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	SaveResult(ctx context.Context, userID string, result string) error
	LoadResult(ctx context.Context, userID string) (string, error)
	SaveTheme(ctx context.Context, userID string, dark bool) error
	LoadTheme(ctx context.Context, userID string) (bool, error)
	Close() error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

type Store struct {
	KV      KV
	Timeout time.Duration
}

// NewStore wraps a key-value client. A timeout of zero or less uses DefaultTimeout.
func NewStore(kv KV, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{KV: kv, Timeout: timeout}
}

func resultKey(userID string) string {
	return "score:" + userID
}

func themeKey(userID string) string {
	return "theme:" + userID
}

// SaveResult stores the display text of a finished quiz
// Preconditions: result is not empty
// Postconditions: Returns nil, or an error if the store is unreachable or the timeout passes
func (s *Store) SaveResult(ctx context.Context, userID string, result string) error {
	if result == "" {
		return fmt.Errorf("result cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	if err := s.KV.Set(ctx, resultKey(userID), result); err != nil {
		return fmt.Errorf("error saving result: %w", err)
	}
	return nil
}

// LoadResult returns the stored result, or ErrNotFound if the user has not finished a quiz
func (s *Store) LoadResult(ctx context.Context, userID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	val, err := s.KV.Get(ctx, resultKey(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error loading result: %w", err)
	}
	return val, nil
}

func (s *Store) SaveTheme(ctx context.Context, userID string, dark bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	if err := s.KV.Set(ctx, themeKey(userID), strconv.FormatBool(dark)); err != nil {
		return fmt.Errorf("error saving theme: %w", err)
	}
	return nil
}

// LoadTheme returns the stored theme flag. A missing or unreadable value is false.
// Postconditions: Returns an error only when the store itself fails
func (s *Store) LoadTheme(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	val, err := s.KV.Get(ctx, themeKey(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error loading theme: %w", err)
	}
	return val == "true", nil
}

func (s *Store) Close() error {
	return s.KV.Close()
}
