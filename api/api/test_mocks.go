/* test_mocks.go
 * Contains mock structures for testing the API package and its consumers
 */

package api

import (
	"context"
	"strconv"
	"sync"

	"l2match/api/external"
	"l2match/api/store"
)

// MockStore implements the store Interface for testing
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data, keyed the way the real store keys them
	Values map[string]string

	// Error injection for testing error paths
	SaveResultError error
	LoadResultError error
	SaveThemeError  error
	LoadThemeError  error

	// Call counters
	SaveResultCalls int
	SaveThemeCalls  int
}

var _ store.Interface = (*MockStore)(nil)

// NewMockStore creates a new MockStore with no stored values
func NewMockStore() *MockStore {
	return &MockStore{Values: make(map[string]string)}
}

func (m *MockStore) SaveResult(ctx context.Context, userID string, result string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveResultCalls++
	if m.SaveResultError != nil {
		return m.SaveResultError
	}
	m.Values["score:"+userID] = result
	return nil
}

func (m *MockStore) LoadResult(ctx context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadResultError != nil {
		return "", m.LoadResultError
	}
	val, ok := m.Values["score:"+userID]
	if !ok {
		return "", store.ErrNotFound
	}
	return val, nil
}

func (m *MockStore) SaveTheme(ctx context.Context, userID string, dark bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveThemeCalls++
	if m.SaveThemeError != nil {
		return m.SaveThemeError
	}
	m.Values["theme:"+userID] = strconv.FormatBool(dark)
	return nil
}

func (m *MockStore) LoadTheme(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadThemeError != nil {
		return false, m.LoadThemeError
	}
	return m.Values["theme:"+userID] == "true", nil
}

func (m *MockStore) Close() error {
	return nil
}

// MockLedger records every result it is asked to save
type MockLedger struct {
	Hash    string
	Err     error
	Panic   bool
	Results []string
}

var _ external.Ledger = (*MockLedger)(nil)

func (m *MockLedger) SaveResult(ctx context.Context, result string) (string, error) {
	if m.Panic {
		panic("ledger exploded")
	}
	m.Results = append(m.Results, result)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Hash, nil
}

// SentMessage is a message passed to MockMessenger
type SentMessage struct {
	From string
	To   string
	Text string
}

// MockMessenger records every message it is asked to send
type MockMessenger struct {
	Err  error
	Sent []SentMessage
}

var _ external.Messenger = (*MockMessenger)(nil)

func (m *MockMessenger) Send(ctx context.Context, from, to, text string) error {
	m.Sent = append(m.Sent, SentMessage{From: from, To: to, Text: text})
	return m.Err
}

// MockPublisher records every payload published to the relay
type MockPublisher struct {
	mu       sync.Mutex
	Err      error
	Payloads [][]byte
}

var _ Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Payloads = append(m.Payloads, payload)
	return m.Err
}
