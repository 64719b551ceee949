package upstream

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cryptotax/price-exporter/config"
)

// KeyType defines the API key type
type KeyType int

const (
	// NoKey means no API key is available
	NoKey KeyType = iota
	// ProKey means using a Pro API key
	ProKey
	// DemoKey means using a demo API key
	DemoKey
)

// APIKey represents an API key with its type
type APIKey struct {
	Key  string
	Type KeyType
}

// KeyManager rotates CoinGecko API keys. Failed keys are placed in a
// backoff window; the unauthenticated "no key" option always stays at
// the end of the list as a fallback.
type KeyManager struct {
	apiTokens   *config.APITokens
	lastFailed  map[string]time.Time
	backoffTime time.Duration
	mu          sync.RWMutex
}

// NewKeyManager creates a new API key manager
func NewKeyManager(apiTokens *config.APITokens) *KeyManager {
	return &KeyManager{
		apiTokens:   apiTokens,
		lastFailed:  make(map[string]time.Time),
		backoffTime: 5 * time.Minute,
	}
}

func (m *KeyManager) isKeyInBackoff(key string) bool {
	if key == "" {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if lastFailTime, exists := m.lastFailed[key]; exists {
		return time.Since(lastFailTime) < m.backoffTime
	}
	return false
}

// GetAvailableKeys returns the keys to try, in order: pro keys not in
// backoff (a single pro key is always included), demo keys not in
// backoff, then the empty "no key" entry.
func (m *KeyManager) GetAvailableKeys() []APIKey {
	availableKeys := []APIKey{}

	var proKeys, demoKeys []string
	if m.apiTokens != nil {
		proKeys = m.apiTokens.Tokens
		demoKeys = m.apiTokens.DemoTokens
	}

	if len(proKeys) == 1 {
		availableKeys = append(availableKeys, APIKey{Key: proKeys[0], Type: ProKey})
	} else {
		for _, key := range proKeys {
			if !m.isKeyInBackoff(key) {
				availableKeys = append(availableKeys, APIKey{Key: key, Type: ProKey})
			}
		}
	}

	for _, key := range demoKeys {
		if !m.isKeyInBackoff(key) {
			availableKeys = append(availableKeys, APIKey{Key: key, Type: DemoKey})
		}
	}

	availableKeys = append(availableKeys, APIKey{Key: "", Type: NoKey})

	return availableKeys
}

// MarkKeyAsFailed puts a key into backoff
func (m *KeyManager) MarkKeyAsFailed(key string) {
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFailed[key] = time.Now()
	log.Printf("KeyManager: Marked key as failed for %v", m.backoffTime)
}

// CreateFailCallback returns a TryWithKeys onFailed callback that puts
// the failed key into the manager's backoff.
func CreateFailCallback(m *KeyManager) func(APIKey) {
	return func(key APIKey) {
		if key.Key != "" {
			m.MarkKeyAsFailed(key.Key)
		}
	}
}

// KeyExecutor attempts one request with a given key. The bool result
// reports whether the attempt is usable; false with a nil error means
// try the next key.
type KeyExecutor func(key APIKey) (interface{}, bool, error)

// TryWithKeys runs the executor against each key until one succeeds.
// Failed keys are reported through onFailed so they enter backoff.
func TryWithKeys(keys []APIKey, logPrefix string, executor KeyExecutor, onFailed func(APIKey)) (interface{}, error) {
	var lastErr error

	for _, key := range keys {
		result, ok, err := executor(key)
		if err == nil && ok {
			return result, nil
		}

		if err != nil {
			lastErr = err
			log.Printf("%s: Attempt with key type %v failed: %v", logPrefix, key.Type, err)
		}
		if onFailed != nil {
			onFailed(key)
		}
	}

	return nil, fmt.Errorf("%s: all available keys exhausted, last error: %v", logPrefix, lastErr)
}
