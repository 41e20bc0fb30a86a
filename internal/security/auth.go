package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAPIKey    = errors.New("invalid API key")
	ErrAPIKeyNotFound   = errors.New("API key not found")
	ErrInvalidKeyFormat = errors.New("invalid API key format")
	ErrWeakKey          = errors.New("API key too weak")
)

// Permissions granted to API keys
const (
	PermissionAll      = "*"
	PermissionClassify = "classify"
	PermissionRead     = "read"
)

// APIKeyConfig holds configuration for API key security
type APIKeyConfig struct {
	RequireAuth    bool          `json:"require_auth" yaml:"require_auth"`
	KeyLength      int           `json:"key_length" yaml:"key_length"`
	HashIterations int           `json:"hash_iterations" yaml:"hash_iterations"`
	KeyExpiration  time.Duration `json:"key_expiration" yaml:"key_expiration"`
}

// DefaultAPIKeyConfig returns secure default configuration
func DefaultAPIKeyConfig() APIKeyConfig {
	return APIKeyConfig{
		RequireAuth:    true,
		KeyLength:      32,
		HashIterations: 10000,
		KeyExpiration:  24 * time.Hour,
	}
}

// APIKey represents a secure API key with metadata
type APIKey struct {
	ID          string    `json:"id"`
	HashedKey   string    `json:"hashed_key"`
	Salt        string    `json:"salt"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	LastUsed    time.Time `json:"last_used"`
	UsageCount  int64     `json:"usage_count"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
}

// HasPermission reports whether the key grants perm
func (k *APIKey) HasPermission(perm string) bool {
	for _, p := range k.Permissions {
		if p == PermissionAll || p == perm {
			return true
		}
	}
	return false
}

// APIKeyManager manages API keys securely
type APIKeyManager struct {
	config APIKeyConfig
	keys   map[string]*APIKey
	mutex  sync.Mutex
	now    func() time.Time
}

// NewAPIKeyManager creates a new API key manager
func NewAPIKeyManager(config APIKeyConfig) *APIKeyManager {
	if config.KeyLength < 24 {
		config.KeyLength = 24
	}
	if config.HashIterations <= 0 {
		config.HashIterations = 1
	}
	return &APIKeyManager{
		config: config,
		keys:   make(map[string]*APIKey),
		now:    time.Now,
	}
}

// RequireAuth reports whether keys are checked at all
func (akm *APIKeyManager) RequireAuth() bool {
	return akm.config.RequireAuth
}

// GenerateAPIKey generates a new secure API key. The raw key is returned
// once and never stored.
func (akm *APIKeyManager) GenerateAPIKey(description string, permissions []string) (*APIKey, string, error) {
	keyBytes := make([]byte, akm.config.KeyLength)
	if _, err := rand.Read(keyBytes); err != nil {
		return nil, "", fmt.Errorf("failed to generate random key: %w", err)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, "", fmt.Errorf("failed to generate salt: %w", err)
	}

	rawKey := base64.URLEncoding.EncodeToString(keyBytes)
	if err := validateKeyStrength(rawKey); err != nil {
		return nil, "", err
	}

	now := akm.now()
	apiKey := &APIKey{
		ID:          "key_" + uuid.New().String(),
		HashedKey:   akm.hashKeyWithSalt(rawKey, salt),
		Salt:        base64.StdEncoding.EncodeToString(salt),
		CreatedAt:   now,
		Description: description,
		Permissions: permissions,
		IsActive:    true,
	}
	if akm.config.KeyExpiration > 0 {
		apiKey.ExpiresAt = now.Add(akm.config.KeyExpiration)
	}

	akm.mutex.Lock()
	akm.keys[apiKey.ID] = apiKey
	akm.mutex.Unlock()

	return apiKey, rawKey, nil
}

// ValidateAPIKey validates an API key using constant time comparison
func (akm *APIKeyManager) ValidateAPIKey(rawKey string) (*APIKey, error) {
	if !akm.config.RequireAuth {
		return &APIKey{
			ID:          "no-auth",
			Description: "Authentication disabled",
			Permissions: []string{PermissionAll},
			IsActive:    true,
		}, nil
	}

	if rawKey == "" {
		return nil, ErrInvalidAPIKey
	}
	if err := validateKeyFormat(rawKey); err != nil {
		return nil, err
	}

	akm.mutex.Lock()
	defer akm.mutex.Unlock()

	now := akm.now()
	for _, apiKey := range akm.keys {
		if !apiKey.IsActive {
			continue
		}

		if isExpired(apiKey, now) {
			apiKey.IsActive = false
			continue
		}

		salt, err := base64.StdEncoding.DecodeString(apiKey.Salt)
		if err != nil {
			continue
		}

		hashedKey := akm.hashKeyWithSalt(rawKey, salt)
		if subtle.ConstantTimeCompare([]byte(hashedKey), []byte(apiKey.HashedKey)) == 1 {
			apiKey.LastUsed = now
			apiKey.UsageCount++
			keyCopy := *apiKey
			return &keyCopy, nil
		}
	}

	return nil, ErrInvalidAPIKey
}

// hashKeyWithSalt hashes a key with salt using multiple iterations
func (akm *APIKeyManager) hashKeyWithSalt(key string, salt []byte) string {
	hash := sha256.New()
	hash.Write([]byte(key))
	hash.Write(salt)

	result := hash.Sum(nil)

	for i := 1; i < akm.config.HashIterations; i++ {
		hash.Reset()
		hash.Write(result)
		hash.Write(salt)
		result = hash.Sum(nil)
	}

	return hex.EncodeToString(result)
}

// validateKeyStrength validates that the key meets length and entropy requirements
func validateKeyStrength(key string) error {
	if len(key) < 32 {
		return ErrWeakKey
	}

	if strings.Count(key, string(key[0])) > len(key)/4 {
		return ErrWeakKey
	}

	return nil
}

// validateKeyFormat validates the format of the API key
func validateKeyFormat(key string) error {
	if _, err := base64.URLEncoding.DecodeString(key); err != nil {
		return ErrInvalidKeyFormat
	}
	return nil
}

func isExpired(key *APIKey, now time.Time) bool {
	return !key.ExpiresAt.IsZero() && now.After(key.ExpiresAt)
}

// RevokeAPIKey revokes an API key
func (akm *APIKeyManager) RevokeAPIKey(keyID string) error {
	akm.mutex.Lock()
	defer akm.mutex.Unlock()

	if apiKey, exists := akm.keys[keyID]; exists {
		apiKey.IsActive = false
		return nil
	}
	return ErrAPIKeyNotFound
}

// ListAPIKeys returns all API keys without their hashes
func (akm *APIKeyManager) ListAPIKeys() []*APIKey {
	akm.mutex.Lock()
	defer akm.mutex.Unlock()

	keys := make([]*APIKey, 0, len(akm.keys))
	for _, key := range akm.keys {
		keyCopy := *key
		keyCopy.HashedKey = "[REDACTED]"
		keyCopy.Salt = "[REDACTED]"
		keys = append(keys, &keyCopy)
	}
	return keys
}

// CleanupExpiredKeys removes expired keys and returns how many were removed
func (akm *APIKeyManager) CleanupExpiredKeys() int {
	akm.mutex.Lock()
	defer akm.mutex.Unlock()

	now := akm.now()
	removed := 0
	for id, key := range akm.keys {
		if isExpired(key, now) {
			delete(akm.keys, id)
			removed++
		}
	}
	return removed
}

// GetKeyStats returns statistics about API key usage
func (akm *APIKeyManager) GetKeyStats() map[string]interface{} {
	akm.mutex.Lock()
	defer akm.mutex.Unlock()

	activeKeys := 0
	now := akm.now()
	for _, key := range akm.keys {
		if key.IsActive && !isExpired(key, now) {
			activeKeys++
		}
	}

	return map[string]interface{}{
		"total_keys":    len(akm.keys),
		"active_keys":   activeKeys,
		"inactive_keys": len(akm.keys) - activeKeys,
		"auth_required": akm.config.RequireAuth,
	}
}

// SetupDefaultKey creates a long-lived full-access key when none exists.
// It returns an empty string if keys are already present.
func (akm *APIKeyManager) SetupDefaultKey() (string, error) {
	akm.mutex.Lock()
	existing := len(akm.keys)
	akm.mutex.Unlock()
	if existing > 0 {
		return "", nil
	}

	apiKey, rawKey, err := akm.GenerateAPIKey("Default API Key", []string{PermissionAll})
	if err != nil {
		return "", err
	}

	akm.mutex.Lock()
	akm.keys[apiKey.ID].ExpiresAt = akm.now().Add(365 * 24 * time.Hour)
	akm.mutex.Unlock()

	return rawKey, nil
}

// KeyFromRequest reads the key from X-API-Key or a Bearer Authorization header
func KeyFromRequest(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
