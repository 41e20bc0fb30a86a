package cache

import (
	"crypto/sha256"
	"time"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
)

// Classifier is the part of *classifier.TextClassifier the cache wraps.
type Classifier interface {
	Classify(text string) classifier.Result
}

// ResultCache memoizes classifications by a digest of the input text.
// Only StatusClassified results are stored: blank input is cheap to
// detect and prediction errors should be retried.
type ResultCache struct {
	next  Classifier
	cache *LRUCache[[sha256.Size]byte, classifier.Result]
}

// NewResultCache wraps next with an LRU of the given capacity and TTL.
func NewResultCache(next Classifier, capacity int, ttl time.Duration) *ResultCache {
	return &ResultCache{
		next:  next,
		cache: NewLRUCache[[sha256.Size]byte, classifier.Result](capacity, ttl),
	}
}

// Classify returns a cached result or delegates to the wrapped classifier.
func (rc *ResultCache) Classify(text string) classifier.Result {
	key := sha256.Sum256([]byte(text))
	if result, ok := rc.cache.Get(key); ok {
		return result
	}

	result := rc.next.Classify(text)
	if result.Status == classifier.StatusClassified {
		rc.cache.Set(key, result)
	}
	return result
}

// Stats returns hit and miss counts.
func (rc *ResultCache) Stats() Stats {
	return rc.cache.Stats()
}

// Clear drops every cached result.
func (rc *ResultCache) Clear() {
	rc.cache.Clear()
}
