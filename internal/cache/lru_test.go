package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string, int](2, 0)

	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// "b" is now least recently used.
	c.Set("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok)

	assert.Equal(t, 2, c.Len())
	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Evictions)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := NewLRUCache[string, int](2, 0)
	c.Set("a", 1)
	c.Set("a", 10)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRUCache_TTL(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewLRUCache[string, string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("other", "v")
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)

	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_DeleteAndClear(t *testing.T) {
	c := NewLRUCache[string, int](4, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))

	c.Get("b")
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Stats{Capacity: 4}, c.Stats())
}

type countingClassifier struct {
	calls  int
	result classifier.Result
}

func (c *countingClassifier) Classify(string) classifier.Result {
	c.calls++
	return c.result
}

func TestResultCache(t *testing.T) {
	inner := &countingClassifier{result: classifier.Result{
		Status:     classifier.StatusClassified,
		Label:      classifier.LabelSpam,
		Confidence: 80,
	}}
	rc := NewResultCache(inner, 8, 0)

	first := rc.Classify("win a prize")
	second := rc.Classify("win a prize")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, int64(1), rc.Stats().Hits)

	rc.Clear()
	rc.Classify("win a prize")
	assert.Equal(t, 2, inner.calls)
}

func TestResultCache_SkipsNonClassified(t *testing.T) {
	inner := &countingClassifier{result: classifier.Result{
		Status: classifier.StatusError,
		Err:    &classifier.PredictionError{Cause: "boom"},
	}}
	rc := NewResultCache(inner, 8, 0)

	rc.Classify("text")
	rc.Classify("text")

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, rc.Stats().Size)
}

func TestResultCache_WithRealClassifier(t *testing.T) {
	tc, err := classifier.NewDefault()
	require.NoError(t, err)
	rc := NewResultCache(tc, 8, time.Hour)

	text := "Okay lar... Joking wif u oni..."
	assert.Equal(t, tc.Classify(text), rc.Classify(text))
	assert.Equal(t, tc.Classify(text), rc.Classify(text))
	assert.Equal(t, classifier.StatusNeedsInput, rc.Classify("  ").Status)
}
