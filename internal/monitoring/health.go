package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
)

// HealthChecker performs health checks and reports status
type HealthChecker struct {
	checks  map[string]HealthCheck
	timeout time.Duration
	mutex   sync.RWMutex
}

// HealthCheck interface for health check implementations
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) *HealthResult
}

// HealthResult represents the result of a health check
type HealthResult struct {
	Status    HealthStatus           `json:"status"`
	Message   string                 `json:"message"`
	Duration  time.Duration          `json:"duration"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// HealthStatus represents health check status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusUnknown   HealthStatus = "unknown"
)

// NewHealthChecker creates a new health checker
func NewHealthChecker(timeout time.Duration) *HealthChecker {
	return &HealthChecker{
		checks:  make(map[string]HealthCheck),
		timeout: timeout,
	}
}

// RegisterCheck registers a new health check
func (hc *HealthChecker) RegisterCheck(check HealthCheck) {
	hc.mutex.Lock()
	defer hc.mutex.Unlock()
	hc.checks[check.Name()] = check
}

// RunChecks runs all registered health checks concurrently
func (hc *HealthChecker) RunChecks(ctx context.Context) map[string]*HealthResult {
	hc.mutex.RLock()
	checks := make(map[string]HealthCheck, len(hc.checks))
	for name, check := range hc.checks {
		checks[name] = check
	}
	hc.mutex.RUnlock()

	results := make(map[string]*HealthResult)
	var wg sync.WaitGroup
	var resultMutex sync.Mutex

	for name, check := range checks {
		wg.Add(1)
		go func(checkName string, healthCheck HealthCheck) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, hc.timeout)
			defer cancel()

			start := time.Now()
			result := healthCheck.Check(checkCtx)
			if result == nil {
				result = &HealthResult{Status: HealthStatusUnknown, Message: "check returned no result"}
			}
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()

			resultMutex.Lock()
			results[checkName] = result
			resultMutex.Unlock()
		}(name, check)
	}

	wg.Wait()
	return results
}

// GetOverallHealth returns overall system health
func (hc *HealthChecker) GetOverallHealth(ctx context.Context) *HealthResult {
	results := hc.RunChecks(ctx)

	overall := &HealthResult{
		Status:    HealthStatusHealthy,
		Message:   "All checks passed",
		Timestamp: time.Now(),
		Metadata:  make(map[string]interface{}),
	}

	degradedCount := 0
	unhealthyCount := 0

	for name, result := range results {
		overall.Metadata[name] = result

		switch result.Status {
		case HealthStatusDegraded:
			degradedCount++
		case HealthStatusUnhealthy:
			unhealthyCount++
		}
	}

	total := len(results)
	if total == 0 {
		overall.Status = HealthStatusUnknown
		overall.Message = "No health checks configured"
	} else if unhealthyCount > 0 {
		overall.Status = HealthStatusUnhealthy
		overall.Message = fmt.Sprintf("%d of %d checks unhealthy", unhealthyCount, total)
	} else if degradedCount > 0 {
		overall.Status = HealthStatusDegraded
		overall.Message = fmt.Sprintf("%d of %d checks degraded", degradedCount, total)
	}

	return overall
}

// Classifier is the part of the text classifier a self-check needs.
type Classifier interface {
	Classify(text string) classifier.Result
}

// ClassifierCheck classifies a known example and expects its label back.
type ClassifierCheck struct {
	classifier Classifier
	probe      classifier.TrainingExample
}

// NewClassifierCheck probes c with the given example.
func NewClassifierCheck(c Classifier, probe classifier.TrainingExample) *ClassifierCheck {
	return &ClassifierCheck{classifier: c, probe: probe}
}

func (cc *ClassifierCheck) Name() string {
	return "classifier"
}

func (cc *ClassifierCheck) Check(ctx context.Context) *HealthResult {
	if err := ctx.Err(); err != nil {
		return &HealthResult{Status: HealthStatusUnknown, Message: err.Error()}
	}

	result := cc.classifier.Classify(cc.probe.Text)
	metadata := map[string]interface{}{
		"expected": cc.probe.Label,
		"status":   result.Status.String(),
	}

	switch {
	case result.Status == classifier.StatusError:
		return &HealthResult{
			Status:   HealthStatusUnhealthy,
			Message:  fmt.Sprintf("prediction failed: %v", result.Err),
			Metadata: metadata,
		}
	case result.Status != classifier.StatusClassified:
		return &HealthResult{
			Status:   HealthStatusUnhealthy,
			Message:  "probe was not classified",
			Metadata: metadata,
		}
	}

	metadata["label"] = result.Label
	metadata["confidence"] = result.Confidence
	if result.Label != cc.probe.Label {
		return &HealthResult{
			Status:   HealthStatusDegraded,
			Message:  fmt.Sprintf("probe classified as %s, expected %s", result.Label, cc.probe.Label),
			Metadata: metadata,
		}
	}

	return &HealthResult{
		Status:   HealthStatusHealthy,
		Message:  "classifier responding",
		Metadata: metadata,
	}
}

// CheckFunc adapts a function to the HealthCheck interface
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) *HealthResult
}

// NewCheckFunc creates a named health check from fn
func NewCheckFunc(name string, fn func(ctx context.Context) *HealthResult) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

func (cf *CheckFunc) Name() string {
	return cf.name
}

func (cf *CheckFunc) Check(ctx context.Context) *HealthResult {
	return cf.fn(ctx)
}
