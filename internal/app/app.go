package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/cache"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/config"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/emailbody"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/logging"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/models"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/monitoring"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/privacy"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/worker"
)

// SpamDetectorApp is the main application struct. It owns the fitted
// classifier and everything the front ends share: cache, metrics, batch
// workers and the recent history.
type SpamDetectorApp struct {
	config     *config.Config
	classifier *classifier.TextClassifier
	checker    worker.Classifier
	cache      *cache.ResultCache
	batch      *worker.BatchClassifier

	metrics *monitoring.MetricsRegistry
	health  *monitoring.HealthChecker

	redactor *privacy.Redactor

	checks      *monitoring.CounterMetric
	spam        *monitoring.CounterMetric
	ham         *monitoring.CounterMetric
	needsInput  *monitoring.CounterMetric
	predictErrs *monitoring.CounterMetric
	parseErrs   *monitoring.CounterMetric
	latency     *monitoring.HistogramMetric
	hitRate     *monitoring.GaugeMetric

	history   []*models.Classification
	lastCheck time.Time
	mutex     sync.RWMutex
	startedAt time.Time
}

// New fits the classifier from the configured corpus and wires the
// supporting services. A classifier construction failure is returned as
// is so callers can abort startup.
func New(cfg *config.Config) (*SpamDetectorApp, error) {
	corpus, err := cfg.TrainingCorpus()
	if err != nil {
		return nil, fmt.Errorf("failed to load training corpus: %w", err)
	}

	tc, err := classifier.New(corpus, cfg.ModelOptions()...)
	if err != nil {
		return nil, err
	}

	if err := cfg.CreateDirectories(); err != nil {
		logging.Warnf("Failed to create directories: %v", err)
	}

	app := &SpamDetectorApp{
		config:     cfg,
		classifier: tc,
		checker:    tc,
		metrics:    monitoring.NewMetricsRegistry(),
		health:     monitoring.NewHealthChecker(5 * time.Second),
		startedAt:  time.Now(),
	}

	if cfg.Cache.Enabled {
		app.cache = cache.NewResultCache(tc, cfg.Cache.Capacity, cfg.Cache.TTL)
		app.checker = app.cache
	}

	if cfg.App.RedactSubjects {
		if app.redactor, err = privacy.NewRedactor(); err != nil {
			return nil, err
		}
	}

	app.batch = worker.NewBatchClassifier(app.checker, cfg.Worker.Workers, cfg.Worker.QueueSize, cfg.Worker.TaskTimeout)

	app.registerMetrics()
	app.health.RegisterCheck(monitoring.NewClassifierCheck(tc, corpus[0]))

	logging.Infof("Spam detector initialized: %s", cfg.String())
	logging.Infof("Model ready: %d training examples, %d vocabulary terms", tc.TrainingSize(), len(tc.Vocabulary()))

	return app, nil
}

func (app *SpamDetectorApp) registerMetrics() {
	app.checks = app.metrics.RegisterCounter(monitoring.MetricClassifications, nil)
	app.spam = app.metrics.RegisterCounter(monitoring.MetricSpamDetected, nil)
	app.ham = app.metrics.RegisterCounter(monitoring.MetricHamDetected, nil)
	app.needsInput = app.metrics.RegisterCounter(monitoring.MetricNeedsInput, nil)
	app.predictErrs = app.metrics.RegisterCounter(monitoring.MetricPredictionErrors, nil)
	app.parseErrs = app.metrics.RegisterCounter(monitoring.MetricParseErrors, nil)
	app.latency = app.metrics.RegisterHistogram(monitoring.MetricClassifyLatency, nil, monitoring.DefaultLatencyBuckets)
	app.hitRate = app.metrics.RegisterGauge(monitoring.MetricCacheHitRate, nil)

	app.metrics.RegisterGauge(monitoring.MetricVocabularySize, nil).Set(float64(len(app.classifier.Vocabulary())))
	app.metrics.RegisterGauge(monitoring.MetricTrainingExamples, nil).Set(float64(app.classifier.TrainingSize()))
}

// GetConfig returns the application configuration
func (app *SpamDetectorApp) GetConfig() *config.Config {
	return app.config
}

// Classifier returns the fitted model
func (app *SpamDetectorApp) Classifier() *classifier.TextClassifier {
	return app.classifier
}

// Metrics returns the metrics registry
func (app *SpamDetectorApp) Metrics() *monitoring.MetricsRegistry {
	return app.metrics
}

// Health runs the registered health checks
func (app *SpamDetectorApp) Health(ctx context.Context) *monitoring.HealthResult {
	return app.health.GetOverallHealth(ctx)
}

// Close stops the batch workers
func (app *SpamDetectorApp) Close() {
	app.batch.Stop()
}

// CheckText classifies pasted text
func (app *SpamDetectorApp) CheckText(text string) *models.Classification {
	return app.classify(models.SourceText, "", text)
}

// CheckEML extracts the body of a raw message and classifies it. When the
// message cannot be parsed the returned classification describes the load
// failure and the error is a *emailbody.ParseError.
func (app *SpamDetectorApp) CheckEML(r io.Reader) (*models.Classification, error) {
	msg, err := emailbody.Extract(r)
	if err != nil {
		return app.LoadFailed(models.SourceEmail, "", err), err
	}
	return app.CheckMessage("", msg), nil
}

// CheckFile classifies the .eml file at path
func (app *SpamDetectorApp) CheckFile(path string) (*models.Classification, error) {
	msg, err := emailbody.ExtractFile(path)
	if err != nil {
		return app.LoadFailed(models.SourceEmail, path, err), err
	}
	return app.CheckMessage(path, msg), nil
}

// CheckMessage classifies an already extracted message
func (app *SpamDetectorApp) CheckMessage(name string, msg *emailbody.Message) *models.Classification {
	subject := app.redact(msg.Subject)
	logging.Infof("Loaded email: %s", subject)
	c := app.classify(models.SourceEmail, name, msg.Body)
	c.Subject = subject
	return c
}

// CheckTexts classifies texts concurrently, preserving order
func (app *SpamDetectorApp) CheckTexts(ctx context.Context, texts []string) ([]*models.Classification, error) {
	return app.CheckBatch(ctx, worker.TextInputs(texts))
}

// CheckFiles classifies .eml files concurrently, preserving order
func (app *SpamDetectorApp) CheckFiles(ctx context.Context, paths []string) ([]*models.Classification, error) {
	return app.CheckBatch(ctx, worker.FileInputs(paths))
}

// CheckBatch classifies inputs on the worker pool. Results come back in
// input order; inputs that fail to load become load failure entries.
func (app *SpamDetectorApp) CheckBatch(ctx context.Context, inputs []worker.Input) ([]*models.Classification, error) {
	outputs, err := app.batch.ClassifyAll(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("batch classification failed: %w", err)
	}

	results := make([]*models.Classification, len(outputs))
	for i, out := range outputs {
		if out.Err != nil {
			results[i] = app.LoadFailed(models.SourceBatch, out.Name, out.Err)
			continue
		}

		c := models.NewClassification(models.SourceBatch, out.Result)
		c.ID = out.ID
		c.Name = out.Name
		c.Subject = app.redact(out.Subject)
		c.Duration = out.Duration
		app.record(c, out.Result, out.Duration)
		results[i] = c
	}

	logging.Infof("Batch of %d classified", len(results))
	return results, nil
}

func (app *SpamDetectorApp) redact(subject string) string {
	if app.redactor == nil {
		return subject
	}
	return app.redactor.Redact(subject)
}

func (app *SpamDetectorApp) classify(source models.Source, name, text string) *models.Classification {
	start := time.Now()
	result := app.checker.Classify(text)
	elapsed := time.Since(start)

	c := models.NewClassification(source, result)
	c.Name = name
	c.Duration = elapsed
	app.record(c, result, elapsed)
	return c
}

// LoadFailed records an input that could not be read or parsed and
// returns its classification entry.
func (app *SpamDetectorApp) LoadFailed(source models.Source, name string, err error) *models.Classification {
	var parseErr *emailbody.ParseError
	if errors.As(err, &parseErr) {
		app.parseErrs.Inc()
	} else {
		app.predictErrs.Inc()
	}
	logging.Errorf("Failed to load %s: %v", name, err)

	c := models.NewLoadFailure(source, name, err)
	app.remember(c)
	return c
}

func (app *SpamDetectorApp) record(c *models.Classification, result classifier.Result, elapsed time.Duration) {
	switch result.Status {
	case classifier.StatusNeedsInput:
		app.needsInput.Inc()
		return
	case classifier.StatusError:
		app.predictErrs.Inc()
		logging.Errorf("Prediction failed: %v", result.Err)
	case classifier.StatusClassified:
		if result.Label == classifier.LabelSpam {
			app.spam.Inc()
		} else {
			app.ham.Inc()
		}
		logging.Debugf("Classified %s as %s (%.2f%%)", c.ID, result.Label, result.Confidence)
	}

	app.checks.Inc()
	app.latency.ObserveDuration(elapsed)
	if app.cache != nil {
		app.hitRate.Set(app.cache.Stats().HitRate)
	}
	app.remember(c)
}

// remember appends to the bounded history, dropping the oldest entry
func (app *SpamDetectorApp) remember(c *models.Classification) {
	limit := app.config.App.HistorySize
	if limit <= 0 {
		return
	}

	app.mutex.Lock()
	defer app.mutex.Unlock()

	app.history = append(app.history, c)
	if len(app.history) > limit {
		app.history = append(app.history[:0:0], app.history[len(app.history)-limit:]...)
	}
	app.lastCheck = c.CreatedAt
}

// History returns up to limit recent entries, newest first. A limit of
// zero or less returns the whole history.
func (app *SpamDetectorApp) History(limit int) []*models.Classification {
	app.mutex.RLock()
	defer app.mutex.RUnlock()

	n := len(app.history)
	if limit <= 0 || limit > n {
		limit = n
	}

	entries := make([]*models.Classification, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		entries = append(entries, app.history[i])
	}
	return entries
}

// ClearHistory drops the recorded history and cached results
func (app *SpamDetectorApp) ClearHistory() {
	app.mutex.Lock()
	app.history = nil
	app.mutex.Unlock()

	if app.cache != nil {
		app.cache.Clear()
	}
	logging.Infof("History cleared")
}

// Statistics returns counts per outcome and model details
func (app *SpamDetectorApp) Statistics() models.Statistics {
	app.mutex.RLock()
	lastCheck := app.lastCheck
	app.mutex.RUnlock()

	classes := app.classifier.Classes()
	classNames := make([]string, len(classes))
	for i, c := range classes {
		classNames[i] = string(c)
	}

	stats := models.Statistics{
		TotalChecks:      app.checks.Get(),
		SpamDetected:     app.spam.Get(),
		HamDetected:      app.ham.Get(),
		NeedsInput:       app.needsInput.Get(),
		PredictionErrors: app.predictErrs.Get(),
		ParseErrors:      app.parseErrs.Get(),
		VocabularySize:   len(app.classifier.Vocabulary()),
		TrainingExamples: app.classifier.TrainingSize(),
		Classes:          classNames,
		StartedAt:        app.startedAt,
		LastCheck:        lastCheck,
	}

	if classified := stats.SpamDetected + stats.HamDetected; classified > 0 {
		stats.SpamRate = float64(stats.SpamDetected) / float64(classified)
	}

	if app.cache != nil {
		cs := app.cache.Stats()
		stats.Cache = &models.CacheInfo{
			Hits:     cs.Hits,
			Misses:   cs.Misses,
			HitRate:  cs.HitRate,
			Size:     cs.Size,
			Capacity: cs.Capacity,
		}
	}

	return stats
}
