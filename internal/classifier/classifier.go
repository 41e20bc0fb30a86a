// Package classifier implements the spam/ham text classifier: a TF-IDF
// vectorizer feeding a multinomial naive Bayes model, fitted once from a
// fixed training set and read-only afterwards.
//
// A *TextClassifier is safe for concurrent use. Classify never panics and
// never returns an error value; callers switch on Result.Status.
package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultAlpha is the additive smoothing applied to feature counts.
const DefaultAlpha = 1.0

// Config holds the model parameters.
type Config struct {
	Alpha    float64 `yaml:"alpha"`
	FitPrior bool    `yaml:"fit_prior"`
}

// DefaultConfig matches the parameters the desktop programs always used.
func DefaultConfig() Config {
	return Config{
		Alpha:    DefaultAlpha,
		FitPrior: true,
	}
}

// Option adjusts a Config before fitting.
type Option func(*Config)

// WithConfig replaces the whole model configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithAlpha sets the smoothing parameter.
func WithAlpha(alpha float64) Option {
	return func(c *Config) {
		c.Alpha = alpha
	}
}

// Result is the outcome of classifying one text.
type Result struct {
	Status     Status  `json:"status"`
	Label      Label   `json:"label,omitempty"`
	Confidence float64 `json:"confidence"`
	Err        error   `json:"-"`
}

// IsSpam reports whether the text was classified as spam.
func (r Result) IsSpam() bool {
	return r.Status == StatusClassified && r.Label == LabelSpam
}

// TextClassifier is a fitted TF-IDF + multinomial naive Bayes pipeline.
type TextClassifier struct {
	config     Config
	vectorizer *tfidfVectorizer
	model      *multinomialNB
	trainSize  int
}

// New fits a classifier on examples. It returns a *ConstructionError when
// the set is empty, a label is outside {spam, ham}, or the configuration
// is unusable.
func New(examples []TrainingExample, opts ...Option) (*TextClassifier, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(examples) == 0 {
		return nil, &ConstructionError{Reason: "no training examples", Err: ErrEmptyCorpus}
	}
	if cfg.Alpha <= 0 || math.IsNaN(cfg.Alpha) || math.IsInf(cfg.Alpha, 0) {
		return nil, &ConstructionError{Reason: fmt.Sprintf("alpha must be a positive number, got %v", cfg.Alpha)}
	}

	docs := make([]string, len(examples))
	labels := make([]Label, len(examples))
	present := make(map[Label]bool)
	for i, ex := range examples {
		if !ex.Label.Valid() {
			return nil, &ConstructionError{
				Reason: fmt.Sprintf("example %d has label %q, want %q or %q", i, ex.Label, LabelSpam, LabelHam),
			}
		}
		docs[i] = ex.Text
		labels[i] = ex.Label
		present[ex.Label] = true
	}

	// Only classes observed in training take part in the posterior.
	classes := make([]Label, 0, len(present))
	for l := range present {
		classes = append(classes, l)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	vectorizer := fitTFIDF(docs)
	X := make([]sparseVector, len(docs))
	for i, doc := range docs {
		X[i] = vectorizer.transform(doc)
	}

	model, err := fitMultinomialNB(X, labels, classes, vectorizer.size(), cfg.Alpha, cfg.FitPrior)
	if err != nil {
		return nil, &ConstructionError{Reason: "fitting naive Bayes", Err: err}
	}

	return &TextClassifier{
		config:     cfg,
		vectorizer: vectorizer,
		model:      model,
		trainSize:  len(examples),
	}, nil
}

// NewDefault fits a classifier on DefaultCorpus.
func NewDefault(opts ...Option) (*TextClassifier, error) {
	return New(DefaultCorpus(), opts...)
}

// Classify predicts the label of text together with the probability of
// that label as a percentage rounded to two decimals.
func (c *TextClassifier) Classify(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Status: StatusNeedsInput}
	}
	return c.predict(text)
}

func (c *TextClassifier) predict(text string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = errorResult(fmt.Sprintf("%v", r))
		}
	}()

	proba := c.model.predictProba(c.vectorizer.transform(text))

	best := 0
	for i, p := range proba {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return errorResult(fmt.Sprintf("non-finite probability for class %q", c.model.classes[i]))
		}
		if p > proba[best] {
			best = i
		}
	}

	return Result{
		Status:     StatusClassified,
		Label:      c.model.classes[best],
		Confidence: roundPercent(proba[best]),
	}
}

func errorResult(cause string) Result {
	return Result{Status: StatusError, Err: &PredictionError{Cause: cause}}
}

// roundPercent converts a probability to a percentage with two decimals,
// clamped to [0, 100].
func roundPercent(p float64) float64 {
	pct := math.Round(p*100*100) / 100
	return math.Max(0, math.Min(100, pct))
}

// Classes returns the labels the model can predict, in sorted order.
func (c *TextClassifier) Classes() []Label {
	out := make([]Label, len(c.model.classes))
	copy(out, c.model.classes)
	return out
}

// Vocabulary returns the fitted terms in feature index order.
func (c *TextClassifier) Vocabulary() []string {
	out := make([]string, len(c.vectorizer.terms))
	copy(out, c.vectorizer.terms)
	return out
}

// TrainingSize is the number of examples the model was fitted on.
func (c *TextClassifier) TrainingSize() int {
	return c.trainSize
}

// Config returns the parameters the model was fitted with.
func (c *TextClassifier) Config() Config {
	return c.config
}
