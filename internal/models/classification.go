package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/display"
)

// Source identifies where a classified text came from
type Source string

const (
	SourceText  Source = "text"
	SourceEmail Source = "email"
	SourceBatch Source = "batch"
)

// ClassificationRequest is the body of a single text classification
type ClassificationRequest struct {
	Text string `json:"text"`
}

// BatchRequest is the body of a batch classification
type BatchRequest struct {
	Texts []string `json:"texts"`
}

// Display carries the presentation of a result
type Display struct {
	Text  string `json:"text"`
	Tone  string `json:"tone"`
	Color string `json:"color"`

	view display.View
}

// View returns the view the display was rendered from
func (d Display) View() display.View {
	return d.view
}

// NewDisplay converts a rendered view into its wire form
func NewDisplay(view display.View) Display {
	return Display{
		Text:  view.Text,
		Tone:  view.Tone.String(),
		Color: view.Hex(),
		view:  view,
	}
}

// Classification is one classified text with its presentation
type Classification struct {
	ID         string           `json:"id"`
	Source     Source           `json:"source"`
	Name       string           `json:"name,omitempty"`
	Subject    string           `json:"subject,omitempty"`
	Status     string           `json:"status"`
	Label      classifier.Label `json:"label,omitempty"`
	Confidence float64          `json:"confidence"`
	IsSpam     bool             `json:"is_spam"`
	Error      string           `json:"error,omitempty"`
	Display    Display          `json:"display"`
	Duration   time.Duration    `json:"duration_ns"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NewClassification builds a Classification from a classifier result
func NewClassification(source Source, result classifier.Result) *Classification {
	c := &Classification{
		ID:         uuid.New().String(),
		Source:     source,
		Status:     result.Status.String(),
		Label:      result.Label,
		Confidence: result.Confidence,
		IsSpam:     result.IsSpam(),
		Display:    NewDisplay(display.Render(result)),
		CreatedAt:  time.Now(),
	}
	if result.Err != nil {
		c.Error = result.Err.Error()
	}
	return c
}

// NewLoadFailure records an input that could not be read or parsed
func NewLoadFailure(source Source, name string, err error) *Classification {
	return &Classification{
		ID:        uuid.New().String(),
		Source:    source,
		Name:      name,
		Status:    classifier.StatusError.String(),
		Error:     err.Error(),
		Display:   NewDisplay(display.LoadError(err)),
		CreatedAt: time.Now(),
	}
}

// BatchResponse holds ordered results of a batch
type BatchResponse struct {
	Results []*Classification `json:"results"`
	Total   int               `json:"total"`
	Spam    int               `json:"spam"`
	Ham     int               `json:"ham"`
	Failed  int               `json:"failed"`
}

// NewBatchResponse tallies results
func NewBatchResponse(results []*Classification) *BatchResponse {
	resp := &BatchResponse{Results: results, Total: len(results)}
	for _, r := range results {
		switch {
		case r.Status == classifier.StatusError.String():
			resp.Failed++
		case r.Status != classifier.StatusClassified.String():
		case r.IsSpam:
			resp.Spam++
		default:
			resp.Ham++
		}
	}
	return resp
}

// Statistics summarizes what the application has classified
type Statistics struct {
	TotalChecks      int64      `json:"total_checks"`
	SpamDetected     int64      `json:"spam_detected"`
	HamDetected      int64      `json:"ham_detected"`
	NeedsInput       int64      `json:"needs_input"`
	PredictionErrors int64      `json:"prediction_errors"`
	ParseErrors      int64      `json:"parse_errors"`
	SpamRate         float64    `json:"spam_rate"`
	VocabularySize   int        `json:"vocabulary_size"`
	TrainingExamples int        `json:"training_examples"`
	Classes          []string   `json:"classes"`
	Cache            *CacheInfo `json:"cache,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	LastCheck        time.Time  `json:"last_check,omitempty"`
}

// CacheInfo reports result cache effectiveness
type CacheInfo struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
	Size     int     `json:"size"`
	Capacity int     `json:"capacity"`
}
