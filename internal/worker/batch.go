package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/emailbody"
)

// Classifier is satisfied by *classifier.TextClassifier and the result cache
type Classifier interface {
	Classify(text string) classifier.Result
}

// Input is one item of a batch. When Load is set it is called on the
// worker to produce the message; otherwise Text is classified as is.
type Input struct {
	Name string
	Text string
	Load func() (*emailbody.Message, error)
}

// TextInputs wraps plain strings as batch inputs
func TextInputs(texts []string) []Input {
	inputs := make([]Input, len(texts))
	for i, text := range texts {
		inputs[i] = Input{Name: fmt.Sprintf("text[%d]", i), Text: text}
	}
	return inputs
}

// FileInputs builds inputs that extract the body of each .eml path
func FileInputs(paths []string) []Input {
	inputs := make([]Input, len(paths))
	for i, path := range paths {
		path := path
		inputs[i] = Input{
			Name: path,
			Load: func() (*emailbody.Message, error) { return emailbody.ExtractFile(path) },
		}
	}
	return inputs
}

// Output is the classification of a single batch input. Err is set when
// the input could not be loaded or the task did not complete.
type Output struct {
	ID       string
	Name     string
	Subject  string
	Result   classifier.Result
	Err      error
	Duration time.Duration
}

// classifyTask loads (if needed) and classifies one input
type classifyTask struct {
	id         string
	input      Input
	classifier Classifier
}

func (t *classifyTask) GetID() string {
	return t.id
}

func (t *classifyTask) Execute(ctx context.Context) (interface{}, error) {
	text := t.input.Text
	var subject string

	if t.input.Load != nil {
		msg, err := t.input.Load()
		if err != nil {
			return nil, err
		}
		text, subject = msg.Body, msg.Subject
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Output{Subject: subject, Result: t.classifier.Classify(text)}, nil
}

// BatchClassifier classifies many inputs concurrently on a worker pool
type BatchClassifier struct {
	pool       *WorkerPool
	classifier Classifier
}

// NewBatchClassifier creates a batch classifier and starts its pool
func NewBatchClassifier(c Classifier, workers, queueSize int, taskTimeout time.Duration) *BatchClassifier {
	pool := NewWorkerPool(workers, queueSize, taskTimeout)
	pool.Start()

	return &BatchClassifier{
		pool:       pool,
		classifier: c,
	}
}

// Stop stops the underlying worker pool
func (bc *BatchClassifier) Stop() {
	bc.pool.Stop()
}

// ClassifyAll classifies every input and returns outputs in input order.
// Per-item failures are reported in Output.Err; the error return is only
// set when ctx ends before every item was submitted.
func (bc *BatchClassifier) ClassifyAll(ctx context.Context, inputs []Input) ([]Output, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	outputs := make([]Output, len(inputs))
	pending := make([]<-chan TaskResult, len(inputs))

	for i, input := range inputs {
		task := &classifyTask{
			id:         uuid.New().String(),
			input:      input,
			classifier: bc.classifier,
		}
		outputs[i] = Output{ID: task.id, Name: input.Name}

		done, err := bc.pool.SubmitWait(ctx, task)
		if err != nil {
			return nil, fmt.Errorf("failed to submit %s: %w", input.Name, err)
		}
		pending[i] = done
	}

	for i, done := range pending {
		result := <-done
		outputs[i].Duration = result.Duration
		if !result.Success {
			outputs[i].Err = result.Error
			continue
		}
		out := result.Result.(Output)
		outputs[i].Subject = out.Subject
		outputs[i].Result = out.Result
	}

	return outputs, nil
}

// GetStats returns worker pool statistics
func (bc *BatchClassifier) GetStats() WorkerStats {
	return bc.pool.GetStats()
}
