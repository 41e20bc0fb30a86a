package classifier

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) *TextClassifier {
	t.Helper()
	c, err := NewDefault()
	require.NoError(t, err)
	return c
}

func TestNew_EmptyCorpus(t *testing.T) {
	c, err := New(nil)

	assert.Nil(t, c)
	var cerr *ConstructionError
	require.True(t, errors.As(err, &cerr))
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestNew_InvalidInputs(t *testing.T) {
	tests := []struct {
		name     string
		examples []TrainingExample
		opts     []Option
	}{
		{
			name:     "unknown label",
			examples: []TrainingExample{{Text: "hello there", Label: "maybe"}},
		},
		{
			name:     "empty label",
			examples: []TrainingExample{{Text: "hello there"}},
		},
		{
			name:     "zero alpha",
			examples: DefaultCorpus(),
			opts:     []Option{WithAlpha(0)},
		},
		{
			name:     "negative alpha",
			examples: DefaultCorpus(),
			opts:     []Option{WithAlpha(-1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.examples, tt.opts...)

			assert.Nil(t, c)
			var cerr *ConstructionError
			assert.True(t, errors.As(err, &cerr), "want *ConstructionError, got %v", err)
		})
	}
}

func TestNewDefault(t *testing.T) {
	c := newTestClassifier(t)

	assert.Equal(t, []Label{LabelHam, LabelSpam}, c.Classes())
	assert.Equal(t, 10, c.TrainingSize())
	assert.Equal(t, DefaultConfig(), c.Config())
	assert.Len(t, c.Vocabulary(), 106)
}

func TestClassify_BlankInput(t *testing.T) {
	c := newTestClassifier(t)

	for _, text := range []string{"", " ", "\n", "\t \r\n  "} {
		result := c.Classify(text)
		assert.Equal(t, StatusNeedsInput, result.Status, "text %q", text)
		assert.Empty(t, result.Label)
		assert.Zero(t, result.Confidence)
		assert.NoError(t, result.Err)
	}
}

func TestClassify_NeedsInputDoesNotTouchModel(t *testing.T) {
	// A zero value classifier has no model; a blank input must still succeed.
	var c TextClassifier
	assert.Equal(t, StatusNeedsInput, c.Classify("   ").Status)
}

func TestClassify_TrainingExamples(t *testing.T) {
	c := newTestClassifier(t)

	for _, ex := range DefaultCorpus() {
		t.Run(ex.Text, func(t *testing.T) {
			result := c.Classify(ex.Text)

			require.Equal(t, StatusClassified, result.Status)
			assert.Equal(t, ex.Label, result.Label)
			assert.GreaterOrEqual(t, result.Confidence, 50.0)
			assert.LessOrEqual(t, result.Confidence, 100.0)
		})
	}
}

func TestClassify_KnownExamples(t *testing.T) {
	c := newTestClassifier(t)

	ham := c.Classify("Okay lar... Joking wif u oni...")
	assert.Equal(t, LabelHam, ham.Label)
	assert.GreaterOrEqual(t, ham.Confidence, 50.0)
	assert.False(t, ham.IsSpam())

	spam := c.Classify("WINNER!! As a valued network customer you have been selected to receivea £900 prize reward!")
	assert.Equal(t, LabelSpam, spam.Label)
	assert.GreaterOrEqual(t, spam.Confidence, 50.0)
	assert.True(t, spam.IsSpam())
}

func TestClassify_UnseenVocabulary(t *testing.T) {
	c := newTestClassifier(t)

	result := c.Classify("zzyxqwerty flibbertigibbet")

	require.Equal(t, StatusClassified, result.Status)
	assert.NoError(t, result.Err)
	// Equal priors and a zero vector give an even split; ties go to ham.
	assert.Equal(t, LabelHam, result.Label)
	assert.Equal(t, 50.0, result.Confidence)
}

func TestClassify_Deterministic(t *testing.T) {
	text := "URGENT! Claim your FREE prize now, you have won"

	a := newTestClassifier(t)
	b := newTestClassifier(t)

	first := a.Classify(text)
	assert.Equal(t, first, a.Classify(text))
	assert.Equal(t, first, b.Classify(text))
}

func TestClassify_RangeInvariant(t *testing.T) {
	c := newTestClassifier(t)

	inputs := []string{
		"a",
		"!!!",
		"FREE FREE FREE FREE",
		"home tonight",
		strings.Repeat("prize ", 500),
		"日本語のテキスト",
		"\xff\xfe invalid utf8",
	}
	for _, text := range inputs {
		result := c.Classify(text)
		require.Equal(t, StatusClassified, result.Status, "text %q", text)
		assert.True(t, result.Label.Valid())
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 100.0)
	}
}

func TestClassify_RecoversFromInternalFault(t *testing.T) {
	c := newTestClassifier(t)
	// Corrupt the model so scoring indexes past the feature table.
	c.model.featureLogProb[0] = nil

	result := c.Classify("prize winner")

	assert.Equal(t, StatusError, result.Status)
	var perr *PredictionError
	require.True(t, errors.As(result.Err, &perr))
	assert.NotEmpty(t, perr.Cause)
}

func TestClassify_NonFinitePosterior(t *testing.T) {
	c := newTestClassifier(t)
	for i := range c.model.classLogPrior {
		c.model.classLogPrior[i] = posInf()
	}

	result := c.Classify("prize winner")

	assert.Equal(t, StatusError, result.Status)
	assert.IsType(t, &PredictionError{}, result.Err)
}

func TestClassify_Concurrent(t *testing.T) {
	c := newTestClassifier(t)
	want := c.Classify("Free entry to win a prize")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, c.Classify("Free entry to win a prize"))
		}()
	}
	wg.Wait()
}

func TestDefaultCorpus_ReturnsCopy(t *testing.T) {
	corpus := DefaultCorpus()
	corpus[0].Label = LabelHam
	corpus[0].Text = "changed"

	fresh := DefaultCorpus()
	assert.Equal(t, LabelSpam, fresh[0].Label)
	assert.NotEqual(t, "changed", fresh[0].Text)
	assert.Len(t, fresh, 10)
}

func TestLoadCorpus(t *testing.T) {
	input := `
- text: "Win a brand new car today"
  label: spam
- text: "See you at lunch"
  label: ham
`
	examples, err := LoadCorpus(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, LabelSpam, examples[0].Label)
	assert.Equal(t, "See you at lunch", examples[1].Text)

	c, err := New(examples)
	require.NoError(t, err)
	assert.Equal(t, LabelSpam, c.Classify("win a car").Label)
}

func TestLoadCorpus_Invalid(t *testing.T) {
	_, err := LoadCorpus(strings.NewReader("text: [unclosed"))
	assert.Error(t, err)

	examples, err := LoadCorpus(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Empty(t, examples)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "classified", StatusClassified.String())
	assert.Equal(t, "needs_input", StatusNeedsInput.String())
	assert.Equal(t, "error", StatusError.String())

	text, err := StatusNeedsInput.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "needs_input", string(text))
}

func TestParseLabel(t *testing.T) {
	l, err := ParseLabel("spam")
	require.NoError(t, err)
	assert.Equal(t, LabelSpam, l)

	_, err = ParseLabel("SPAM")
	assert.Error(t, err)
}
