package display

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		result classifier.Result
		want   View
		hex    string
	}{
		{
			name:   "needs input",
			result: classifier.Result{Status: classifier.StatusNeedsInput},
			want:   View{Text: "Enter some text first!", Tone: ToneNeutral},
			hex:    "#808080",
		},
		{
			name:   "spam",
			result: classifier.Result{Status: classifier.StatusClassified, Label: classifier.LabelSpam, Confidence: 97.1234},
			want:   View{Text: "Prediction: SPAM (97.12%)", Tone: ToneSpam},
			hex:    "#F44336",
		},
		{
			name:   "ham",
			result: classifier.Result{Status: classifier.StatusClassified, Label: classifier.LabelHam, Confidence: 50},
			want:   View{Text: "Prediction: HAM (50.00%)", Tone: ToneHam},
			hex:    "#4CAF50",
		},
		{
			name:   "prediction error",
			result: classifier.Result{Status: classifier.StatusError, Err: &classifier.PredictionError{Cause: "boom"}},
			want:   View{Text: "Error during prediction: prediction failed: boom", Tone: ToneError},
			hex:    "#FF9800",
		},
		{
			name:   "error without cause",
			result: classifier.Result{Status: classifier.StatusError},
			want:   View{Text: "Error during prediction: unknown error", Tone: ToneError},
			hex:    "#FF9800",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.result)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.hex, got.Hex())
		})
	}
}

func TestPlaceholderAndLoadError(t *testing.T) {
	assert.Equal(t, "Prediction will appear here", Placeholder().Text)
	assert.Equal(t, ToneNeutral, Placeholder().Tone)

	v := LoadError(errors.New("bad header"))
	assert.Equal(t, "Error loading/parsing file: bad header", v.Text)
	assert.Equal(t, ToneError, v.Tone)
}

func TestTone_String(t *testing.T) {
	assert.Equal(t, "spam", ToneSpam.String())
	assert.Equal(t, "ham", ToneHam.String())
	assert.Equal(t, "error", ToneError.String())
	assert.Equal(t, "neutral", ToneNeutral.String())
}
