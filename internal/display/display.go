// Package display turns classifier results into the text and colour the
// front-ends show. It holds no state and knows nothing about widgets.
package display

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
)

// Tone is the visual category of a message.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneSpam
	ToneHam
	ToneError
)

func (t Tone) String() string {
	switch t {
	case ToneSpam:
		return "spam"
	case ToneHam:
		return "ham"
	case ToneError:
		return "error"
	default:
		return "neutral"
	}
}

// MarshalText encodes the tone by name.
func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Messages shown outside of a classification.
const (
	PlaceholderText = "Prediction will appear here"
	NeedsInputText  = "Enter some text first!"
)

var (
	colorSpam    = color.NRGBA{R: 0xF4, G: 0x43, B: 0x36, A: 0xFF} // #F44336
	colorHam     = color.NRGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF} // #4CAF50
	colorError   = color.NRGBA{R: 0xFF, G: 0x98, B: 0x00, A: 0xFF} // #FF9800
	colorNeutral = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF} // grey
)

// View is what a front-end renders for one outcome.
type View struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone"`
}

// Color returns the foreground colour for the view's tone.
func (v View) Color() color.NRGBA {
	return ToneColor(v.Tone)
}

// Hex returns the colour as #RRGGBB.
func (v View) Hex() string {
	c := v.Color()
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ToneColor maps a tone to its colour.
func ToneColor(t Tone) color.NRGBA {
	switch t {
	case ToneSpam:
		return colorSpam
	case ToneHam:
		return colorHam
	case ToneError:
		return colorError
	default:
		return colorNeutral
	}
}

// Placeholder is the view shown before anything was checked.
func Placeholder() View {
	return View{Text: PlaceholderText, Tone: ToneNeutral}
}

// Render maps a classification result to its view.
func Render(r classifier.Result) View {
	switch r.Status {
	case classifier.StatusNeedsInput:
		return View{Text: NeedsInputText, Tone: ToneNeutral}
	case classifier.StatusError:
		cause := "unknown error"
		if r.Err != nil {
			cause = r.Err.Error()
		}
		return View{Text: "Error during prediction: " + cause, Tone: ToneError}
	}

	tone := ToneHam
	if r.Label == classifier.LabelSpam {
		tone = ToneSpam
	}
	return View{
		Text: fmt.Sprintf("Prediction: %s (%.2f%%)", strings.ToUpper(string(r.Label)), r.Confidence),
		Tone: tone,
	}
}

// LoadError is the view for a message file that could not be read or parsed.
func LoadError(err error) View {
	return View{Text: fmt.Sprintf("Error loading/parsing file: %v", err), Tone: ToneError}
}
