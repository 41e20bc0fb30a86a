package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/display"
)

// Result tones are exposed to widgets as theme colours
const (
	colorNameNeutral fyne.ThemeColorName = "spamDetectorNeutral"
	colorNameSpam    fyne.ThemeColorName = "spamDetectorSpam"
	colorNameHam     fyne.ThemeColorName = "spamDetectorHam"
	colorNameError   fyne.ThemeColorName = "spamDetectorError"
)

var toneColorNames = map[fyne.ThemeColorName]display.Tone{
	colorNameNeutral: display.ToneNeutral,
	colorNameSpam:    display.ToneSpam,
	colorNameHam:     display.ToneHam,
	colorNameError:   display.ToneError,
}

func toneColorName(t display.Tone) fyne.ThemeColorName {
	switch t {
	case display.ToneSpam:
		return colorNameSpam
	case display.ToneHam:
		return colorNameHam
	case display.ToneError:
		return colorNameError
	default:
		return colorNameNeutral
	}
}

// variantTheme is the default theme plus the result tone colours,
// optionally pinned to one variant
type variantTheme struct {
	variant fyne.ThemeVariant
	pinned  bool
}

var _ fyne.Theme = (*variantTheme)(nil)

func (t *variantTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if tone, ok := toneColorNames[name]; ok {
		return display.ToneColor(tone)
	}
	if t.pinned {
		variant = t.variant
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *variantTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *variantTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *variantTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

// newVariantTheme pins light or dark; anything else follows the system
func newVariantTheme(name string) *variantTheme {
	switch name {
	case "light":
		return &variantTheme{variant: theme.VariantLight, pinned: true}
	case "dark":
		return &variantTheme{variant: theme.VariantDark, pinned: true}
	default:
		return &variantTheme{}
	}
}

func applyTheme(a fyne.App, name string) {
	a.Settings().SetTheme(newVariantTheme(name))
}
