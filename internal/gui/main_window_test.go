package gui

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/app"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/config"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/display"
)

func newTestWindow(t *testing.T, layout string) *MainWindow {
	t.Helper()

	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()

	spamApp, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(spamApp.Close)

	a := test.NewApp()
	t.Cleanup(a.Quit)
	return NewMainWindow(a, spamApp, layout)
}

func TestMainWindow_Placeholder(t *testing.T) {
	mw := newTestWindow(t, LayoutDesktop)

	assert.Equal(t, display.PlaceholderText, mw.resultText.Text)
	assert.Equal(t, colorNameNeutral, mw.resultText.Style.ColorName)
}

func TestMainWindow_CheckText(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		text     string
		wantText string
		wantTone display.Tone
	}{
		{"desktop spam", LayoutDesktop, "URGENT! You have won a 1 week FREE membership in our £100,000 Prize Jackpot!", "Prediction: SPAM (", display.ToneSpam},
		{"desktop ham", LayoutDesktop, "Okay lar... Joking wif u oni...", "Prediction: HAM (", display.ToneHam},
		{"desktop blank", LayoutDesktop, "  ", display.NeedsInputText, display.ToneNeutral},
		{"compact spam", LayoutCompact, "WINNER!! As a valued network customer you have been selected to receivea £900 prize reward!", "Prediction: SPAM (", display.ToneSpam},
		{"compact blank", LayoutCompact, "", display.NeedsInputText, display.ToneNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := newTestWindow(t, tt.layout)

			mw.textInput.SetText(tt.text)
			test.Tap(mw.checkButton)

			assert.True(t, strings.HasPrefix(mw.resultText.Text, tt.wantText), mw.resultText.Text)
			assert.Equal(t, toneColorName(tt.wantTone), mw.resultText.Style.ColorName)
		})
	}
}

func TestMainWindow_CompactHasNoLoadButton(t *testing.T) {
	mw := newTestWindow(t, LayoutCompact)

	assert.Nil(t, mw.loadButton)
	assert.Equal(t, "Check for Spam", mw.checkButton.Text)
}

func TestMainWindow_LoadEML(t *testing.T) {
	mw := newTestWindow(t, LayoutDesktop)

	eml := "Subject: Prize\r\nContent-Type: text/plain\r\n\r\nURGENT! You have won a 1 week FREE membership in our Prize Jackpot!\r\n"
	mw.loadEML("prize.eml", strings.NewReader(eml))

	assert.Contains(t, mw.textInput.Text, "URGENT! You have won")
	assert.True(t, strings.HasPrefix(mw.resultText.Text, "Prediction: SPAM ("))
	status, err := mw.status.Get()
	require.NoError(t, err)
	assert.Equal(t, "Loaded email: Prize", status)
}

func TestMainWindow_LoadEMLFailure(t *testing.T) {
	mw := newTestWindow(t, LayoutDesktop)

	mw.loadEML("pic.eml", strings.NewReader("Content-Type: image/png\r\n\r\nxx"))

	assert.True(t, strings.HasPrefix(mw.resultText.Text, "Error loading/parsing file: "), mw.resultText.Text)
	assert.Equal(t, colorNameError, mw.resultText.Style.ColorName)
	assert.Equal(t, fyne.TextWrapWord, mw.result.Wrapping)
}

func TestMainWindow_Clear(t *testing.T) {
	mw := newTestWindow(t, LayoutDesktop)

	mw.textInput.SetText("some text")
	mw.onCheckText()
	mw.onClear()

	assert.Empty(t, mw.textInput.Text)
	assert.Equal(t, display.PlaceholderText, mw.resultText.Text)
}

func TestVariantTheme_ToneColors(t *testing.T) {
	tests := []struct {
		name  string
		theme string
	}{
		{"light", "light"},
		{"dark", "dark"},
		{"auto", "auto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newVariantTheme(tt.theme)
			for _, tone := range []display.Tone{display.ToneNeutral, display.ToneSpam, display.ToneHam, display.ToneError} {
				assert.Equal(t, display.ToneColor(tone), th.Color(toneColorName(tone), theme.VariantDark))
			}
		})
	}

	pinned := newVariantTheme("light")
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight),
		pinned.Color(theme.ColorNameBackground, theme.VariantDark))
}
