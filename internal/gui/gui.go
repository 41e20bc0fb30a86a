// Package gui implements the desktop front ends: a desktop layout with
// .eml loading and a compact, phone-style layout with a single check
// button. Both share the same result area and classifier.
package gui

import (
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/app"
)

// Run starts the GUI application and blocks until the window is closed
func Run(spamApp *app.SpamDetectorApp, layout string) {
	fyneApp := fyneapp.New()
	applyTheme(fyneApp, spamApp.GetConfig().GUI.Theme)

	window := NewMainWindow(fyneApp, spamApp, layout)
	window.Show()
}
