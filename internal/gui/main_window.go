package gui

import (
	"fmt"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/app"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/display"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/emailbody"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/models"
)

// Window layouts
const (
	LayoutDesktop = "desktop"
	LayoutCompact = "compact"
)

const (
	inputHint = "Paste email text here, or load from a .eml file using the button below."
	loadHint  = "Load an email from a .eml file and check it for spam, or paste text and check it."
)

// MainWindow represents the main application window
type MainWindow struct {
	app    *app.SpamDetectorApp
	window fyne.Window
	layout string

	// UI Components
	textInput   *widget.Entry
	loadButton  *widget.Button
	checkButton *widget.Button
	result      *widget.RichText
	resultText  *widget.TextSegment

	// Status
	status    binding.String
	statusBar *widget.Label
}

// NewMainWindow creates the window for the given layout
func NewMainWindow(fyneApp fyne.App, spamApp *app.SpamDetectorApp, windowLayout string) *MainWindow {
	cfg := spamApp.GetConfig()

	window := fyneApp.NewWindow("Spam Detector")
	window.SetMaster()

	mw := &MainWindow{
		app:    spamApp,
		window: window,
		layout: windowLayout,
		status: binding.NewString(),
	}

	switch windowLayout {
	case LayoutCompact:
		window.Resize(fyne.NewSize(360, 640))
		mw.setupCompactUI()
	default:
		mw.layout = LayoutDesktop
		window.Resize(fyne.NewSize(float32(cfg.GUI.WindowWidth), float32(cfg.GUI.WindowHeight)))
		mw.setupDesktopUI()
	}

	mw.showView(display.Placeholder())
	return mw
}

// newResultText builds the wrapping, coloured result line
func (mw *MainWindow) newResultText() *widget.RichText {
	mw.resultText = &widget.TextSegment{
		Style: widget.RichTextStyle{
			Alignment: fyne.TextAlignCenter,
			SizeName:  theme.SizeNameSubHeadingText,
			TextStyle: fyne.TextStyle{Bold: true},
		},
	}
	result := widget.NewRichText(mw.resultText)
	result.Wrapping = fyne.TextWrapWord
	return result
}

// setupDesktopUI builds the paste box, the two buttons and the result line
func (mw *MainWindow) setupDesktopUI() {
	mw.textInput = widget.NewMultiLineEntry()
	mw.textInput.Wrapping = fyne.TextWrapWord
	mw.textInput.SetPlaceHolder(inputHint)

	mw.loadButton = widget.NewButtonWithIcon("Load & Check .eml File", theme.FolderOpenIcon(), mw.onLoadEML)
	mw.checkButton = widget.NewButtonWithIcon("Check Pasted Text", theme.ConfirmIcon(), mw.onCheckText)
	mw.checkButton.Importance = widget.HighImportance

	mw.result = mw.newResultText()
	mw.status.Set("Ready")
	mw.statusBar = widget.NewLabelWithData(mw.status)

	hint := widget.NewLabel(loadHint)
	hint.Wrapping = fyne.TextWrapWord
	hint.Importance = widget.LowImportance

	top := widget.NewLabel("Email Text Input:")
	bottom := container.NewVBox(
		container.NewHBox(layout.NewSpacer(), mw.loadButton, mw.checkButton, layout.NewSpacer()),
		hint,
		mw.result,
		widget.NewSeparator(),
		mw.statusBar,
	)

	mw.window.SetMainMenu(mw.createMenu())
	mw.window.SetContent(container.NewPadded(container.NewBorder(top, bottom, nil, nil, mw.textInput)))
	mw.setupShortcuts()
}

// setupCompactUI builds the phone-style layout: text box, one button, result
func (mw *MainWindow) setupCompactUI() {
	mw.textInput = widget.NewMultiLineEntry()
	mw.textInput.Wrapping = fyne.TextWrapWord
	mw.textInput.SetPlaceHolder("Paste email text here...")

	mw.checkButton = widget.NewButton("Check for Spam", mw.onCheckText)
	mw.checkButton.Importance = widget.HighImportance

	mw.result = mw.newResultText()

	top := widget.NewLabel("Email Text Input:")
	bottom := container.NewVBox(mw.checkButton, mw.result)

	mw.window.SetContent(container.NewPadded(container.NewBorder(top, bottom, nil, nil, mw.textInput)))
}

// createMenu creates the application menu
func (mw *MainWindow) createMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open .eml File...", mw.onLoadEML),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear", mw.onClear),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("History", mw.showHistoryDialog),
		fyne.NewMenuItem("Statistics", mw.showStatsDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.showAboutDialog),
	)

	return fyne.NewMainMenu(fileMenu, viewMenu, helpMenu)
}

// setupShortcuts binds Ctrl+Enter to check and Escape to clear
func (mw *MainWindow) setupShortcuts() {
	mw.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyReturn,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		mw.onCheckText()
	})

	mw.window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		if event.Name == fyne.KeyEscape {
			mw.onClear()
		}
	})
}

// Event handlers

func (mw *MainWindow) onCheckText() {
	c := mw.app.CheckText(mw.textInput.Text)
	mw.showClassification(c)
}

func (mw *MainWindow) onLoadEML() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mw.showView(display.LoadError(err))
			return
		}
		if reader == nil {
			// Cancelled
			return
		}
		defer reader.Close()

		mw.loadEML(reader.URI().Name(), reader)
	}, mw.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".eml"}))
	fileDialog.Show()
}

// loadEML extracts the body into the text box and checks it
func (mw *MainWindow) loadEML(name string, r io.Reader) {
	msg, err := emailbody.Extract(r)
	if err != nil {
		mw.showClassification(mw.app.LoadFailed(models.SourceEmail, name, err))
		return
	}

	mw.textInput.SetText(msg.Body)
	c := mw.app.CheckMessage(name, msg)
	mw.showClassification(c)
}

func (mw *MainWindow) onClear() {
	mw.textInput.SetText("")
	mw.showView(display.Placeholder())
}

func (mw *MainWindow) showClassification(c *models.Classification) {
	mw.showView(c.Display.View())
	if c.Subject != "" {
		mw.setStatus(fmt.Sprintf("Loaded email: %s", c.Subject))
	}
}

func (mw *MainWindow) showView(view display.View) {
	mw.resultText.Text = view.Text
	mw.resultText.Style.ColorName = toneColorName(view.Tone)
	mw.result.Refresh()
}

func (mw *MainWindow) setStatus(message string) {
	mw.status.Set(message)
}

func (mw *MainWindow) showHistoryDialog() {
	entries := mw.app.History(20)
	if len(entries) == 0 {
		dialog.ShowInformation("History", "Nothing checked yet.", mw.window)
		return
	}

	list := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject {
			return widget.NewLabel("Prediction")
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			e := entries[id]
			label := e.Display.Text
			if e.Subject != "" {
				label = fmt.Sprintf("%s - %s", e.Subject, label)
			}
			item.(*widget.Label).SetText(fmt.Sprintf("%s  %s", e.CreatedAt.Format("15:04:05"), label))
		},
	)

	scroll := container.NewVScroll(list)
	scroll.SetMinSize(fyne.NewSize(480, 300))
	dialog.ShowCustom("History", "Close", scroll, mw.window)
}

func (mw *MainWindow) showStatsDialog() {
	stats := mw.app.Statistics()

	lines := []string{
		fmt.Sprintf("Checks: %d", stats.TotalChecks),
		fmt.Sprintf("Spam: %d", stats.SpamDetected),
		fmt.Sprintf("Ham: %d", stats.HamDetected),
		fmt.Sprintf("Empty input: %d", stats.NeedsInput),
		fmt.Sprintf("Errors: %d prediction, %d parse", stats.PredictionErrors, stats.ParseErrors),
		fmt.Sprintf("Model: %d examples, %d terms, classes %s",
			stats.TrainingExamples, stats.VocabularySize, strings.Join(stats.Classes, "/")),
	}
	if stats.Cache != nil {
		lines = append(lines, fmt.Sprintf("Cache: %d hits, %d misses", stats.Cache.Hits, stats.Cache.Misses))
	}

	dialog.ShowInformation("Statistics", strings.Join(lines, "\n"), mw.window)
}

func (mw *MainWindow) showAboutDialog() {
	cfg := mw.app.GetConfig()
	about := fmt.Sprintf(`# %s

**Version:** %s

Classifies pasted text or .eml files as spam or ham using TF-IDF features and a multinomial naive Bayes model trained at startup.
`, cfg.App.Name, cfg.App.Version)

	content := widget.NewRichTextFromMarkdown(about)
	content.Wrapping = fyne.TextWrapWord
	dialog.ShowCustom("About", "Close", content, mw.window)
}

// Show displays the main window and runs the event loop
func (mw *MainWindow) Show() {
	mw.window.ShowAndRun()
}
