package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/app"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/config"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/gui"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/logging"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/models"
)

var (
	mode       = flag.String("mode", "gui", "Operation mode: gui, mobile, check, batch")
	configFile = flag.String("config", "config.yaml", "Configuration file path")
	text       = flag.String("text", "", "Text to classify in check mode")
	file       = flag.String("file", "", ".eml file to classify in check mode")
	dir        = flag.String("dir", "", "Directory of .eml files for batch mode")
	help       = flag.Bool("help", false, "Show help")
)

func main() {
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if code := run(os.Stdin, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

// run executes the selected mode and returns the process exit code, so
// the log file and the app are closed before the process exits.
func run(stdin io.Reader, out io.Writer) int {
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Printf("Warning: Could not load config file, using defaults: %v", err)
		cfg = config.Default()
	}

	closer, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Output, cfg.GetLogFilePath())
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	// Without a classifier nothing else can work
	spamDetector, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build classifier: %v", err)
	}
	defer spamDetector.Close()

	switch *mode {
	case "gui":
		log.Println("Starting GUI mode...")
		gui.Run(spamDetector, cfg.GUI.Layout)
	case "mobile":
		log.Println("Starting compact GUI mode...")
		gui.Run(spamDetector, gui.LayoutCompact)
	case "check":
		return runCheck(spamDetector, stdin, out)
	case "batch":
		return runBatch(spamDetector, *dir, out)
	default:
		log.Printf("Unknown mode: %s. Use 'gui', 'mobile', 'check' or 'batch'", *mode)
		return 2
	}
	return 0
}

// runCheck classifies -text, -file or stdin and prints the prediction.
// It returns the process exit code.
func runCheck(spamDetector *app.SpamDetectorApp, stdin io.Reader, out io.Writer) int {
	var c *models.Classification

	switch {
	case *file != "":
		var err error
		c, err = spamDetector.CheckFile(*file)
		if err != nil {
			fmt.Fprintln(out, c.Display.Text)
			return 1
		}
		fmt.Fprintf(out, "Subject: %s\n", c.Subject)
	case *text != "":
		c = spamDetector.CheckText(*text)
	default:
		input, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(out, "Failed to read stdin: %v\n", err)
			return 1
		}
		c = spamDetector.CheckText(string(input))
	}

	fmt.Fprintln(out, c.Display.Text)
	if c.Error != "" {
		return 1
	}
	return 0
}

// runBatch classifies every .eml file in dirPath on the worker pool
func runBatch(spamDetector *app.SpamDetectorApp, dirPath string, out io.Writer) int {
	if dirPath == "" {
		fmt.Fprintln(out, "batch mode requires -dir")
		return 2
	}

	paths, err := findEMLFiles(dirPath)
	if err != nil {
		fmt.Fprintf(out, "Failed to list %s: %v\n", dirPath, err)
		return 1
	}
	if len(paths) == 0 {
		fmt.Fprintf(out, "No .eml files found in %s\n", dirPath)
		return 0
	}

	results, err := spamDetector.CheckFiles(context.Background(), paths)
	if err != nil {
		fmt.Fprintf(out, "Batch failed: %v\n", err)
		return 1
	}

	for _, c := range results {
		fmt.Fprintf(out, "%s: %s\n", filepath.Base(c.Name), c.Display.Text)
	}

	summary := models.NewBatchResponse(results)
	fmt.Fprintf(out, "\n%d files: %d spam, %d ham, %d failed\n", summary.Total, summary.Spam, summary.Ham, summary.Failed)
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

// findEMLFiles lists *.eml files directly in dirPath, sorted by name
func findEMLFiles(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".eml") {
			continue
		}
		paths = append(paths, filepath.Join(dirPath, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func showHelp() {
	fmt.Println(`Spam Detector - Email Spam Classification

USAGE:
    spam-detector [OPTIONS]

OPTIONS:
    -mode string
        Operation mode (default: gui)
        • gui:    Desktop window (layout from config: desktop or compact)
        • mobile: Compact window with a single "Check for Spam" button
        • check:  Classify -text, -file or stdin and print the prediction
        • batch:  Classify every .eml file in -dir

    -config string
        Configuration file path (default: config.yaml)

    -text string
        Text to classify (check mode)

    -file string
        .eml file to classify (check mode)

    -dir string
        Directory of .eml files (batch mode)

    -help
        Show this help message

EXAMPLES:

    # Start the desktop GUI (default)
    ./spam-detector

    # Start the compact layout
    ./spam-detector -mode mobile

    # Classify a string
    ./spam-detector -mode check -text "URGENT! You have won a prize"

    # Classify a saved email
    ./spam-detector -mode check -file message.eml

    # Classify piped text
    cat message.txt | ./spam-detector -mode check

    # Classify a folder of emails
    ./spam-detector -mode batch -dir ./inbox

HTTP API:

    The REST API is served by the dedicated server binary:

        go run ./cmd/spam-server

CONFIGURATION:

    config.yaml is created with defaults on first run. Environment
    variables SPAM_API_HOST, SPAM_API_PORT, SPAM_LOG_LEVEL and
    SPAM_CORPUS_FILE override the file.`)
}
