package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/config"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/emailbody"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/models"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/monitoring"
)

const spamEML = "From: promo@example.com\r\n" +
	"Subject: You won\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"URGENT! You have won a 1 week FREE membership in our Prize Jackpot!\r\n"

func createTestApp(t *testing.T) *SpamDetectorApp {
	t.Helper()

	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()
	cfg.App.HistorySize = 5
	cfg.Worker.Workers = 2

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestNew(t *testing.T) {
	app := createTestApp(t)

	assert.NotNil(t, app.Classifier())
	assert.NotNil(t, app.cache)
	assert.Equal(t, 10, app.Classifier().TrainingSize())
}

func TestNew_InvalidCorpus(t *testing.T) {
	dir := t.TempDir()
	corpusFile := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(corpusFile, []byte("- text: hello\n  label: eggs\n"), 0644))

	cfg := config.Default()
	cfg.App.DataDir = dir
	cfg.Classifier.CorpusFile = corpusFile

	_, err := New(cfg)
	require.Error(t, err)
}

func TestNew_EmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	corpusFile := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(corpusFile, nil, 0644))

	cfg := config.Default()
	cfg.App.DataDir = dir
	cfg.Classifier.CorpusFile = corpusFile

	_, err := New(cfg)
	var constructionErr *classifier.ConstructionError
	assert.ErrorAs(t, err, &constructionErr)
}

func TestSpamDetectorApp_CheckText(t *testing.T) {
	app := createTestApp(t)

	tests := []struct {
		name       string
		text       string
		wantStatus string
		wantLabel  classifier.Label
		wantPrefix string
	}{
		{
			name:       "spam",
			text:       "URGENT! You have won a 1 week FREE membership in our £100,000 Prize Jackpot!",
			wantStatus: "classified",
			wantLabel:  classifier.LabelSpam,
			wantPrefix: "Prediction: SPAM (",
		},
		{
			name:       "ham",
			text:       "Nah I don't think he goes to usf, he lives around here though",
			wantStatus: "classified",
			wantLabel:  classifier.LabelHam,
			wantPrefix: "Prediction: HAM (",
		},
		{
			name:       "blank",
			text:       "   \n\t ",
			wantStatus: "needs_input",
			wantPrefix: "Enter some text first!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := app.CheckText(tt.text)
			assert.Equal(t, tt.wantStatus, c.Status)
			assert.Equal(t, tt.wantLabel, c.Label)
			assert.True(t, strings.HasPrefix(c.Display.Text, tt.wantPrefix), c.Display.Text)
		})
	}

	stats := app.Statistics()
	assert.Equal(t, int64(2), stats.TotalChecks)
	assert.Equal(t, int64(1), stats.SpamDetected)
	assert.Equal(t, int64(1), stats.HamDetected)
	assert.Equal(t, int64(1), stats.NeedsInput)
	assert.InDelta(t, 0.5, stats.SpamRate, 1e-9)
	assert.Equal(t, []string{"ham", "spam"}, stats.Classes)
}

func TestSpamDetectorApp_CheckEML(t *testing.T) {
	app := createTestApp(t)

	c, err := app.CheckEML(strings.NewReader(spamEML))
	require.NoError(t, err)
	assert.Equal(t, "You won", c.Subject)
	assert.Equal(t, classifier.LabelSpam, c.Label)

	c, err = app.CheckEML(strings.NewReader("Subject: pic\r\nContent-Type: image/png\r\n\r\nxxxx"))
	require.Error(t, err)
	var parseErr *emailbody.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, emailbody.ErrNoTextBody)
	assert.Equal(t, "error", c.Status)
	assert.True(t, strings.HasPrefix(c.Display.Text, "Error loading/parsing file: "))

	assert.Equal(t, int64(1), app.Statistics().ParseErrors)
}

func TestSpamDetectorApp_CheckEMLUnknownEncoding(t *testing.T) {
	app := createTestApp(t)

	eml := "Subject: x\r\nContent-Type: text/plain\r\nContent-Transfer-Encoding: x-weird\r\n\r\n" +
		"URGENT! You have won a 1 week FREE membership in our Prize Jackpot!\r\n"

	var c *models.Classification
	var err error
	require.NotPanics(t, func() {
		c, err = app.CheckEML(strings.NewReader(eml))
	})
	require.NoError(t, err)
	assert.Equal(t, "x", c.Subject)
	assert.Equal(t, classifier.LabelSpam, c.Label)
	assert.Equal(t, int64(0), app.Statistics().ParseErrors)
}

func TestSpamDetectorApp_RedactSubjects(t *testing.T) {
	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()
	cfg.App.RedactSubjects = true

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	eml := "Subject: Prize for winner@example.com\r\n\r\nwin a prize\r\n"
	c, err := app.CheckEML(strings.NewReader(eml))
	require.NoError(t, err)
	assert.NotContains(t, c.Subject, "winner@example.com")
	assert.True(t, strings.HasPrefix(c.Subject, "Prize for EMAIL_"))

	history := app.History(1)
	require.Len(t, history, 1)
	assert.Equal(t, c.Subject, history[0].Subject)
}

func TestSpamDetectorApp_CheckFile(t *testing.T) {
	app := createTestApp(t)

	path := filepath.Join(t.TempDir(), "spam.eml")
	require.NoError(t, os.WriteFile(path, []byte(spamEML), 0644))

	c, err := app.CheckFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Name)
	assert.True(t, c.IsSpam)

	_, err = app.CheckFile(filepath.Join(t.TempDir(), "missing.eml"))
	assert.Error(t, err)
}

func TestSpamDetectorApp_CheckBatch(t *testing.T) {
	app := createTestApp(t)

	dir := t.TempDir()
	good := filepath.Join(dir, "a.eml")
	require.NoError(t, os.WriteFile(good, []byte(spamEML), 0644))

	results, err := app.CheckFiles(context.Background(), []string{good, filepath.Join(dir, "missing.eml")})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, classifier.LabelSpam, results[0].Label)
	assert.Equal(t, "You won", results[0].Subject)
	assert.Equal(t, "error", results[1].Status)

	texts := []string{
		"Okay lar... Joking wif u oni...",
		"",
		"WINNER!! As a valued network customer you have been selected to receivea £900 prize reward!",
	}
	results, err = app.CheckTexts(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, classifier.LabelHam, results[0].Label)
	assert.Equal(t, "needs_input", results[1].Status)
	assert.Equal(t, classifier.LabelSpam, results[2].Label)
}

func TestSpamDetectorApp_History(t *testing.T) {
	app := createTestApp(t)

	for i := 0; i < 7; i++ {
		app.CheckText(classifier.DefaultCorpus()[i].Text)
	}

	history := app.History(0)
	require.Len(t, history, 5)
	// Newest first.
	assert.Equal(t, classifier.DefaultCorpus()[6].Label, history[0].Label)
	assert.Len(t, app.History(2), 2)

	app.ClearHistory()
	assert.Empty(t, app.History(0))
}

func TestSpamDetectorApp_CacheStats(t *testing.T) {
	app := createTestApp(t)

	app.CheckText("Fine if that's the way u feel")
	app.CheckText("Fine if that's the way u feel")

	stats := app.Statistics()
	require.NotNil(t, stats.Cache)
	assert.Equal(t, int64(1), stats.Cache.Hits)
	assert.Equal(t, int64(2), stats.TotalChecks)

	gauge, ok := app.Metrics().GetMetric(monitoring.MetricCacheHitRate)
	require.True(t, ok)
	assert.InDelta(t, 0.5, gauge.Value(), 1e-9)
}

func TestSpamDetectorApp_CacheDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()
	cfg.Cache.Enabled = false

	app, err := New(cfg)
	require.NoError(t, err)
	defer app.Close()

	app.CheckText("hello there")
	assert.Nil(t, app.Statistics().Cache)
}

func TestSpamDetectorApp_Health(t *testing.T) {
	app := createTestApp(t)

	health := app.Health(context.Background())
	assert.Equal(t, monitoring.HealthStatusHealthy, health.Status)
	assert.Contains(t, health.Metadata, "classifier")
}

func TestSpamDetectorApp_LoadFailureCounting(t *testing.T) {
	app := createTestApp(t)

	app.LoadFailed("batch", "x", errors.New("task timeout"))
	stats := app.Statistics()
	assert.Equal(t, int64(0), stats.ParseErrors)
	assert.Equal(t, int64(1), stats.PredictionErrors)
	assert.Len(t, app.History(0), 1)
}
