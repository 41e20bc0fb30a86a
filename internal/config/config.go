package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/classifier"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/logging"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	App AppConfig `yaml:"app"`

	// Model parameters
	Classifier ClassifierConfig `yaml:"classifier"`

	// GUI settings
	GUI GUIConfig `yaml:"gui"`

	// HTTP API settings
	API APIConfig `yaml:"api"`

	// Result cache settings
	Cache CacheConfig `yaml:"cache"`

	// Batch worker settings
	Worker WorkerConfig `yaml:"worker"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// AppConfig holds general application settings
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"` // development, production
	DataDir     string `yaml:"data_dir"`
	HistorySize int    `yaml:"history_size"`

	// Mask addresses, URLs and phone numbers in logged subjects
	RedactSubjects bool `yaml:"redact_subjects"`
}

// ClassifierConfig holds the model parameters and an optional replacement corpus
type ClassifierConfig struct {
	Alpha      float64 `yaml:"alpha"`
	FitPrior   bool    `yaml:"fit_prior"`
	CorpusFile string  `yaml:"corpus_file"` // empty: built-in examples
}

// GUIConfig holds GUI-specific settings
type GUIConfig struct {
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	Theme        string `yaml:"theme"`  // light, dark, auto
	Layout       string `yaml:"layout"` // desktop, compact
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	EnableCORS   bool          `yaml:"enable_cors"`
	EnableAuth   bool          `yaml:"enable_auth"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CacheConfig holds result cache settings
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

// WorkerConfig holds batch classification settings
type WorkerConfig struct {
	Workers     int           `yaml:"workers"` // 0: one per CPU
	QueueSize   int           `yaml:"queue_size"`
	TaskTimeout time.Duration `yaml:"task_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level"`  // debug, info, warn, error
	Output   string `yaml:"output"` // stdout, file, both
	Filename string `yaml:"filename"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "Spam Detector",
			Version:     "1.0.0",
			Environment: "development",
			DataDir:     "./data",
			HistorySize: 100,
		},
		Classifier: ClassifierConfig{
			Alpha:    classifier.DefaultAlpha,
			FitPrior: true,
		},
		GUI: GUIConfig{
			WindowWidth:  550,
			WindowHeight: 400,
			Theme:        "light",
			Layout:       "desktop",
		},
		API: APIConfig{
			Host:         "localhost",
			Port:         8080,
			EnableCORS:   true,
			EnableAuth:   false,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 10 << 20,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 1000,
			TTL:      time.Hour,
		},
		Worker: WorkerConfig{
			Workers:     0,
			QueueSize:   256,
			TaskTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			Filename: "spam-detector.log",
		},
	}
}

// Load loads configuration from a YAML file
func Load(filename string) (*Config, error) {
	// Start with defaults
	config := Default()

	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		// File doesn't exist, create it with defaults
		if err := config.Save(filename); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		config.ApplyEnv(os.Getenv)
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return config, nil
	}

	// Read the file
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyEnv(os.Getenv)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves the configuration to a YAML file
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides selected settings from SPAM_* environment variables
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("SPAM_API_HOST"); v != "" {
		c.API.Host = v
	}
	if v := getenv("SPAM_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.API.Port = port
		}
	}
	if v := getenv("SPAM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("SPAM_CORPUS_FILE"); v != "" {
		c.Classifier.CorpusFile = v
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	// Validate model parameters
	if c.Classifier.Alpha <= 0 {
		return fmt.Errorf("classifier alpha must be positive")
	}

	// Validate GUI parameters
	if c.GUI.WindowWidth < 320 {
		return fmt.Errorf("window_width must be at least 320")
	}

	if c.GUI.WindowHeight < 240 {
		return fmt.Errorf("window_height must be at least 240")
	}

	validThemes := map[string]bool{"light": true, "dark": true, "auto": true}
	if !validThemes[c.GUI.Theme] {
		return fmt.Errorf("theme must be one of: light, dark, auto")
	}

	validLayouts := map[string]bool{"desktop": true, "compact": true}
	if !validLayouts[c.GUI.Layout] {
		return fmt.Errorf("layout must be one of: desktop, compact")
	}

	// Validate API parameters
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api port must be between 1 and 65535")
	}

	if c.API.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}

	// Validate cache and worker parameters
	if c.Cache.Enabled && c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive when the cache is enabled")
	}

	if c.Worker.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}

	if c.Worker.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be positive")
	}

	if c.Worker.TaskTimeout <= 0 {
		return fmt.Errorf("task_timeout must be positive")
	}

	if c.App.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative")
	}

	// Validate log level
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("log level must be one of: debug, info, warn, error: %w", err)
	}

	// Validate log output
	validOutputs := map[string]bool{"stdout": true, "file": true, "both": true}
	if !validOutputs[c.Logging.Output] {
		return fmt.Errorf("log output must be one of: stdout, file, both")
	}

	return nil
}

// ModelOptions returns the classifier options for the configured parameters
func (c *Config) ModelOptions() []classifier.Option {
	return []classifier.Option{
		classifier.WithConfig(classifier.Config{
			Alpha:    c.Classifier.Alpha,
			FitPrior: c.Classifier.FitPrior,
		}),
	}
}

// TrainingCorpus returns the configured training examples
func (c *Config) TrainingCorpus() ([]classifier.TrainingExample, error) {
	if c.Classifier.CorpusFile == "" {
		return classifier.DefaultCorpus(), nil
	}

	f, err := os.Open(c.Classifier.CorpusFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	return classifier.LoadCorpus(f)
}

// CreateDirectories creates necessary directories based on configuration
func (c *Config) CreateDirectories() error {
	if c.App.DataDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.App.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.App.DataDir, err)
	}
	return nil
}

// GetLogFilePath returns the full path to the log file
func (c *Config) GetLogFilePath() string {
	if c.App.DataDir != "" {
		return filepath.Join(c.App.DataDir, c.Logging.Filename)
	}
	return c.Logging.Filename
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// String returns a string representation of the config
func (c *Config) String() string {
	corpus := "built-in"
	if c.Classifier.CorpusFile != "" {
		corpus = c.Classifier.CorpusFile
	}
	return fmt.Sprintf("Spam Detector Config (Version: %s, Environment: %s, Alpha: %.2f, Corpus: %s, Cache: %t)",
		c.App.Version, c.App.Environment, c.Classifier.Alpha, corpus, c.Cache.Enabled)
}
