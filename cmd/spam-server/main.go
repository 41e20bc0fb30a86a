package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sbilalahmad/Spam-mail-detector/internal/api"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/app"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/config"
	"github.com/Sbilalahmad/Spam-mail-detector/internal/logging"
)

var (
	configFile = flag.String("config", "config.yaml", "Configuration file path")
	logLevel   = flag.String("log-level", "", "Log level override (debug, info, warn, error)")
	help       = flag.Bool("help", false, "Show help")
)

func main() {
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	closer, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Output, cfg.GetLogFilePath())
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	log.Printf("Configuration loaded from: %s", *configFile)

	spamDetector, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build classifier: %v", err)
	}
	defer spamDetector.Close()

	server := api.NewServer(spamDetector, serverConfig(cfg))

	if cfg.API.EnableAuth {
		key, err := server.KeyManager().SetupDefaultKey()
		if err != nil {
			log.Fatalf("Failed to create API key: %v", err)
		}
		log.Printf("Default API key (shown once): %s", key)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	log.Printf("Dashboard available at: http://%s:%d", cfg.API.Host, cfg.API.Port)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("API server error: %v", err)
		}
	case <-sigChan:
		log.Println("Shutdown signal received, stopping API server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error stopping API server: %v", err)
	}

	log.Println("API server stopped")
}

// serverConfig maps the api section of the config file onto the server
func serverConfig(cfg *config.Config) api.ServerConfig {
	serverCfg := api.GetDefaultServerConfig()
	serverCfg.Host = cfg.API.Host
	serverCfg.Port = cfg.API.Port
	serverCfg.EnableCORS = cfg.API.EnableCORS
	serverCfg.EnableAuth = cfg.API.EnableAuth
	serverCfg.ReadTimeout = cfg.API.ReadTimeout
	serverCfg.WriteTimeout = cfg.API.WriteTimeout
	serverCfg.MaxBodyBytes = cfg.API.MaxBodyBytes
	return serverCfg
}

func showHelp() {
	fmt.Println(`Spam Detector API Server

USAGE:
    spam-server [OPTIONS]

OPTIONS:
    -config string
        Configuration file path (default: config.yaml)

    -log-level string
        Log level override (debug, info, warn, error)

    -help
        Show this help message

ENDPOINTS (/api/v1):
    GET  /health          Health including a classifier self-check
    GET  /stats           Classification counts and cache statistics
    GET  /metrics         Prometheus metrics (?format=json for JSON)
    GET  /history         Recent classifications (?limit=N)
    POST /classify        {"text": "..."}
    POST /classify/batch  {"texts": ["...", "..."]}
    POST /classify/eml    Raw RFC 5322 message body

When api.enable_auth is set, a default key is printed at startup.
Send it as X-API-Key or "Authorization: Bearer <key>".`)
}
