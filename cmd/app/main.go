package main

import (
	"flag"
	"log"
	"os"

	"SignalDash/internal/di"
	"SignalDash/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	tui := flag.Bool("tui", false, "render the dashboard in the terminal")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *tui {
		cfg.Render.TUI = true
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
