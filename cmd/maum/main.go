package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sehyun-dev/maum-tui/internal/api"
	"github.com/sehyun-dev/maum-tui/internal/ui"
	"github.com/sehyun-dev/maum-tui/internal/util"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	apiBase := flag.String("api", os.Getenv("MAUM_API_URL"), "Backend base URL")
	theme := flag.String("theme", "catppuccin", "Color theme: "+strings.Join(ui.ThemeNames(), "|"))
	logPath := flag.String("log", "", "Log file path (default ~/.maum/maum.log)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "maum [--api URL] [--theme name] [--log path] | version\n")
	}
	flag.Parse()

	if len(flag.Args()) > 0 && flag.Args()[0] == "version" {
		fmt.Println("maum", version)
		return
	}

	if *apiBase == "" {
		*apiBase = "http://localhost:5000"
	}
	if *logPath == "" {
		*logPath = filepath.Join(os.Getenv("HOME"), ".maum", "maum.log")
	}

	logger, err := newLogger(*logPath)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := util.Config{
		APIBase: *apiBase,
		Theme:   *theme,
		LogPath: *logPath,
		Version: version,
	}
	client := api.New(cfg.APIBase, logger.Named("api"))

	if err := ui.Run(context.Background(), client, cfg, logger.Named("ui")); err != nil {
		log.Fatal(err)
	}
}

// newLogger writes structured logs to a file; the terminal belongs to the TUI.
func newLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
