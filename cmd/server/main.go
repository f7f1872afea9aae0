// Package main is the entry point for the cardwall server.
//
// Its job is the usual three steps: read configuration from the
// environment, build the logger, start the application. Everything else
// lives in internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rkovalev/cardwall/internal/remote"
	"github.com/rkovalev/cardwall/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// The upstream users/posts API. Overridable so a local fixture server
	// can stand in during development.
	apiBaseURL := remote.DefaultBaseURL
	if env := os.Getenv("API_URL"); env != "" {
		apiBaseURL = env
	}

	// Session store path. The default keeps sessions strictly transient;
	// point DB_PATH at a file to let them survive a restart.
	dbPath := ":memory:"
	if env := os.Getenv("DB_PATH"); env != "" {
		dbPath = env
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(dbPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	cfg := server.Config{
		Port:        port,
		TemplateDir: templateDir,
		StaticDir:   staticDir,
		DBPath:      dbPath,
		APIBaseURL:  apiBaseURL,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
