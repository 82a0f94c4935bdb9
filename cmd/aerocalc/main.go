// Package main is the entry point for the AeroCalc editor.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aerostudio/aerocalc/internal/config"
	"github.com/aerostudio/aerocalc/internal/logger"
	"github.com/aerostudio/aerocalc/internal/project"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== AeroCalc ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	proj, err := resolveProject(cfg)
	if err != nil {
		logger.Error("failed to open project", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("project opened",
		zap.String("name", proj.Descriptor.Name),
		zap.String("path", proj.Path),
	)

	ed, err := NewEditor(cfg, proj)
	if err != nil {
		logger.Error("failed to create editor", zap.Error(err))
		os.Exit(1)
	}
	defer ed.Close()

	if err := ed.Run(); err != nil {
		logger.Error("editor error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("editor closed normally")
}

// resolveProject opens the most recently used project under the
// projects root, creating a fresh one on first run.
func resolveProject(cfg *config.Config) (*project.Project, error) {
	summaries, err := project.List(cfg.Projects.Dir)
	if err != nil {
		return nil, err
	}
	if len(summaries) > 0 {
		return project.Open(summaries[0].Path)
	}
	return project.Create(cfg.Projects.Dir, "untitled")
}
