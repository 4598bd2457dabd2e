package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"nushcenume/catalog"
	"nushcenume/config"
	"nushcenume/library"
	"nushcenume/logging"
)

func main() {
	var (
		configPath string
		lang       string
	)

	cmd := &cobra.Command{
		Use:           "nui",
		Short:         "Browse the movie and show catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, lang)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "catalog language (en, ro)")

	if err := cmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, lang string) error {
	cfg, err := loadConfig(configPath, lang)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Open("nui", cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := catalog.NewClient(cfg.Endpoint, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("creating catalog client: %w", err)
	}

	lib := library.New(cfg.LibraryFile)
	if err := lib.Load(); err != nil {
		logger.Warn("library not loaded", "file", cfg.LibraryFile, "err", err)
	}
	defer lib.Save()

	logger.Info("starting", "endpoint", cfg.Endpoint, "language", cfg.Language, "settle", cfg.Settle)

	m := newModelFromConfig(cfg, client, lib, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// loadConfig reads the file when given, else uses defaults plus the
// environment, and applies the language flag
func loadConfig(path, lang string) (*config.Config, error) {
	var cfg *config.Config
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.Default()
	}
	if lang != "" {
		cfg.Language = lang
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
