package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"nushcenume/catalog"
	"nushcenume/config"
	"nushcenume/library"
	"nushcenume/logging"
	"nushcenume/suggest"
)

func main() {
	var (
		configPath string
		lang       string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:           "nsh [CONFIG_FILE]",
		Short:         "Catalog shell with title completion",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				configPath = args[0]
			}
			return run(configPath, lang, verbose)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "catalog language (en, ro)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	if err := cmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, lang string, verbose bool) error {
	cfg := config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = c
	}
	if lang != "" {
		cfg.Language = lang
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Discard()
	if verbose {
		logger = logging.New("nsh", os.Stderr, log.DebugLevel)
	}

	client, err := catalog.NewClient(cfg.Endpoint, cfg.APIKey)
	if err != nil {
		return err
	}

	lib := library.New(cfg.LibraryFile)
	if err := lib.Load(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	fetcher := suggest.NewFetcher(client, suggest.NewCache(cfg.Cache()), logger)
	shell := NewShell(fetcher, client, lib, cfg.Language, logger, os.Stdout)

	fmt.Printf("Catalog at %s\n", cfg.Endpoint)
	fmt.Println("Type 'help' for commands")

	history := ""
	if dir, err := os.UserCacheDir(); err == nil {
		history = filepath.Join(dir, "nushcenume", "nsh_history")
		os.MkdirAll(filepath.Dir(history), 0o755)
	}

	prefetch := NewPrefetcher(shell, cfg.Settle)
	defer prefetch.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            shell.Prompt(),
		HistoryFile:       history,
		AutoComplete:      NewCompleter(shell),
		Listener:          prefetch,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		HistoryLimit:      1000,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	// REPL loop
	for {
		rl.SetPrompt(shell.Prompt())

		line, err := rl.Readline()
		if err != nil {
			break
		}

		exit, err := shell.Execute(line)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		if exit {
			break
		}
	}
	return nil
}
