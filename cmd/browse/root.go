package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/applicants/internal/application"
	"github.com/JonMunkholm/applicants/internal/config"
	"github.com/JonMunkholm/applicants/internal/core"
	"github.com/JonMunkholm/applicants/internal/logging"
)

const app = "browse"

var (
	// Used for flags.
	logFile string
	debug   bool

	rootCmd = &cobra.Command{
		Use:   app + " [file.csv...]",
		Short: "browse is a terminal search over applicant survey exports",
		Long: `browse loads one or more CSV exports of the applicant survey and ranks
the applicants against a fuzzy search as you type. Each file is appended as
its own batch; nothing is written back to disk.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBrowse,
	}
)

func init() {
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "file to write logs to (default from LOG_FILE)")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "verbose/debug logging")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := cfg.Logging.File
	if logFile != "" {
		path = logFile
	}
	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}
	closer, err := logging.SetupFile(path, level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer closer.Close()

	session := core.NewSession(
		core.WithMaxFileSize(cfg.Upload.MaxFileSize),
		core.WithLogger(slog.Default()),
	)
	slog.Info("browse started", "files", len(args))

	model := application.NewModel(cmd.Context(), session, args...)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
