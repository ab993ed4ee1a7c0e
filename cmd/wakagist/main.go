// Package main provides the CLI entrypoint for wakagist.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/wakagist/internal/config"
	"github.com/verte-zerg/wakagist/internal/logging"
	"github.com/verte-zerg/wakagist/internal/previewui"
	"github.com/verte-zerg/wakagist/internal/runner"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wakagist",
		Short:         "Publish weekly WakaTime language stats to a GitHub gist",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPublishCmd,
	}
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func runPublishCmd(cmd *cobra.Command, _ []string) error {
	logger, fileCfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	r := &runner.Runner{
		Lookup:  os.LookupEnv,
		File:    fileCfg,
		Factory: runner.HTTPFactory{},
		Logger:  logger,
		Out:     cmd.OutOrStdout(),
	}
	res, err := r.Run(commandContext(cmd))
	if err != nil {
		return err
	}
	logger.Info("run finished", zap.Stringer("outcome", res.Outcome))
	return nil
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Render the report without publishing",
		Args:  cobra.NoArgs,
		RunE:  runPreviewCmd,
	}
}

func runPreviewCmd(cmd *cobra.Command, _ []string) error {
	logger, fileCfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.LoadPreview(os.LookupEnv, fileCfg)
	if err != nil {
		return err
	}

	stats := runner.HTTPFactory{}.Stats(cfg)
	summary, text, err := runner.Render(commandContext(cmd), stats, cfg.StatsRange)
	if err != nil {
		if errors.Is(err, runner.ErrNoStatsData) {
			logger.Warn("no language stats returned", zap.String("range", cfg.StatsRange))
		}
		return err
	}

	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		if _, err := fmt.Fprintln(out, text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	program := tea.NewProgram(previewui.NewModel(summary, text), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run preview TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// setup loads .env before anything reads the environment, then builds the
// logger and reads the optional config file.
func setup(cmd *cobra.Command) (*zap.Logger, config.FileConfig, error) {
	dotenvPath := config.DefaultDotenvPath()
	loaded, err := config.LoadDotenv(dotenvPath)
	if err != nil {
		return nil, config.FileConfig{}, err
	}
	logger := newLogger(cmd.ErrOrStderr())
	if loaded {
		logger.Debug("loaded dotenv file", zap.String("path", dotenvPath))
	}
	fileCfg, err := config.LoadFile(config.DefaultConfigPath())
	if err != nil {
		_ = logger.Sync()
		return nil, config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return logger, fileCfg, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newLogger(w io.Writer) *zap.Logger {
	return logging.New(w, logging.ParseLevel(os.Getenv(config.EnvLogLevel)))
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
