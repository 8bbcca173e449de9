// Package main provides the terminal client for vocalize.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"alfredoptarigan/vocalize/internal/app"
	"alfredoptarigan/vocalize/internal/config"
	"alfredoptarigan/vocalize/internal/media"
	"alfredoptarigan/vocalize/internal/session"
	"alfredoptarigan/vocalize/internal/tui"
)

var (
	captureTimeLimit time.Duration
	captureFormat    string
	captureDevice    string
	logPath          string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vocalize",
		Short:         "Record a speech and get rubric scores and suggestions",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().DurationVar(&captureTimeLimit, "time-limit", 30*time.Second, "stop recording automatically after this long (0 disables)")
	rootCmd.Flags().StringVar(&captureFormat, "format", "", "ffmpeg input format (pulse, avfoundation, dshow, ...)")
	rootCmd.Flags().StringVar(&captureDevice, "device", "", "ffmpeg input device")
	rootCmd.Flags().StringVar(&logPath, "log-file", "", "log file path")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadFileConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg := config.Load()
	if err := cfg.ApplyFile(fileCfg); err != nil {
		return err
	}
	applyDurationFlag(cmd, "time-limit", &cfg.Capture.TimeLimit, captureTimeLimit)
	applyStringFlag(cmd, "format", &cfg.Capture.Format, captureFormat)
	applyStringFlag(cmd, "device", &cfg.Capture.Device, captureDevice)

	path := config.DefaultLogPath()
	if fileCfg.Log.Path != nil {
		path = expandHome(*fileCfg.Log.Path)
	}
	applyStringFlag(cmd, "log-file", &path, logPath)

	// The terminal belongs to Bubble Tea, so logs go to a file.
	logFile, err := openLogFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()
	log.SetOutput(logFile)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()
	application.Worker.Start(ctx)

	capturer := media.NewFFmpegCapturer(cfg.Capture.Format, cfg.Capture.Device)
	controller := session.NewController(capturer, application.Submitter, session.Options{
		TimeLimit: cfg.Capture.TimeLimit,
	})
	log.Printf("🎙️  Capture: %s %q, limit %s", cfg.Capture.Format, cfg.Capture.Device, cfg.Capture.TimeLimit)

	model := tui.NewModel(ctx, controller, application.Attempts, application.ClipStore)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := program.Run()

	cancel()
	controller.Stop()
	controller.Wait()

	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
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
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultFileTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
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

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Flags win over the config file and the environment, but only when set.
func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyDurationFlag(cmd *cobra.Command, name string, target *time.Duration, value time.Duration) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
