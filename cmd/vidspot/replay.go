package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	scriptrunner "github.com/fredcamaral/vidspot/internal/adapters/primary/script"
	scriptfile "github.com/fredcamaral/vidspot/internal/adapters/secondary/script"
	"github.com/fredcamaral/vidspot/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
	"github.com/fredcamaral/vidspot/internal/domain/services"
)

var (
	// Replay command flags
	replayJSON          bool
	replayWatch         bool
	replayWatchInterval time.Duration
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay [script.yaml]",
	Short: "Replay an editing script without a browser",
	Long: `Run a YAML editing script against a simulated video and print the
resulting hotspots, playback and banner state.

Example:
  vidspot replay session.yaml
  vidspot replay session.yaml --json
  vidspot replay session.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Print the result as JSON")
	replayCmd.Flags().BoolVarP(&replayWatch, "watch", "w", false, "Replay again whenever the script changes")
	replayCmd.Flags().DurationVar(&replayWatchInterval, "watch-interval", 500*time.Millisecond, "How often to check the script for changes")
}

func runReplay(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]

	cfg, err := loadConfig(cmd, filepath.Dir(scriptPath), nil)
	if err != nil {
		return err
	}
	logger := newCommandLogger(cfg)

	runner := scriptrunner.NewRunner(services.SessionOptionsFromConfig(cfg.Editor), logger)
	runner.SetTickInterval(cfg.Editor.GetTimeUpdateInterval())

	replay := func() error {
		return replayScript(cmd.Context(), cmd.OutOrStdout(), runner, scriptPath, logger)
	}

	if !replayWatch {
		return replay()
	}

	if err := replay(); err != nil {
		logger.Error("%v", err)
	}
	w := watcher.NewPollingWatcher(replayWatchInterval, 2*replayWatchInterval, logger)
	return watchReplay(cmd.Context(), w, scriptPath, replay, logger)
}

// replayScript loads, runs and prints one script
func replayScript(ctx context.Context, w io.Writer, runner *scriptrunner.Runner, path string, logger *Logger) error {
	s, err := scriptfile.NewLoader().LoadFile(ctx, path)
	if err != nil {
		return err
	}
	logger.Debug("Replaying %d steps from %s", len(s.Steps), path)

	result, err := runner.Run(ctx, s)
	if err != nil {
		return fmt.Errorf("replaying %s: %w", path, err)
	}

	if replayJSON {
		return printReplayJSON(w, result)
	}
	printReplay(w, result)
	return nil
}

// watchReplay calls replay on every change of path until the watcher stops.
// Replay errors are logged so a broken edit does not end the watch.
func watchReplay(ctx context.Context, w ports.FileWatcher, path string, replay func() error, logger *Logger) error {
	events, err := w.Watch(ctx, path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer func() { _ = w.Stop() }()

	logger.Info("Watching %s for changes (Ctrl+C to stop)", path)

	for event := range events {
		if event.Type == ports.Deleted {
			logger.Warn("%s was deleted, waiting for it to come back", path)
			continue
		}

		logger.Info("%s %s, replaying", path, event.Type)
		if err := replay(); err != nil {
			logger.Error("%v", err)
		}
	}
	return nil
}

// printReplayJSON writes the result as indented JSON
func printReplayJSON(w io.Writer, result *scriptrunner.Result) error {
	output := struct {
		*scriptrunner.Result
		Format string `json:"format"`
	}{
		Result: result,
		Format: "vidspot-replay-v1",
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal replay result to JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// printReplay writes a human readable summary
func printReplay(w io.Writer, result *scriptrunner.Result) {
	state := "playing"
	if result.Playback.Paused {
		state = "paused"
	}

	fmt.Fprintf(w, "Replayed %d steps\n", result.Steps)
	fmt.Fprintf(w, "Playback: %s / %s (%s)\n",
		entities.FormatTimecode(result.Playback.CurrentTime),
		entities.FormatTimecode(result.Playback.Duration),
		state)
	fmt.Fprintf(w, "Device:   %s\n", result.Device.Label())

	if result.Banner.Visible {
		fmt.Fprintf(w, "Banner:   %q\n", result.Banner.Message)
	} else {
		fmt.Fprintln(w, "Banner:   hidden")
	}

	fmt.Fprintf(w, "\nHotspots (%d):\n", len(result.Hotspots))
	if len(result.Hotspots) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for i, h := range result.Hotspots {
		marker := " "
		if h.ID == result.SelectedID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s #%d %s  %s\n", marker, i+1, h.ID, describeHotspot(h))
		for _, cta := range h.CTAs {
			fmt.Fprintf(w, "      %-7s %s\n", cta.Type, cta.Content)
		}
	}

	if len(result.Navigations) > 0 {
		fmt.Fprintln(w, "\nOpened links:")
		for _, url := range result.Navigations {
			fmt.Fprintf(w, "  %s\n", url)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}
}

func describeHotspot(h entities.Hotspot) string {
	var flags []string
	if h.AutoPause {
		flags = append(flags, "auto-pause")
	}
	if h.KeepPlaying {
		flags = append(flags, "keep-playing")
	}
	desc := fmt.Sprintf("%s at %.1f%%,%.1f%% size %.1fx%.1f%% %s-%s",
		h.Shape, h.X, h.Y, h.Width, h.Height,
		entities.FormatTimecode(h.StartTime), entities.FormatTimecode(h.EndTime))
	if len(flags) > 0 {
		desc += " [" + strings.Join(flags, ", ") + "]"
	}
	return desc
}
