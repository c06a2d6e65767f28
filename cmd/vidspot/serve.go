package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	httpadapter "github.com/fredcamaral/vidspot/internal/adapters/primary/http"
	"github.com/fredcamaral/vidspot/internal/adapters/secondary/browser"
	"github.com/fredcamaral/vidspot/internal/adapters/secondary/media"
	"github.com/fredcamaral/vidspot/internal/adapters/secondary/playback"
	"github.com/fredcamaral/vidspot/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
	"github.com/fredcamaral/vidspot/internal/domain/services"
)

var (
	// Serve command flags
	port          int
	host          string
	noBrowser     bool
	externalLinks bool
	deviceFlag    string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [video.mp4]",
	Short: "Edit hotspots on an MP4 video",
	Long: `Start the local editor for an MP4 video and open it in the browser.

Hotspots live for the duration of the editing session and are discarded
when the session is closed from the editor or the command is interrupted.

Example:
  vidspot serve demo.mp4
  vidspot serve demo.mp4 --port 8080 --no-browser --device mobile`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Defaults come from the configuration; flags only override when set
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().StringVar(&host, "host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Don't open the browser automatically")
	serveCmd.Flags().BoolVar(&externalLinks, "external-links", false, "Open url CTAs in the system browser")
	serveCmd.Flags().StringVarP(&deviceFlag, "device", "d", "", "Initial preview device: desktop, tablet or mobile")
}

// validateServeConfig checks what the bridge needs beyond the config's own validation
func validateServeConfig(cfg *entities.Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", cfg.Server.Port)
	}
	if strings.ContainsAny(cfg.Server.Host, " !") {
		return fmt.Errorf("invalid host: %s", cfg.Server.Host)
	}
	return nil
}

// serveFlags collects the serve flags for the config merger
func serveFlags(cmd *cobra.Command) map[string]interface{} {
	flags := map[string]interface{}{}
	if cmd.Flags().Changed("port") {
		flags["port"] = port
	}
	if cmd.Flags().Changed("host") {
		flags["host"] = host
	}
	if cmd.Flags().Changed("no-browser") {
		flags["no-browser"] = noBrowser
	}
	if cmd.Flags().Changed("external-links") {
		flags["external-links"] = externalLinks
	}
	if cmd.Flags().Changed("device") {
		flags["device"] = deviceFlag
	}
	return flags
}

func runServe(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	cfg, err := loadConfig(cmd, filepath.Dir(videoPath), serveFlags(cmd))
	if err != nil {
		return err
	}
	if err := validateServeConfig(cfg); err != nil {
		return err
	}

	logger := newCommandLogger(cfg)
	logger.Debug("Opening video: %s", videoPath)

	source, err := media.Open(videoPath)
	if err != nil {
		return fmt.Errorf("opening video: %w", err)
	}

	ed, err := newEditor(cfg, source)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := ed.server.Start(ctx, cfg.Server.Port, cfg.Server.Host); err != nil {
		return fmt.Errorf("starting editor: %w", err)
	}
	logger.Success("Editing %s at %s", source.File().Name, ed.server.URL())

	if cfg.Browser.AutoOpen {
		if err := ed.launcher.Launch(ed.server.URL(), false); err != nil {
			logger.Warn("Failed to open browser: %v", err)
		}
	}

	waitForSessionEnd(ctx, ed.session, logger)
	return ed.shutdown(cfg, logger)
}

// editor is the wired serve stack for one video
type editor struct {
	session  *services.EditorSession
	server   *httpadapter.Server
	launcher *browser.Launcher
}

// newEditor wires the session, the remote player and the bridge around source
func newEditor(cfg *entities.Config, source *media.Source) (*editor, error) {
	tmpl, err := renderer.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("preparing editor page: %w", err)
	}

	video := playback.NewRemoteVideo()

	opts := services.SessionOptionsFromConfig(cfg.Editor)
	opts.Clock = ports.NewRealClock()
	opts.Logger = httpadapter.NewHTTPLoggerFromConfig("session", &cfg.Logging)
	session := services.NewEditorSession(video, opts)

	// The remote player asks the page to play or pause its video element
	video.SetCommandSink(func(c entities.PlaybackCommand) {
		session.Publish(entities.EventTypePlaybackCommand, c)
	})
	session.OnClose(source.Release)

	launcher := browser.NewLauncher()
	if cfg.Browser.ExternalLinks {
		session.SetNavigator(launcher.Navigator())
	} else {
		session.SetNavigator(session.TabNavigator())
	}

	server := httpadapter.NewServerWithLogging(session, tmpl, &cfg.Server, &cfg.Logging)
	server.SetMedia(source, entities.EditorPage{
		Title:       "vidspot",
		VideoName:   source.File().Name,
		MediaURL:    source.URL(),
		AspectRatio: cfg.Editor.GetContainerRatio(),
	})

	return &editor{session: session, server: server, launcher: launcher}, nil
}

// waitForSessionEnd blocks until ctx is cancelled or the editor closes the session
func waitForSessionEnd(ctx context.Context, session *services.EditorSession, logger *Logger) {
	events := session.Subscribe("cli")
	defer session.Unsubscribe("cli")

	if session.Closed() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				logger.Info("Editing session closed")
				return
			}
		}
	}
}

// shutdown stops the bridge and discards the session
func (e *editor) shutdown(cfg *entities.Config, logger *Logger) error {
	logger.Info("Shutting down editor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()

	err := e.server.Stop(shutdownCtx)
	e.session.Close()
	if err != nil {
		logger.Error("Error during shutdown: %v", err)
		return fmt.Errorf("stopping editor: %w", err)
	}
	return nil
}
