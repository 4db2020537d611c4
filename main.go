package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/Ivanipani/song-viewer/internal/catalog"
	"github.com/Ivanipani/song-viewer/internal/config"
	"github.com/Ivanipani/song-viewer/internal/history"
	"github.com/Ivanipani/song-viewer/internal/mpris"
	"github.com/Ivanipani/song-viewer/internal/notify"
	"github.com/Ivanipani/song-viewer/internal/session"
	"github.com/Ivanipani/song-viewer/internal/sound"
	"github.com/Ivanipani/song-viewer/internal/stderr"
	"github.com/Ivanipani/song-viewer/internal/stems"
	"github.com/Ivanipani/song-viewer/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL = flag.String("url", "", "catalog base URL (overrides config)")
		trackID = flag.String("track", "", "start on the track with this id")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if cfg.BaseURL == "" {
		return fmt.Errorf("no catalog URL: set base_url in config.toml or pass -url")
	}

	setupLogging(cfg)

	// Audio backends write warnings straight to fd 2, which would tear up
	// the alternate screen. Capture them before anything else runs.
	if err := stderr.Start(); err != nil {
		logrus.WithError(err).Debug("stderr capture unavailable")
	} else {
		defer stderr.Stop()
	}

	client, err := catalog.NewClient(cfg.BaseURL, cfg.HTTPTimeout())
	if err != nil {
		return fmt.Errorf("catalog client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout())
	cat, err := client.Catalog(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if cat.Len() == 0 {
		return fmt.Errorf("catalog at %s has no tracks", cfg.BaseURL)
	}

	hist := history.New()
	defer hist.Close()

	engine := sound.NewEngine(cfg.HTTPTimeout())

	sess := session.New(engine, cat, hist, session.Options{
		PollInterval: cfg.PollInterval(),
		Volume:       cfg.Volume,
	})
	sess.Start()
	defer sess.Close()

	if *trackID != "" {
		if err := sess.SelectTrack(*trackID); err != nil {
			logrus.WithError(err).WithField("track", *trackID).Warn("start track not selected")
		}
	}

	if adapter, err := mpris.New(sess); err != nil {
		logrus.WithError(err).Debug("mpris not available")
	} else {
		defer adapter.Close()
	}

	notifier, err := notify.New()
	if err != nil {
		logrus.WithError(err).Debug("notifications not available")
	} else {
		announcer := notify.NewAnnouncer(notifier, sess)
		defer announcer.Stop()
	}

	stemOpts := stems.Options{
		PreferredFormat: cfg.PreferredStemFormat,
		LoadTimeout:     cfg.StemLoadTimeout(),
		PollInterval:    cfg.PollInterval(),
	}

	m := ui.New(sess, client, engine, stemOpts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// setupLogging sends logrus output to the state-dir log file when debug
// logging is enabled, and silences it otherwise.
func setupLogging(cfg *config.Config) {
	logrus.SetOutput(io.Discard)
	if !cfg.DebugLog {
		return
	}
	path, err := cfg.LogFilePath()
	if err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	logrus.SetOutput(f)
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
