package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Ivanipani/song-viewer/internal/catalogmgr"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	watchProcess bool
	watchExport  bool
)

var masterExtensions = map[string]bool{
	".wav":  true,
	".flac": true,
	".aiff": true,
	".aif":  true,
	".mp3":  true,
}

var watchCmd = &cobra.Command{
	Use:   "watch <masters-dir>",
	Short: "Watch a directory and add new masters automatically",
	Long: `Watch the masters directory and add newly dropped audio files to the
catalog. With --process, new songs are transcoded immediately; with
--export, the JSON documents are rewritten after every addition.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := args[0]
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			logrus.Fatalf("not a directory: %s", dir)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			logrus.WithError(err).Fatal("failed to create watcher")
		}
		defer watcher.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if !event.Has(fsnotify.Create) {
						continue
					}
					handleNewMaster(ctx, event.Name)
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					logrus.WithError(err).Error("watcher error")
				}
			}
		}()

		if err := watcher.Add(dir); err != nil {
			logrus.WithError(err).Fatal("failed to watch directory")
		}
		logrus.WithField("dir", dir).Info("watching for new masters")

		<-ctx.Done()
		logrus.Info("stopping watcher")
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchProcess, "process", false, "transcode new songs as they are added")
	watchCmd.Flags().BoolVar(&watchExport, "export", false, "rewrite the JSON documents after every addition")
}

func handleNewMaster(ctx context.Context, path string) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") {
		return
	}
	if !masterExtensions[strings.ToLower(filepath.Ext(base))] {
		return
	}

	// Give the writer a moment to finish before reading the file.
	time.Sleep(500 * time.Millisecond)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	store, err := catalogmgr.LoadStore(catalogPath)
	if err != nil {
		logrus.WithError(err).Error("failed to load catalog")
		return
	}

	title, artist := readSongTags(path)
	checksum, err := catalogmgr.FileChecksum(path)
	if err != nil {
		logrus.WithError(err).WithField("file", base).Error("failed to hash new master")
		return
	}

	song := catalogmgr.NewSong(title, artist, base, checksum, nil, nil)
	if store.Contains(song.ID) {
		logrus.WithField("song", song.ID).Debug("already in catalog, skipping")
		return
	}

	if err := store.Add(song); err != nil {
		logrus.WithError(err).WithField("song", song.ID).Error("failed to add song")
		return
	}
	if err := store.Save(); err != nil {
		logrus.WithError(err).Error("failed to save catalog")
		return
	}
	logrus.WithFields(logrus.Fields{
		"song":   song.ID,
		"title":  song.Title,
		"artist": song.Artist,
	}).Info("added new master")

	if watchProcess {
		tc := catalogmgr.NewTranscoder()
		if _, err := catalogmgr.ProcessSong(ctx, store, tc, song, path); err != nil {
			logrus.WithError(err).WithField("song", song.ID).Error("processing failed")
		} else {
			logrus.WithField("song", song.ID).Info("processed new master")
		}
	}
	if watchExport {
		if _, err := catalogmgr.Export(store); err != nil {
			logrus.WithError(err).Error("export failed")
		}
	}
}
