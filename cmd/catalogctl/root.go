package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ivanipani/song-viewer/internal/catalogmgr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	catalogPath string
	debugLog    bool
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Manage the song catalog behind the portfolio player",
	Long: `catalogctl maintains the master catalog for the portfolio player:
adding songs, transcoding masters to the published MP3/OGG variants,
generating waveform peaks, importing stems from REAPER projects, and
exporting the static JSON documents the player fetches.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if debugLog {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "c", "catalog/catalog.yml", "path to the catalog file")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func mustStore() *catalogmgr.Store {
	store, err := catalogmgr.LoadStore(catalogPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load catalog")
	}
	return store
}

// resolveMaster locates a song's master file under the masters
// directory unless the stored filename is already absolute.
func resolveMaster(mastersDir, filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(mastersDir, filename)
}
