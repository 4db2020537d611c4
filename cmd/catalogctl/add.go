package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ivanipani/song-viewer/internal/catalogmgr"
	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	addTitle  string
	addArtist string
	addTags   []string
	addMeta   []string
)

var addCmd = &cobra.Command{
	Use:   "add <master-file>",
	Short: "Add a song to the catalog",
	Long: `Add a song to the catalog, deriving its id from artist and title.
Title and artist are read from the file's tags when present; flags
override them. The master file itself is not copied, only its name
and checksum are recorded.`,
	Example: `  catalogctl add masters/first-light.wav
  catalogctl add masters/demo.wav --title "First Light" --artist Ivan --tag ambient`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		masterPath := args[0]
		store := mustStore()

		title, artist := readSongTags(masterPath)
		if addTitle != "" {
			title = addTitle
		}
		if addArtist != "" {
			artist = addArtist
		}

		checksum, err := catalogmgr.FileChecksum(masterPath)
		if err != nil {
			logrus.WithError(err).Fatal("failed to hash master file")
		}

		song := catalogmgr.NewSong(title, artist, filepath.Base(masterPath), checksum, addTags, parseMetadata(addMeta))
		if err := store.Add(song); err != nil {
			logrus.WithError(err).Fatal("failed to add song")
		}
		if err := store.Save(); err != nil {
			logrus.WithError(err).Fatal("failed to save catalog")
		}

		fmt.Printf("Added %s: %s by %s\n", song.ID, song.Title, song.Artist)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "song title (defaults to the file's tags)")
	addCmd.Flags().StringVarP(&addArtist, "artist", "a", "", "artist name (defaults to the file's tags)")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "catalog tag, repeatable")
	addCmd.Flags().StringArrayVar(&addMeta, "meta", nil, "metadata field as key=value, repeatable")
}

// readSongTags pulls title and artist from the file's embedded tags,
// falling back to the filename and a placeholder artist.
func readSongTags(path string) (title, artist string) {
	title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	artist = "Unknown Artist"

	f, err := os.Open(path)
	if err != nil {
		return title, artist
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return title, artist
	}
	if t := strings.TrimSpace(m.Title()); t != "" {
		title = t
	}
	if a := strings.TrimSpace(m.Artist()); a != "" {
		artist = a
	}
	return title, artist
}

func parseMetadata(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	meta := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			logrus.Warnf("ignoring metadata field without '=': %s", p)
			continue
		}
		meta[k] = v
	}
	return meta
}
