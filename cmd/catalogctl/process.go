package main

import (
	"fmt"
	"os"

	"github.com/Ivanipani/song-viewer/internal/catalogmgr"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	processAll     bool
	processMasters string
)

var processCmd = &cobra.Command{
	Use:   "process [song-id]",
	Short: "Transcode masters into the published variants",
	Long: `Process a song's master into the published MP3 and OGG variants,
generate waveform peaks, and rewrite the MP3 tags. Outputs land in
the song's directory under the catalog.`,
	Example: `  catalogctl process ivan-first-light --masters masters/
  catalogctl process --all --masters masters/`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustStore()
		tc := catalogmgr.NewTranscoder()

		var songs []catalogmgr.Song
		switch {
		case processAll:
			songs = store.Songs()
		case len(args) == 1:
			song, ok := store.Get(args[0])
			if !ok {
				logrus.Fatalf("song not found: %s", args[0])
			}
			songs = append(songs, song)
		default:
			logrus.Fatal("pass a song id or --all")
		}
		if len(songs) == 0 {
			fmt.Println("Catalog is empty")
			return
		}

		var bar *progressbar.ProgressBar
		if len(songs) > 1 {
			bar = progressbar.NewOptions(len(songs),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("Processing songs"),
				// Inlined copy of progressbar.ThemeASCII; the named variable only
			// exists in progressbar >= v3.16.0, which needs a newer Go toolchain.
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: ".",
				BarStart:      "[",
				BarEnd:        "]",
			}),
				progressbar.OptionFullWidth(),
				progressbar.OptionShowCount(),
			)
		}

		failed := 0
		for _, song := range songs {
			master := resolveMaster(processMasters, song.Filename)
			out, err := catalogmgr.ProcessSong(cmd.Context(), store, tc, song, master)
			if err != nil {
				logrus.WithField("song", song.ID).WithError(err).Error("processing failed")
				failed++
			} else if bar == nil {
				printOutput("MP3", out.MP3)
				printOutput("OGG", out.OGG)
				printOutput("Peaks", out.Peaks)
			}
			if bar != nil {
				bar.Add(1)
			}
		}
		if bar != nil {
			fmt.Fprintln(os.Stderr)
		}

		fmt.Printf("Processed %d song(s)\n", len(songs)-failed)
		if failed > 0 {
			logrus.Errorf("%d song(s) failed", failed)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().BoolVar(&processAll, "all", false, "process every song in the catalog")
	processCmd.Flags().StringVarP(&processMasters, "masters", "m", ".", "directory holding the master files")
}

func printOutput(label, path string) {
	size := ""
	if info, err := os.Stat(path); err == nil {
		size = " (" + humanize.Bytes(uint64(info.Size())) + ")"
	}
	fmt.Printf("  %-6s %s%s\n", label, path, size)
}
