package main

import (
	"fmt"

	"github.com/Ivanipani/song-viewer/internal/catalogmgr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var stemsCmd = &cobra.Command{
	Use:   "stems",
	Short: "Import and render instrument stems",
}

var stemsImportCmd = &cobra.Command{
	Use:   "import <song-id> <project.rpp>",
	Short: "Import stem definitions from a REAPER project",
	Long: `Parse a REAPER project and record its audio tracks as the song's
stems. Utility tracks and tracks without audio are skipped. Track
colors and order carry over; sources point at the project's audio
files for later rendering.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustStore()
		song, ok := store.Get(args[0])
		if !ok {
			logrus.Fatalf("song not found: %s", args[0])
		}

		tracks, err := catalogmgr.ParseProject(args[1])
		if err != nil {
			logrus.WithError(err).Fatal("failed to parse project")
		}
		if len(tracks) == 0 {
			logrus.Fatal("project has no stem-worthy tracks")
		}

		song.Stems = catalogmgr.StemsFromProject(tracks)
		if err := store.Update(song); err != nil {
			logrus.WithError(err).Fatal("failed to update song")
		}
		if err := store.Save(); err != nil {
			logrus.WithError(err).Fatal("failed to save catalog")
		}

		fmt.Printf("Imported %d stem(s) for %s:\n", len(song.Stems), song.ID)
		for _, stem := range song.Stems {
			fmt.Printf("  %-20s %-8s %d source(s)\n", stem.ID, stem.Color, len(stem.Sources))
		}
	},
}

var stemsRenderCmd = &cobra.Command{
	Use:   "render <song-id>",
	Short: "Render a song's stems to the published formats",
	Long: `Mix each stem down from its project sources and encode the OGG and
MP3 variants plus waveform peaks, into the song's stems directory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustStore()
		song, ok := store.Get(args[0])
		if !ok {
			logrus.Fatalf("song not found: %s", args[0])
		}
		if len(song.Stems) == 0 {
			logrus.Fatalf("song %s has no stems; run 'catalogctl stems import' first", song.ID)
		}

		tc := catalogmgr.NewTranscoder()
		outs, err := catalogmgr.ProcessStems(cmd.Context(), store, tc, song)
		if err != nil {
			logrus.WithError(err).Fatal("failed to render stems")
		}

		fmt.Printf("Rendered %d stem(s):\n", len(outs))
		for _, stem := range song.Stems {
			printOutput(stem.ID, outs[stem.ID].OGG)
		}
	},
}

func init() {
	rootCmd.AddCommand(stemsCmd)
	stemsCmd.AddCommand(stemsImportCmd)
	stemsCmd.AddCommand(stemsRenderCmd)
}
