package main

import (
	"fmt"
	"os"

	"github.com/Ivanipani/song-viewer/internal/catalogmgr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var exportStrict bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the JSON documents the player fetches",
	Long: `Write catalog.json and the per-song stems.json documents into the
catalog directory, with URLs relative to the catalog root. Referenced
files that are not on disk yet are reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustStore()

		res, err := catalogmgr.Export(store)
		if err != nil {
			logrus.WithError(err).Fatal("export failed")
		}

		fmt.Printf("Wrote %s\n", res.CatalogPath)
		for _, doc := range res.StemDocs {
			fmt.Printf("Wrote %s\n", doc)
		}
		for _, missing := range res.Missing {
			logrus.Warnf("referenced file not on disk yet: %s", missing)
		}
		if exportStrict && len(res.Missing) > 0 {
			logrus.Errorf("%d referenced file(s) missing", len(res.Missing))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportStrict, "strict", false, "fail if referenced files are missing on disk")
}
