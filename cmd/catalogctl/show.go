package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [query]",
	Short: "List songs in the catalog",
	Long: `List catalog songs. With a query, only songs whose title, artist,
or id contains it are shown.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustStore()

		songs := store.Songs()
		if len(args) == 1 {
			songs = store.Search(args[0])
		}
		if len(songs) == 0 {
			fmt.Println("No songs found")
			return
		}

		for _, song := range songs {
			line := fmt.Sprintf("%-32s %s by %s", song.ID, song.Title, song.Artist)
			if len(song.Stems) > 0 {
				line += fmt.Sprintf("  [%d stems]", len(song.Stems))
			}
			if len(song.Tags) > 0 {
				line += "  (" + strings.Join(song.Tags, ", ") + ")"
			}
			if ts, err := time.Parse(time.RFC3339, song.AddedDate); err == nil {
				line += "  added " + humanize.Time(ts)
			}
			fmt.Println(line)
		}
		fmt.Printf("\n%d song(s)\n", len(songs))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
