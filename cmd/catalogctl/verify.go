package main

import (
	"fmt"
	"os"

	"github.com/Ivanipani/song-viewer/internal/catalogmgr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verifyMasters string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify master file checksums against the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		store := mustStore()

		allValid := true
		for _, song := range store.Songs() {
			path := resolveMaster(verifyMasters, song.Filename)
			if _, err := os.Stat(path); err != nil {
				logrus.WithField("song", song.ID).Errorf("master file not found: %s", path)
				allValid = false
				continue
			}

			sum, err := catalogmgr.FileChecksum(path)
			if err != nil {
				logrus.WithField("song", song.ID).WithError(err).Error("failed to hash master file")
				allValid = false
				continue
			}
			if sum != song.Checksum {
				fmt.Printf("Hash mismatch for %s:\n  stored:  %s\n  current: %s\n", song.ID, song.Checksum, sum)
				allValid = false
			}
		}

		if !allValid {
			os.Exit(1)
		}
		fmt.Println("All master files verified")
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyMasters, "masters", "m", ".", "directory holding the master files")
}
