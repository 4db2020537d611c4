package catalogmgr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Outputs lists the published files produced for one song.
type Outputs struct {
	MP3   string
	OGG   string
	Peaks string
}

// StemOutputs lists the published files produced for one stem.
type StemOutputs struct {
	MP3   string
	OGG   string
	Peaks string
}

// ProcessSong runs the full pipeline for one song: MP3 and OGG
// variants, waveform peaks, and fresh ID3 tags on the MP3. Outputs
// land in the song's directory under the catalog, named after the
// song id.
func ProcessSong(ctx context.Context, store *Store, tc *Transcoder, song Song, masterPath string) (Outputs, error) {
	outDir := store.SongDir(song.ID)
	out := Outputs{
		MP3:   filepath.Join(outDir, song.ID+".mp3"),
		OGG:   filepath.Join(outDir, song.ID+".ogg"),
		Peaks: filepath.Join(outDir, song.ID+".json"),
	}

	logrus.WithFields(logrus.Fields{"song": song.ID, "master": masterPath}).Debug("processing song")

	if err := tc.ConvertToMP3(ctx, masterPath, out.MP3); err != nil {
		return Outputs{}, fmt.Errorf("mp3 variant for %s: %w", song.ID, err)
	}
	if err := tc.ConvertToOGG(ctx, masterPath, out.OGG); err != nil {
		return Outputs{}, fmt.Errorf("ogg variant for %s: %w", song.ID, err)
	}
	if err := WritePeaks(masterPath, out.Peaks); err != nil {
		return Outputs{}, fmt.Errorf("peaks for %s: %w", song.ID, err)
	}
	if err := WriteMP3Tags(out.MP3, song.Title, song.Artist); err != nil {
		return Outputs{}, fmt.Errorf("tags for %s: %w", song.ID, err)
	}

	return out, nil
}

// ProcessStems renders each of the song's stems to the published
// formats. Every stem is first mixed down from its project sources to
// an intermediate wav, which also drives peaks generation, then
// encoded and removed.
func ProcessStems(ctx context.Context, store *Store, tc *Transcoder, song Song) (map[string]StemOutputs, error) {
	if len(song.Stems) == 0 {
		return nil, fmt.Errorf("song %s has no stems", song.ID)
	}

	stemsDir := filepath.Join(store.SongDir(song.ID), "stems")
	outs := make(map[string]StemOutputs, len(song.Stems))

	for _, stem := range song.Stems {
		logrus.WithFields(logrus.Fields{"song": song.ID, "stem": stem.ID}).Debug("rendering stem")

		mix := filepath.Join(stemsDir, stem.ID+".wav")
		if err := tc.MixStems(ctx, stem.Sources, mix); err != nil {
			return nil, fmt.Errorf("mix stem %s: %w", stem.ID, err)
		}

		so := StemOutputs{
			MP3:   filepath.Join(stemsDir, stem.ID+".mp3"),
			OGG:   filepath.Join(stemsDir, stem.ID+".ogg"),
			Peaks: filepath.Join(stemsDir, stem.ID+".json"),
		}
		err := func() error {
			if err := tc.ConvertToOGG(ctx, mix, so.OGG); err != nil {
				return fmt.Errorf("ogg variant for stem %s: %w", stem.ID, err)
			}
			if err := tc.ConvertToMP3(ctx, mix, so.MP3); err != nil {
				return fmt.Errorf("mp3 variant for stem %s: %w", stem.ID, err)
			}
			if err := WritePeaks(mix, so.Peaks); err != nil {
				return fmt.Errorf("peaks for stem %s: %w", stem.ID, err)
			}
			return nil
		}()
		os.Remove(mix)
		if err != nil {
			return nil, err
		}

		outs[stem.ID] = so
	}

	return outs, nil
}
