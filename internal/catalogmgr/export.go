package catalogmgr

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/Ivanipani/song-viewer/internal/catalog"
)

// Document wrappers matching what the player client parses.
type catalogDocument struct {
	Songs []catalog.Track `json:"songs"`
}

type stemsDocument struct {
	Stems []catalog.Stem `json:"stems"`
}

// ExportResult summarizes what Export wrote. Missing lists published
// files the documents reference that are not on disk yet.
type ExportResult struct {
	CatalogPath string
	StemDocs    []string
	Missing     []string
}

// Export writes the static JSON documents the player fetches: a
// catalog.json indexing every song, plus a stems.json inside each
// song directory that has stems. catalog.json lands next to the
// catalog directory, which is the root the player's base URL points
// at, and every URL inside the documents is relative to that root.
func Export(store *Store) (*ExportResult, error) {
	siteRoot := filepath.Dir(store.Dir())
	prefix := filepath.Base(store.Dir())
	res := &ExportResult{
		CatalogPath: filepath.Join(siteRoot, "catalog.json"),
	}

	songs := store.Songs()
	tracks := make([]catalog.Track, 0, len(songs))
	for i, song := range songs {
		tracks = append(tracks, catalog.Track{
			ID:     song.ID,
			Title:  song.Title,
			Artist: song.Artist,
			URL:    path.Join(prefix, song.ID, song.ID+".mp3"),
			Index:  i,
			Tags:   song.Tags,
		})
		res.checkMissing(siteRoot, path.Join(prefix, song.ID, song.ID+".mp3"))
		res.checkMissing(siteRoot, path.Join(prefix, song.ID, song.ID+".ogg"))
	}
	if err := writeJSON(res.CatalogPath, catalogDocument{Songs: tracks}); err != nil {
		return nil, fmt.Errorf("export catalog: %w", err)
	}

	for _, song := range songs {
		if len(song.Stems) == 0 {
			continue
		}
		stems := make([]catalog.Stem, 0, len(song.Stems))
		for _, se := range song.Stems {
			base := path.Join(prefix, song.ID, "stems", se.ID)
			stems = append(stems, catalog.Stem{
				ID:    se.ID,
				Name:  se.Name,
				Color: se.Color,
				Order: se.Order,
				Files: []catalog.StemFile{
					{Format: "ogg", URL: base + ".ogg"},
					{Format: "mp3", URL: base + ".mp3"},
				},
				Peaks: base + ".json",
				Muted: se.Muted,
				Solo:  se.Solo,
			})
			res.checkMissing(siteRoot, base+".ogg")
			res.checkMissing(siteRoot, base+".mp3")
			res.checkMissing(siteRoot, base+".json")
		}

		docPath := filepath.Join(store.SongDir(song.ID), "stems.json")
		if err := writeJSON(docPath, stemsDocument{Stems: stems}); err != nil {
			return nil, fmt.Errorf("export stems for %s: %w", song.ID, err)
		}
		res.StemDocs = append(res.StemDocs, docPath)
	}

	return res, nil
}

func (r *ExportResult) checkMissing(siteRoot, rel string) {
	onDisk := filepath.Join(siteRoot, filepath.FromSlash(rel))
	if _, err := os.Stat(onDisk); err != nil {
		r.Missing = append(r.Missing, rel)
	}
}

func writeJSON(outputPath string, v any) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
