package catalogmgr

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ProjectTrack is one track read from a REAPER project file, with the
// audio files its items reference. File paths are resolved relative to
// the project directory.
type ProjectTrack struct {
	GUID  string
	Name  string
	Color string
	Files []string
}

var (
	trackGUIDRe = regexp.MustCompile(`\{([^}]+)\}`)
	trackNameRe = regexp.MustCompile(`NAME\s+"([^"]+)"`)
	peakColRe   = regexp.MustCompile(`PEAKCOL\s+(\d+)`)
	waveFileRe  = regexp.MustCompile(`FILE\s+"([^"]+)"`)
)

// Routing and click tracks that never become stems.
var utilityTracks = map[string]bool{
	"Click + MIDI Control": true,
	"Computer Audio":       true,
	"Click source":         true,
}

const defaultStemColor = "#808080"

// ParseProject reads a .rpp file and returns its stem-worthy tracks:
// tracks that reference audio and are not utility tracks.
func ParseProject(path string) ([]ProjectTrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	defer f.Close()

	projectDir := filepath.Dir(path)

	var tracks []ProjectTrack
	var cur *ProjectTrack
	trackIndent := 0
	awaitingFile := false
	seenFiles := map[string]bool{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if cur == nil {
			if strings.HasPrefix(trimmed, "<TRACK") {
				cur = &ProjectTrack{}
				trackIndent = indentOf(line)
				awaitingFile = false
				seenFiles = map[string]bool{}
				if m := trackGUIDRe.FindStringSubmatch(trimmed); m != nil {
					cur.GUID = m[1]
				}
			}
			continue
		}

		if trimmed == ">" && indentOf(line) <= trackIndent {
			if len(cur.Files) > 0 && !utilityTracks[cur.Name] {
				tracks = append(tracks, *cur)
			}
			cur = nil
			continue
		}

		switch {
		case cur.Name == "" && strings.HasPrefix(trimmed, "NAME "):
			if m := trackNameRe.FindStringSubmatch(trimmed); m != nil {
				cur.Name = m[1]
			}
		case cur.Color == "" && strings.HasPrefix(trimmed, "PEAKCOL "):
			if m := peakColRe.FindStringSubmatch(trimmed); m != nil {
				if v, err := strconv.Atoi(m[1]); err == nil {
					cur.Color = colorHex(v)
				}
			}
		case strings.HasPrefix(trimmed, "<SOURCE WAVE"):
			awaitingFile = true
		case awaitingFile && strings.HasPrefix(trimmed, "FILE "):
			awaitingFile = false
			if m := waveFileRe.FindStringSubmatch(trimmed); m != nil {
				file := m[1]
				if !filepath.IsAbs(file) {
					file = filepath.Join(projectDir, file)
				}
				if !seenFiles[file] {
					seenFiles[file] = true
					cur.Files = append(cur.Files, file)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	return tracks, nil
}

// StemsFromProject turns parsed tracks into catalog stem entries,
// keeping the project's track order.
func StemsFromProject(tracks []ProjectTrack) []StemEntry {
	stems := make([]StemEntry, 0, len(tracks))
	for i, t := range tracks {
		color := t.Color
		if color == "" {
			color = defaultStemColor
		}
		stems = append(stems, StemEntry{
			ID:      Slug(t.Name),
			Name:    t.Name,
			Color:   color,
			Order:   i,
			Sources: t.Files,
		})
	}
	return stems
}

// colorHex converts REAPER's packed BGR color int to a #rrggbb string.
func colorHex(v int) string {
	blue := (v >> 16) & 0xFF
	green := (v >> 8) & 0xFF
	red := v & 0xFF
	return fmt.Sprintf("#%02x%02x%02x", red, green, blue)
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
