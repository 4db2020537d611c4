// Package catalogmgr maintains the master song catalog behind the
// portfolio site: a catalog.yml listing every song, the ffmpeg
// transcodes and waveform peaks derived from the masters, and the
// static JSON documents the player fetches.
package catalogmgr

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrSongExists is returned when adding a song whose id is already taken.
var ErrSongExists = errors.New("song already exists")

// ErrSongNotFound is returned when a song id is not in the catalog.
var ErrSongNotFound = errors.New("song not found")

// Song is one catalog entry. The id doubles as the directory name for
// the song's processed outputs.
type Song struct {
	ID        string            `yaml:"id"`
	Title     string            `yaml:"title"`
	Artist    string            `yaml:"artist"`
	Filename  string            `yaml:"filename"`
	Checksum  string            `yaml:"checksum"`
	Tags      []string          `yaml:"tags"`
	AddedDate string            `yaml:"added_date"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
	Stems     []StemEntry       `yaml:"stems,omitempty"`
}

// StemEntry records one instrument stem imported from a project file.
// Sources are the master audio files the stem mixes down from. Muted
// and Solo are hand-curated defaults the player applies when it opens
// the stem view.
type StemEntry struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Color   string   `yaml:"color"`
	Order   int      `yaml:"order"`
	Sources []string `yaml:"sources"`
	Muted   bool     `yaml:"muted,omitempty"`
	Solo    bool     `yaml:"solo,omitempty"`
}

type document struct {
	Songs []Song `yaml:"songs"`
}

// Store is the catalog.yml backing file. Mutations happen in memory;
// Save writes the whole document back, preserving song order.
type Store struct {
	path  string
	songs []Song
}

// LoadStore reads the catalog at path. A missing file yields an empty
// store so the first add can create it.
func LoadStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	s.songs = doc.Songs
	return s, nil
}

// Save writes the catalog back to disk, creating the catalog directory
// if needed.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	data, err := yaml.Marshal(document{Songs: s.songs})
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Path returns the catalog.yml location.
func (s *Store) Path() string {
	return s.path
}

// Dir returns the catalog directory, which holds the per-song output
// directories next to catalog.yml.
func (s *Store) Dir() string {
	return filepath.Dir(s.path)
}

// SongDir returns the output directory for one song.
func (s *Store) SongDir(id string) string {
	return filepath.Join(s.Dir(), id)
}

// Songs returns a copy of the catalog entries in order.
func (s *Store) Songs() []Song {
	out := make([]Song, len(s.songs))
	copy(out, s.songs)
	return out
}

// Len returns the number of songs.
func (s *Store) Len() int {
	return len(s.songs)
}

// Contains reports whether a song id is in the catalog.
func (s *Store) Contains(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Get returns the song with the given id.
func (s *Store) Get(id string) (Song, bool) {
	for _, song := range s.songs {
		if song.ID == id {
			return song, true
		}
	}
	return Song{}, false
}

// Search returns songs whose title, artist, or id contains the query,
// case-insensitively.
func (s *Store) Search(query string) []Song {
	q := strings.ToLower(query)
	var matches []Song
	for _, song := range s.songs {
		if strings.Contains(strings.ToLower(song.Title), q) ||
			strings.Contains(strings.ToLower(song.Artist), q) ||
			strings.Contains(strings.ToLower(song.ID), q) {
			matches = append(matches, song)
		}
	}
	return matches
}

// Add appends a song to the catalog.
func (s *Store) Add(song Song) error {
	if s.Contains(song.ID) {
		return fmt.Errorf("%w: %s", ErrSongExists, song.ID)
	}
	s.songs = append(s.songs, song)
	return nil
}

// Update replaces the stored entry with the same id.
func (s *Store) Update(song Song) error {
	for i := range s.songs {
		if s.songs[i].ID == song.ID {
			s.songs[i] = song
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSongNotFound, song.ID)
}

// NewSong builds a catalog entry for a master file, deriving the id
// from artist and title.
func NewSong(title, artist, filename, checksum string, tags []string, metadata map[string]string) Song {
	return Song{
		ID:        SlugID(artist, title),
		Title:     title,
		Artist:    artist,
		Filename:  filename,
		Checksum:  checksum,
		Tags:      tags,
		AddedDate: time.Now().Format(time.RFC3339),
		Metadata:  metadata,
	}
}

// SlugID derives a song id from artist and title: "artist-title",
// lowercased, spaces replaced with dashes.
func SlugID(artist, title string) string {
	return Slug(artist + "-" + title)
}

// Slug lowercases s and replaces spaces with dashes.
func Slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

// FileChecksum returns the SHA-256 hash of a file as a hex string.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
