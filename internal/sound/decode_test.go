package sound

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSkipID3v2(t *testing.T) {
	// 10-byte header + 20-byte tag body, size encoded syncsafe.
	tag := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 20}
	body := bytes.Repeat([]byte{0xAA}, 20)
	audio := []byte("fLaC....")

	r := bytes.NewReader(append(append(tag, body...), audio...))
	if err := skipID3v2(r); err != nil {
		t.Fatalf("skipID3v2() error = %v", err)
	}

	rest, _ := io.ReadAll(r)
	if string(rest) != string(audio) {
		t.Errorf("after skip, read %q, want %q", rest, audio)
	}
}

func TestSkipID3v2_NoTag(t *testing.T) {
	audio := []byte("fLaC stream data here")
	r := bytes.NewReader(audio)

	if err := skipID3v2(r); err != nil {
		t.Fatalf("skipID3v2() error = %v", err)
	}

	rest, _ := io.ReadAll(r)
	if string(rest) != string(audio) {
		t.Error("stream without tag should be rewound to the start")
	}
}

func TestSkipID3v2_ShortStream(t *testing.T) {
	r := bytes.NewReader([]byte("tiny"))

	if err := skipID3v2(r); err != nil {
		t.Fatalf("skipID3v2() error = %v", err)
	}

	rest, _ := io.ReadAll(r)
	if string(rest) != "tiny" {
		t.Error("short stream should be rewound to the start")
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	r := memReader{bytes.NewReader([]byte("not audio"))}

	_, _, err := decode("https://example.com/track.aiff", r)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("decode() error = %v, want unsupported format", err)
	}
}

func TestURLPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"http with query", "https://example.com/a/track.mp3?v=2", "/a/track.mp3"},
		{"plain path", "/music/track.ogg", "/music/track.ogg"},
		{"relative path", "track.flac", "track.flac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := urlPath(tt.in); got != tt.want {
				t.Errorf("urlPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelToVolume(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0, -10},
		{-0.5, -10},
		{1.5, 0},
	}

	for _, tt := range tests {
		if got := levelToVolume(tt.level); got != tt.want {
			t.Errorf("levelToVolume(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
