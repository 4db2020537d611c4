package catalogmgr

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTestWav(t *testing.T, path string, samples []int, sampleRate, bitDepth, channels int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestGeneratePeaks(t *testing.T) {
	// One second of alternating full-ish swing samples: every window
	// sees the same min and max.
	samples := make([]int, 8000)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 16384
		} else {
			samples[i] = -16384
		}
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWav(t, path, samples, 8000, 16, 1)

	peaks, err := GeneratePeaks(path)
	if err != nil {
		t.Fatalf("GeneratePeaks() error = %v", err)
	}

	if peaks.Version != 2 {
		t.Errorf("Version = %d, want 2", peaks.Version)
	}
	if peaks.Channels != 1 {
		t.Errorf("Channels = %d, want 1", peaks.Channels)
	}
	if peaks.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", peaks.SampleRate)
	}
	if peaks.SamplesPerPixel != 400 {
		t.Errorf("SamplesPerPixel = %d, want 400", peaks.SamplesPerPixel)
	}
	if peaks.Bits != 8 {
		t.Errorf("Bits = %d, want 8", peaks.Bits)
	}
	if peaks.Length != 20 {
		t.Errorf("Length = %d, want 20", peaks.Length)
	}
	if len(peaks.Data) != 40 {
		t.Fatalf("len(Data) = %d, want 40", len(peaks.Data))
	}
	for i := 0; i < len(peaks.Data); i += 2 {
		if peaks.Data[i] != -64 || peaks.Data[i+1] != 64 {
			t.Fatalf("Data[%d:%d] = [%d, %d], want [-64, 64]", i, i+2, peaks.Data[i], peaks.Data[i+1])
		}
	}
}

func TestGeneratePeaks_PartialWindow(t *testing.T) {
	samples := make([]int, 8200)
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWav(t, path, samples, 8000, 16, 1)

	peaks, err := GeneratePeaks(path)
	if err != nil {
		t.Fatalf("GeneratePeaks() error = %v", err)
	}
	if peaks.Length != 21 {
		t.Errorf("Length = %d, want 21 (trailing partial window kept)", peaks.Length)
	}
	if len(peaks.Data) != 42 {
		t.Errorf("len(Data) = %d, want 42", len(peaks.Data))
	}
}

func TestGeneratePeaks_FoldsStereo(t *testing.T) {
	// Left 1000, right 3000: mono average 2000, scaled to 7.
	frames := 512
	samples := make([]int, frames*2)
	for i := 0; i < frames; i++ {
		samples[i*2] = 1000
		samples[i*2+1] = 3000
	}
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeTestWav(t, path, samples, 8000, 16, 2)

	peaks, err := GeneratePeaks(path)
	if err != nil {
		t.Fatalf("GeneratePeaks() error = %v", err)
	}
	if peaks.Channels != 1 {
		t.Errorf("Channels = %d, want 1 after fold", peaks.Channels)
	}
	if peaks.Length != 2 {
		t.Fatalf("Length = %d, want 2", peaks.Length)
	}
	for i, v := range peaks.Data {
		if v != 7 {
			t.Fatalf("Data[%d] = %d, want 7", i, v)
		}
	}
}

func TestGeneratePeaks_RejectsNonWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.wav")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := GeneratePeaks(path); err == nil {
		t.Error("GeneratePeaks() on non-wav: expected error")
	}
}

func TestWritePeaks(t *testing.T) {
	dir := t.TempDir()
	wavPath := filepath.Join(dir, "tone.wav")
	writeTestWav(t, wavPath, make([]int, 4000), 8000, 16, 1)

	outPath := filepath.Join(dir, "out", "tone.json")
	if err := WritePeaks(wavPath, outPath); err != nil {
		t.Fatalf("WritePeaks() error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var peaks PeaksData
	if err := json.Unmarshal(data, &peaks); err != nil {
		t.Fatalf("written peaks are not valid JSON: %v", err)
	}
	if peaks.Length != 10 || len(peaks.Data) != 20 {
		t.Errorf("written peaks = length %d, %d data points", peaks.Length, len(peaks.Data))
	}
}

func TestScaleSample(t *testing.T) {
	tests := []struct {
		v        int
		bitDepth int
		want     int
	}{
		{16384, 16, 64},
		{-16384, 16, -64},
		{32767, 16, 127},
		{-32768, 16, -128},
		{8388607, 24, 127},
		{-8388608, 24, -128},
		{100, 8, 100},
		{200, 8, 127},
		{-1000, 8, -128},
		{0, 16, 0},
	}
	for _, tt := range tests {
		if got := scaleSample(tt.v, tt.bitDepth); got != tt.want {
			t.Errorf("scaleSample(%d, %d) = %d, want %d", tt.v, tt.bitDepth, got, tt.want)
		}
	}
}
