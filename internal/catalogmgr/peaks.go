package catalogmgr

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

// Peaks rendering settings. 20 pixels per second at 8 bits matches
// what the site's waveform widget expects.
const (
	peaksPixelsPerSecond = 20
	peaksBits            = 8
)

// PeaksData is a waveform peaks document in the audiowaveform
// version 2 JSON layout. Data holds interleaved min/max pairs, one
// pair per output pixel.
type PeaksData struct {
	Version         int   `json:"version"`
	Channels        int   `json:"channels"`
	SampleRate      int   `json:"sample_rate"`
	SamplesPerPixel int   `json:"samples_per_pixel"`
	Bits            int   `json:"bits"`
	Length          int   `json:"length"`
	Data            []int `json:"data"`
}

// GeneratePeaks decodes a wav master and reduces it to min/max peak
// pairs. Multi-channel audio is folded to mono before windowing.
func GeneratePeaks(wavPath string) (*PeaksData, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file: %s", wavPath)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	sampleRate := buf.Format.SampleRate
	if sampleRate < 1 {
		return nil, fmt.Errorf("wav reports no sample rate: %s", wavPath)
	}
	bitDepth := int(d.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	mono := foldToMono(buf.Data, channels)
	samplesPerPixel := sampleRate / peaksPixelsPerSecond
	if samplesPerPixel < 1 {
		samplesPerPixel = 1
	}

	length := (len(mono) + samplesPerPixel - 1) / samplesPerPixel
	data := make([]int, 0, length*2)
	for i := 0; i < len(mono); i += samplesPerPixel {
		end := i + samplesPerPixel
		if end > len(mono) {
			end = len(mono)
		}
		lo, hi := windowRange(mono[i:end])
		data = append(data, scaleSample(lo, bitDepth), scaleSample(hi, bitDepth))
	}

	return &PeaksData{
		Version:         2,
		Channels:        1,
		SampleRate:      sampleRate,
		SamplesPerPixel: samplesPerPixel,
		Bits:            peaksBits,
		Length:          length,
		Data:            data,
	}, nil
}

// WritePeaks generates peaks for a wav master and writes them as JSON.
func WritePeaks(wavPath, outputPath string) error {
	peaks, err := GeneratePeaks(wavPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.Marshal(peaks)
	if err != nil {
		return fmt.Errorf("encode peaks: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write peaks: %w", err)
	}
	return nil
}

func foldToMono(samples []int, channels int) []int {
	if channels == 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / channels
	}
	return mono
}

func windowRange(window []int) (lo, hi int) {
	lo, hi = window[0], window[0]
	for _, v := range window[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// scaleSample reduces a sample to the 8-bit range used by the peaks
// format.
func scaleSample(v, bitDepth int) int {
	if bitDepth > peaksBits {
		v >>= bitDepth - peaksBits
	}
	if v < -128 {
		v = -128
	}
	if v > 127 {
		v = 127
	}
	return v
}
