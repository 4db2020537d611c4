package catalogmgr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Transcode settings for the published variants. The site serves the
// same fixed quality for every song.
const (
	defaultMP3Bitrate = 128
	defaultOGGQuality = 4
	defaultSampleRate = 44100
)

type ffmpegError struct {
	cmd     string
	output  string
	wrapped error
}

func (e *ffmpegError) Error() string {
	return fmt.Sprintf("ffmpeg failed: %v (command: %s, output: %s)", e.wrapped, e.cmd, e.output)
}

func (e *ffmpegError) Unwrap() error {
	return e.wrapped
}

func newFFmpegError(cmd *exec.Cmd, output []byte, err error) *ffmpegError {
	cmdStr := cmd.String()
	if len(cmdStr) > 200 {
		cmdStr = cmdStr[:200] + "..."
	}
	return &ffmpegError{
		cmd:     cmdStr,
		output:  string(output),
		wrapped: err,
	}
}

// Transcoder shells out to ffmpeg to produce the published audio
// variants from a master file.
type Transcoder struct {
	FFmpegPath string
	MP3Bitrate int
	OGGQuality int
	SampleRate int
}

// NewTranscoder returns a transcoder with the site's fixed encode
// settings.
func NewTranscoder() *Transcoder {
	return &Transcoder{
		FFmpegPath: "ffmpeg",
		MP3Bitrate: defaultMP3Bitrate,
		OGGQuality: defaultOGGQuality,
		SampleRate: defaultSampleRate,
	}
}

// ConvertToMP3 encodes inputPath to a 128k MP3 at outputPath.
func (t *Transcoder) ConvertToMP3(ctx context.Context, inputPath, outputPath string) error {
	if err := validateFile(inputPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.FFmpegPath,
		"-y",
		"-i", inputPath,
		"-codec:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", t.MP3Bitrate),
		"-ar", strconv.Itoa(t.SampleRate),
		outputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return newFFmpegError(cmd, output, err)
	}
	return nil
}

// ConvertToOGG encodes inputPath to an Ogg Vorbis file at outputPath.
func (t *Transcoder) ConvertToOGG(ctx context.Context, inputPath, outputPath string) error {
	if err := validateFile(inputPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.FFmpegPath,
		"-y",
		"-i", inputPath,
		"-codec:a", "libvorbis",
		"-q:a", strconv.Itoa(t.OGGQuality),
		"-ar", strconv.Itoa(t.SampleRate),
		outputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return newFFmpegError(cmd, output, err)
	}
	return nil
}

// MixStems renders one stem by summing its source files into a single
// wav, which the variant encoders then pick up.
func (t *Transcoder) MixStems(ctx context.Context, sources []string, outputPath string) error {
	if len(sources) == 0 {
		return fmt.Errorf("no source files to mix")
	}
	for _, src := range sources {
		if err := validateFile(src); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	args := []string{"-y"}
	for _, src := range sources {
		args = append(args, "-i", src)
	}
	if len(sources) > 1 {
		filter := fmt.Sprintf("amix=inputs=%d:duration=longest:normalize=0", len(sources))
		args = append(args, "-filter_complex", filter)
	}
	args = append(args, "-ar", strconv.Itoa(t.SampleRate), outputPath)

	cmd := exec.CommandContext(ctx, t.FFmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return newFFmpegError(cmd, output, err)
	}
	return nil
}

func validateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input file not accessible: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path is a directory: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("input file is empty: %s", path)
	}
	return nil
}
