package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoAudio is returned by ExtractAudio for a video without an audio stream.
var ErrNoAudio = errors.New("video has no audio track")

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(lastLine(stderr.String())))
	}
	return stdout.Bytes(), nil
}

// Frame is a still image captured from a video.
type Frame struct {
	Timestamp float64
	Path      string
	Data      []byte
}

// Extractor pulls frames and audio out of video files with ffmpeg.
type Extractor struct {
	ffmpeg  string
	ffprobe string
	run     Runner
}

// NewExtractor uses the given binaries; empty names fall back to PATH lookups.
func NewExtractor(ffmpegPath, ffprobePath string) *Extractor {
	return NewExtractorWithRunner(ffmpegPath, ffprobePath, execRunner{})
}

// NewExtractorWithRunner is NewExtractor with a custom command runner.
func NewExtractorWithRunner(ffmpegPath, ffprobePath string, run Runner) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Extractor{ffmpeg: ffmpegPath, ffprobe: ffprobePath, run: run}
}

// Duration returns the length of the video in seconds.
func (e *Extractor) Duration(ctx context.Context, video string) (float64, error) {
	out, err := e.run.Run(ctx, e.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		video)
	if err != nil {
		return 0, fmt.Errorf("probe duration: %w", err)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || d <= 0 || math.IsNaN(d) {
		return 0, fmt.Errorf("probe duration: unusable value %q", strings.TrimSpace(string(out)))
	}
	return d, nil
}

// HasAudio reports whether the video carries at least one audio stream.
func (e *Extractor) HasAudio(ctx context.Context, video string) (bool, error) {
	out, err := e.run.Run(ctx, e.ffprobe,
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index",
		"-of", "csv=p=0",
		video)
	if err != nil {
		return false, fmt.Errorf("probe audio: %w", err)
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// FrameTimestamps spaces n capture points evenly, skipping the very start and end.
func FrameTimestamps(duration float64, n int) []float64 {
	if n <= 0 || duration <= 0 {
		return nil
	}
	interval := duration / float64(n+1)
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = interval * float64(i+1)
	}
	return ts
}

// ThumbnailTimestamp is one second in, or the middle of clips shorter than two seconds.
func ThumbnailTimestamp(duration float64) float64 {
	return math.Min(1, duration/2)
}

// ExtractFrames captures n evenly spaced JPEG frames into dir, ordered by timestamp.
func (e *Extractor) ExtractFrames(ctx context.Context, video, dir string, duration float64, n int) ([]Frame, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}
	frames := make([]Frame, 0, n)
	for i, ts := range FrameTimestamps(duration, n) {
		f, err := e.FrameAt(ctx, video, filepath.Join(dir, fmt.Sprintf("frame_%02d.jpg", i)), ts)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	if len(frames) == 0 {
		return nil, errors.New("no frames extracted")
	}
	return frames, nil
}

// FrameAt captures one JPEG frame at ts seconds.
func (e *Extractor) FrameAt(ctx context.Context, video, out string, ts float64) (Frame, error) {
	_, err := e.run.Run(ctx, e.ffmpeg,
		"-y",
		"-ss", strconv.FormatFloat(ts, 'f', 3, 64),
		"-i", video,
		"-frames:v", "1",
		"-q:v", "3",
		out)
	if err != nil {
		return Frame{}, fmt.Errorf("extract frame at %.2fs: %w", ts, err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return Frame{}, fmt.Errorf("read frame at %.2fs: %w", ts, err)
	}
	return Frame{Timestamp: ts, Path: out, Data: data}, nil
}

// ExtractAudio writes the soundtrack as mono 16 kHz WAV. It returns ErrNoAudio when there is none.
func (e *Extractor) ExtractAudio(ctx context.Context, video, out string) (string, error) {
	ok, err := e.HasAudio(ctx, video)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoAudio
	}
	if _, err := e.run.Run(ctx, e.ffmpeg, "-y", "-i", video, "-vn", "-ac", "1", "-ar", "16000", "-f", "wav", out); err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	return out, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
