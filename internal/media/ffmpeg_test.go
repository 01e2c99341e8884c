package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers ffprobe from canned output and makes ffmpeg write its last argument.
type fakeRunner struct {
	duration string
	audio    string
	calls    [][]string
	fail     bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.fail {
		return nil, errors.New("exit status 1")
	}
	if name == "ffprobe" {
		if strings.Contains(strings.Join(args, " "), "format=duration") {
			return []byte(f.duration), nil
		}
		return []byte(f.audio), nil
	}
	out := args[len(args)-1]
	return nil, os.WriteFile(out, []byte("img:"+filepath.Base(out)), 0o644)
}

func TestFrameTimestamps(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		n        int
		want     []float64
	}{
		{"four frames over 10s", 10, 4, []float64{2, 4, 6, 8}},
		{"one frame is the middle", 6, 1, []float64{3}},
		{"zero frames", 10, 0, nil},
		{"zero duration", 0, 4, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrameTimestamps(tt.duration, tt.n)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}

	ts := FrameTimestamps(26, 12)
	require.Len(t, ts, 12)
	assert.Greater(t, ts[0], 0.0)
	assert.Less(t, ts[11], 26.0)
}

func TestThumbnailTimestamp(t *testing.T) {
	assert.Equal(t, 1.0, ThumbnailTimestamp(30))
	assert.Equal(t, 0.75, ThumbnailTimestamp(1.5))
}

func TestExtractor_Duration(t *testing.T) {
	e := NewExtractorWithRunner("", "", &fakeRunner{duration: "12.480000\n"})
	d, err := e.Duration(context.Background(), "v.mp4")
	require.NoError(t, err)
	assert.InDelta(t, 12.48, d, 1e-9)

	e = NewExtractorWithRunner("", "", &fakeRunner{duration: "N/A"})
	_, err = e.Duration(context.Background(), "v.mp4")
	assert.Error(t, err)
}

func TestExtractor_ExtractFrames(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	e := NewExtractorWithRunner("", "", runner)

	frames, err := e.ExtractFrames(context.Background(), "v.mp4", dir, 10, 4)
	require.NoError(t, err)
	require.Len(t, frames, 4)
	assert.Equal(t, 2.0, frames[0].Timestamp)
	assert.Equal(t, "img:frame_00.jpg", string(frames[0].Data))
	assert.Contains(t, runner.calls[0], "2.000")
}

func TestExtractor_ExtractAudio(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "audio.wav")

	e := NewExtractorWithRunner("", "", &fakeRunner{audio: ""})
	_, err := e.ExtractAudio(context.Background(), "v.mp4", out)
	assert.ErrorIs(t, err, ErrNoAudio)

	runner := &fakeRunner{audio: "1\n"}
	e = NewExtractorWithRunner("", "", runner)
	path, err := e.ExtractAudio(context.Background(), "v.mp4", out)
	require.NoError(t, err)
	assert.Equal(t, out, path)
	last := runner.calls[len(runner.calls)-1]
	assert.Equal(t, []string{"ffmpeg", "-y", "-i", "v.mp4", "-vn", "-ac", "1", "-ar", "16000", "-f", "wav", out}, last)
}

func TestExtractor_FrameFailure(t *testing.T) {
	e := NewExtractorWithRunner("", "", &fakeRunner{fail: true})
	_, err := e.ExtractFrames(context.Background(), "v.mp4", t.TempDir(), 10, 2)
	assert.Error(t, err)
}
