package ffmpeg_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"twang/internal/services/ffmpeg"
)

type stubExecutor struct {
	binary string
	args   []string
	lines  []string
	err    error
	onRun  func(args []string)
	calls  int
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	s.calls++
	s.binary = binary
	s.args = args
	for _, line := range s.lines {
		onOutput(line)
	}
	if s.onRun != nil {
		s.onRun(args)
	}
	return s.err
}

func writeInput(t *testing.T) string {
	t.Helper()
	input := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(input, []byte("container"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return input
}

func createOutput(t *testing.T) func(args []string) {
	t.Helper()
	return func(args []string) {
		out := args[len(args)-1]
		if err := os.WriteFile(out, []byte("RIFF"), 0o644); err != nil {
			t.Fatalf("write output: %v", err)
		}
	}
}

func TestExtractAudioSuccess(t *testing.T) {
	stub := &stubExecutor{onRun: createOutput(t)}
	client, err := ffmpeg.New("ffmpeg", 60, nil, ffmpeg.WithExecutor(stub))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	input := writeInput(t)

	audioPath, err := client.ExtractAudio(context.Background(), input, 16000, 30)
	if err != nil {
		t.Fatalf("extract audio: %v", err)
	}
	if want := strings.TrimSuffix(input, ".mp4") + ".wav"; audioPath != want {
		t.Fatalf("audio path = %q, want %q", audioPath, want)
	}
	if _, err := os.Stat(audioPath); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if stub.binary != "ffmpeg" {
		t.Fatalf("binary = %q", stub.binary)
	}
	if stub.args[0] != "-i" || stub.args[1] != input {
		t.Fatalf("unexpected leading args: %v", stub.args)
	}
}

func TestExtractAudioFailureRemovesPartialOutput(t *testing.T) {
	stub := &stubExecutor{
		lines: []string{"frame=  100", "Error while decoding stream"},
		err:   errors.New("exit status 1"),
		onRun: createOutput(t),
	}
	client, err := ffmpeg.New("ffmpeg", 60, nil, ffmpeg.WithExecutor(stub))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	input := writeInput(t)

	_, err = client.ExtractAudio(context.Background(), input, 16000, 30)
	if err == nil {
		t.Fatal("expected transcode error")
	}
	if !strings.Contains(err.Error(), "Error while decoding stream") {
		t.Fatalf("error missing output tail: %v", err)
	}
	partial := strings.TrimSuffix(input, ".mp4") + ".wav"
	if _, statErr := os.Stat(partial); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("partial output not removed: %v", statErr)
	}
}

func TestExtractAudioTimeout(t *testing.T) {
	stub := &stubExecutor{
		err:   context.DeadlineExceeded,
		onRun: createOutput(t),
	}
	client, err := ffmpeg.New("ffmpeg", 1, nil, ffmpeg.WithExecutor(stub))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	input := writeInput(t)

	_, err = client.ExtractAudio(context.Background(), input, 16000, 30)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	partial := strings.TrimSuffix(input, ".mp4") + ".wav"
	if _, statErr := os.Stat(partial); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("timed-out output not removed: %v", statErr)
	}
}

func TestExtractAudioMissingOutput(t *testing.T) {
	stub := &stubExecutor{}
	client, err := ffmpeg.New("ffmpeg", 60, nil, ffmpeg.WithExecutor(stub))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.ExtractAudio(context.Background(), writeInput(t), 16000, 30)
	if err == nil || !strings.Contains(err.Error(), "no output") {
		t.Fatalf("expected missing output error, got %v", err)
	}
}

func TestExtractAudioRequiresInput(t *testing.T) {
	client, err := ffmpeg.New("ffmpeg", 60, nil, ffmpeg.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ExtractAudio(context.Background(), "  ", 16000, 30); err == nil {
		t.Fatal("expected error for blank input path")
	}
}

func TestVersion(t *testing.T) {
	stub := &stubExecutor{lines: []string{
		"ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers",
		"built with gcc 13",
	}}
	client, err := ffmpeg.New("ffmpeg", 10, nil, ffmpeg.WithExecutor(stub))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(version, "ffmpeg version 6.1.1") {
		t.Fatalf("version = %q", version)
	}
	if stub.args[0] != "-version" {
		t.Fatalf("args = %v", stub.args)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ffmpeg.New("  ", 10, nil); err == nil {
		t.Fatal("expected error for blank binary")
	}
}
