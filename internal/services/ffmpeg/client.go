package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"twang/internal/logging"
	"twang/internal/textutil"
)

// tailLines bounds how much ffmpeg output is kept for error reporting.
const tailLines = 12

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

// New constructs an ffmpeg client.
func New(binary string, timeoutSeconds int, logger *slog.Logger, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
		logger:  logging.NewComponentLogger(logger, "ffmpeg"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ExtractAudio transcodes the container at inputPath into a mono 16-bit
// PCM WAV file beside it, resampled to sampleRate and truncated to
// maxDurationSeconds (zero keeps the full length). It returns the output
// path; partial output files are removed on failure.
func (c *Client) ExtractAudio(ctx context.Context, inputPath string, sampleRate, maxDurationSeconds int) (string, error) {
	if strings.TrimSpace(inputPath) == "" {
		return "", errors.New("input path required")
	}
	audioPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".wav"
	args := transcodeArgs(inputPath, audioPath, sampleRate, maxDurationSeconds)

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("extracting audio",
		logging.String("input", inputPath),
		logging.String("output", audioPath),
		logging.Int("sample_rate", sampleRate))

	tail := textutil.NewTailBuffer(tailLines)
	if err := c.exec.Run(runCtx, c.binary, args, tail.Append); err != nil {
		_ = os.Remove(audioPath)
		if tail.Len() > 0 {
			return "", fmt.Errorf("ffmpeg transcode: %w: %s", err, tail.String())
		}
		return "", fmt.Errorf("ffmpeg transcode: %w", err)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("ffmpeg produced no output: %w", err)
	}
	return audioPath, nil
}

// Version reports the first line of ffmpeg's version output.
func (c *Client) Version(ctx context.Context) (string, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var first string
	err := c.exec.Run(runCtx, c.binary, []string{"-version"}, func(line string) {
		if first == "" && strings.TrimSpace(line) != "" {
			first = strings.TrimSpace(line)
		}
	})
	if err != nil {
		return "", fmt.Errorf("ffmpeg version: %w", err)
	}
	if first == "" {
		return "", errors.New("ffmpeg version output empty")
	}
	return first, nil
}

func transcodeArgs(inputPath, audioPath string, sampleRate, maxDurationSeconds int) []string {
	args := []string{
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
	}
	if maxDurationSeconds > 0 {
		args = append(args, "-t", strconv.Itoa(maxDurationSeconds))
	}
	return append(args, "-y", audioPath)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("wait command: %w", ctxErr)
		}
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
