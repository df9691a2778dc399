package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const ffmpegExecutable = "ffmpeg"

type Extractor interface {
	ExtractAudio(ctx context.Context, inputPath, outputPath string) error
	BinaryPath() string
}

// TranscodeOptions is the ffmpeg output policy for extracted audio.
type TranscodeOptions struct {
	AudioCodec   string
	DisableVideo bool
	Overwrite    bool
}

var AACAudioOnly = TranscodeOptions{
	AudioCodec:   "aac",
	DisableVideo: true,
	Overwrite:    true,
}

func (o TranscodeOptions) args(inputPath, outputPath string) []string {
	args := []string{"-i", inputPath}
	if o.DisableVideo {
		args = append(args, "-vn")
	}
	if o.AudioCodec != "" {
		args = append(args, "-c:a", o.AudioCodec)
	}
	if o.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}

	return append(args, outputPath)
}

// CommandRunner runs external commands, allowing exec to be replaced in tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type ExecCommandRunner struct{}

func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w\nffmpeg stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	return nil
}

type AudioExtractor struct {
	binaryFolder string
	options      TranscodeOptions
	runner       CommandRunner
}

type ExtractorOption func(*AudioExtractor)

func WithCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *AudioExtractor) {
		e.runner = runner
	}
}

func WithTranscodeOptions(options TranscodeOptions) ExtractorOption {
	return func(e *AudioExtractor) {
		e.options = options
	}
}

// NewAudioExtractor creates an extractor for the ffmpeg binary installed in binaryFolder.
// The folder is resolved as given; PATH is not searched.
func NewAudioExtractor(binaryFolder string, opts ...ExtractorOption) *AudioExtractor {
	if binaryFolder == "" {
		binaryFolder = DefaultFFmpegBinaryFolder
	}
	e := &AudioExtractor{
		binaryFolder: binaryFolder,
		options:      AACAudioOnly,
		runner:       &ExecCommandRunner{},
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *AudioExtractor) BinaryPath() string {
	return filepath.Join(e.binaryFolder, ffmpegExecutable)
}

func (e *AudioExtractor) ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	if inputPath == outputPath {
		return &TranscodeError{InputPath: inputPath, OutputPath: outputPath, Err: fmt.Errorf("input and output are the same file")}
	}

	binary := e.BinaryPath()
	info, err := os.Stat(binary)
	if err != nil || info.IsDir() {
		return &TranscodeError{InputPath: inputPath, OutputPath: outputPath, Err: fmt.Errorf("%w at %s", ErrFFmpegNotFound, binary)}
	}

	if err := e.runner.Run(ctx, binary, e.options.args(inputPath, outputPath)...); err != nil {
		return &TranscodeError{InputPath: inputPath, OutputPath: outputPath, Err: fmt.Errorf("ffmpeg audio extraction failed: %w", err)}
	}

	return nil
}
