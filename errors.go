package main

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound   = errors.New("downloaded video file not found")
	ErrFFmpegNotFound = errors.New("ffmpeg binary not found")
	ErrInvalidKey     = errors.New("object key has no usable file name")
	ErrPathCollision  = errors.New("video and audio paths are the same file")
)

// RetrievalError is returned when an object could not be copied from the store to scratch storage.
type RetrievalError struct {
	Bucket string
	Key    string
	Path   string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve s3://%s/%s to %s: %v", e.Bucket, e.Key, e.Path, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// TranscodeError is returned when ffmpeg could not be located or did not exit cleanly.
type TranscodeError struct {
	InputPath  string
	OutputPath string
	Err        error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("failed to extract audio from %s to %s: %v", e.InputPath, e.OutputPath, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}
