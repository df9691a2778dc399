package main

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

const audioExtension = ".aac"

type ScratchPaths struct {
	Input  string
	Output string
}

// NewScratchPaths derives the local video and audio paths for an object key.
// Only the last segment of the key is used so every file lands directly in scratchDir.
func NewScratchPaths(scratchDir, key string) (ScratchPaths, error) {
	base := path.Base(key)
	switch base {
	case "", ".", "..", "/":
		return ScratchPaths{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	name := strings.TrimSuffix(base, path.Ext(base))

	paths := ScratchPaths{
		Input:  filepath.Join(scratchDir, base),
		Output: filepath.Join(scratchDir, name+audioExtension),
	}
	if paths.Input == paths.Output {
		return ScratchPaths{}, fmt.Errorf("%w: %q", ErrPathCollision, key)
	}

	return paths, nil
}
