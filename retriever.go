package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

type Retriever interface {
	Fetch(ctx context.Context, bucket, key, destPath string) error
}

type ObjectRetriever struct {
	store ObjectStore
}

func NewObjectRetriever(store ObjectStore) *ObjectRetriever {
	return &ObjectRetriever{store: store}
}

// Fetch copies s3://bucket/key verbatim to destPath.
func (r *ObjectRetriever) Fetch(ctx context.Context, bucket, key, destPath string) error {
	if err := r.download(ctx, bucket, key, destPath); err != nil {
		return &RetrievalError{Bucket: bucket, Key: key, Path: destPath, Err: err}
	}

	// A copy can finish without error and still leave nothing usable behind.
	info, err := os.Stat(destPath)
	if err != nil || info.Size() == 0 {
		return &RetrievalError{Bucket: bucket, Key: key, Path: destPath, Err: fmt.Errorf("%w: %s", ErrFileNotFound, destPath)}
	}

	return nil
}

func (r *ObjectRetriever) download(ctx context.Context, bucket, key, destPath string) error {
	body, err := r.store.GetObject(ctx, bucket, key)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to copy object: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close local file: %w", err)
	}

	return nil
}
