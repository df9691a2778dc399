package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	retriever  Retriever
	extractor  Extractor
	store      ObjectStore
	scratchDir string
	logger     *zap.Logger
	reporter   ErrorReporter
}

type RecordStatus int

const (
	RecordProcessed RecordStatus = iota
	RecordSkipped
	RecordFailed
)

func (s RecordStatus) String() string {
	switch s {
	case RecordProcessed:
		return "processed"
	case RecordSkipped:
		return "skipped"
	case RecordFailed:
		return "failed"
	}
	return fmt.Sprintf("RecordStatus(%d)", int(s))
}

// RecordResult is the outcome of one notification record. Object is nil for skipped records.
type RecordResult struct {
	Object *S3ObjectInfo
	Paths  ScratchPaths
	Status RecordStatus
	Err    error
}

// BatchOutcome holds one result per attempted record, in delivery order.
// Records after the first failure are not attempted and have no result.
type BatchOutcome struct {
	Results []RecordResult
}

func (o BatchOutcome) Err() error {
	for _, r := range o.Results {
		if r.Status == RecordFailed {
			return fmt.Errorf("error processing video s3://%s/%s: %w", r.Object.Bucket, r.Object.Key, r.Err)
		}
	}
	return nil
}

func (o BatchOutcome) Count(status RecordStatus) int {
	n := 0
	for _, r := range o.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

func NewHandler(config Config, logger *zap.Logger, reporter ErrorReporter) (*Handler, error) {
	store, err := NewObjectStore(config)
	if err != nil {
		return nil, err
	}
	return &Handler{
		retriever:  NewObjectRetriever(store),
		extractor:  NewAudioExtractor(config.FFmpegBinaryFolder),
		store:      store,
		scratchDir: config.ScratchDir,
		logger:     logger,
		reporter:   reporter,
	}, nil
}

func (h *Handler) invocationLogger(ctx context.Context) *zap.Logger {
	var id string
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		id = lc.AwsRequestID
	}
	if id == "" {
		id = uuid.NewString()
	}
	return h.logger.With(zap.String("invocation_id", id))
}

// Handle processes the records of one notification batch sequentially and stops at the first failure.
func (h *Handler) Handle(ctx context.Context, event S3ObjectCreatedEvent) BatchOutcome {
	logger := h.invocationLogger(ctx)
	logger.Info("function handler started", zap.Int("records", len(event.Records)))

	s3Objects := make([]*S3ObjectInfo, 0, len(event.Records))
	for _, record := range event.Records {
		s3Objects = append(s3Objects, record.objectInfo())
	}
	return h.processS3Objects(ctx, logger, s3Objects)
}

// HandleLambdaEvent is the Lambda entry point. lambda.Start never returns, so the logger is synced per invocation.
func (h *Handler) HandleLambdaEvent(ctx context.Context, event S3ObjectCreatedEvent) error {
	defer h.logger.Sync()

	err := h.Handle(ctx, event).Err()
	if err != nil {
		h.reporter.Flush(reportFlushTimeout)
	}
	return err
}

func (h *Handler) HandleS3URL(ctx context.Context, url string) error {
	bucket, prefix, err := ParseS3URL(url)
	if err != nil {
		return fmt.Errorf("failed to parse S3 URL: %v", err)
	}

	logger := h.invocationLogger(ctx)
	objects, err := h.store.ListObjects(ctx, bucket, prefix)
	if err != nil {
		logger.Error("error listing videos",
			zap.String("bucket", bucket),
			zap.String("prefix", prefix),
			zap.Error(err),
		)
		h.reporter.Report(err)
		h.reporter.Flush(reportFlushTimeout)
		return err
	}
	logger.Info("function handler started", zap.String("url", url), zap.Int("records", len(objects)))

	s3Objects := make([]*S3ObjectInfo, 0, len(objects))
	for i := range objects {
		if strings.HasSuffix(objects[i].Key, "/") {
			s3Objects = append(s3Objects, nil)
			continue
		}
		s3Objects = append(s3Objects, &objects[i])
	}

	err = h.processS3Objects(ctx, logger, s3Objects).Err()
	if err != nil {
		h.reporter.Flush(reportFlushTimeout)
	}
	return err
}

func (h *Handler) processS3Objects(ctx context.Context, logger *zap.Logger, s3Objects []*S3ObjectInfo) BatchOutcome {
	var outcome BatchOutcome
	for _, s3obj := range s3Objects {
		if s3obj == nil {
			logger.Debug("skipping record without object payload")
			outcome.Results = append(outcome.Results, RecordResult{Status: RecordSkipped})
			continue
		}

		result := h.processS3Object(ctx, logger, *s3obj)
		outcome.Results = append(outcome.Results, result)
		if result.Status == RecordFailed {
			logger.Error("error processing video",
				zap.String("bucket", s3obj.Bucket),
				zap.String("key", s3obj.Key),
				zap.Error(result.Err),
			)
			h.reporter.Report(result.Err)
			return outcome
		}
	}

	logger.Info("batch finished",
		zap.Int("processed", outcome.Count(RecordProcessed)),
		zap.Int("skipped", outcome.Count(RecordSkipped)),
	)
	return outcome
}

func (h *Handler) processS3Object(ctx context.Context, logger *zap.Logger, s3obj S3ObjectInfo) RecordResult {
	result := RecordResult{Object: &s3obj, Status: RecordFailed}

	logger = logger.With(zap.String("bucket", s3obj.Bucket), zap.String("key", s3obj.Key))
	logger.Info("object identified")

	paths, err := NewScratchPaths(h.scratchDir, s3obj.Key)
	if err != nil {
		result.Err = &RetrievalError{Bucket: s3obj.Bucket, Key: s3obj.Key, Path: h.scratchDir, Err: err}
		return result
	}
	result.Paths = paths
	logger.Info("local paths computed", zap.String("video_path", paths.Input), zap.String("audio_path", paths.Output))

	if err := h.retriever.Fetch(ctx, s3obj.Bucket, s3obj.Key, paths.Input); err != nil {
		result.Err = err
		return result
	}
	logger.Info("video downloaded", zap.String("video_path", paths.Input))

	logger.Info("extracting audio", zap.String("ffmpeg_path", h.extractor.BinaryPath()))
	if err := h.extractor.ExtractAudio(ctx, paths.Input, paths.Output); err != nil {
		result.Err = err
		return result
	}
	logger.Info("audio extracted", zap.String("audio_path", paths.Output))

	result.Status = RecordProcessed
	return result
}
