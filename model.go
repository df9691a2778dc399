package main

import (
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// S3Object mirrors events.S3Object without its UnmarshalJSON, which rejects
// the whole event when a single key carries an invalid escape.
type S3Object struct {
	Key       string `json:"key"`
	Size      int64  `json:"size,omitempty"`
	VersionID string `json:"versionId"`
	ETag      string `json:"eTag"`
	Sequencer string `json:"sequencer"`
}

type S3Entity struct {
	SchemaVersion   string          `json:"s3SchemaVersion"`
	ConfigurationID string          `json:"configurationId"`
	Bucket          events.S3Bucket `json:"bucket"`
	Object          S3Object        `json:"object"`
}

// S3Record keeps the s3 payload optional: some notification types carry none.
type S3Record struct {
	EventSource string    `json:"eventSource"`
	EventName   string    `json:"eventName"`
	S3          *S3Entity `json:"s3"`
}

type S3ObjectCreatedEvent struct {
	Records []S3Record `json:"Records"`
}

// objectInfo returns nil for records that do not point at a stored object.
// Keys arrive URL encoded; a key that does not decode is treated as malformed.
func (r S3Record) objectInfo() *S3ObjectInfo {
	if r.S3 == nil {
		return nil
	}
	key, err := url.QueryUnescape(r.S3.Object.Key)
	if err != nil {
		return nil
	}
	if r.S3.Bucket.Name == "" || key == "" || strings.HasSuffix(key, "/") {
		return nil
	}

	return &S3ObjectInfo{
		Bucket: r.S3.Bucket.Name,
		Key:    key,
	}
}
