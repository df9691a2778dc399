package main

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

const reportFlushTimeout = 2 * time.Second

type ErrorReporter interface {
	Report(err error)
	Flush(timeout time.Duration) bool
}

type nopReporter struct{}

func (nopReporter) Report(error) {}

func (nopReporter) Flush(time.Duration) bool { return true }

type sentryReporter struct {
	hub *sentry.Hub
}

// NewErrorReporter returns a Sentry backed reporter when a DSN is configured and a no-op otherwise.
func NewErrorReporter(config Config) (ErrorReporter, error) {
	if config.SentryDSN == "" {
		return nopReporter{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         config.SentryDSN,
		Environment: config.SentryEnvironment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise sentry: %w", err)
	}

	return &sentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (r *sentryReporter) Report(err error) {
	r.hub.CaptureException(err)
}

func (r *sentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}
