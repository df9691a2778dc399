package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/aws/aws-lambda-go/lambda"
)

func setup(config Config) (*Handler, error) {
	logger, err := NewLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return nil, err
	}
	reporter, err := NewErrorReporter(config)
	if err != nil {
		return nil, err
	}
	return NewHandler(config, logger, reporter)
}

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		config, err := LoadConfigFromEnv()
		if err != nil {
			log.Fatalln(err)
		}
		h, err := setup(config)
		if err != nil {
			log.Fatalln(err)
		}
		lambda.Start(h.HandleLambdaEvent)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
