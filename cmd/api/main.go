package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"image-classifier-service/cmd/api/app"
	"image-classifier-service/cmd/api/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func run() error {
	a, err := app.New(context.Background())
	if err != nil {
		return err
	}

	ctx, stop := server.WithSignal(context.Background(), a.Logger)
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Logger.Error("application stopped with error", zap.Error(err))
		return err
	}
	return nil
}
