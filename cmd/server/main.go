package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/calvinhon/ft-transcendence-sub003/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := app.FromEnv(nil)
	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
