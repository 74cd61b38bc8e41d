// Command vizd serves the visualizer's JSON API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/smallyu/go-btc-visual/internal/config"
)

func main() {
	cfg := config.Load()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		os.Exit(1)
	}
}
