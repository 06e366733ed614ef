// Command bot runs the GAD-7/PHQ-9 screening Telegram bot together with its
// health and admin HTTP endpoints.
//
// Configuration is read from CONFIG_PATH (default ./config.yaml) and the
// environment; see internal/config.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/qamqor/screening-bot/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("bot: %v", err)
	}
}
