package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Evgen-Mutagen/tapcash/internal/app"
	"github.com/Evgen-Mutagen/tapcash/internal/util/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := app.NewConfigFromFlags()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	fn := app.NewPayoutFunction(cfg, logger.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fn.Run(ctx); err != nil {
		logger.Log.Error("Payout function stopped with error", zap.Error(err))
	}
}
