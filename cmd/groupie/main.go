// cmd/groupie/main.go
package main

import (
	"context"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/groupie-app/groupie-client/internal/app"
	"github.com/groupie-app/groupie-client/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, os.Stdout, logger)
	if err != nil {
		log.Fatalf("failed to start client: %v", err)
	}

	// An invite code on the command line opens that lobby directly, like
	// following a share link.
	initialCode := ""
	if len(os.Args) > 1 {
		initialCode = os.Args[1]
	}

	if err := a.Run(ctx, os.Stdin, initialCode); err != nil {
		log.Fatalf("client exited: %v", err)
	}
}
