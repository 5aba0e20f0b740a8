package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/urbannest/internal/admin"
	"github.com/dmitrijs2005/urbannest/internal/server/config"
)

// Usage: admin <command> [command flags] [server config flags]
func main() {

	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := admin.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = app.Run(ctx, os.Args[1:])
	_ = app.Close()

	switch {
	case errors.Is(err, admin.ErrUsage):
		os.Exit(2)
	case err != nil:
		log.Fatalf("%v", err)
	}

}
