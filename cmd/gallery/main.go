package main

import (
	"context"
	"log"

	"github.com/migueltorresd/gallery/internal/cli"
	"github.com/migueltorresd/gallery/internal/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
