// Command cso downloads the CSO FIQ02 dataset and saves it pretty-printed.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"deckofcards/client"
	"deckofcards/config"
	"deckofcards/dataset"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(client.WithTimeout(cfg.HTTPTimeout))
	if err := dataset.Save(ctx, c, cfg.DatasetURL, cfg.DatasetOutput, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
