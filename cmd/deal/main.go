// Command deal runs the deck and pile demonstration against the deck API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"deckofcards/client"
	"deckofcards/config"
	"deckofcards/deckapi"
	"deckofcards/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(client.WithTimeout(cfg.HTTPTimeout))
	api := deckapi.New(cfg.DeckAPIBase, c)

	if err := workflow.Run(ctx, api, api.URLs.BackImage(), os.Stdout); err != nil {
		log.Fatal(err)
	}
}
