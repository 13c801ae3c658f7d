// Command deckserver serves a local deck API backed by sqlite.
package main

import (
	"log"
	"net/http"
	"os"

	"deckofcards/api"
	"deckofcards/config"
	"deckofcards/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	sc := cfg.Server

	handler, err := database.NewDB(sc.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer handler.Close()

	workerPool := database.Init(handler, sc.Workers)
	defer workerPool.Close()

	srv := api.NewServer(workerPool, sc, log.Default(), os.Stdout)

	log.Printf("listening on %s (public url %s)", sc.Addr, sc.PublicURL)
	if err := http.ListenAndServe(sc.Addr, srv); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
