package main

import (
	"os"

	"github.com/joho/godotenv"

	"voynstat/adapters/results"
	"voynstat/internal"
	"voynstat/internal/config"
	"voynstat/ui"
)

func main() {
	godotenv.Load()
	log := internal.DefaultLogger

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration: %v", err)
		os.Exit(1)
	}

	store := results.NewStore(cfg.Data.ResultsDir)
	server := ui.NewServer(store)
	if err := server.ListenAndServe(cfg.Server.Port); err != nil {
		log.Error("server: %v", err)
		os.Exit(1)
	}
}
