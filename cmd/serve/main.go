package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/fatih/color"

	"github.com/Nairod97425/Rag/pkg/config"
	"github.com/Nairod97425/Rag/pkg/rag"
	"github.com/Nairod97425/Rag/server"
)

func main() {
	var configPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		os.Exit(1)
	}

	engine := rag.New(rag.ConfigFrom(cfg))
	defer engine.Close()

	srv := server.NewWSServer(engine, cfg.UI.ShowSources)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	log.Printf("Starting WebSocket server on port %s", port)
	if err := http.ListenAndServe(":"+port, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
