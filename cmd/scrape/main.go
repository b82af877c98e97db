package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/Nairod97425/Rag/pkg/config"
	"github.com/Nairod97425/Rag/pkg/scraper"
)

func main() {
	var configPath string
	var outputPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&outputPath, "out", "", "Corpus output file (overrides config)")
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
	if outputPath == "" {
		outputPath = cfg.Corpus.Path
	}
	if len(cfg.Scraper.URLs) == 0 {
		color.Red("No URLs configured under scraper.urls")
		os.Exit(1)
	}

	bar := progressbar.NewOptions(len(cfg.Scraper.URLs),
		progressbar.OptionSetDescription(color.BlueString(" Scraping pages...")),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)

	s, err := scraper.NewWithConfig(scraper.ScraperConfig{
		URLs:         cfg.Scraper.URLs,
		RateLimit:    cfg.Scraper.RateLimit,
		MaxRetries:   cfg.Scraper.MaxRetries,
		Timeout:      time.Duration(cfg.Scraper.TimeoutSecs) * time.Second,
		ChunkSize:    cfg.Scraper.ChunkSize,
		ChunkOverlap: cfg.Scraper.ChunkOverlap,
		OnProgress: func(url string) {
			bar.Add(1)
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	entries, err := s.Scrape(context.Background())
	bar.Finish()
	if err != nil {
		color.Red("\nScraping failed: %v", err)
		os.Exit(1)
	}

	if err := scraper.WriteCorpus(outputPath, entries); err != nil {
		color.Red("\nFailed to write corpus: %v", err)
		os.Exit(1)
	}

	chunks := 0
	for _, e := range entries {
		chunks += len(e.Chunks)
	}
	color.Green("\n✓ Scraped %d pages into %d chunks (%s)\n", len(entries), chunks, outputPath)
}
