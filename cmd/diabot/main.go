package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/Nairod97425/Rag/pkg/config"
	"github.com/Nairod97425/Rag/pkg/rag"
	"github.com/Nairod97425/Rag/pkg/store"
)

func main() {
	var configPath string
	var corpusPath string
	var reindex bool

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&corpusPath, "corpus", "", "Path to the scraped corpus JSON (overrides config)")
	flag.BoolVar(&reindex, "reindex", false, "Destroy and rebuild the index before chatting")
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
	if corpusPath == "" {
		corpusPath = cfg.Corpus.Path
	}

	if err := run(cfg, corpusPath, reindex); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, corpusPath string, reindex bool) error {
	ctx := context.Background()
	ragCfg := rag.ConfigFrom(cfg)
	engine := rag.New(ragCfg)
	defer engine.Close()

	// The presence of the index location is the only reindex signal:
	// first run builds, later runs reopen.
	if reindex || !store.Exists(ctx, ragCfg.Index) {
		if err := buildIndex(ctx, engine, corpusPath); err != nil {
			return err
		}
	}

	color.Cyan("\nAssistant Diabète (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if strings.ToLower(question) == "exit" {
			break
		}
		if question == "" {
			continue
		}

		spinner := getSpinner(" Analyse des documents...")
		record, err := engine.AskWithContext(ctx, question)
		spinner.Finish()
		fmt.Print("\r")

		if err != nil {
			if errors.Is(err, store.ErrIndexNotFound) {
				color.Red("No index found, run with -reindex first")
				continue
			}
			color.Red("Error: %v", err)
			continue
		}

		assistantPrompt("\nAssistant: %s\n", record.Answer)

		if cfg.UI.ShowSources && len(record.SourceDocuments) > 0 {
			color.Yellow("\nSources:")
			seen := make(map[string]bool)
			for _, doc := range record.SourceDocuments {
				url := doc.Metadata["source"]
				if seen[url] {
					continue
				}
				seen[url] = true
				color.Yellow("  - %s (%s)", doc.Metadata["title"], url)
			}
		}
	}

	return nil
}

func buildIndex(ctx context.Context, engine *rag.Engine, corpusPath string) error {
	color.Blue("\nIndexing corpus from %s", corpusPath)

	var bar *progressbar.ProgressBar
	err := engine.Reindex(ctx, corpusPath, func(done, total int) {
		if bar == nil {
			bar = getProgressBar(total, " Embedding chunks...")
		}
		bar.Set(done)
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	color.Green("\n✓ Indexing complete\n")
	return nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}
